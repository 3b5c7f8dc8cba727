package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"inkwell/internal/api/validator"
	"inkwell/internal/models"
	"inkwell/internal/utils/logger"
)

// RoleHandler serves the /api/rolepermission role management endpoints.
type RoleHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoleHandler(db *gorm.DB) *RoleHandler {
	return &RoleHandler{db: db, log: logger.New("RoleHandler")}
}

// List returns all roles ordered by id.
// @Summary List roles
// @Tags roles
// @Produce json
// @Success 200 {array} models.Role
// @Failure 404 {object} map[string]string "No roles found"
// @Router /rolepermission [get]
func (h *RoleHandler) List(c echo.Context) error {
	var roles []models.Role
	if err := h.db.WithContext(c.Request().Context()).Order("id").Find(&roles).Error; err != nil {
		h.log.Error("Failed to list roles", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
	if len(roles) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "No roles found"})
	}
	return c.JSON(http.StatusOK, roles)
}

// Create adds a role with a unique name.
// @Summary Create role
// @Tags roles
// @Accept json
// @Produce json
// @Param request body validator.RoleRequest true "Role name"
// @Success 201 {object} map[string]string "Role created successfully"
// @Failure 400 {object} map[string]string "Role name already exists"
// @Router /rolepermission [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req validator.RoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	var count int64
	if err := h.db.Model(&models.Role{}).Where("role_name = ?", req.RoleName).Count(&count).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
	if count > 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Role name already exists"})
	}

	role := models.Role{RoleName: req.RoleName}
	if err := h.db.Create(&role).Error; err != nil {
		h.log.Error("Failed to create role", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "Role created successfully"})
}

// Delete removes a role. Routed via PUT, which the authorization scheme maps
// to the delete action; the role's grant rows go with it via the cascade.
// @Summary Delete role
// @Tags roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} map[string]string "Role deleted successfully"
// @Router /rolepermission/{id} [put]
func (h *RoleHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	if err := h.db.Delete(&models.Role{}, "id = ?", id).Error; err != nil {
		h.log.Error("Failed to delete role", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Role deleted successfully"})
}

// Rename changes a role's name, refusing names already taken by another role.
// @Summary Rename role
// @Tags roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param request body validator.RoleRequest true "New role name"
// @Success 200 {object} map[string]string "Role updated successfully"
// @Failure 400 {object} map[string]string "Role name already exists"
// @Router /rolepermission/{id} [patch]
func (h *RoleHandler) Rename(c echo.Context) error {
	id := c.Param("id")

	var req validator.RoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	var existing models.Role
	err := h.db.Where("role_name = ?", req.RoleName).First(&existing).Error
	if err == nil && existing.ID != id {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Role name already exists"})
	}

	if err := h.db.Model(&models.Role{}).Where("id = ?", id).
		Update("role_name", req.RoleName).Error; err != nil {
		h.log.Error("Failed to rename role", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Role updated successfully"})
}
