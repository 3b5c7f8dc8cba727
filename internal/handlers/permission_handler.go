package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"inkwell/internal/api/validator"
	"inkwell/internal/auth"
	"inkwell/internal/authz"
	"inkwell/internal/models"
	"inkwell/internal/utils/logger"
)

// PermissionHandler manages permissions and their per-role grants. The
// userpermission endpoint is the payload behind the UI-side permission
// snapshot, so it stays reachable without a gate decision.
type PermissionHandler struct {
	db       *gorm.DB
	registry *auth.Registry
	sessions *auth.SessionStore
	log      *logger.Logger
}

func NewPermissionHandler(db *gorm.DB, registry *auth.Registry, sessions *auth.SessionStore) *PermissionHandler {
	return &PermissionHandler{
		db:       db,
		registry: registry,
		sessions: sessions,
		log:      logger.New("PermissionHandler"),
	}
}

// Add creates a permission and fans the same urlAccess out to every existing
// role, so new permissions are immediately editable per role.
// @Summary Add permission
// @Tags permissions
// @Accept json
// @Produce json
// @Param request body validator.PermissionRequest true "Permission details"
// @Success 201 {object} map[string]interface{} "Permission added successfully for all roles"
// @Failure 400 {object} map[string]string "Missing required fields"
// @Router /permissions [post]
func (h *PermissionHandler) Add(c echo.Context) error {
	var req validator.PermissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Name, description, menu_id, and urlAccess are required"})
	}

	accessJSON, err := json.Marshal(req.URLAccess)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid urlAccess"})
	}
	access := string(accessJSON)

	permission := models.Permission{
		Name:        req.Name,
		Description: req.Description,
		URLRestrict: &access,
		MenuID:      &req.MenuID,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&permission).Error; err != nil {
			return err
		}

		var roles []models.Role
		if err := tx.Find(&roles).Error; err != nil {
			return err
		}
		for _, role := range roles {
			granted := access
			assignment := models.RolePermission{
				RoleID:       role.ID,
				PermissionID: permission.ID,
				URLAccess:    &granted,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.log.Error("Failed to add permission", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":    "Permission added successfully for all roles",
		"permission": permission,
	})
}

// List returns every role with its granted permissions, grouped.
// @Summary List permissions grouped by role
// @Tags permissions
// @Produce json
// @Success 200 {array} auth.RoleView
// @Router /permissions [get]
func (h *PermissionHandler) List(c echo.Context) error {
	views, err := h.registry.GroupedByRole(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to list permissions", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
	return c.JSON(http.StatusOK, views)
}

type permissionDetailRow struct {
	ID          string  `gorm:"column:id"`
	Name        string  `gorm:"column:name"`
	Description string  `gorm:"column:description"`
	URLRestrict *string `gorm:"column:url_restrict"`
	MenuID      *string `gorm:"column:menu_id"`
	MenuName    *string `gorm:"column:menu_name"`
	MenuSVG     *string `gorm:"column:menu_svg"`
}

// GetByID returns one permission with its menu and a representative grant.
// When no grant row carries a parsable urlAccess the response holds the
// all-null access object so the edit form always has the four keys.
// @Summary Get permission
// @Tags permissions
// @Produce json
// @Param id path string true "Permission ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Permission not found"
// @Router /permissions/{id} [get]
func (h *PermissionHandler) GetByID(c echo.Context) error {
	id := c.Param("id")

	var row permissionDetailRow
	err := h.db.WithContext(c.Request().Context()).
		Table(`permission`).
		Select(`permission.id, permission.name, permission.description, permission.url_restrict, `+
			`menu.id AS menu_id, menu.name AS menu_name, menu.svg AS menu_svg`).
		Joins(`LEFT JOIN menu ON menu.id = permission.menu_id`).
		Where(`permission.id = ?`, id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Permission not found"})
	}
	if err != nil {
		h.log.Error("Failed to fetch permission", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	var assignment models.RolePermission
	urlAccess := interface{}(authz.Access{})
	err = h.db.Where("permission_id = ?", id).First(&assignment).Error
	if err == nil && assignment.URLAccess != nil {
		if parsed, perr := authz.ParseAccess(*assignment.URLAccess); perr == nil {
			urlAccess = parsed
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":          row.ID,
		"name":        row.Name,
		"description": row.Description,
		"urlRestrict": row.URLRestrict,
		"menu": map[string]interface{}{
			"id":   row.MenuID,
			"name": row.MenuName,
			"svg":  row.MenuSVG,
		},
		"urlAccess": urlAccess,
	})
}

// UpdateGrant rewrites one role's urlAccess for a permission.
// @Summary Update grant
// @Tags permissions
// @Accept json
// @Produce json
// @Param id path string true "Permission ID"
// @Param request body validator.GrantUpdateRequest true "Role and access"
// @Success 200 {object} map[string]interface{} "Permission updated successfully"
// @Failure 400 {object} map[string]string "Missing required fields"
// @Router /permissions/{id} [patch]
func (h *PermissionHandler) UpdateGrant(c echo.Context) error {
	id := c.Param("id")

	var req validator.GrantUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Missing required fields"})
	}

	accessJSON, err := json.Marshal(req.URLAccess)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid urlAccess"})
	}

	if err := h.db.Model(&models.RolePermission{}).
		Where("role_id = ? AND permission_id = ?", req.RoleID, id).
		Update("url_access", string(accessJSON)).Error; err != nil {
		h.log.Error("Failed to update grant", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Permission updated successfully",
		"permission": map[string]interface{}{
			"id":        id,
			"roleId":    req.RoleID,
			"urlAccess": req.URLAccess,
		},
	})
}

// Delete removes a permission and all of its grant rows.
// @Summary Delete permission
// @Tags permissions
// @Produce json
// @Param id path string true "Permission ID"
// @Success 200 {object} map[string]string "Permission deleted successfully"
// @Router /permissions/{id} [delete]
func (h *PermissionHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("permission_id = ?", id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Permission{}, "id = ?", id).Error
	})
	if err != nil {
		h.log.Error("Failed to delete permission", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Permission deleted successfully"})
}

// GetUserPermissions returns the caller's effective grants, keyed off the
// session cookie. This is what the UI loads into its permission snapshot.
// @Summary Get caller's grants
// @Tags permissions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "No or invalid session"
// @Router /permissions/userpermission [get]
func (h *PermissionHandler) GetUserPermissions(c echo.Context) error {
	cookie, err := c.Cookie(auth.SessionCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized: No session ID provided"})
	}

	userID, err := h.sessions.Resolve(c.Request().Context(), cookie.Value)
	switch {
	case err == nil:
	case errors.Is(err, authz.ErrSessionInvalid), errors.Is(err, authz.ErrSessionExpired):
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized: Invalid session or user not found"})
	default:
		h.log.Error("Session lookup failed", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	grants, err := h.registry.GrantsForUser(c.Request().Context(), userID)
	if err != nil {
		h.log.Error("Failed to fetch grants", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	if len(grants) == 0 {
		// Only reachable when the user row vanished between the session
		// lookup and the grant query; mirror the empty-grants shape.
		var user models.User
		err := h.db.WithContext(c.Request().Context()).First(&user, "id = ?", userID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			h.log.Error("Failed to fetch user role", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "No permissions found for the user",
			"userId":  userID,
			"roleId":  user.RoleID,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "User roles and permissions retrieved successfully",
		"userId":      userID,
		"permissions": grants,
	})
}
