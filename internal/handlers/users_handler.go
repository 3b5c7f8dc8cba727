package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"inkwell/internal/api/validator"
	"inkwell/internal/models"
	"inkwell/internal/utils/logger"
)

type UsersHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUsersHandler(db *gorm.DB) *UsersHandler {
	return &UsersHandler{db: db, log: logger.New("UsersHandler")}
}

type userListRow struct {
	ID       string  `gorm:"column:id" json:"id"`
	Username string  `gorm:"column:username" json:"username"`
	Email    string  `gorm:"column:email" json:"email"`
	Name     string  `gorm:"column:name" json:"name"`
	RoleID   *string `gorm:"column:role_id" json:"roleId"`
	ImageURL string  `gorm:"column:image_url" json:"image_url"`
	RoleName *string `gorm:"column:role_name" json:"roleName"`
}

type userDetailRow struct {
	ID             string  `gorm:"column:id" json:"id"`
	Username       string  `gorm:"column:username" json:"username"`
	Email          string  `gorm:"column:email" json:"email"`
	Name           string  `gorm:"column:name" json:"name"`
	RoleID         *string `gorm:"column:role_id" json:"roleId"`
	AboutMe        string  `gorm:"column:about_me" json:"about_me"`
	RoleName       *string `gorm:"column:role_name" json:"roleName"`
	ImageURL       string  `gorm:"column:image_url" json:"image_url"`
	HashedPassword *string `gorm:"column:hashed_password" json:"-"`
}

// Create adds a user, optionally with a role and password.
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param request body validator.UserRequest true "User details"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string "Username exists or invalid role"
// @Router /users [post]
func (h *UsersHandler) Create(c echo.Context) error {
	var req validator.UserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
	if count > 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Username already exists"})
	}

	if req.RoleID != nil && *req.RoleID != "" {
		var roleCount int64
		if err := h.db.Model(&models.Role{}).Where("id = ?", *req.RoleID).Count(&roleCount).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		}
		if roleCount == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid role"})
		}
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		RoleID:   req.RoleID,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if req.Password == "" {
			return nil
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		key := models.UserKey{UserID: user.ID, HashedPassword: string(hashed)}
		return tx.Create(&key).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Error creating user",
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, user)
}

// List returns all users joined with their role names.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} handlers.userListRow
// @Router /users [get]
func (h *UsersHandler) List(c echo.Context) error {
	var users []userListRow
	err := h.db.WithContext(c.Request().Context()).
		Table(`auth_user`).
		Select(`auth_user.id, auth_user.username, auth_user.email, auth_user.name, `+
			`auth_user.role_id AS role_id, auth_user.image_url, "Role".role_name AS role_name`).
		Joins(`LEFT JOIN "Role" ON "Role".id = auth_user.role_id`).
		Scan(&users).Error
	if err != nil {
		h.log.Error("Failed to list users", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching user list"})
	}
	return c.JSON(http.StatusOK, users)
}

// ListRoles returns all roles for the assignment dropdown, ordered by sort key.
// @Summary List roles for assignment
// @Tags users
// @Produce json
// @Success 200 {array} models.Role
// @Router /users/roles [get]
func (h *UsersHandler) ListRoles(c echo.Context) error {
	var roles []models.Role
	if err := h.db.WithContext(c.Request().Context()).Order("numsort").Find(&roles).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching roles"})
	}
	return c.JSON(http.StatusOK, roles)
}

// GetByID returns one user with role name and a has-password flag. The hash
// itself never leaves the server.
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [get]
func (h *UsersHandler) GetByID(c echo.Context) error {
	id := c.Param("id")

	var row userDetailRow
	err := h.db.WithContext(c.Request().Context()).
		Table(`auth_user`).
		Select(`auth_user.id, auth_user.username, auth_user.email, auth_user.name, `+
			`auth_user.role_id AS role_id, auth_user.about_me, auth_user.image_url, `+
			`"Role".role_name AS role_name, user_key.hashed_password AS hashed_password`).
		Joins(`LEFT JOIN "Role" ON "Role".id = auth_user.role_id`).
		Joins(`LEFT JOIN user_key ON user_key.user_id = auth_user.id`).
		Where(`auth_user.id = ?`, id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}
	if err != nil {
		h.log.Error("Failed to fetch user", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":             row.ID,
		"username":       row.Username,
		"email":          row.Email,
		"name":           row.Name,
		"roleId":         row.RoleID,
		"about_me":       row.AboutMe,
		"roleName":       row.RoleName,
		"image_url":      row.ImageURL,
		"hasPasswordSet": row.HashedPassword != nil && *row.HashedPassword != "",
	})
}

// Update changes account fields and, when a password is supplied, the key row.
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body validator.UserRequest true "Updated fields"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string "Invalid role"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [patch]
func (h *UsersHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var req validator.UserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	if req.RoleID != nil && *req.RoleID != "" {
		var roleCount int64
		if err := h.db.Model(&models.Role{}).Where("id = ?", *req.RoleID).Count(&roleCount).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		}
		if roleCount == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid role"})
		}
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	user.Username = req.Username
	user.Email = req.Email
	user.Name = req.Name
	user.RoleID = req.RoleID

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		if req.Password == "" {
			return nil
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		return tx.Model(&models.UserKey{}).Where("user_id = ?", id).
			Update("hashed_password", string(hashed)).Error
	})
	if err != nil {
		h.log.Error("Failed to update user", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, user)
}

// Delete removes a user and its key row. Routed via PUT: the authorization
// scheme files PUT under the delete action.
// @Summary Delete user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string "User deleted successfully"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [put]
func (h *UsersHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserKey{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		h.log.Error("Failed to delete user", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// UpdateProfile updates the self-service profile fields only.
// @Summary Update profile
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body validator.ProfileRequest true "Profile fields"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id}/profile [patch]
func (h *UsersHandler) UpdateProfile(c echo.Context) error {
	id := c.Param("id")

	var req validator.ProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	result := h.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":     req.Name,
		"about_me": req.AboutMe,
	})
	if result.Error != nil {
		h.log.Error("Failed to update profile", result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"id":       id,
		"name":     req.Name,
		"about_me": req.AboutMe,
	})
}
