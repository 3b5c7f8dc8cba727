package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"inkwell/internal/api/validator"
	"inkwell/internal/models"
	"inkwell/internal/utils/logger"
)

// SettingsHandler serves the single site-wide settings row.
type SettingsHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db, log: logger.New("SettingsHandler")}
}

// Get returns the settings row.
// @Summary Get settings
// @Tags settings
// @Produce json
// @Success 200 {object} models.Settings
// @Failure 404 {object} map[string]string "Settings not found"
// @Router /settings [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	var settings models.Settings
	err := h.db.WithContext(c.Request().Context()).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Settings not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching settings"})
	}
	return c.JSON(http.StatusOK, settings)
}

// Update rewrites the settings row in place.
// @Summary Update settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body validator.SettingsRequest true "Settings fields"
// @Success 200 {object} models.Settings
// @Failure 404 {object} map[string]string "Settings not found"
// @Router /settings [patch]
func (h *SettingsHandler) Update(c echo.Context) error {
	var req validator.SettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	var settings models.Settings
	err := h.db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Settings not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error updating settings"})
	}

	settings.SiteTitle = req.SiteTitle
	settings.Tagline = req.Tagline
	settings.ShowBlogPostTypeNumber = req.ShowBlogPostTypeNumber
	settings.SiteAddress = req.SiteAddress

	if err := h.db.Save(&settings).Error; err != nil {
		h.log.Error("Failed to update settings", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error updating settings"})
	}
	return c.JSON(http.StatusOK, settings)
}
