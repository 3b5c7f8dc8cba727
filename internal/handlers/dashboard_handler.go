package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"inkwell/internal/models"
	"inkwell/internal/utils/logger"
)

type DashboardHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db, log: logger.New("DashboardHandler")}
}

// GetSummary returns the content counts shown on the dashboard landing page.
// @Summary Dashboard summary
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /dashboard [get]
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	db := h.db.WithContext(c.Request().Context())

	counts := map[string]interface{}{}
	for name, model := range map[string]interface{}{
		"posts":      &models.Post{},
		"pages":      &models.Page{},
		"categories": &models.Category{},
		"users":      &models.User{},
		"media":      &models.Media{},
	} {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			h.log.Error("Failed to count "+name, err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		}
		counts[name] = count
	}

	var published int64
	if err := db.Model(&models.Post{}).
		Where("published_at IS NOT NULL AND published_at <= ?", time.Now()).
		Count(&published).Error; err != nil {
		h.log.Error("Failed to count published posts", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
	counts["publishedPosts"] = published

	return c.JSON(http.StatusOK, counts)
}
