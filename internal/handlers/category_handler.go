package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"inkwell/internal/models"
	"inkwell/internal/utils/logger"
)

type CategoryHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db, log: logger.New("CategoryHandler")}
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
	slugTrim     = regexp.MustCompile(`^-+|-+$`)
)

// makeSlug lowercases a title and collapses it to a dash-separated slug.
func makeSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	return slugTrim.ReplaceAllString(slug, "")
}

// List returns all categories.
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} models.Category
// @Router /category [get]
func (h *CategoryHandler) List(c echo.Context) error {
	var categories []models.Category
	if err := h.db.WithContext(c.Request().Context()).Find(&categories).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching categories"})
	}
	return c.JSON(http.StatusOK, categories)
}

// GetByID returns one category.
// @Summary Get category
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} models.Category
// @Failure 404 {object} map[string]string "Category not found"
// @Router /category/{id} [get]
func (h *CategoryHandler) GetByID(c echo.Context) error {
	id := c.Param("id")

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Category not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching category"})
	}
	return c.JSON(http.StatusOK, category)
}

type categoryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create adds a category; the slug and meta title derive from the title.
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body handlers.categoryRequest true "Category fields"
// @Success 201 {object} map[string]string "category post created successfully"
// @Failure 400 {object} map[string]string "Title and description are required"
// @Router /category [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if req.Title == "" || req.Description == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Title and description are required"})
	}

	category := models.Category{
		Title:       req.Title,
		MetaTitle:   req.Title,
		Slug:        makeSlug(req.Title),
		Description: req.Description,
	}
	if err := h.db.Create(&category).Error; err != nil {
		h.log.Error("Failed to create category", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error creating category"})
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "category post created successfully"})
}

// Update rewrites title and description.
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body handlers.categoryRequest true "Category fields"
// @Success 200 {object} models.Category
// @Failure 404 {object} map[string]string "Category not found"
// @Router /category/{id} [patch]
func (h *CategoryHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Category not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error updating category"})
	}

	category.Title = req.Title
	category.Description = req.Description

	if err := h.db.Save(&category).Error; err != nil {
		h.log.Error("Failed to update category", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error updating category"})
	}
	return c.JSON(http.StatusOK, category)
}

// Delete removes a category.
// @Summary Delete category
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} map[string]string "Category deleted successfully"
// @Failure 404 {object} map[string]string "Category not found"
// @Router /category/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	result := h.db.Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		h.log.Error("Failed to delete category", result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error deleting category"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Category not found"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}
