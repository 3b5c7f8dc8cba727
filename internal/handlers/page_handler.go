package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"inkwell/internal/api/validator"
	"inkwell/internal/models"
	"inkwell/internal/utils/logger"
)

type PageHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPageHandler(db *gorm.DB) *PageHandler {
	return &PageHandler{db: db, log: logger.New("PageHandler")}
}

// List returns all pages with their author usernames.
// @Summary List pages
// @Tags pages
// @Produce json
// @Success 200 {array} handlers.postListRow
// @Router /pages [get]
func (h *PageHandler) List(c echo.Context) error {
	var pages []postListRow
	err := h.db.WithContext(c.Request().Context()).
		Table(`page`).
		Select(`page.id, page.title, auth_user.username AS author, page.created_at`).
		Joins(`LEFT JOIN auth_user ON auth_user.id = page.author_id`).
		Scan(&pages).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching pages"})
	}
	return c.JSON(http.StatusOK, pages)
}

// ListAuthors returns users for the page editor's author picker.
// @Summary List page authors
// @Tags pages
// @Produce json
// @Success 200 {array} map[string]string
// @Router /pages/author [get]
func (h *PageHandler) ListAuthors(c echo.Context) error {
	var authors []struct {
		ID   string `gorm:"column:id" json:"id"`
		Name string `gorm:"column:username" json:"name"`
	}
	if err := h.db.WithContext(c.Request().Context()).
		Table(`auth_user`).Select(`id, username`).Scan(&authors).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching user"})
	}
	return c.JSON(http.StatusOK, authors)
}

// Create inserts a page; a missing publishedAt means publish now.
// @Summary Create page
// @Tags pages
// @Accept json
// @Produce json
// @Param request body validator.PageRequest true "Page fields"
// @Success 201 {object} map[string]interface{} "Page created successfully"
// @Failure 400 {object} map[string]string "Missing required fields"
// @Router /pages [post]
func (h *PageHandler) Create(c echo.Context) error {
	var req validator.PageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Missing required fields"})
	}

	publishedAt := req.PublishedAt
	if publishedAt == nil {
		now := time.Now()
		publishedAt = &now
	}

	page := models.Page{
		Title:       req.Title,
		MetaTitle:   req.MetaTitle,
		Slug:        req.Slug,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		AuthorID:    req.AuthorID,
		CreatedAt:   time.Now(),
		PublishedAt: publishedAt,
	}

	if err := h.db.Create(&page).Error; err != nil {
		h.log.Error("Failed to create page", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Error creating page",
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Page created successfully",
		"page":    page,
	})
}

// GetByID returns one page.
// @Summary Get page
// @Tags pages
// @Produce json
// @Param id path string true "Page ID"
// @Success 200 {object} models.Page
// @Failure 404 {object} map[string]string "Page not found"
// @Router /pages/{id} [get]
func (h *PageHandler) GetByID(c echo.Context) error {
	id := c.Param("id")

	var page models.Page
	err := h.db.WithContext(c.Request().Context()).
		Preload("Author").
		First(&page, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Page not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching page"})
	}
	return c.JSON(http.StatusOK, page)
}

// Update rewrites a page's fields.
// @Summary Update page
// @Tags pages
// @Accept json
// @Produce json
// @Param id path string true "Page ID"
// @Param request body validator.PageRequest true "Page fields"
// @Success 200 {object} map[string]interface{} "Page updated successfully"
// @Router /pages/{id} [patch]
func (h *PageHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var req validator.PageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	updates := map[string]interface{}{
		"title":      req.Title,
		"meta_title": req.MetaTitle,
		"slug":       req.Slug,
		"content":    req.Content,
		"image_url":  req.ImageURL,
		"author_id":  req.AuthorID,
	}
	if req.PublishedAt != nil {
		updates["published_at"] = req.PublishedAt
	}

	if err := h.db.Model(&models.Page{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		h.log.Error("Failed to update page", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error updating page"})
	}

	var page models.Page
	if err := h.db.First(&page, "id = ?", id).Error; err == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Page updated successfully",
			"page":    page,
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Page updated successfully"})
}

// Delete removes one page.
// @Summary Delete page
// @Tags pages
// @Produce json
// @Param id path string true "Page ID"
// @Success 200 {object} map[string]string "Page deleted successfully"
// @Router /pages/{id} [delete]
func (h *PageHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	if err := h.db.Delete(&models.Page{}, "id = ?", id).Error; err != nil {
		h.log.Error("Failed to delete page", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error deleting page"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Page deleted successfully"})
}

// DeleteMultiple removes a batch of pages.
// @Summary Delete multiple pages
// @Tags pages
// @Accept json
// @Produce json
// @Param request body handlers.idsRequest true "Page IDs"
// @Success 200 {object} map[string]interface{} "Pages deleted successfully"
// @Failure 400 {object} map[string]string "Invalid or empty array of ids"
// @Router /pages/deleteMultiple [delete]
func (h *PageHandler) DeleteMultiple(c echo.Context) error {
	var req idsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if len(req.IDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid or empty array of ids"})
	}

	result := h.db.Where("id IN ?", req.IDs).Delete(&models.Page{})
	if result.Error != nil {
		h.log.Error("Failed to delete pages", result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error deleting pages"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Pages deleted successfully",
		"count":   result.RowsAffected,
	})
}
