package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils/logger"
)

// MediaHandler manages the media library. Files live in object storage; the
// database keeps the catalogue row with the storage key.
type MediaHandler struct {
	db      *gorm.DB
	storage *services.S3Service
	log     *logger.Logger
}

func NewMediaHandler(db *gorm.DB, storage *services.S3Service) *MediaHandler {
	return &MediaHandler{db: db, storage: storage, log: logger.New("MediaHandler")}
}

// Upload stores a multipart file and catalogues it.
// @Summary Upload media
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param description formData string false "Description"
// @Success 201 {object} models.Media
// @Failure 400 {object} map[string]string "No file uploaded"
// @Router /media/upload [post]
func (h *MediaHandler) Upload(c echo.Context) error {
	if h.storage == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"message": "Media storage not configured"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "No file uploaded"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error uploading media"})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error uploading media"})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	key, url, err := h.storage.Upload(c.Request().Context(), data, fileHeader.Filename, contentType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Error uploading media",
			"error":   err.Error(),
		})
	}

	media := models.Media{
		Name:        fileHeader.Filename,
		URL:         url,
		Image:       key,
		Description: c.FormValue("description"),
	}
	if err := h.db.Create(&media).Error; err != nil {
		h.log.Error("Failed to catalogue media", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error uploading media"})
	}

	return c.JSON(http.StatusCreated, media)
}

// List returns all media rows, with signed read URLs filled in.
// @Summary List media
// @Tags media
// @Produce json
// @Success 200 {array} models.Media
// @Router /media [get]
func (h *MediaHandler) List(c echo.Context) error {
	var media []models.Media
	if err := h.db.WithContext(c.Request().Context()).Find(&media).Error; err != nil {
		h.log.Error("Failed to list media", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching media list"})
	}
	return c.JSON(http.StatusOK, media)
}

// UpdateDescription changes a media row's description.
// @Summary Update media description
// @Tags media
// @Accept json
// @Produce json
// @Param id path string true "Media ID"
// @Success 200 {object} map[string]string "Media description updated successfully"
// @Failure 400 {object} map[string]string "Description is required"
// @Failure 404 {object} map[string]string "Media not found"
// @Router /media/{id} [patch]
func (h *MediaHandler) UpdateDescription(c echo.Context) error {
	id := c.Param("id")

	var req struct {
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if req.Description == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Description is required"})
	}

	result := h.db.Model(&models.Media{}).Where("id = ?", id).
		Update("description", req.Description)
	if result.Error != nil {
		h.log.Error("Failed to update media description", result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Media not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Media description updated successfully"})
}

// Delete removes the stored object and its catalogue row. A missing object in
// storage does not block removing the row.
// @Summary Delete media
// @Tags media
// @Produce json
// @Param id path string true "Media ID"
// @Success 200 {object} map[string]string "Media deleted successfully"
// @Failure 404 {object} map[string]string "Media not found"
// @Router /media/{id} [delete]
func (h *MediaHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	var media models.Media
	err := h.db.First(&media, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Media not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	if h.storage != nil && media.Image != "" {
		if err := h.storage.Delete(c.Request().Context(), media.Image); err != nil {
			h.log.Warn("Stored object could not be deleted: %v", err)
		}
	}

	if err := h.db.Delete(&media).Error; err != nil {
		h.log.Error("Failed to delete media", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Media deleted successfully"})
}
