package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"inkwell/internal/api/validator"
	"inkwell/internal/models"
	"inkwell/internal/tasks"
	"inkwell/internal/utils/logger"
)

type BlogHandler struct {
	db    *gorm.DB
	tasks *tasks.TaskClient
	log   *logger.Logger
}

func NewBlogHandler(db *gorm.DB, taskClient *tasks.TaskClient) *BlogHandler {
	return &BlogHandler{db: db, tasks: taskClient, log: logger.New("BlogHandler")}
}

type postListRow struct {
	ID        string    `gorm:"column:id" json:"id"`
	Title     string    `gorm:"column:title" json:"title"`
	Author    *string   `gorm:"column:author" json:"author"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

// List returns all posts with their author usernames.
// @Summary List blog posts
// @Tags blog
// @Produce json
// @Success 200 {array} handlers.postListRow
// @Router /blog [get]
func (h *BlogHandler) List(c echo.Context) error {
	var posts []postListRow
	err := h.db.WithContext(c.Request().Context()).
		Table(`post`).
		Select(`post.id, post.title, auth_user.username AS author, post.created_at`).
		Joins(`LEFT JOIN auth_user ON auth_user.id = post.author_id`).
		Scan(&posts).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetch blogposts"})
	}
	return c.JSON(http.StatusOK, posts)
}

// ListCategories returns id and title of every category, for the editor's
// category picker.
// @Summary List categories for the editor
// @Tags blog
// @Produce json
// @Success 200 {array} map[string]string
// @Router /blog/categoryblog [get]
func (h *BlogHandler) ListCategories(c echo.Context) error {
	var categories []struct {
		ID    string `gorm:"column:id" json:"id"`
		Title string `gorm:"column:title" json:"title"`
	}
	if err := h.db.WithContext(c.Request().Context()).
		Table(`category`).Select(`id, title`).Scan(&categories).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching categories"})
	}
	return c.JSON(http.StatusOK, categories)
}

// ListAuthors returns users for the editor's author picker.
// @Summary List authors
// @Tags blog
// @Produce json
// @Success 200 {array} map[string]string
// @Router /blog/userblog [get]
func (h *BlogHandler) ListAuthors(c echo.Context) error {
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

// ListImages returns the media library entries for the editor's image picker.
// @Summary List images
// @Tags blog
// @Produce json
// @Success 200 {array} map[string]string
// @Router /blog/imageblog [get]
func (h *BlogHandler) ListImages(c echo.Context) error {
	var images []struct {
		ID          string `gorm:"column:id" json:"id"`
		URL         string `gorm:"column:url" json:"url"`
		Description string `gorm:"column:description" json:"description"`
	}
	if err := h.db.WithContext(c.Request().Context()).
		Table(`"linkImage"`).Select(`id, url, description`).Scan(&images).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching imageurl"})
	}
	return c.JSON(http.StatusOK, images)
}

// Create inserts a post and its category links. A missing publishedAt means
// publish now; a future one schedules the post and nudges the publish scanner.
// @Summary Create blog post
// @Tags blog
// @Accept json
// @Produce json
// @Param request body validator.PostRequest true "Post fields"
// @Success 201 {object} map[string]string "Blog post created successfully"
// @Failure 400 {object} map[string]string "Missing required fields"
// @Router /blog/createblog [post]
func (h *BlogHandler) Create(c echo.Context) error {
	var req validator.PostRequest
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

	post := models.Post{
		Title:       req.Title,
		MetaTitle:   req.MetaTitle,
		Slug:        req.Slug,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		AuthorID:    req.AuthorID,
		CreatedAt:   time.Now(),
		PublishedAt: publishedAt,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		for _, categoryID := range req.Categories {
			link := models.PostCategory{PostID: post.ID, CategoryID: categoryID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.log.Error("Failed to create blog post", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Error creating blog post",
			"error":   err.Error(),
		})
	}

	if h.tasks != nil && publishedAt.After(time.Now()) {
		if err := h.tasks.EnqueuePublishScan(c.Request().Context()); err != nil {
			h.log.Warn("Failed to enqueue publish scan: %v", err)
		}
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "Blog post created successfully"})
}

// Update rewrites a post and replaces its category links.
// @Summary Update blog post
// @Tags blog
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body validator.PostRequest true "Post fields"
// @Success 200 {object} map[string]string "Blogpost Update successfully"
// @Router /blog/{id} [patch]
func (h *BlogHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var req validator.PostRequest
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

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		for _, categoryID := range req.Categories {
			link := models.PostCategory{PostID: id, CategoryID: categoryID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.log.Error("Failed to update blog post", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error updating BlogPost"})
	}

	if h.tasks != nil && req.PublishedAt != nil && req.PublishedAt.After(time.Now()) {
		if err := h.tasks.EnqueuePublishScan(c.Request().Context()); err != nil {
			h.log.Warn("Failed to enqueue publish scan: %v", err)
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Blogpost Update successfully"})
}

// Delete removes a post. Routed via PUT, which the authorization scheme files
// under the delete action.
// @Summary Delete blog post
// @Tags blog
// @Produce json
// @Param id path string true "Post ID"
// @Success 201 {object} map[string]string "blogpost deleted successfully"
// @Router /blog/{id} [put]
func (h *BlogHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	if err := h.db.Delete(&models.Post{}, "id = ?", id).Error; err != nil {
		h.log.Error("Failed to delete blog post", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error deleting blogpost"})
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "blogpost deleted successfully"})
}

// GetByID returns a post with the ids of its categories.
// @Summary Get blog post
// @Tags blog
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Blog post not found"
// @Router /blog/{id} [get]
func (h *BlogHandler) GetByID(c echo.Context) error {
	id := c.Param("id")

	var post models.Post
	err := h.db.WithContext(c.Request().Context()).
		Preload("Categories").
		First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Blog post not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching blog post"})
	}

	categoryIDs := make([]string, 0, len(post.Categories))
	for _, link := range post.Categories {
		categoryIDs = append(categoryIDs, link.CategoryID)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":          post.ID,
		"title":       post.Title,
		"content":     post.Content,
		"authorId":    post.AuthorID,
		"image_url":   post.ImageURL,
		"metatitle":   post.MetaTitle,
		"slug":        post.Slug,
		"publishedAt": post.PublishedAt,
		"categories":  categoryIDs,
	})
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

// DeleteMultiple removes a batch of posts and their category links.
// @Summary Delete multiple blog posts
// @Tags blog
// @Accept json
// @Produce json
// @Param request body handlers.idsRequest true "Post IDs"
// @Success 200 {object} map[string]string "Blog posts deleted successfully"
// @Failure 400 {object} map[string]string "invalid or empty array ids"
// @Router /blog/deleteMultiple [delete]
func (h *BlogHandler) DeleteMultiple(c echo.Context) error {
	var req idsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if len(req.IDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid or empty array ids"})
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id IN ?", req.IDs).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", req.IDs).Delete(&models.Post{}).Error
	})
	if err != nil {
		h.log.Error("Failed to delete blog posts", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error deleting blog posts"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Blog posts deleted successfully"})
}
