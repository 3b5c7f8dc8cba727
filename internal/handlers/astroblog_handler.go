package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"inkwell/internal/config"
	"inkwell/internal/services"
	"inkwell/internal/utils/logger"
)

// AstroBlogHandler serves the public blog feed. Only posts whose publish date
// has passed are visible here; the preview endpoint is the one exception and
// requires a signed token.
type AstroBlogHandler struct {
	db      *gorm.DB
	preview *services.PreviewSigner
	log     *logger.Logger
}

func NewAstroBlogHandler(db *gorm.DB, previewCfg config.PreviewConfig) *AstroBlogHandler {
	return &AstroBlogHandler{
		db:      db,
		preview: services.NewPreviewSigner(previewCfg.Secret, previewCfg.TTLMin),
		log:     logger.New("AstroBlogHandler"),
	}
}

type astroPostRow struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	MetaTitle   string     `json:"metatitle"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	ImageURL    string     `json:"image_url"`
	CreatedAt   time.Time  `json:"createdAt"`
	PublishedAt *time.Time `json:"publishedAt"`
	Author      *string    `json:"author"`
	Category    *string    `json:"category"`
}

const astroPostSelect = `post.id, post.title, post.meta_title, post.slug, post.content,
	post.image_url, post.created_at, post.published_at,
	auth_user.username AS author, category.title AS category`

const publishedOnly = "post.published_at IS NOT NULL AND post.published_at <= ?"

func (h *AstroBlogHandler) feedQuery(c echo.Context) *gorm.DB {
	return h.db.WithContext(c.Request().Context()).
		Table("post").
		Select(astroPostSelect).
		Joins(`LEFT JOIN auth_user ON post.author_id = auth_user.id`).
		Joins(`LEFT JOIN post_categories ON post.id = post_categories.post_id`).
		Joins(`LEFT JOIN category ON post_categories.category_id = category.id`).
		Where(publishedOnly, time.Now())
}

// GetFeatured returns the four most recently published posts.
// @Summary Featured posts
// @Tags astroblog
// @Produce json
// @Success 200 {array} handlers.astroPostRow
// @Router /astroblog [get]
func (h *AstroBlogHandler) GetFeatured(c echo.Context) error {
	var rows []astroPostRow
	err := h.feedQuery(c).Order("post.published_at DESC").Limit(4).Scan(&rows).Error
	if err != nil {
		h.log.Error("Failed to fetch featured posts", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching blog posts"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GetAll returns every published post.
// @Summary All published posts
// @Tags astroblog
// @Produce json
// @Success 200 {array} handlers.astroPostRow
// @Router /astroblog/allarticle [get]
func (h *AstroBlogHandler) GetAll(c echo.Context) error {
	var rows []astroPostRow
	if err := h.feedQuery(c).Scan(&rows).Error; err != nil {
		h.log.Error("Failed to fetch posts", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching blog posts"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GetCategories lists the category names the feed can be filtered by.
// @Summary Blog categories
// @Tags astroblog
// @Produce json
// @Success 200 {array} map[string]string
// @Router /astroblog/categories [get]
func (h *AstroBlogHandler) GetCategories(c echo.Context) error {
	var categories []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	err := h.db.WithContext(c.Request().Context()).
		Table("category").Select("id, title").Scan(&categories).Error
	if err != nil {
		h.log.Error("Failed to fetch categories", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching categories"})
	}
	return c.JSON(http.StatusOK, categories)
}

// GetTrending returns five published posts ordered by publish date, each with
// one of its categories attached.
// @Summary Trending posts
// @Tags astroblog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "No trending posts found"
// @Router /astroblog/trending [get]
func (h *AstroBlogHandler) GetTrending(c echo.Context) error {
	type trendingPost struct {
		ID          string     `json:"id"`
		Title       string     `json:"title"`
		ImageURL    string     `json:"image_url"`
		PublishedAt *time.Time `json:"publishedAt"`
		Category    *string    `json:"category"`
	}

	var posts []trendingPost
	err := h.db.WithContext(c.Request().Context()).
		Table("post").
		Select("id, title, image_url, published_at").
		Where(publishedOnly, time.Now()).
		Order("published_at DESC").
		Limit(5).
		Scan(&posts).Error
	if err != nil {
		h.log.Error("Failed to fetch trending posts", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching trending posts"})
	}

	if len(posts) == 0 {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"message": "No trending posts found",
			"data":    []trendingPost{},
		})
	}

	for i := range posts {
		var category string
		err := h.db.Table("post_categories").
			Select("category.title").
			Joins("LEFT JOIN category ON post_categories.category_id = category.id").
			Where("post_categories.post_id = ?", posts[i].ID).
			Limit(1).
			Scan(&category).Error
		if err == nil && category != "" {
			posts[i].Category = &category
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Trending posts fetched successfully",
		"data":    posts,
	})
}

// Search finds published posts whose title, content or meta title contains
// the keyword, case-insensitively.
// @Summary Search articles
// @Tags astroblog
// @Produce json
// @Param keyword query string true "Search keyword"
// @Success 200 {array} handlers.astroPostRow
// @Failure 400 {object} map[string]string "Search keyword is required"
// @Failure 404 {object} map[string]string "No articles found matching the search criteria"
// @Router /astroblog/search [get]
func (h *AstroBlogHandler) Search(c echo.Context) error {
	keyword := c.QueryParam("keyword")
	if keyword == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Search keyword is required"})
	}

	term := "%" + strings.ToLower(keyword) + "%"
	var rows []astroPostRow
	err := h.feedQuery(c).
		Where("LOWER(post.title) LIKE ? OR LOWER(post.content) LIKE ? OR LOWER(post.meta_title) LIKE ?",
			term, term, term).
		Scan(&rows).Error
	if err != nil {
		h.log.Error("Failed to search articles", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error searching articles"})
	}

	if len(rows) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{
			"message": "No articles found matching the search criteria",
		})
	}
	return c.JSON(http.StatusOK, rows)
}

// GetUserAvatars lists authors that have at least one post.
// @Summary Author avatars
// @Tags astroblog
// @Produce json
// @Success 200 {array} map[string]string
// @Failure 404 {object} map[string]string "No users found"
// @Router /astroblog/useravatar [get]
func (h *AstroBlogHandler) GetUserAvatars(c echo.Context) error {
	var users []struct {
		Username string `json:"username"`
		ImageURL string `json:"image_url"`
	}
	err := h.db.WithContext(c.Request().Context()).
		Table("auth_user").
		Select("auth_user.username, auth_user.image_url").
		Joins("INNER JOIN post ON auth_user.id = post.author_id").
		Group("auth_user.id").
		Scan(&users).Error
	if err != nil {
		h.log.Error("Failed to fetch author avatars", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching users data"})
	}

	if len(users) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "No users found"})
	}
	return c.JSON(http.StatusOK, users)
}

// GetByCategory returns published posts in the named category.
// @Summary Posts by category
// @Tags astroblog
// @Produce json
// @Param category path string true "Category title"
// @Success 200 {array} handlers.astroPostRow
// @Router /astroblog/category/{category} [get]
func (h *AstroBlogHandler) GetByCategory(c echo.Context) error {
	category := c.Param("category")

	var rows []astroPostRow
	err := h.feedQuery(c).Where("category.title = ?", category).Scan(&rows).Error
	if err != nil {
		h.log.Error("Failed to fetch category posts", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching category posts"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GetRelated returns up to four other published posts sharing a category.
// @Summary Related posts
// @Tags astroblog
// @Produce json
// @Param id path string true "Post ID to exclude"
// @Param category path string true "Category title"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "No related posts found"
// @Router /astroblog/related/{id}/{category} [get]
func (h *AstroBlogHandler) GetRelated(c echo.Context) error {
	id := c.Param("id")
	category := c.Param("category")

	type relatedPost struct {
		ID       string  `json:"id"`
		Title    string  `json:"title"`
		ImageURL string  `json:"image_url"`
		Category *string `json:"category"`
	}

	var rows []relatedPost
	err := h.db.WithContext(c.Request().Context()).
		Table("post").
		Select("post.id, post.title, post.image_url, category.title AS category").
		Joins(`LEFT JOIN post_categories ON post.id = post_categories.post_id`).
		Joins(`LEFT JOIN category ON post_categories.category_id = category.id`).
		Where(publishedOnly, time.Now()).
		Where("category.title = ? AND post.id <> ?", category, id).
		Limit(4).
		Scan(&rows).Error
	if err != nil {
		h.log.Error("Failed to fetch related posts", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching related posts"})
	}

	if len(rows) == 0 {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"message": "No related posts found",
			"data":    []relatedPost{},
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Related posts fetched successfully",
		"data":    rows,
	})
}

// Preview renders a single post regardless of publish state, gated by a
// signed token whose subject must match the requested post.
// @Summary Preview a draft post
// @Tags astroblog
// @Produce json
// @Param id path string true "Post ID"
// @Param token query string true "Preview token"
// @Success 200 {object} handlers.astroPostRow
// @Failure 401 {object} map[string]string "Invalid preview token"
// @Failure 404 {object} map[string]string "Blog post not found"
// @Router /astroblog/preview/{id} [get]
func (h *AstroBlogHandler) Preview(c echo.Context) error {
	id := c.Param("id")

	postID, err := h.preview.Verify(c.QueryParam("token"))
	if err != nil || postID != id {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid preview token"})
	}

	var row astroPostRow
	result := h.db.WithContext(c.Request().Context()).
		Table("post").
		Select(astroPostSelect).
		Joins(`LEFT JOIN auth_user ON post.author_id = auth_user.id`).
		Joins(`LEFT JOIN post_categories ON post.id = post_categories.post_id`).
		Joins(`LEFT JOIN category ON post_categories.category_id = category.id`).
		Where("post.id = ?", id).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		h.log.Error("Failed to fetch post preview", result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching blog post"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Blog post not found"})
	}
	return c.JSON(http.StatusOK, row)
}

// GetByID returns a single published post.
// @Summary Post by ID
// @Tags astroblog
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} handlers.astroPostRow
// @Failure 404 {object} map[string]string "Blog post not found"
// @Router /astroblog/{id} [get]
func (h *AstroBlogHandler) GetByID(c echo.Context) error {
	id := c.Param("id")

	var row astroPostRow
	result := h.feedQuery(c).Where("post.id = ?", id).Limit(1).Scan(&row)
	if result.Error != nil {
		h.log.Error("Failed to fetch post", result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching blog post"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Blog post not found"})
	}
	return c.JSON(http.StatusOK, row)
}
