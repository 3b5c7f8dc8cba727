package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"inkwell/internal/events"
)

type Post struct {
	Base
	Title       string         `gorm:"type:varchar(200);not null" json:"title" validate:"required"`
	MetaTitle   string         `gorm:"column:meta_title;type:varchar(200)" json:"metatitle"`
	Slug        string         `gorm:"type:varchar(200)" json:"slug"`
	Content     string         `gorm:"type:text;not null" json:"content" validate:"required"`
	ImageURL    string         `gorm:"column:image_url;type:varchar(255)" json:"image_url"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null" json:"createdAt"`
	PublishedAt *time.Time     `gorm:"column:published_at" json:"publishedAt"`
	AuthorID    string         `gorm:"column:author_id;type:varchar(255);not null" json:"authorId"`
	Author      *User          `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Categories  []PostCategory `gorm:"foreignKey:PostID" json:"categories,omitempty"`
	Meta        []PostMeta     `gorm:"foreignKey:PostID" json:"meta,omitempty"`
}

func (Post) TableName() string { return "post" }

func (p *Post) AfterCreate(tx *gorm.DB) error {
	events.Emit("post.created", p)
	return nil
}

// Published reports whether the post is visible on the public feed.
func (p *Post) Published(now time.Time) bool {
	return p.PublishedAt != nil && !p.PublishedAt.After(now)
}

type Category struct {
	Base
	Title       string `gorm:"type:varchar(200)" json:"title" validate:"required"`
	MetaTitle   string `gorm:"column:meta_title;type:varchar(200)" json:"metatitle"`
	Slug        string `gorm:"type:varchar(200)" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

func (Category) TableName() string { return "category" }

// PostCategory is the post/category junction row.
type PostCategory struct {
	Base
	PostID     string    `gorm:"column:post_id;type:varchar(255);not null" json:"postId"`
	Post       *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	CategoryID string    `gorm:"column:category_id;type:varchar(255);not null" json:"categoryId"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
}

func (PostCategory) TableName() string { return "post_categories" }

type PostMeta struct {
	Base
	Key     string `gorm:"type:varchar(100)" json:"key"`
	Content string `gorm:"type:text" json:"content"`
	PostID  string `gorm:"column:post_meta_id;type:varchar(255);not null" json:"postId"`
	Post    *Post  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
}

func (PostMeta) TableName() string { return "post_meta" }

type Page struct {
	Base
	Title       string     `gorm:"type:varchar(200);not null" json:"title" validate:"required"`
	MetaTitle   string     `gorm:"column:meta_title;type:varchar(200)" json:"metatitle"`
	Slug        string     `gorm:"type:varchar(200)" json:"slug"`
	Content     string     `gorm:"type:text;not null" json:"content" validate:"required"`
	ImageURL    string     `gorm:"column:image_url;type:varchar(255)" json:"image_url"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null" json:"createdAt"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"publishedAt"`
	AuthorID    string     `gorm:"column:author_id;type:varchar(255);not null" json:"authorId"`
	Author      *User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

func (Page) TableName() string { return "page" }

// Media is an uploaded asset in the media library. SignedURL is filled on
// read via the registered URL generator, never stored.
type Media struct {
	Base
	URL         string `gorm:"type:varchar(255)" json:"url"`
	Name        string `gorm:"type:varchar(255)" json:"name"`
	Image       string `gorm:"type:varchar(255)" json:"image"`
	Description string `gorm:"type:varchar(255)" json:"description"`
	SignedURL   string `gorm:"-" json:"signedUrl,omitempty"`
}

func (Media) TableName() string { return "linkImage" }

func (m *Media) AfterFind(tx *gorm.DB) error {
	registryMu.RLock()
	generator := urlGenerator
	registryMu.RUnlock()

	if generator != nil && m.Image != "" {
		url, err := generator.GetSignedURL(tx.Statement.Context, m.Image, time.Hour)
		if err != nil {
			return fmt.Errorf("failed to generate signed URL: %w", err)
		}
		m.SignedURL = url
	}
	return nil
}

type Settings struct {
	Base
	SiteTitle              string         `gorm:"column:site_title;type:varchar(255);not null" json:"siteTitle" validate:"required"`
	Tagline                string         `gorm:"type:varchar(255)" json:"tagline"`
	ShowBlogPostTypeNumber int            `gorm:"column:show_blog_post_type_number;not null" json:"showBlogPostTypeNumber"`
	SiteAddress            string         `gorm:"column:site_address;type:varchar(255);not null" json:"siteAddress" validate:"required"`
	Extra                  datatypes.JSON `gorm:"type:jsonb" json:"extra,omitempty"`
}

func (Settings) TableName() string { return "settings" }
