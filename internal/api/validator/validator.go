package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ValidationErrors wraps the validator's ValidationErrors
type ValidationErrors []playgroundvalidator.FieldError

// CustomValidator wraps go-playground/validator
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() echo.Validator {
	v := playgroundvalidator.New()

	// Register custom validation tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	if err := v.RegisterValidation("url_access", validateURLAccess); err != nil {
		return nil
	}

	return &CustomValidator{validator: v}
}

var verbPrefix = regexp.MustCompile(`^[a-z]+:`)

// validateURLAccess checks the pattern lists of a urlAccess object: every
// non-null value is a comma-separated list of path patterns, each rooted at
// "/" after an optional "verb:" prefix. Empty list entries are tolerated the
// same way the matcher tolerates them.
func validateURLAccess(fl playgroundvalidator.FieldLevel) bool {
	access, ok := fl.Field().Interface().(URLAccessRequest)
	if !ok {
		return false
	}
	for _, value := range []*string{access.Create, access.Read, access.Update, access.Delete} {
		if value == nil {
			continue
		}
		for _, pattern := range strings.Split(*value, ",") {
			cleaned := verbPrefix.ReplaceAllString(strings.TrimSpace(pattern), "")
			if cleaned == "" {
				continue
			}
			if !strings.HasPrefix(cleaned, "/") {
				return false
			}
		}
	}
	return true
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// RegisterRequest Request validation structs for the auth endpoints
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RoleRequest struct {
	RoleName string `json:"roleName" validate:"required,min=2"`
}

// URLAccessRequest mirrors the stored urlAccess object: four CRUD keys,
// values null or comma-separated pattern strings.
type URLAccessRequest struct {
	Create *string `json:"create"`
	Read   *string `json:"read"`
	Update *string `json:"update"`
	Delete *string `json:"delete"`
}

type PermissionRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description" validate:"required"`
	MenuID      string           `json:"menu_id" validate:"required"`
	URLAccess   *URLAccessRequest `json:"urlAccess" validate:"required,url_access"`
}

type GrantUpdateRequest struct {
	RoleID    string            `json:"roleId" validate:"required"`
	URLAccess *URLAccessRequest `json:"urlAccess" validate:"required,url_access"`
}

type MenuRequest struct {
	Name    string `json:"name" validate:"required"`
	NumSort int    `json:"numsort"`
	SVG     string `json:"svg"`
	URLMenu string `json:"url_menu"`
}

type UserRequest struct {
	Username string  `json:"username" validate:"required,min=3"`
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required"`
	Password string  `json:"password" validate:"omitempty,min=8"`
	RoleID   *string `json:"roleId"`
}

type ProfileRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	AboutMe  string `json:"about_me"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type PostRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	MetaTitle   string     `json:"metatitle" validate:"max=200"`
	Slug        string     `json:"slug" validate:"max=200"`
	Content     string     `json:"content" validate:"required"`
	ImageURL    string     `json:"image_url"`
	AuthorID    string     `json:"authorId" validate:"required"`
	PublishedAt *time.Time `json:"publishedAt"`
	Categories  []string   `json:"categories"`
}

type PageRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	MetaTitle   string     `json:"metatitle" validate:"max=200"`
	Slug        string     `json:"slug" validate:"max=200"`
	Content     string     `json:"content" validate:"required"`
	ImageURL    string     `json:"image_url"`
	AuthorID    string     `json:"authorId" validate:"required"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type SettingsRequest struct {
	SiteTitle              string `json:"siteTitle" validate:"required"`
	Tagline                string `json:"tagline"`
	ShowBlogPostTypeNumber int    `json:"showBlogPostTypeNumber" validate:"min=0"`
	SiteAddress            string `json:"siteAddress" validate:"required,url"`
}
