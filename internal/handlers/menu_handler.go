package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"inkwell/internal/api/validator"
	"inkwell/internal/auth"
	"inkwell/internal/authz"
	"inkwell/internal/models"
	"inkwell/internal/utils/logger"
)

type MenuHandler struct {
	db       *gorm.DB
	registry *auth.Registry
	sessions *auth.SessionStore
	log      *logger.Logger
}

func NewMenuHandler(db *gorm.DB, registry *auth.Registry, sessions *auth.SessionStore) *MenuHandler {
	return &MenuHandler{
		db:       db,
		registry: registry,
		sessions: sessions,
		log:      logger.New("MenuHandler"),
	}
}

// List returns all menus.
// @Summary List menus
// @Tags menus
// @Produce json
// @Success 200 {array} models.Menu
// @Router /menu [get]
func (h *MenuHandler) List(c echo.Context) error {
	var menus []models.Menu
	if err := h.db.WithContext(c.Request().Context()).Find(&menus).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching menus"})
	}
	return c.JSON(http.StatusOK, menus)
}

// GetByID returns one menu.
// @Summary Get menu
// @Tags menus
// @Produce json
// @Param id path string true "Menu ID"
// @Success 200 {object} models.Menu
// @Failure 404 {object} map[string]string "Menu not found"
// @Router /menu/{id} [get]
func (h *MenuHandler) GetByID(c echo.Context) error {
	id := c.Param("id")

	var menu models.Menu
	if err := h.db.First(&menu, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Menu not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching menu"})
	}
	return c.JSON(http.StatusOK, menu)
}

// Create adds a menu entry.
// @Summary Create menu
// @Tags menus
// @Accept json
// @Produce json
// @Param request body validator.MenuRequest true "Menu fields"
// @Success 201 {object} map[string]string "Menu created successfully"
// @Router /menu [post]
func (h *MenuHandler) Create(c echo.Context) error {
	var req validator.MenuRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Name is required"})
	}

	menu := models.Menu{
		Name:    req.Name,
		NumSort: req.NumSort,
		SVG:     req.SVG,
		URLMenu: req.URLMenu,
	}
	if err := h.db.Create(&menu).Error; err != nil {
		h.log.Error("Failed to create menu", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error creating menu"})
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "Menu created successfully"})
}

// Update rewrites a menu entry.
// @Summary Update menu
// @Tags menus
// @Accept json
// @Produce json
// @Param id path string true "Menu ID"
// @Param request body validator.MenuRequest true "Menu fields"
// @Success 200 {object} models.Menu
// @Failure 404 {object} map[string]string "Menu not found"
// @Router /menu/{id} [patch]
func (h *MenuHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var req validator.MenuRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	var menu models.Menu
	if err := h.db.First(&menu, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Menu not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error updating menu"})
	}

	menu.Name = req.Name
	menu.NumSort = req.NumSort
	menu.SVG = req.SVG
	menu.URLMenu = req.URLMenu

	if err := h.db.Save(&menu).Error; err != nil {
		h.log.Error("Failed to update menu", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error updating menu"})
	}
	return c.JSON(http.StatusOK, menu)
}

// Delete removes a menu. Permissions pointing at it keep working with a null
// menu reference.
// @Summary Delete menu
// @Tags menus
// @Produce json
// @Param id path string true "Menu ID"
// @Success 200 {object} map[string]string "Menu deleted successfully"
// @Router /menu/{id} [delete]
func (h *MenuHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	if err := h.db.Delete(&models.Menu{}, "id = ?", id).Error; err != nil {
		h.log.Error("Failed to delete menu", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error deleting menu"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Menu deleted successfully"})
}

type menuItem struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// GetItems returns the sidebar entries for the caller, ordered by sort key and
// filtered through the caller's permission snapshot: a menu shows up only when
// its dashboard route maps to an API route the caller may GET. Without a
// usable session the snapshot stays pending and the list comes back empty.
// @Summary List sidebar items
// @Tags menus
// @Produce json
// @Success 200 {array} handlers.menuItem
// @Router /menu/items [get]
func (h *MenuHandler) GetItems(c echo.Context) error {
	var menus []models.Menu
	if err := h.db.WithContext(c.Request().Context()).Order("numsort").Find(&menus).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching menu items"})
	}

	snapshot := h.loadSnapshot(c)

	items := make([]menuItem, 0, len(menus))
	for _, menu := range menus {
		state := snapshot.Check(menu.URLMenu, http.MethodGet)
		if menu.URLMenu == "/dashboard" {
			// The fallback landing route the UI redirects to on a denied
			// check; it stays visible for any authenticated caller.
			if state == authz.CheckPending {
				continue
			}
		} else if state != authz.CheckAllowed {
			continue
		}
		items = append(items, menuItem{
			Icon:  menu.SVG,
			Label: menu.Name,
			URL:   menu.URLMenu,
		})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) loadSnapshot(c echo.Context) *authz.Snapshot {
	cookie, err := c.Cookie(auth.SessionCookie)
	if err != nil || cookie.Value == "" {
		return authz.PendingSnapshot()
	}

	userID, err := h.sessions.Resolve(c.Request().Context(), cookie.Value)
	if err != nil {
		return authz.PendingSnapshot()
	}

	grants, err := h.registry.GrantsForUser(c.Request().Context(), userID)
	if err != nil {
		h.log.Error("Failed to fetch grants for menu filter", err)
		return authz.PendingSnapshot()
	}
	return authz.NewSnapshot(grants)
}
