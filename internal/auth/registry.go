package auth

import (
	"context"

	"gorm.io/gorm"

	"inkwell/internal/authz"
)

// Registry answers role-permission queries for the decision engine and the
// administrative screens. Every call re-reads current state; nothing here is
// cached.
type Registry struct {
	db *gorm.DB
}

func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// GrantsForUser returns the user's effective grants via a left join from the
// user through its role to the role's permission assignments. A user whose
// role has no assignments still yields one row (with null permission fields);
// an empty result means the user does not exist.
func (r *Registry) GrantsForUser(ctx context.Context, userID string) ([]authz.Grant, error) {
	var grants []authz.Grant
	err := r.db.WithContext(ctx).
		Table(`auth_user`).
		Select(`auth_user.role_id AS role_id, role_permission.permission_id AS permission_id, role_permission.url_access AS url_access`).
		Joins(`LEFT JOIN role_permission ON role_permission.role_id = auth_user.role_id`).
		Where(`auth_user.id = ?`, userID).
		Scan(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

// PermissionEntry is one permission inside a RoleView.
type PermissionEntry struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	URLRestrict string      `json:"urlRestrict"`
	Menu        MenuRef     `json:"menu"`
	URLAccess   interface{} `json:"urlAccess"`
}

// MenuRef is the menu metadata attached to a permission entry.
type MenuRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	SVG  string `json:"svg"`
}

// RoleView is a role with its granted permissions, for the admin screen.
type RoleView struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Permissions []PermissionEntry `json:"permissions"`
}

type groupedRow struct {
	RoleID                string  `gorm:"column:role_id"`
	RoleName              *string `gorm:"column:role_name"`
	PermissionID          *string `gorm:"column:permission_id"`
	PermissionName        *string `gorm:"column:permission_name"`
	PermissionDescription *string `gorm:"column:permission_description"`
	URLRestrict           *string `gorm:"column:url_restrict"`
	MenuID                *string `gorm:"column:menu_id"`
	MenuName              *string `gorm:"column:menu_name"`
	MenuSVG               *string `gorm:"column:menu_svg"`
	URLAccess             *string `gorm:"column:url_access"`
}

// GroupedByRole collapses the role → assignment → permission → menu fan-out
// into one entry per role. Roles without any permission still appear, with an
// empty permission list; fan-out rows whose permission id is null are
// skipped. The stored urlAccess string is parsed here so consumers see the
// object, not the raw string.
func (r *Registry) GroupedByRole(ctx context.Context) ([]RoleView, error) {
	var rows []groupedRow
	err := r.db.WithContext(ctx).
		Table(`"Role"`).
		Select(`"Role".id AS role_id, "Role".role_name AS role_name, ` +
			`permission.id AS permission_id, permission.name AS permission_name, ` +
			`permission.description AS permission_description, permission.url_restrict AS url_restrict, ` +
			`menu.id AS menu_id, menu.name AS menu_name, menu.svg AS menu_svg, ` +
			`role_permission.url_access AS url_access`).
		Joins(`LEFT JOIN role_permission ON role_permission.role_id = "Role".id`).
		Joins(`LEFT JOIN permission ON permission.id = role_permission.permission_id`).
		Joins(`LEFT JOIN menu ON menu.id = permission.menu_id`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	index := map[string]int{}
	views := make([]RoleView, 0, len(rows))
	for _, row := range rows {
		i, ok := index[row.RoleID]
		if !ok {
			views = append(views, RoleView{
				ID:          row.RoleID,
				Name:        deref(row.RoleName),
				Permissions: []PermissionEntry{},
			})
			i = len(views) - 1
			index[row.RoleID] = i
		}

		if row.PermissionID == nil {
			continue
		}
		views[i].Permissions = append(views[i].Permissions, PermissionEntry{
			ID:          *row.PermissionID,
			Name:        deref(row.PermissionName),
			Description: deref(row.PermissionDescription),
			URLRestrict: deref(row.URLRestrict),
			Menu: MenuRef{
				ID:   deref(row.MenuID),
				Name: deref(row.MenuName),
				SVG:  deref(row.MenuSVG),
			},
			URLAccess: parseAccessValue(row.URLAccess),
		})
	}
	return views, nil
}

// parseAccessValue converts a stored urlAccess string to its object form for
// display; unparseable values are surfaced as null rather than failing the
// whole listing.
func parseAccessValue(raw *string) interface{} {
	if raw == nil {
		return nil
	}
	access, err := authz.ParseAccess(*raw)
	if err != nil {
		log.Warn("unparseable urlAccess in listing: %v", err)
		return nil
	}
	return access
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
