package models

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	console "inkwell/internal/utils/logger"
)

var log = console.New("MODELS")

type seedAccess struct {
	Create *string `json:"create"`
	Read   *string `json:"read"`
	Update *string `json:"update"`
	Delete *string `json:"delete"`
}

func str(s string) *string { return &s }

func mustAccess(a seedAccess) string {
	data, err := json.Marshal(a)
	if err != nil {
		panic(err)
	}
	return string(data)
}

type seedPermission struct {
	Name        string
	Description string
	Menu        string
	Restrict    seedAccess
}

var defaultMenus = []Menu{
	{NumSort: 1, Name: "Dashboard", URLMenu: "/dashboard"},
	{NumSort: 2, Name: "Blog", URLMenu: "/dashboard/blog"},
	{NumSort: 3, Name: "Pages", URLMenu: "/dashboard/pages"},
	{NumSort: 4, Name: "Categories", URLMenu: "/dashboard/category"},
	{NumSort: 5, Name: "Media", URLMenu: "/dashboard/media"},
	{NumSort: 6, Name: "Users", URLMenu: "/dashboard/users"},
	{NumSort: 7, Name: "Authorization", URLMenu: "/dashboard/rolepermission"},
	{NumSort: 8, Name: "Settings", URLMenu: "/dashboard/settings"},
}

var defaultPermissions = []seedPermission{
	{
		Name: "Manage blog", Description: "Create, edit and remove blog posts", Menu: "Blog",
		Restrict: seedAccess{
			Create: str("post:/api/blog,post:/api/blog/createblog"),
			Read:   str("get:/api/blog,get:/api/blog/:id"),
			Update: str("patch:/api/blog/:id"),
			Delete: str("put:/api/blog/:id"),
		},
	},
	{
		Name: "Manage pages", Description: "Create, edit and remove pages", Menu: "Pages",
		Restrict: seedAccess{
			Create: str("post:/api/pages"),
			Read:   str("get:/api/pages,get:/api/pages/:id"),
			Update: str("patch:/api/pages/:id"),
			Delete: str("put:/api/pages/:id"),
		},
	},
	{
		Name: "Manage categories", Description: "Maintain the category tree", Menu: "Categories",
		Restrict: seedAccess{
			Create: str("post:/api/category"),
			Read:   str("get:/api/category,get:/api/category/:id"),
			Update: str("patch:/api/category/:id"),
			Delete: str("delete:/api/category/:id"),
		},
	},
	{
		Name: "Manage media", Description: "Upload and remove media assets", Menu: "Media",
		Restrict: seedAccess{
			Create: str("post:/api/media/upload"),
			Read:   str("get:/api/media,get:/api/media/:id"),
			Update: str("patch:/api/media/:id"),
			Delete: str("delete:/api/media/:id"),
		},
	},
	{
		Name: "Manage users", Description: "Administer user accounts", Menu: "Users",
		Restrict: seedAccess{
			Create: str("post:/api/users"),
			Read:   str("get:/api/users,get:/api/users/:id,get:/api/users/roles"),
			Update: str("patch:/api/users/:id,patch:/api/users/:id/profile"),
			Delete: str("put:/api/users/:id"),
		},
	},
	{
		Name: "Manage authorization", Description: "Roles, permissions and grants", Menu: "Authorization",
		Restrict: seedAccess{
			Create: str("post:/api/rolepermission,post:/api/permissions,post:/api/menu"),
			Read:   str("get:/api/rolepermission,get:/api/permissions,get:/api/permissions/:id,get:/api/menu,get:/api/menu/:id"),
			Update: str("patch:/api/rolepermission/:id,patch:/api/permissions/:id,patch:/api/menu/:id"),
			Delete: str("put:/api/rolepermission/:id,delete:/api/permissions/:id,delete:/api/menu/:id"),
		},
	},
	{
		Name: "Manage settings", Description: "Site-wide settings", Menu: "Settings",
		Restrict: seedAccess{
			Read:   str("get:/api/settings"),
			Update: str("patch:/api/settings"),
		},
	},
	{
		Name: "View dashboard", Description: "Dashboard summary", Menu: "Dashboard",
		Restrict: seedAccess{
			Read: str("get:/api/dashboard"),
		},
	},
}

// Per-role grants. Administrator receives every permission's full restrict
// set; the entries below trim the others down.
var roleGrants = map[string]map[string]seedAccess{
	"Editor": {
		"Manage blog": {
			Create: str("post:/api/blog,post:/api/blog/createblog"),
			Read:   str("get:/api/blog,get:/api/blog/:id"),
			Update: str("patch:/api/blog/:id"),
		},
		"Manage pages": {
			Read:   str("get:/api/pages,get:/api/pages/:id"),
			Update: str("patch:/api/pages/:id"),
		},
		"Manage categories": {
			Read: str("get:/api/category,get:/api/category/:id"),
		},
		"Manage media": {
			Create: str("post:/api/media/upload"),
			Read:   str("get:/api/media,get:/api/media/:id"),
		},
		"View dashboard": {
			Read: str("get:/api/dashboard"),
		},
	},
	"Viewer": {
		"Manage blog": {
			Read: str("get:/api/blog,get:/api/blog/:id"),
		},
		"View dashboard": {
			Read: str("get:/api/dashboard"),
		},
	},
}

var defaultRoles = []Role{
	{NumSort: 1, RoleName: "Administrator"},
	{NumSort: 2, RoleName: "Editor"},
	{NumSort: 3, RoleName: "Viewer"},
}

// SeedAuthorization creates the default menus, permissions, roles and grants.
// Existing rows are left untouched, so it is safe to run at every boot.
func SeedAuthorization(db *gorm.DB) error {
	menus := map[string]string{}
	for _, menu := range defaultMenus {
		m := menu
		if err := db.Where(Menu{Name: m.Name}).FirstOrCreate(&m).Error; err != nil {
			return fmt.Errorf("failed to seed menu %s: %w", m.Name, err)
		}
		menus[m.Name] = m.ID
	}

	permissions := map[string]Permission{}
	for _, sp := range defaultPermissions {
		menuID := menus[sp.Menu]
		restrict := mustAccess(sp.Restrict)
		perm := Permission{
			Name:        sp.Name,
			Description: sp.Description,
			URLRestrict: &restrict,
			MenuID:      &menuID,
		}
		if err := db.Where(Permission{Name: sp.Name}).FirstOrCreate(&perm).Error; err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", sp.Name, err)
		}
		permissions[sp.Name] = perm
	}

	for _, role := range defaultRoles {
		r := role
		if err := db.Where(Role{RoleName: r.RoleName}).FirstOrCreate(&r).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", r.RoleName, err)
		}

		for name, perm := range permissions {
			granted, ok := grantFor(r.RoleName, name, perm)
			if !ok {
				continue
			}
			assignment := RolePermission{
				RoleID:       r.ID,
				PermissionID: perm.ID,
				URLAccess:    granted,
			}
			if err := db.Where(RolePermission{RoleID: r.ID, PermissionID: perm.ID}).
				FirstOrCreate(&assignment).Error; err != nil {
				return fmt.Errorf("failed to seed grant %s/%s: %w", r.RoleName, name, err)
			}
		}
	}

	return nil
}

func grantFor(roleName, permName string, perm Permission) (*string, bool) {
	if roleName == "Administrator" {
		return perm.URLRestrict, true
	}
	grants, ok := roleGrants[roleName]
	if !ok {
		return nil, false
	}
	access, ok := grants[permName]
	if !ok {
		return nil, false
	}
	value := mustAccess(access)
	return &value, true
}

// CreateAdminFromEnv creates the initial administrator account from
// ADMIN_EMAIL / ADMIN_PASSWORD, if both are set and the user is missing.
func CreateAdminFromEnv(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Info("ADMIN_EMAIL / ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	var count int64
	if err := db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var adminRole Role
	if err := db.Where("role_name = ?", "Administrator").First(&adminRole).Error; err != nil {
		return fmt.Errorf("administrator role missing: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Username: "admin",
		Email:    email,
		Name:     "Administrator",
		RoleID:   &adminRole.ID,
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		key := UserKey{UserID: admin.ID, HashedPassword: string(hashed)}
		if err := tx.Create(&key).Error; err != nil {
			return err
		}
		log.Success("Created administrator %s", email)
		return nil
	})
}
