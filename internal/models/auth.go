package models

import "time"

// User belongs to at most one Role; deleting the role nulls the reference
// rather than cascading into the user.
type User struct {
	Base
	NumSort   int        `gorm:"column:numshort;autoIncrement" json:"numsort"`
	Username  string     `gorm:"type:varchar(256);uniqueIndex" json:"username"`
	Email     string     `gorm:"type:varchar(100)" json:"email"`
	Name      string     `gorm:"type:varchar(100)" json:"name"`
	ImageURL  string     `gorm:"column:image_url;type:varchar(255)" json:"image_url"`
	AboutMe   string     `gorm:"column:about_me;type:text" json:"about_me"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"createdAt"`
	RoleID    *string    `gorm:"column:role_id;type:varchar(255)" json:"roleId"`
	Role      *Role      `gorm:"foreignKey:RoleID;constraint:OnDelete:SET NULL" json:"role,omitempty"`
}

func (User) TableName() string { return "auth_user" }

// UserKey holds the bcrypt hash for a user, kept out of the user row itself.
type UserKey struct {
	Base
	UserID         string `gorm:"column:user_id;type:varchar(255);not null" json:"userId"`
	User           *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	HashedPassword string `gorm:"column:hashed_password;type:varchar(255)" json:"-"`
}

func (UserKey) TableName() string { return "user_key" }

type Role struct {
	Base
	NumSort     int              `gorm:"column:numsort" json:"numsort"`
	RoleName    string           `gorm:"column:role_name;type:varchar(100)" json:"roleName"`
	Permissions []RolePermission `gorm:"foreignKey:RoleID" json:"permissions,omitempty"`
	Users       []User           `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string { return "Role" }

// Permission describes a grantable capability. URLRestrict is the maximal set
// of URL patterns an administrator may hand out per CRUD action, stored as a
// JSON string with exactly the keys create/read/update/delete.
type Permission struct {
	Base
	Name        string  `gorm:"type:varchar(100)" json:"name"`
	Description string  `gorm:"type:varchar(255)" json:"description"`
	URLRestrict *string `gorm:"column:url_restrict;type:text" json:"urlRestrict"`
	MenuID      *string `gorm:"column:menu_id;type:varchar(255)" json:"menuId"`
	Menu        *Menu   `gorm:"foreignKey:MenuID;constraint:OnDelete:SET NULL" json:"menu,omitempty"`
}

func (Permission) TableName() string { return "permission" }

// RolePermission assigns a permission to a role. URLAccess has the same JSON
// shape as Permission.URLRestrict but holds what was actually granted to this
// role; by admin-UI convention it is a subset of the restrict set, though
// nothing enforces that at write time.
type RolePermission struct {
	Base
	RoleID       string      `gorm:"column:role_id;type:varchar(255);not null" json:"roleId"`
	Role         *Role       `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"role,omitempty"`
	PermissionID string      `gorm:"column:permission_id;type:varchar(255);not null" json:"permissionId"`
	Permission   *Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE" json:"permission,omitempty"`
	URLAccess    *string     `gorm:"column:url_access;type:text" json:"urlAccess"`
}

func (RolePermission) TableName() string { return "role_permission" }

// Menu is UI metadata hung off permissions; it never participates in
// authorization decisions.
type Menu struct {
	Base
	NumSort int    `gorm:"column:numsort" json:"numsort"`
	Name    string `gorm:"type:varchar(100)" json:"name"`
	SVG     string `gorm:"column:svg;type:varchar(512)" json:"svg"`
	URLMenu string `gorm:"column:url_menu;type:varchar(255)" json:"url_menu"`
}

func (Menu) TableName() string { return "menu" }

// Session is an opaque-token login session. Expiry columns are epoch
// milliseconds: ActiveExpires is fixed at login, IdleExpires slides forward
// on every validated check and is the deadline actually enforced on reads.
type Session struct {
	ID            string `gorm:"type:varchar(255);primaryKey" json:"sessionId"`
	UserID        string `gorm:"column:user_id;type:varchar(255);not null" json:"userId"`
	User          *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ActiveExpires int64  `gorm:"column:active_expires;not null" json:"activeExpires"`
	IdleExpires   int64  `gorm:"column:idle_expires;not null" json:"idleExpires"`
}

func (Session) TableName() string { return "user_session" }
