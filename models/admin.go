package models

import (
	"encoding/json"
	"time"

	"backoffice-console/utils"
)

// Permissions decodes every permission shape the backend produces (array,
// JSON-encoded string, bare string, null) into a flat tag list.
type Permissions []string

func (p *Permissions) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = utils.ParsePermissions(raw)
	return nil
}

func (p Permissions) Has(tag string) bool {
	for _, t := range p {
		if t == tag || t == "*" {
			return true
		}
	}
	return false
}

type Role struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Permissions Permissions `json:"permissions,omitempty"`
	AdminsCount int         `json:"admins_count,omitempty"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
}

type Admin struct {
	ID           int         `json:"id"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone,omitempty"`
	Avatar       *string     `json:"avatar"`
	Status       string      `json:"status"`
	IsSuperAdmin bool        `json:"is_super_admin"`
	Role         *Role       `json:"role"`
	Permissions  Permissions `json:"permissions"`
	LastLoginAt  *time.Time  `json:"last_login_at"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (a Admin) FullName() string {
	return User{FirstName: a.FirstName, LastName: a.LastName}.FullName()
}

// Can reports whether the admin may use a permission tag. Super admins can do
// everything.
func (a Admin) Can(tag string) bool {
	if a.IsSuperAdmin {
		return true
	}
	if a.Permissions.Has(tag) {
		return true
	}
	return a.Role != nil && a.Role.Permissions.Has(tag)
}

type AdminStats struct {
	TotalAdmins    int `json:"total_admins"`
	ActiveAdmins   int `json:"active_admins"`
	InactiveAdmins int `json:"inactive_admins"`
	SuperAdmins    int `json:"super_admins"`
	TotalRoles     int `json:"total_roles"`
}

type CreateAdminRequest struct {
	FirstName    string   `validate:"required,max=100"`
	LastName     string   `validate:"required,max=100"`
	Email        string   `validate:"required,email"`
	Phone        string   `validate:"omitempty,max=20"`
	Password     string   `validate:"required,min=8"`
	RoleID       int      `validate:"required,gt=0"`
	Permissions  []string `validate:"omitempty,dive,required"`
	IsSuperAdmin bool
	Avatar       *Upload
}

func (r CreateAdminRequest) Form() Form {
	f := NewForm()
	f.Set("first_name", r.FirstName)
	f.Set("last_name", r.LastName)
	f.Set("email", r.Email)
	f.SetIfNotEmpty("phone", r.Phone)
	f.Set("password", r.Password)
	f.SetInt("role_id", r.RoleID)
	f.AddAll("permissions", r.Permissions)
	f.SetBool("is_super_admin", r.IsSuperAdmin)
	f.Attach("avatar", r.Avatar)
	return f
}

type UpdateAdminRequest struct {
	ID          int      `validate:"required,gt=0"`
	FirstName   string   `validate:"omitempty,max=100"`
	LastName    string   `validate:"omitempty,max=100"`
	Email       string   `validate:"omitempty,email"`
	Phone       string   `validate:"omitempty,max=20"`
	RoleID      int      `validate:"omitempty,gt=0"`
	Permissions []string `validate:"omitempty,dive,required"`
	Avatar      *Upload
}

func (r UpdateAdminRequest) Form() Form {
	f := NewForm()
	f.SetIfNotEmpty("first_name", r.FirstName)
	f.SetIfNotEmpty("last_name", r.LastName)
	f.SetIfNotEmpty("email", r.Email)
	f.SetIfNotEmpty("phone", r.Phone)
	f.SetInt("role_id", r.RoleID)
	f.AddAll("permissions", r.Permissions)
	f.Attach("avatar", r.Avatar)
	return f
}

type RoleRequest struct {
	ID          int      `json:"-"`
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=255"`
	Permissions []string `json:"permissions" validate:"required,min=1,dive,required"`
}

// PermissionGroup is one module of the permission catalogue.
type PermissionGroup struct {
	Module      string   `json:"module"`
	Permissions []string `json:"permissions"`
}
