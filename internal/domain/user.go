package domain

import (
	"fmt"
	"strings"
)

// Role represents what a user is allowed to do.
type Role string

const (
	RoleCustomerAdmin    Role = "CustomerAdmin"
	RoleCustomerEmployee Role = "CustomerEmployee"
	RoleVisconAdmin      Role = "VisconAdmin"
	RoleVisconEmployee   Role = "VisconEmployee"
)

// Roles lists every known role.
var Roles = []Role{RoleCustomerAdmin, RoleCustomerEmployee, RoleVisconAdmin, RoleVisconEmployee}

// ParseRole resolves a role name case-insensitively.
func ParseRole(val string) (Role, error) {
	for _, role := range Roles {
		if strings.EqualFold(string(role), strings.TrimSpace(val)) {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", val)
}

// IsViscon reports whether the role belongs to Viscon staff.
func (r Role) IsViscon() bool {
	return r == RoleVisconAdmin || r == RoleVisconEmployee
}

// User is a person that can sign in, either customer staff or Viscon staff.
type User struct {
	ID           string
	FirstName    string
	Prefix       *string
	LastName     string
	Email        string
	PasswordHash []byte
	PasswordSalt []byte
	PhoneNumber  string
	Role         Role
	IsActive     bool
	CompanyID    string
}

// FullName joins the name parts the way they are displayed.
func (u *User) FullName() string {
	parts := []string{u.FirstName}
	if u.Prefix != nil && strings.TrimSpace(*u.Prefix) != "" {
		parts = append(parts, strings.TrimSpace(*u.Prefix))
	}
	parts = append(parts, u.LastName)
	return strings.Join(parts, " ")
}
