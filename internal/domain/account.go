package domain

import (
	"strings"
	"time"
)

type AccountRole string

const (
	RoleCustomer    AccountRole = "CUSTOMER"
	RoleSeller      AccountRole = "SELLER"
	RoleAdmin       AccountRole = "ADMIN"
	RoleSystemAdmin AccountRole = "SYSTEM_ADMIN"
	RoleOther       AccountRole = "OTHER"
)

func ParseRole(s string) (AccountRole, bool) {
	role := AccountRole(strings.ToUpper(strings.TrimSpace(s)))
	switch role {
	case RoleCustomer, RoleSeller, RoleAdmin, RoleSystemAdmin, RoleOther:
		return role, true
	}
	return "", false
}

// IsAdministrative reports whether the role counts toward the active
// administrator minimum.
func (r AccountRole) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleSystemAdmin
}

type Account struct {
	ID             string
	Email          string
	PasswordHash   []byte // nil for accounts without password login
	Name           string
	Surname        string
	PhoneNumber    string
	FiscalCode     string
	Role           AccountRole
	Active         bool
	Verified       bool
	ProfilePicture *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NormalizeEmail is the canonical form used for uniqueness and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AccountInfo is the safe projection of an account, with the password hash
// stripped. Everything that leaves the service layer goes through this.
type AccountInfo struct {
	ID             string      `json:"id"`
	Email          string      `json:"email"`
	Name           string      `json:"name"`
	Surname        string      `json:"surname"`
	PhoneNumber    string      `json:"phoneNumber,omitempty"`
	FiscalCode     string      `json:"fiscalCode,omitempty"`
	Role           AccountRole `json:"role"`
	Active         bool        `json:"active"`
	Verified       bool        `json:"verified"`
	ProfilePicture *string     `json:"profilePicture,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

func (a Account) Info() AccountInfo {
	return AccountInfo{
		ID:             a.ID,
		Email:          a.Email,
		Name:           a.Name,
		Surname:        a.Surname,
		PhoneNumber:    a.PhoneNumber,
		FiscalCode:     a.FiscalCode,
		Role:           a.Role,
		Active:         a.Active,
		Verified:       a.Verified,
		ProfilePicture: a.ProfilePicture,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
