package domain

import (
	"fmt"
	"strings"
)

// Role grants a level of write access to the library.
type Role string

// Available roles.
const (
	// RoleAdmin may change any family.
	RoleAdmin Role = "admin"

	// RoleEditor may change only families it created.
	RoleEditor Role = "editor"

	// RoleReadOnly may not change anything.
	RoleReadOnly Role = "readonly"
)

// ParseRole maps a configured role name to a Role. "user" is accepted as
// an alias of editor.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin, true
	case string(RoleEditor), "user":
		return RoleEditor, true
	case string(RoleReadOnly), "read-only", "read_only":
		return RoleReadOnly, true
	default:
		return "", false
	}
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Principal is the identity a mutation is performed on behalf of.
type Principal struct {
	UserID string
	Role   Role
}

// AccessPolicy resolves query senders to principals.
type AccessPolicy struct {
	// DefaultRole applies to senders without an explicit entry, including
	// anonymous ones.
	DefaultRole Role

	// Users maps user ids to roles.
	Users map[string]Role
}

// Resolve returns the principal for a sender id.
func (p AccessPolicy) Resolve(userID string) Principal {
	if role, ok := p.Users[userID]; ok && userID != "" {
		return Principal{UserID: userID, Role: role}
	}
	role := p.DefaultRole
	if role == "" {
		role = RoleAdmin
	}
	return Principal{UserID: userID, Role: role}
}

// AuthorizeSave checks whether p may store incoming. existing is the
// currently stored family with the same id, or nil.
func AuthorizeSave(p Principal, existing *FamilyMetadata, incoming *FamilyMetadata) error {
	switch p.Role {
	case RoleAdmin:
		return nil
	case RoleEditor:
		if incoming.CreatedBy != p.UserID {
			return fmt.Errorf("%w: %q may only save families it created", ErrUnauthorized, p.UserID)
		}
		if existing != nil && existing.CreatedBy != p.UserID {
			return fmt.Errorf("%w: family %q belongs to %q", ErrUnauthorized, existing.ID, existing.CreatedBy)
		}
		return nil
	default:
		return fmt.Errorf("%w: role %q may not save families", ErrUnauthorized, p.Role)
	}
}

// AuthorizeDelete checks whether p may delete existing. A nil existing
// family is an idempotent delete and is allowed for any writing role.
func AuthorizeDelete(p Principal, existing *FamilyMetadata) error {
	switch p.Role {
	case RoleAdmin:
		return nil
	case RoleEditor:
		if existing != nil && existing.CreatedBy != p.UserID {
			return fmt.Errorf("%w: family %q belongs to %q", ErrUnauthorized, existing.ID, existing.CreatedBy)
		}
		return nil
	default:
		return fmt.Errorf("%w: role %q may not delete families", ErrUnauthorized, p.Role)
	}
}
