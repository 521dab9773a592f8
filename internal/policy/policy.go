// Package policy decides which mutations are offered to the current user.
//
// These gates control the offering of controls only; the remote API is the
// authoritative enforcement point and may still reject a call we offered.
package policy

import "mooncookies-cli/internal/model"

// CanCreate reports whether the user may bake new cookies.
//
// Rules:
// - Only astronauts create cookies.
// - An absent user (logged out) can create nothing.
func CanCreate(u *model.User) bool {
	if u == nil {
		return false
	}
	return u.Role == model.RoleAstronaut
}

// CanMutate reports whether the user may edit or delete the cookie.
// Ownership is fixed at creation and never transfers, so this reduces to
// an owner-id match.
func CanMutate(u *model.User, c model.Cookie) bool {
	if u == nil || u.ID == "" {
		return false
	}
	owner := c.OwnerRef()
	if owner == "" {
		return false
	}
	return owner == u.ID
}
