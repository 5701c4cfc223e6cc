package domain

import "slices"

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// RegistrationSource describes how an account came to exist.
type RegistrationSource string

const (
	SourceSelfRegistered RegistrationSource = "self_registered"
)

// RolePolicy maps a registration source to the ordered role set granted to
// accounts created that way. Roles are derived, not stored.
type RolePolicy struct {
	bySource map[RegistrationSource][]string
}

// DefaultRolePolicy grants ROLE_USER to self-registered accounts.
func DefaultRolePolicy() RolePolicy {
	return NewRolePolicy(map[RegistrationSource][]string{
		SourceSelfRegistered: {RoleUser},
	})
}

func NewRolePolicy(bySource map[RegistrationSource][]string) RolePolicy {
	m := make(map[RegistrationSource][]string, len(bySource))
	for src, roles := range bySource {
		m[src] = slices.Clone(roles)
	}
	return RolePolicy{bySource: m}
}

// RolesFor returns a copy of the roles for src, or nil when src is unknown.
func (p RolePolicy) RolesFor(src RegistrationSource) []string {
	return slices.Clone(p.bySource[src])
}
