package token

import (
	"fmt"
	"strings"
)

// Role is the closed set of access-control roles. Canonical values are
// upper case and compared case-sensitively everywhere; only registration
// input is normalized (via NormalizeRole) before entering the system.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleTraveler     Role = "TRAVELER"
	RoleHotelManager Role = "HOTEL_MANAGER"
	RoleTravelAgent  Role = "TRAVEL_AGENT"
)

var validRoles = map[Role]bool{
	RoleAdmin:        true,
	RoleTraveler:     true,
	RoleHotelManager: true,
	RoleTravelAgent:  true,
}

// ParseRole accepts exactly the canonical role strings.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !validRoles[r] {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}

// NormalizeRole upper-cases free-form input before parsing. Used once, at
// the registration boundary.
func NormalizeRole(s string) (Role, error) {
	return ParseRole(strings.ToUpper(strings.TrimSpace(s)))
}

// ParseRoleList parses a comma-joined role list, rejecting the whole list
// if any entry is outside the closed set.
func ParseRoleList(csv string) ([]Role, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, fmt.Errorf("empty role list")
	}
	parts := strings.Split(csv, ",")
	roles := make([]Role, 0, len(parts))
	for _, p := range parts {
		r, err := ParseRole(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}

// JoinRoles renders roles as the comma-joined claim string.
func JoinRoles(roles []Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// AnyMatch reports whether the two role sets intersect. Comparison is
// case-sensitive on the canonical strings.
func AnyMatch(have, required []Role) bool {
	for _, h := range have {
		for _, r := range required {
			if h == r {
				return true
			}
		}
	}
	return false
}
