package domain

import "strings"

// Role is one of the fixed tags that drive authorization decisions.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAgent    Role = "agent"
	RoleCustomer Role = "customer"
	RoleGuest    Role = "guest"
)

// RoleDefault is the tag every account starts with and the fallback an empty
// set encodes to, so a stored roles field can never round-trip into nothing.
const RoleDefault = RoleGuest

// rolesDelimiter separates tags in the stored string form of a role set.
const rolesDelimiter = ","

var knownRoles = map[Role]struct{}{
	RoleAdmin:    {},
	RoleAgent:    {},
	RoleCustomer: {},
	RoleGuest:    {},
}

// ParseRole validates a raw tag against the fixed enumeration.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.TrimSpace(raw))
	if _, ok := knownRoles[r]; !ok {
		return "", ErrInvalidRole
	}
	return r, nil
}

// RoleSet is an ordered, duplicate-free collection of role tags. Order is
// insertion order so the encoded form is stable across read-modify-write
// cycles.
type RoleSet []Role

// DefaultRoles returns the membership assigned to a freshly created account.
func DefaultRoles() RoleSet {
	return RoleSet{RoleDefault}
}

// Has reports whether the set contains role.
func (s RoleSet) Has(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// Add appends role unless already present.
func (s RoleSet) Add(role Role) RoleSet {
	if s.Has(role) {
		return s
	}
	return append(s, role)
}

// Remove drops role from the set. Removing the last remaining entry falls
// back to the default tag rather than leaving the set empty.
func (s RoleSet) Remove(role Role) RoleSet {
	if !s.Has(role) {
		return s
	}
	out := make(RoleSet, 0, len(s))
	for _, r := range s {
		if r != role {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return DefaultRoles()
	}
	return out
}

// Equal reports whether both sets hold the same tags in the same order.
func (s RoleSet) Equal(other RoleSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the set.
func (s RoleSet) Clone() RoleSet {
	return append(RoleSet(nil), s...)
}

// DecodeRoles parses the stored comma-joined form into a RoleSet. Segments
// are trimmed, empty segments and duplicates dropped. Any unknown tag yields
// ErrInvalidRole: a corrupted roles field must fail loudly, not silently
// shrink an account's permissions.
func DecodeRoles(serialized string) (RoleSet, error) {
	var set RoleSet
	for _, segment := range strings.Split(serialized, rolesDelimiter) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		role, err := ParseRole(segment)
		if err != nil {
			return nil, err
		}
		set = set.Add(role)
	}
	return set, nil
}

// EncodeRoles renders a RoleSet into its stored string form. An empty set
// encodes to the default tag, never to an empty string.
func EncodeRoles(set RoleSet) string {
	if len(set) == 0 {
		return string(RoleDefault)
	}
	parts := make([]string, len(set))
	for i, r := range set {
		parts[i] = string(r)
	}
	return strings.Join(parts, rolesDelimiter)
}

// Authorized implements ANY-of semantics: an actor passes when it holds at
// least one required role. An empty requirement always passes.
func Authorized(required []Role, actor RoleSet) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if actor.Has(r) {
			return true
		}
	}
	return false
}
