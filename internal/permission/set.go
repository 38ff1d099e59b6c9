package permission

import "sort"

// Set is an unordered collection of distinct permissions.
// The zero value is an empty, read-only set; use NewSet to get a writable one.
type Set map[Permission]struct{}

// NewSet returns a set holding perms.
func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}

	return s
}

// Has reports whether p is a member of s.
func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Add inserts p into s.
func (s Set) Add(p Permission) {
	s[p] = struct{}{}
}

// Len returns the number of permissions in s.
func (s Set) Len() int {
	return len(s)
}

// Union returns a new set with the members of s and other. Neither input is modified.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for p := range s {
		out[p] = struct{}{}
	}

	for p := range other {
		out[p] = struct{}{}
	}

	return out
}

// Contains reports whether every member of other is also in s.
func (s Set) Contains(other Set) bool {
	for p := range other {
		if !s.Has(p) {
			return false
		}
	}

	return true
}

// Slice returns the members of s sorted lexically.
func (s Set) Slice() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Strings returns the members of s as sorted raw tokens.
func (s Set) Strings() []string {
	perms := s.Slice()

	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}

	return out
}
