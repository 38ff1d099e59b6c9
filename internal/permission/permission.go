// Package permission defines permission tokens, the closed catalogue of valid tokens
// and the set type the resolvers operate on.
package permission

import (
	"errors"
	"strings"
	"unicode"
)

var (
	// ErrInvalidToken is returned when a string does not have the resource.action shape.
	ErrInvalidToken = errors.New("invalid permission token")

	// ErrUnknownPermission is returned when a well-formed token is not part of the catalogue.
	ErrUnknownPermission = errors.New("unknown permission")
)

// Permission is a single grantable capability in resource.action form (e.g. "tenants.read").
// Equality is exact string match.
type Permission string

// String returns the raw token.
func (p Permission) String() string {
	return string(p)
}

// Resource returns the part before the last dot ("admin.server" for "admin.server.config").
func (p Permission) Resource() string {
	i := strings.LastIndexByte(string(p), '.')
	if i < 0 {
		return ""
	}

	return string(p[:i])
}

// Action returns the part after the last dot.
func (p Permission) Action() string {
	i := strings.LastIndexByte(string(p), '.')
	if i < 0 {
		return ""
	}

	return string(p[i+1:])
}

// Valid reports whether s has the resource.action shape: non-empty parts on both sides
// of every dot and no whitespace.
func Valid(s string) bool {
	if !strings.Contains(s, ".") {
		return false
	}

	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}

	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}
	}

	return true
}

// Parse converts s into a Permission after checking its shape.
// It does not consult a catalogue; use Catalogue.Lookup for that.
func Parse(s string) (Permission, error) {
	if !Valid(s) {
		return "", &TokenError{Token: s, Err: ErrInvalidToken}
	}

	return Permission(s), nil
}

// TokenError reports the offending token together with ErrInvalidToken or ErrUnknownPermission.
type TokenError struct {
	Token string
	Err   error
}

func (e *TokenError) Error() string {
	return e.Err.Error() + ": " + `"` + e.Token + `"`
}

func (e *TokenError) Unwrap() error {
	return e.Err
}
