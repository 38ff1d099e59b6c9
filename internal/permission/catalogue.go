package permission

import (
	"errors"
	"strings"
)

// Catalogue is the closed enumeration of permissions the application knows about.
// It is immutable once built and safe for concurrent use.
type Catalogue struct {
	perms Set
}

// NewCatalogue builds a catalogue from tokens. Every token must have the
// resource.action shape; the first malformed one aborts construction.
func NewCatalogue(tokens ...string) (*Catalogue, error) {
	perms := make(Set, len(tokens))

	for _, token := range tokens {
		p, err := Parse(strings.TrimSpace(token))
		if err != nil {
			return nil, err
		}

		perms.Add(p)
	}

	return &Catalogue{perms: perms}, nil
}

// DefaultCatalogue returns a catalogue holding the built-in permissions.
func DefaultCatalogue() *Catalogue {
	return &Catalogue{perms: NewSet(Builtin()...)}
}

// Extend returns a new catalogue with the members of c plus tokens.
func (c *Catalogue) Extend(tokens ...string) (*Catalogue, error) {
	extra, err := NewCatalogue(tokens...)
	if err != nil {
		return nil, err
	}

	return &Catalogue{perms: c.perms.Union(extra.perms)}, nil
}

// Contains reports whether p is catalogued.
func (c *Catalogue) Contains(p Permission) bool {
	return c.perms.Has(p)
}

// Lookup validates s against the catalogue.
func (c *Catalogue) Lookup(s string) (Permission, error) {
	p, err := Parse(s)
	if err != nil {
		return "", err
	}

	if !c.perms.Has(p) {
		return "", &TokenError{Token: s, Err: ErrUnknownPermission}
	}

	return p, nil
}

// LookupAll validates every token and returns all failures joined.
func (c *Catalogue) LookupAll(tokens []string) ([]Permission, error) {
	var (
		out  = make([]Permission, 0, len(tokens))
		errs []error
	)

	for _, token := range tokens {
		p, err := c.Lookup(token)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		out = append(out, p)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return out, nil
}

// All returns the catalogued permissions sorted.
func (c *Catalogue) All() []Permission {
	return c.perms.Slice()
}

// Len returns the number of catalogued permissions.
func (c *Catalogue) Len() int {
	return c.perms.Len()
}
