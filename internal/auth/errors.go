package auth

import (
	"errors"
	"strings"

	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
)

const (
	// ReasonInsufficientPermissions is the denial reason when resolution succeeded
	// but the permission is not granted.
	ReasonInsufficientPermissions = "Insufficient permissions"

	// ReasonUnauthenticated is the denial reason when no caller identity is present.
	ReasonUnauthenticated = "Not authenticated"
)

var (
	// ErrUnauthenticated is returned when the request context carries no user id.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrLookupFailure matches every LookupError. Callers may retry with the store's own policy.
	ErrLookupFailure = errors.New("permission lookup failed")

	// ErrPermissionDenied matches every DeniedError returned by the Require* gate methods.
	ErrPermissionDenied = errors.New("permission denied")
)

// LookupError reports a failed read from the role or tenant store.
type LookupError struct {
	Op  string
	Err error
}

func (e *LookupError) Error() string {
	return ErrLookupFailure.Error() + ": " + e.Op + ": " + e.Err.Error()
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrLookupFailure) true for every LookupError.
func (e *LookupError) Is(target error) bool {
	return target == ErrLookupFailure
}

func lookupError(op string, err error) error {
	var le *LookupError
	if errors.As(err, &le) {
		return err
	}

	return &LookupError{Op: op, Err: err}
}

// DeniedError is returned by the Require* gate methods. Err holds the cause when the
// denial came from a failure (ErrUnauthenticated or a LookupError) and is nil for a
// plain missing grant.
type DeniedError struct {
	Permissions []permission.Permission
	Reason      string
	Err         error
}

func (e *DeniedError) Error() string {
	perms := make([]string, len(e.Permissions))
	for i, p := range e.Permissions {
		perms[i] = p.String()
	}

	return ErrPermissionDenied.Error() + " [" + strings.Join(perms, ", ") + "]: " + e.Reason
}

func (e *DeniedError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrPermissionDenied) true for every DeniedError.
func (e *DeniedError) Is(target error) bool {
	return target == ErrPermissionDenied
}
