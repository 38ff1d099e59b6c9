// Package audit records permission decisions as append-only log entries.
//
// A Sink receives one Entry per gate decision. StoreSink writes synchronously,
// AsyncSink hands entries to a single background writer so callers are not held up
// by the audit store while entries keep their submission order.
package audit

import (
	"context"
	"errors"
	"time"
)

// ActionPermissionCheck is the action stamped on entries written by the permission gate.
const ActionPermissionCheck = "permission_check"

var (
	// ErrSinkClosed is returned when recording into a closed AsyncSink.
	ErrSinkClosed = errors.New("audit sink is closed")

	// ErrBufferFull is returned when an AsyncSink cannot accept another entry.
	ErrBufferFull = errors.New("audit buffer is full")

	// ErrMissingUser is returned for entries without a user id.
	ErrMissingUser = errors.New("audit entry has no user id")
)

// Entry is one immutable audit record.
type Entry struct {
	UserID      string         `json:"userId"`
	TenantID    string         `json:"tenantId,omitempty"`
	WorkspaceID string         `json:"workspaceId,omitempty"`
	Action      string         `json:"action"`
	Resource    string         `json:"resource"`
	Permission  string         `json:"permission"`
	Allowed     bool           `json:"allowed"`
	Reason      string         `json:"reason,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IPAddress   string         `json:"ipAddress,omitempty"`
	UserAgent   string         `json:"userAgent,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Store persists audit entries. Implementations must only append.
type Store interface {
	AppendAuditEntry(ctx context.Context, entry Entry) error
}

// Sink accepts audit entries from the gate.
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

func prepare(entry Entry) (Entry, error) {
	if entry.UserID == "" {
		return entry, ErrMissingUser
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if entry.Metadata != nil {
		md := make(map[string]any, len(entry.Metadata))
		for k, v := range entry.Metadata {
			md[k] = v
		}

		entry.Metadata = md
	}

	return entry, nil
}
