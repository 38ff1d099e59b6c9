package audit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// StoreSink writes each entry to the store before returning.
type StoreSink struct {
	store Store
}

// NewStoreSink creates a synchronous sink on top of store.
func NewStoreSink(store Store) *StoreSink {
	return &StoreSink{store: store}
}

// Record appends entry and returns the store error, if any.
func (s *StoreSink) Record(ctx context.Context, entry Entry) error {
	entry, err := prepare(entry)
	if err != nil {
		entriesTotal.WithLabelValues(outcomeRejected).Inc()
		return err
	}

	if err = s.store.AppendAuditEntry(ctx, entry); err != nil {
		entriesTotal.WithLabelValues(outcomeFailed).Inc()
		log.Error().Err(err).Str("user_id", entry.UserID).Str("permission", entry.Permission).
			Msg("failed to append audit entry")

		return fmt.Errorf("append audit entry: %w", err)
	}

	entriesTotal.WithLabelValues(outcomeWritten).Inc()

	return nil
}

type job struct {
	ctx   context.Context //nolint:containedctx // carried to the writer goroutine
	entry Entry
}

// AsyncSink queues entries for a single writer goroutine. Entries are appended in the
// order Record accepted them. Write failures are logged, counted and exposed through
// Failures; a full queue is reported to the caller as ErrBufferFull.
type AsyncSink struct {
	store    Store
	queue    chan job
	done     chan struct{}
	mu       sync.RWMutex
	closed   bool
	failures atomic.Uint64
}

// NewAsyncSink starts the writer goroutine. bufferSize below 1 is raised to 1.
func NewAsyncSink(store Store, bufferSize int) *AsyncSink {
	if bufferSize < 1 {
		bufferSize = 1
	}

	s := &AsyncSink{
		store: store,
		queue: make(chan job, bufferSize),
		done:  make(chan struct{}),
	}

	go s.run()

	return s
}

// Record enqueues entry without waiting for the store.
func (s *AsyncSink) Record(ctx context.Context, entry Entry) error {
	entry, err := prepare(entry)
	if err != nil {
		entriesTotal.WithLabelValues(outcomeRejected).Inc()
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrSinkClosed
	}

	select {
	case s.queue <- job{ctx: ctx, entry: entry}:
		return nil
	default:
		s.failures.Add(1)
		entriesTotal.WithLabelValues(outcomeDropped).Inc()
		log.Error().Str("user_id", entry.UserID).Str("permission", entry.Permission).
			Msg("audit buffer full, entry dropped")

		return ErrBufferFull
	}
}

// Failures returns how many entries were dropped or failed to be written.
func (s *AsyncSink) Failures() uint64 {
	return s.failures.Load()
}

// Close stops accepting entries and blocks until the queue is drained.
func (s *AsyncSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done

	return nil
}

func (s *AsyncSink) run() {
	defer close(s.done)

	for j := range s.queue {
		if err := s.store.AppendAuditEntry(j.ctx, j.entry); err != nil {
			s.failures.Add(1)
			entriesTotal.WithLabelValues(outcomeFailed).Inc()
			log.Error().Err(err).Str("user_id", j.entry.UserID).Str("permission", j.entry.Permission).
				Msg("failed to append audit entry")

			continue
		}

		entriesTotal.WithLabelValues(outcomeWritten).Inc()
	}
}
