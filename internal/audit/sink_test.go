package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store down")

// memoryStore is an in-memory Store used by the sink tests.
type memoryStore struct {
	mu      sync.Mutex
	entries []Entry
	err     error
	gate    chan struct{} // when set, every append waits for a value
}

func (m *memoryStore) AppendAuditEntry(_ context.Context, entry Entry) error {
	if m.gate != nil {
		<-m.gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.entries = append(m.entries, entry)

	return nil
}

func (m *memoryStore) snapshot() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Entry(nil), m.entries...)
}

func testEntry(i int) Entry {
	return Entry{
		UserID:     "u1",
		Action:     ActionPermissionCheck,
		Resource:   "posts",
		Permission: fmt.Sprintf("posts.p%d", i),
		Allowed:    i%2 == 0,
	}
}

func TestStoreSink_Record(t *testing.T) {
	store := &memoryStore{}
	sink := NewStoreSink(store)

	err := sink.Record(context.Background(), Entry{
		UserID:     "u1",
		TenantID:   "t1",
		Permission: "posts.write",
		Allowed:    true,
		Metadata:   map[string]any{"source": "role"},
	})
	require.NoError(t, err)

	entries := store.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, "t1", entries[0].TenantID)
	assert.True(t, entries[0].Allowed)
	assert.False(t, entries[0].CreatedAt.IsZero(), "timestamp must be filled in")
}

func TestStoreSink_CopiesMetadata(t *testing.T) {
	store := &memoryStore{}
	sink := NewStoreSink(store)

	md := map[string]any{"k": "v"}
	require.NoError(t, sink.Record(context.Background(), Entry{UserID: "u1", Metadata: md}))

	md["k"] = "changed"
	assert.Equal(t, "v", store.snapshot()[0].Metadata["k"])
}

func TestStoreSink_Errors(t *testing.T) {
	sink := NewStoreSink(&memoryStore{err: errStoreDown})

	err := sink.Record(context.Background(), testEntry(1))
	require.ErrorIs(t, err, errStoreDown)

	err = sink.Record(context.Background(), Entry{Permission: "posts.write"})
	require.ErrorIs(t, err, ErrMissingUser)
}

func TestAsyncSink_PreservesOrder(t *testing.T) {
	store := &memoryStore{}
	sink := NewAsyncSink(store, 128)

	for i := range 100 {
		require.NoError(t, sink.Record(context.Background(), testEntry(i)))
	}

	require.NoError(t, sink.Close())

	entries := store.snapshot()
	require.Len(t, entries, 100)

	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("posts.p%d", i), e.Permission)
	}

	assert.Zero(t, sink.Failures())
}

func TestAsyncSink_ConcurrentRecorders(t *testing.T) {
	store := &memoryStore{}
	sink := NewAsyncSink(store, 1024)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			for j := range 50 {
				assert.NoError(t, sink.Record(context.Background(), testEntry(i*50+j)))
			}
		}(i)
	}

	wg.Wait()
	require.NoError(t, sink.Close())

	assert.Len(t, store.snapshot(), 400)
}

func TestAsyncSink_FailuresAreCounted(t *testing.T) {
	sink := NewAsyncSink(&memoryStore{err: errStoreDown}, 4)

	require.NoError(t, sink.Record(context.Background(), testEntry(1)))
	require.NoError(t, sink.Record(context.Background(), testEntry(2)))
	require.NoError(t, sink.Close())

	assert.Equal(t, uint64(2), sink.Failures())
}

func TestAsyncSink_BufferFull(t *testing.T) {
	store := &memoryStore{gate: make(chan struct{})}
	sink := NewAsyncSink(store, 1)

	// the writer picks up the first entry and blocks on the gate,
	// the second fills the buffer, the third is rejected.
	require.NoError(t, sink.Record(context.Background(), testEntry(0)))
	require.Eventually(t, func() bool { return len(sink.queue) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, sink.Record(context.Background(), testEntry(1)))

	err := sink.Record(context.Background(), testEntry(2))
	require.ErrorIs(t, err, ErrBufferFull)
	assert.Equal(t, uint64(1), sink.Failures())

	close(store.gate)
	require.NoError(t, sink.Close())
	assert.Len(t, store.snapshot(), 2)
}

func TestAsyncSink_Closed(t *testing.T) {
	sink := NewAsyncSink(&memoryStore{}, 1)
	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close(), "close must be idempotent")

	err := sink.Record(context.Background(), testEntry(1))
	require.ErrorIs(t, err, ErrSinkClosed)
}
