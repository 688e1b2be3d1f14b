package state

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClockStore(ttl time.Duration, capacity int) (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2021, 12, 1, 17, 0, 0, 0, time.UTC)}
	return NewStore(StoreOptions{TTL: ttl, Capacity: capacity, Now: clock.Now}), clock
}

func TestStoreMountStartsClosed(t *testing.T) {
	store, _ := newClockStore(time.Minute, 10)
	id := store.Mount("live")

	got, err := store.Get(id, "live")
	require.NoError(t, err)
	assert.Equal(t, ListState{}, got)
}

func TestStoreInstancesAreIndependent(t *testing.T) {
	store, _ := newClockStore(time.Minute, 10)
	a := store.Mount("live")
	b := store.Mount("live")

	_, err := store.Apply(a, "live", QuickView, ActionOpen)
	require.NoError(t, err)

	got, err := store.Get(b, "live")
	require.NoError(t, err)
	assert.Equal(t, ListState{}, got)
}

func TestStoreRejectsOtherOwner(t *testing.T) {
	store, _ := newClockStore(time.Minute, 10)
	id := store.Mount("live")

	_, err := store.Get(id, "sessions")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Apply(id, "sessions", Vote, ActionOpen)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreExpiresIdleInstances(t *testing.T) {
	store, clock := newClockStore(time.Minute, 10)
	id := store.Mount("live")
	_, err := store.Apply(id, "live", Vote, ActionOpen)
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	_, err = store.Get(id, "live")
	require.NoError(t, err, "touching within the TTL keeps the instance alive")

	clock.Advance(61 * time.Second)
	_, err = store.Get(id, "live")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestStoreSweep(t *testing.T) {
	store, clock := newClockStore(time.Minute, 10)
	store.Mount("live")
	store.Mount("sessions")
	clock.Advance(2 * time.Minute)
	fresh := store.Mount("live")

	assert.Equal(t, 2, store.Sweep())
	assert.Equal(t, 1, store.Len())
	_, err := store.Get(fresh, "live")
	assert.NoError(t, err)
}

func TestStoreEvictsLeastRecentlyTouched(t *testing.T) {
	store, clock := newClockStore(time.Hour, 2)
	first := store.Mount("live")
	clock.Advance(time.Second)
	second := store.Mount("live")
	clock.Advance(time.Second)
	_, err := store.Get(first, "live")
	require.NoError(t, err)
	clock.Advance(time.Second)

	third := store.Mount("live")
	assert.Equal(t, 2, store.Len())

	_, err = store.Get(second, "live")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(first, "live")
	assert.NoError(t, err)
	_, err = store.Get(third, "live")
	assert.NoError(t, err)
}

func TestStoreApplyUnknownDialogKeepsState(t *testing.T) {
	store, _ := newClockStore(time.Minute, 10)
	id := store.Mount("live")
	_, err := store.Apply(id, "live", QuickView, ActionOpen)
	require.NoError(t, err)

	got, err := store.Apply(id, "live", Dialog("bogus"), ActionClose)
	assert.ErrorIs(t, err, ErrUnknownDialog)
	assert.Equal(t, ListState{QuickView: Open}, got)
}

func TestStoreUnmount(t *testing.T) {
	store, _ := newClockStore(time.Minute, 10)
	id := store.Mount("live")
	store.Unmount(id)
	_, err := store.Get(id, "live")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRunStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewStore(StoreOptions{TTL: time.Millisecond})
	store.Mount("live")

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 1)
	done := make(chan error, 1)
	go func() {
		done <- store.Run(ctx, 5*time.Millisecond, func(removed int) {
			select {
			case swept <- removed:
			default:
			}
		})
	}()

	select {
	case n := <-swept:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never ran")
	}
	cancel()
	require.NoError(t, <-done)
}
