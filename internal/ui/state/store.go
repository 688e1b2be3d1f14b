package state

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates the page instance expired or never existed.
var ErrNotFound = errors.New("state: page instance not found")

const (
	DefaultTTL      = 30 * time.Minute
	DefaultCapacity = 10000
)

type instance struct {
	id      string
	owner   string
	list    ListState
	touched time.Time
}

// Store keeps the ListState of every live page instance. An instance is
// bound to the page (owner) that created it and is discarded once idle for
// longer than the TTL. Instances are kept in touch order, newest first.
type Store struct {
	mu        sync.Mutex
	instances map[string]*list.Element
	order     *list.List
	ttl       time.Duration
	capacity  int
	now       func() time.Time
}

// StoreOptions configures a Store. Zero values fall back to defaults.
type StoreOptions struct {
	TTL      time.Duration
	Capacity int
	Now      func() time.Time
}

// NewStore constructs an empty Store.
func NewStore(opts StoreOptions) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		instances: make(map[string]*list.Element),
		order:     list.New(),
		ttl:       opts.TTL,
		capacity:  opts.Capacity,
		now:       opts.Now,
	}
}

// Mount registers a fresh instance for owner with both dialogs closed.
func (s *Store) Mount(owner string) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	s.instances[id] = s.order.PushFront(&instance{id: id, owner: owner, touched: s.now()})
	return id
}

// Get returns the state of instance id if it belongs to owner and has not expired.
func (s *Store) Get(id, owner string) (ListState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, err := s.lookupLocked(id, owner)
	if err != nil {
		return ListState{}, err
	}
	return inst.list, nil
}

// Apply runs a dialog transition on instance id and returns the new state.
func (s *Store) Apply(id, owner string, dialog Dialog, action Action) (ListState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, err := s.lookupLocked(id, owner)
	if err != nil {
		return ListState{}, err
	}
	next := inst.list
	if err := next.Apply(dialog, action); err != nil {
		return inst.list, err
	}
	inst.list = next
	return next, nil
}

// Unmount discards instance id.
func (s *Store) Unmount(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.instances[id]; ok {
		s.removeLocked(el)
	}
}

// Len reports the number of tracked instances, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.instances)
}

// Sweep removes expired instances and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for el := s.order.Back(); el != nil; el = s.order.Back() {
		if !el.Value.(*instance).touched.Before(cutoff) {
			break
		}
		s.removeLocked(el)
		removed++
	}
	return removed
}

// Run sweeps expired instances every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed := s.Sweep()
			if onSweep != nil && removed > 0 {
				onSweep(removed)
			}
		}
	}
}

// lookupLocked returns a live instance and marks it as touched.
func (s *Store) lookupLocked(id, owner string) (*instance, error) {
	el, ok := s.instances[id]
	if !ok {
		return nil, ErrNotFound
	}
	inst := el.Value.(*instance)
	if inst.owner != owner {
		return nil, ErrNotFound
	}
	now := s.now()
	if now.Sub(inst.touched) > s.ttl {
		s.removeLocked(el)
		return nil, ErrNotFound
	}
	inst.touched = now
	s.order.MoveToFront(el)
	return inst, nil
}

func (s *Store) removeLocked(el *list.Element) {
	s.order.Remove(el)
	delete(s.instances, el.Value.(*instance).id)
}

// evictLocked drops the least recently touched instance when at capacity.
func (s *Store) evictLocked() {
	for len(s.instances) >= s.capacity {
		s.removeLocked(s.order.Back())
	}
}
