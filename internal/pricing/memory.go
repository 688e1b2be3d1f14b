package pricing

import (
	"context"
	"sync"
)

// MemorySource serves records held in memory, keyed by scope.
type MemorySource struct {
	mu      sync.RWMutex
	records map[Scope][]SessionRecord
}

// NewMemorySource constructs a MemorySource seeded with the given records.
func NewMemorySource(records map[Scope][]SessionRecord) *MemorySource {
	m := &MemorySource{records: make(map[Scope][]SessionRecord, len(records))}
	for scope, list := range records {
		m.records[scope] = cloneRecords(list)
	}
	return m
}

// Sessions returns a copy of the records stored for scope.
func (m *MemorySource) Sessions(ctx context.Context, scope Scope) ([]SessionRecord, error) {
	if scope != ScopeLive && scope != ScopeMine {
		return nil, ErrUnknownScope
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneRecords(m.records[scope]), nil
}

// PlaceholderRecords returns the demo rows the screens ship with.
func PlaceholderRecords() []SessionRecord {
	return []SessionRecord{
		{Signature: "0x7a25...c3f1", Date: "12/01/2021 17:00", ParticipantCount: 14, StakeAmount: "2.5 ETH", ViewLabel: "View", ActionLabel: "Vote"},
		{Signature: "0x19be...84d0", Date: "12/02/2021 09:30", ParticipantCount: 8, StakeAmount: "1.1 ETH", ViewLabel: "View", ActionLabel: "Vote"},
		{Signature: "0xe04c...11a9", Date: "12/03/2021 21:15", ParticipantCount: 23, StakeAmount: "4.0 ETH", ViewLabel: "View", ActionLabel: "Vote"},
		{Signature: "0x5d7f...b2e6", Date: "12/05/2021 12:00", ParticipantCount: 5, StakeAmount: "0.6 ETH", ViewLabel: "View", ActionLabel: "Vote"},
	}
}

// NewPlaceholderSource serves PlaceholderRecords for both scopes.
func NewPlaceholderSource() *MemorySource {
	records := PlaceholderRecords()
	return NewMemorySource(map[Scope][]SessionRecord{
		ScopeLive: records,
		ScopeMine: records,
	})
}
