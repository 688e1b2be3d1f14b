// Package pricing holds the pricing-session records shown by the UI and the
// sources that supply them.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownScope is returned when a source is asked for a scope it does not serve.
var ErrUnknownScope = errors.New("pricing: unknown scope")

// Scope selects which set of sessions a page lists.
type Scope string

const (
	// ScopeLive lists every active pricing session.
	ScopeLive Scope = "live"
	// ScopeMine lists the sessions the visitor takes part in.
	ScopeMine Scope = "mine"
)

// ParseScope normalises a raw scope value. An empty value means ScopeLive.
func ParseScope(raw string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ScopeLive:
		return ScopeLive, nil
	case ScopeMine:
		return ScopeMine, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, raw)
	}
}

// SessionRecord is one row of pricing-session metadata. Records are never
// mutated after a source hands them out.
type SessionRecord struct {
	Signature        string `json:"sig" yaml:"sig"`
	Date             string `json:"date" yaml:"date"`
	ParticipantCount int    `json:"participants" yaml:"participants"`
	StakeAmount      string `json:"stake" yaml:"stake"`
	ViewLabel        string `json:"view" yaml:"view"`
	ActionLabel      string `json:"button" yaml:"button"`
}

// Source supplies session records for a scope. Implementations must return
// records in their own stable order; callers never sort or filter them.
type Source interface {
	Sessions(ctx context.Context, scope Scope) ([]SessionRecord, error)
}

// HealthChecker is implemented by sources backed by an external dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Check reports the health of src when it exposes one, nil otherwise.
func Check(ctx context.Context, src Source) error {
	if hc, ok := src.(HealthChecker); ok {
		return hc.Health(ctx)
	}
	return nil
}

func cloneRecords(records []SessionRecord) []SessionRecord {
	out := make([]SessionRecord, len(records))
	copy(out, records)
	return out
}
