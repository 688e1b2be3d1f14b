package pricing_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Its-donkey/pricing-protocol/internal/pricing"
)

func TestParseScope(t *testing.T) {
	cases := map[string]pricing.Scope{
		"":       pricing.ScopeLive,
		"live":   pricing.ScopeLive,
		" Mine ": pricing.ScopeMine,
	}
	for raw, want := range cases {
		got, err := pricing.ParseScope(raw)
		if err != nil {
			t.Fatalf("ParseScope(%q) error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseScope(%q) = %q, want %q", raw, got, want)
		}
	}
	if _, err := pricing.ParseScope("archived"); !errors.Is(err, pricing.ErrUnknownScope) {
		t.Fatalf("expected ErrUnknownScope, got %v", err)
	}
}

func TestMemorySourceReturnsCopiesInOrder(t *testing.T) {
	records := pricing.PlaceholderRecords()
	src := pricing.NewMemorySource(map[pricing.Scope][]pricing.SessionRecord{
		pricing.ScopeLive: records,
	})

	got, err := src.Sessions(context.Background(), pricing.ScopeLive)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if diff := cmp.Diff(records, got); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	got[0].Signature = "mutated"
	again, _ := src.Sessions(context.Background(), pricing.ScopeLive)
	if again[0].Signature == "mutated" {
		t.Fatal("expected source to hand out copies")
	}

	mine, err := src.Sessions(context.Background(), pricing.ScopeMine)
	if err != nil {
		t.Fatalf("sessions mine: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("expected no records for unseeded scope, got %d", len(mine))
	}
	if _, err := src.Sessions(context.Background(), pricing.Scope("other")); !errors.Is(err, pricing.ErrUnknownScope) {
		t.Fatalf("expected ErrUnknownScope, got %v", err)
	}
}

func TestJSONSourceReadsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	live := []pricing.SessionRecord{
		{Signature: "0xaaa", Date: "01/01/2022", ParticipantCount: 3, StakeAmount: "1 ETH", ViewLabel: "View", ActionLabel: "Vote"},
		{Signature: "0xbbb", Date: "01/02/2022", ParticipantCount: 4, StakeAmount: "2 ETH", ViewLabel: "View", ActionLabel: "Vote"},
	}
	if err := pricing.WriteJSONFile(path, live, nil); err != nil {
		t.Fatalf("write sessions: %v", err)
	}

	src, err := pricing.NewJSONSource(path)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	got, err := src.Sessions(context.Background(), pricing.ScopeLive)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if diff := cmp.Diff(live, got); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	updated := live[:1]
	if err := pricing.WriteJSONFile(path, updated, live); err != nil {
		t.Fatalf("rewrite sessions: %v", err)
	}
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	got, err = src.Sessions(context.Background(), pricing.ScopeLive)
	if err != nil {
		t.Fatalf("sessions after reload: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected reload to pick up 1 record, got %d", len(got))
	}
	mine, err := src.Sessions(context.Background(), pricing.ScopeMine)
	if err != nil {
		t.Fatalf("sessions mine: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 mine records, got %d", len(mine))
	}
}

func TestJSONSourceMissingFileIsEmpty(t *testing.T) {
	src, err := pricing.NewJSONSource(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	got, err := src.Sessions(context.Background(), pricing.ScopeLive)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
	if err := src.Health(context.Background()); err != nil {
		t.Fatalf("missing file must stay healthy: %v", err)
	}
}

func TestJSONSourceRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, _ := pricing.NewJSONSource(path)
	if _, err := src.Sessions(context.Background(), pricing.ScopeLive); err == nil {
		t.Fatal("expected decode error")
	}
	if err := src.Health(context.Background()); err == nil {
		t.Fatal("expected health check to fail for malformed file")
	}
}

func TestNewJSONSourceRequiresPath(t *testing.T) {
	if _, err := pricing.NewJSONSource(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestCheckWithoutHealthChecker(t *testing.T) {
	if err := pricing.Check(context.Background(), pricing.NewPlaceholderSource()); err != nil {
		t.Fatalf("expected nil for memory source, got %v", err)
	}
}
