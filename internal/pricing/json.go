package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// JSONSource reads records from a JSON file shaped as
// {"live": [...], "mine": [...]}. The file is re-read when its modification
// time changes so edits show up without a restart.
type JSONSource struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	cached  map[Scope][]SessionRecord
}

type jsonFile struct {
	Live []SessionRecord `json:"live"`
	Mine []SessionRecord `json:"mine"`
}

// NewJSONSource returns a source backed by the file at path.
func NewJSONSource(path string) (*JSONSource, error) {
	if path == "" {
		return nil, errors.New("pricing: sessions file path is required")
	}
	return &JSONSource{path: path}, nil
}

// Sessions returns the records stored for scope.
func (s *JSONSource) Sessions(ctx context.Context, scope Scope) ([]SessionRecord, error) {
	if scope != ScopeLive && scope != ScopeMine {
		return nil, ErrUnknownScope
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reloadLocked(); err != nil {
		return nil, err
	}
	return cloneRecords(s.cached[scope]), nil
}

// Health reports whether the backing file can be served. A missing file is
// an empty source, not a failure.
func (s *JSONSource) Health(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked()
}

func (s *JSONSource) reloadLocked() error {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.cached = map[Scope][]SessionRecord{}
			s.modTime = time.Time{}
			return nil
		}
		return fmt.Errorf("stat sessions file: %w", err)
	}
	if s.cached != nil && info.ModTime().Equal(s.modTime) {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read sessions file: %w", err)
	}
	var raw jsonFile
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode sessions file: %w", err)
		}
	}
	s.cached = map[Scope][]SessionRecord{
		ScopeLive: raw.Live,
		ScopeMine: raw.Mine,
	}
	s.modTime = info.ModTime()
	return nil
}

// WriteJSONFile stores records in the layout JSONSource reads. It is used by
// the CLI to seed a sessions file.
func WriteJSONFile(path string, live, mine []SessionRecord) error {
	payload := jsonFile{Live: live, Mine: mine}
	if payload.Live == nil {
		payload.Live = []SessionRecord{}
	}
	if payload.Mine == nil {
		payload.Mine = []SessionRecord{}
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
