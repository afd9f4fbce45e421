package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/patrick-anyanwu/SunProtection/internal/observability"
	"github.com/patrick-anyanwu/SunProtection/internal/stats"
)

// ErrNoSource is returned by Reload when the store was built without a CSV path.
var ErrNoSource = errors.New("memory store has no csv source")

// MemoryStore is a concurrency-safe in-memory cancer record store. Reads never
// mutate; Reload swaps the whole record set at once.
type MemoryStore struct {
	mu      sync.RWMutex
	records []stats.CancerRecord

	path   string
	logger *slog.Logger
}

// NewMemoryStore creates a store seeded with records.
func NewMemoryStore(records []stats.CancerRecord) *MemoryStore {
	return &MemoryStore{
		records: slices.Clone(records),
		logger:  observability.DiscardLogger(),
	}
}

// NewCSVStore loads path into a new store that can later be reloaded.
func NewCSVStore(path string, logger *slog.Logger) (*MemoryStore, error) {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	s := &MemoryStore{path: path, logger: logger.With("component", "store.memory")}
	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the CSV source. On failure the previous records are kept.
func (s *MemoryStore) Reload(ctx context.Context) error {
	if s.path == "" {
		return ErrNoSource
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open cancer data: %w", err)
	}
	defer f.Close()

	records, skipped, err := ReadCSV(f)
	if err != nil {
		return fmt.Errorf("read cancer data %s: %w", s.path, err)
	}
	if skipped > 0 {
		s.logger.Warn("csv rows without a usable year were skipped", "skipped", skipped)
	}

	s.Replace(records)
	s.logger.Info("cancer records loaded", "path", s.path, "records", len(records))
	return nil
}

// Replace swaps in a new record set.
func (s *MemoryStore) Replace(records []stats.CancerRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}

// Len returns the number of loaded records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns copies of the records matching f. An empty CancerTypes
// list matches every type.
func (s *MemoryStore) Records(ctx context.Context, f stats.Filter) ([]stats.CancerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []stats.CancerRecord
	for _, r := range s.records {
		if r.Year < f.YearFrom {
			continue
		}
		if len(f.CancerTypes) > 0 && !slices.Contains(f.CancerTypes, r.CancerType) {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}
