package records

import (
	"context"
	"sort"
	"sync"

	"landguard-hq/landguard/pkg/rules"
)

// MemoryStorage implements the Storage interface using an in-memory map.
// Intended for tests and ephemeral runs; nothing survives a restart.
type MemoryStorage struct {
	violations map[string]*Violation
	mu         sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		violations: make(map[string]*Violation),
	}
}

// Store persists a violation record to memory.
func (s *MemoryStorage) Store(ctx context.Context, violation *Violation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to insulate the store from caller mutation.
	cp := *violation
	cp.RecommendedActions = append([]string(nil), violation.RecommendedActions...)
	s.violations[violation.ID] = &cp

	return nil
}

// Get retrieves a record by ID.
func (s *MemoryStorage) Get(ctx context.Context, id string) (*Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	violation, ok := s.violations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *violation
	return &cp, nil
}

// Query retrieves records matching the filters, newest first.
func (s *MemoryStorage) Query(ctx context.Context, query *Query) ([]*Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*Violation
	for _, violation := range s.violations {
		if query.Matches(violation) {
			cp := *violation
			results = append(results, &cp)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DetectedAt.After(results[j].DetectedAt)
	})

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	start := query.Offset
	if start < 0 {
		start = 0
	}
	if start > len(results) {
		return []*Violation{}, nil
	}
	end := start + limit
	if end > len(results) {
		end = len(results)
	}

	return results[start:end], nil
}

// CountByType returns record counts grouped by violation type.
func (s *MemoryStorage) CountByType(ctx context.Context) (map[rules.ViolationType]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[rules.ViolationType]int64)
	for _, violation := range s.violations {
		counts[violation.ViolationType]++
	}
	return counts, nil
}

// Close releases nothing for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}
