package pos

import (
	"context"
	"sync"
	"time"
)

// DefaultSearchDebounce is how long the terminal waits after the last
// keystroke before a catalog search fires.
const DefaultSearchDebounce = 300 * time.Millisecond

// ErrStaleResult marks a search response superseded by a newer query.
// Callers drop it silently, it is not a failure.
var ErrStaleResult = errStale{}

type errStale struct{}

func (errStale) Error() string { return "search result superseded by a newer query" }

// CatalogSearch issues free-text medicine searches. Every request is tagged
// with a monotonically increasing sequence number; responses that are no
// longer the latest are discarded rather than cancelled, searches are
// idempotent reads.
type CatalogSearch struct {
	svc      CatalogService
	Debounce time.Duration

	mu      sync.Mutex
	seq     uint64
	results []CatalogItem
}

// NewCatalogSearch creates a catalog search with the default debounce
func NewCatalogSearch(svc CatalogService) *CatalogSearch {
	return &CatalogSearch{svc: svc, Debounce: DefaultSearchDebounce}
}

// Search waits out the debounce window, then runs the query and returns its
// results, unless a newer query was issued in the meantime, in which case
// ErrStaleResult is returned and the stored results are left untouched. A
// query superseded during the debounce wait never reaches the backend.
func (s *CatalogSearch) Search(ctx context.Context, query string) ([]CatalogItem, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	if s.Debounce > 0 {
		timer := time.NewTimer(s.Debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.Lock()
	superseded := seq != s.seq
	s.mu.Unlock()
	if superseded {
		return nil, ErrStaleResult
	}

	items, err := s.svc.SearchMedicines(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return nil, ErrStaleResult
	}
	if err != nil {
		return nil, err
	}
	s.results = items
	return items, nil
}

// Results returns the latest accepted search results
func (s *CatalogSearch) Results() []CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CatalogItem, len(s.results))
	copy(out, s.results)
	return out
}
