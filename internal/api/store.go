package api

import "sync"

// DefaultStoreLimit bounds how many finished benchmarks are retained.
const DefaultStoreLimit = 256

// ResultStore keeps finished benchmarks in memory, evicting the oldest once
// the limit is reached.
type ResultStore struct {
	mu      sync.Mutex
	limit   int
	order   []string
	results map[string]BenchmarkResponse
}

func NewResultStore(limit int) *ResultStore {
	if limit <= 0 {
		limit = DefaultStoreLimit
	}
	return &ResultStore{
		limit:   limit,
		results: make(map[string]BenchmarkResponse),
	}
}

func (s *ResultStore) Save(resp BenchmarkResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[resp.ID]; !ok {
		s.order = append(s.order, resp.ID)
	}
	s.results[resp.ID] = resp
	for len(s.order) > s.limit {
		delete(s.results, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *ResultStore) Get(id string) (BenchmarkResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp, ok := s.results[id]
	return resp, ok
}

// List returns the stored benchmarks, newest first.
func (s *ResultStore) List() []BenchmarkResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]BenchmarkResponse, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.results[s.order[i]])
	}
	return out
}
