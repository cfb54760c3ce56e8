package crawler

import "sync"

// URLSet accumulates every URL extracted during a run. It tolerates
// duplicates and offers no removal.
type URLSet struct {
	mu   sync.Mutex
	urls []string
}

// Add appends urls to the set.
func (s *URLSet) Add(urls ...string) {
	if len(urls) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = append(s.urls, urls...)
}

// Len returns the number of URLs collected so far.
func (s *URLSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}

// Snapshot returns a copy of the collected URLs.
func (s *URLSet) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.urls))
	copy(out, s.urls)
	return out
}
