package fetcher

import (
	"sync"
	"time"
)

// Text store defaults.
const (
	DefaultStoreTTL        = 30 * time.Minute
	DefaultStoreMaxEntries = 256
)

// TextStoreConfig holds configuration for the text store.
type TextStoreConfig struct {
	// TTL is how long a fetched text stays usable (default: 30m).
	TTL time.Duration

	// MaxEntries caps the store size; the stalest entry is evicted when
	// full (default: 256).
	MaxEntries int

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// TextStore is an in-memory cache of fetched note text keyed by URL.
// It satisfies the text-cache lookup the resolver chain performs for
// URL-only parse requests. Safe for concurrent use.
type TextStore struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	entries    map[string]storeEntry
}

type storeEntry struct {
	text      string
	fetchedAt time.Time
}

// NewTextStore creates a text store from config, applying defaults.
func NewTextStore(cfg TextStoreConfig) *TextStore {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultStoreTTL
	}
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultStoreMaxEntries
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &TextStore{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        now,
		entries:    make(map[string]storeEntry),
	}
}

// Put records fetched text for a URL, evicting the stalest entry when
// the store is full.
func (s *TextStore) Put(url, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[url]; !exists && len(s.entries) >= s.maxEntries {
		s.evictStalest()
	}
	s.entries[url] = storeEntry{text: text, fetchedAt: s.now()}
}

// Get returns the cached text for a URL, when present and fresh.
func (s *TextStore) Get(url string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[url]
	if !ok {
		return "", false
	}
	if s.now().Sub(entry.fetchedAt) > s.ttl {
		delete(s.entries, url)
		return "", false
	}
	return entry.text, true
}

// Len returns the number of stored entries.
func (s *TextStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// evictStalest removes the oldest entry. Caller holds s.mu.
func (s *TextStore) evictStalest() {
	var stalest string
	var stalestAt time.Time
	for url, entry := range s.entries {
		if stalest == "" || entry.fetchedAt.Before(stalestAt) {
			stalest = url
			stalestAt = entry.fetchedAt
		}
	}
	if stalest != "" {
		delete(s.entries, stalest)
	}
}
