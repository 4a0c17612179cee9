package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// Config holds the cache configuration, accepted at construction and not
// re-validated thereafter.
type Config struct {
	// TTL is the default time-to-live for entries.
	TTL time.Duration

	// MaxEntries caps the number of entries held at once.
	MaxEntries int
}

// DefaultConfig returns a safe default cache configuration.
func DefaultConfig() Config {
	return Config{
		TTL:        5 * time.Minute,
		MaxEntries: 1000,
	}
}

// entry is a single cached value with its expiry.
type entry struct {
	key       string
	value     interface{}
	expiresAt time.Time
}

// Store is a bounded key-value store with per-entry TTL and insertion-order
// eviction. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	cfg     Config
	entries map[string]*list.Element
	order   *list.List // front = oldest inserted
}

// NewStore creates an empty store with the given configuration.
func NewStore(cfg Config) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultConfig().MaxEntries
	}
	return &Store{
		cfg:     cfg,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the cached value for key. A stale entry counts as absent and
// is removed as a side effect of the lookup.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		cacheMisses.Inc()
		return nil, false
	}

	e := elem.Value.(*entry)
	if time.Now().After(e.expiresAt) {
		s.removeLocked(elem)
		cacheMisses.Inc()
		return nil, false
	}

	cacheHits.Inc()
	return e.value, true
}

// Set stores value under key with the default TTL.
func (s *Store) Set(key string, value interface{}) {
	s.SetWithTTL(key, value, s.cfg.TTL)
}

// SetWithTTL stores value under key with an explicit TTL. At capacity the
// single oldest-inserted entry is evicted first. Overwriting an existing key
// keeps its original insertion position.
func (s *Store) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.cfg.TTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		e := elem.Value.(*entry)
		e.value = value
		e.expiresAt = time.Now().Add(ttl)
		return
	}

	if s.order.Len() >= s.cfg.MaxEntries {
		if oldest := s.order.Front(); oldest != nil {
			s.removeLocked(oldest)
			cacheEvictions.Inc()
		}
	}

	elem := s.order.PushBack(&entry{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
	s.entries[key] = elem
	cacheSize.Set(float64(s.order.Len()))
}

// Invalidate removes entries matching pattern and reports how many were
// removed. An empty pattern clears everything. A pattern containing a single
// "*" removes every key carrying the literal text before it as a prefix and
// the text after it as a suffix; this is a deliberate shortcut, not a glob
// engine. Any other pattern is an exact key.
func (s *Store) Invalidate(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pattern == "" {
		n := s.order.Len()
		s.entries = make(map[string]*list.Element)
		s.order.Init()
		cacheSize.Set(0)
		cacheInvalidations.Add(float64(n))
		return n
	}

	star := strings.Index(pattern, "*")
	if star < 0 {
		if elem, ok := s.entries[pattern]; ok {
			s.removeLocked(elem)
			cacheInvalidations.Inc()
			return 1
		}
		return 0
	}

	prefix, suffix := pattern[:star], pattern[star+1:]
	removed := 0
	for elem := s.order.Front(); elem != nil; {
		next := elem.Next()
		key := elem.Value.(*entry).key
		if len(key) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(key, prefix) && strings.HasSuffix(key, suffix) {
			s.removeLocked(elem)
			removed++
		}
		elem = next
	}
	cacheInvalidations.Add(float64(removed))
	return removed
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.Invalidate("")
}

// Size returns the current number of entries, expired or not.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *Store) removeLocked(elem *list.Element) {
	e := elem.Value.(*entry)
	delete(s.entries, e.key)
	s.order.Remove(elem)
	cacheSize.Set(float64(s.order.Len()))
}
