// Package cache keeps region reports between runs. Reports are held
// in a fixed-capacity LRU keyed by a content fingerprint and can be
// snapshotted to disk in msgpack form.
package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"

	"github.com/regionflow/regionflow/internal/report"
)

// Fingerprint keys a cached report by file path, span and file
// content. Any edit to the file changes the key, so a stale report
// can never be served for modified source.
func Fingerprint(path, span string, src []byte) string {
	buf := make([]byte, 0, len(path)+len(span)+len(src)+2)
	buf = append(buf, path...)
	buf = append(buf, 0)
	buf = append(buf, span...)
	buf = append(buf, 0)
	buf = append(buf, src...)
	sum := blake3.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits   int
	Misses int
	Size   int
}

// node is one entry in the recency list, most recent at the front.
type node struct {
	key    string
	result *report.Result
	prev   *node
	next   *node
}

// Store is an LRU of region reports. Capacity is a count of entries;
// zero or negative means unbounded. All methods are safe for
// concurrent use.
type Store struct {
	mu     sync.Mutex
	cap    int
	items  map[string]*node
	head   *node
	tail   *node
	hits   int
	misses int
}

// New returns an empty store holding at most capacity reports.
func New(capacity int) *Store {
	return &Store{
		cap:   capacity,
		items: make(map[string]*node),
	}
}

// Get returns the report stored under key, refreshing its recency.
func (s *Store) Get(key string) (*report.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.items[key]
	if !ok {
		s.misses++
		return nil, false
	}
	s.hits++
	s.moveToFront(n)
	return n.result, true
}

// Put stores r under key, evicting the least recently used report
// when the store is over capacity.
func (s *Store) Put(key string, r *report.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.items[key]; ok {
		n.result = r
		s.moveToFront(n)
		return
	}
	n := &node{key: key, result: r}
	s.items[key] = n
	s.pushFront(n)
	if s.cap > 0 && len(s.items) > s.cap {
		s.evictTail()
	}
}

// Len returns the number of stored reports.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Stats returns a snapshot of the hit and miss counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Hits: s.hits, Misses: s.misses, Size: len(s.items)}
}

func (s *Store) moveToFront(n *node) {
	if n == s.head {
		return
	}
	s.unlink(n)
	s.pushFront(n)
}

func (s *Store) pushFront(n *node) {
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
}

func (s *Store) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		s.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}

func (s *Store) evictTail() {
	n := s.tail
	if n == nil {
		return
	}
	s.unlink(n)
	delete(s.items, n.key)
}

// snapshot is the on-disk form, most recently used entry first.
type snapshot struct {
	Entries []entry `msgpack:"entries"`
}

type entry struct {
	Key    string         `msgpack:"key"`
	Result *report.Result `msgpack:"result"`
}

// Save writes the store to path, creating parent directories.
func (s *Store) Save(path string) error {
	s.mu.Lock()
	snap := snapshot{Entries: make([]entry, 0, len(s.items))}
	for n := s.head; n != nil; n = n.next {
		snap.Entries = append(snap.Entries, entry{Key: n.key, Result: n.result})
	}
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Load replaces the store contents with the snapshot at path. A
// missing file leaves the store empty and is not an error. Entries
// beyond capacity are dropped from the least recently used end.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading cache file: %w", err)
	}
	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding cache file %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*node, len(snap.Entries))
	s.head, s.tail = nil, nil
	for i := len(snap.Entries) - 1; i >= 0; i-- {
		e := snap.Entries[i]
		if s.cap > 0 && i >= s.cap {
			continue
		}
		n := &node{key: e.Key, result: e.Result}
		s.items[e.Key] = n
		s.pushFront(n)
	}
	return nil
}
