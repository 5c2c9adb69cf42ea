package snmpdata

import (
	"sync"

	radix "github.com/armon/go-radix"
)

// Map is the parsed dump's read model: an ordered OID to Item mapping.
// Once Freeze is called the map is treated as immutable and shared by
// reference across every request a Responder handles; callers that build
// a Map incrementally (the loader) must call Freeze before sharing it.
type Map struct {
	mu     sync.RWMutex
	tree   *radix.Tree
	sorted []string // sorted OID keys, kept in step with tree for GetNext
	frozen bool
}

// NewMap creates an empty, mutable Map.
func NewMap() *Map {
	return &Map{
		tree:   radix.New(),
		sorted: make([]string, 0),
	}
}

// Insert adds or overwrites the item for oid. Later duplicates overwrite,
// matching the loader's "later duplicates overwrite" rule.
func (m *Map) Insert(oid OID, item *Item) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := oid.Key()
	if _, existed := m.tree.Get(key); !existed {
		m.sorted = append(m.sorted, key)
	}
	m.tree.Insert(key, item)
}

// Freeze sorts the key index once, after which Get/GetNext/Walk are safe
// for concurrent read-only use without further locking overhead beyond the
// RWMutex's read path.
func (m *Map) Freeze() {
	m.mu.Lock()
	defer m.mu.Unlock()

	sortOIDKeys(m.sorted)
	m.frozen = true
}

// Get returns the item stored for oid, or nil if absent.
func (m *Map) Get(oid OID) *Item {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.tree.Get(oid.Key())
	if !ok {
		return nil
	}
	return v.(*Item)
}

// GetNext returns the key and item of the smallest OID strictly greater
// than oid, or (nil, nil, false) if none exists.
func (m *Map) GetNext(oid OID) (OID, *Item, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	target := oid
	for _, key := range m.sorted {
		candidate, err := ParseOID(key)
		if err != nil {
			continue
		}
		if target.Less(candidate) {
			v, _ := m.tree.Get(key)
			return candidate, v.(*Item), true
		}
	}
	return nil, nil, false
}

// Len returns the number of entries in the map.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sorted)
}

// Walk visits every entry in ascending OID order, stopping early if fn
// returns false.
func (m *Map) Walk(fn func(oid OID, item *Item) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, key := range m.sorted {
		oid, err := ParseOID(key)
		if err != nil {
			continue
		}
		v, _ := m.tree.Get(key)
		if !fn(oid, v.(*Item)) {
			return
		}
	}
}

// sortOIDKeys sorts dotted OID key strings by numeric component order,
// in place, via a manual quicksort over the parsed components.
func sortOIDKeys(keys []string) {
	parsed := make([]OID, len(keys))
	for i, k := range keys {
		o, err := ParseOID(k)
		if err != nil {
			parsed[i] = OID{}
			continue
		}
		parsed[i] = o
	}
	quickSortOIDKeys(keys, parsed, 0, len(keys)-1)
}

func quickSortOIDKeys(keys []string, parsed []OID, low, high int) {
	if low < high {
		p := partitionOIDKeys(keys, parsed, low, high)
		quickSortOIDKeys(keys, parsed, low, p-1)
		quickSortOIDKeys(keys, parsed, p+1, high)
	}
}

func partitionOIDKeys(keys []string, parsed []OID, low, high int) int {
	pivot := parsed[high]
	i := low - 1
	for j := low; j < high; j++ {
		if parsed[j].Less(pivot) {
			i++
			keys[i], keys[j] = keys[j], keys[i]
			parsed[i], parsed[j] = parsed[j], parsed[i]
		}
	}
	keys[i+1], keys[high] = keys[high], keys[i+1]
	parsed[i+1], parsed[high] = parsed[high], parsed[i+1]
	return i + 1
}
