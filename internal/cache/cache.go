// Package cache implements a keyed in-memory store with hybrid
// LRU+TTL eviction. A Manager owns any number of named, independently
// sized instances and aggregates hit/miss statistics across them.
//
// Eviction order is exact: TTL-expired entries go first regardless of
// recency, then strictly least-recently-accessed among the rest. When
// an instance is at capacity a Set evicts 20% of its entries before
// inserting. Expired entries are additionally purged by a lazy sweep
// piggybacked on Get once a passive-cleanup interval has elapsed;
// there is no background goroutine.
package cache

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrDuplicateName is returned by Create when an instance with the
// requested name already exists. Duplicate names error rather than
// silently replacing: replacement would discard live entries and
// statistics with no signal to the first owner.
var ErrDuplicateName = errors.New("cache: duplicate instance name")

// evictFraction is the share of entries removed when a full instance
// receives a Set.
const evictFraction = 0.20

// defaultSweepInterval bounds how often Get performs a passive
// TTL sweep over the whole instance.
const defaultSweepInterval = 30 * time.Second

// memoryPressureThreshold is the aggregate utilization above which
// Diagnostics raises the memory-pressure flag.
const memoryPressureThreshold = 0.80

type entry struct {
	value      any
	createdAt  time.Time
	lastAccess time.Time
	sizeHint   int
}

// Instance is a single named store. All mutations are serialized by
// an internal mutex so instances stay safe if the engine is ever
// driven concurrently.
type Instance struct {
	mu         sync.Mutex
	name       string
	maxEntries int
	ttl        time.Duration
	entries    map[string]*entry

	hits      uint64
	misses    uint64
	evictions uint64

	lastSweep     time.Time
	sweepInterval time.Duration

	now func() time.Time
}

// Manager owns named cache instances and rolls their statistics up
// into a global view. It is an explicit, passed-around object so that
// multiple engines or test harnesses run in isolation.
type Manager struct {
	mu        sync.Mutex
	instances map[string]*Instance
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock substitutes the time source. Tests use this to advance
// time past TTLs deterministically.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		instances: make(map[string]*Instance),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create registers a new named instance with its own capacity and TTL.
// Returns ErrDuplicateName if the name is already taken.
func (m *Manager) Create(name string, maxEntries int, ttl time.Duration) (*Instance, error) {
	if maxEntries < 1 {
		return nil, fmt.Errorf("cache: instance %q: maxEntries must be >= 1, got %d", name, maxEntries)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.instances[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	inst := &Instance{
		name:          name,
		maxEntries:    maxEntries,
		ttl:           ttl,
		entries:       make(map[string]*entry),
		sweepInterval: defaultSweepInterval,
		lastSweep:     m.now(),
		now:           m.now,
	}
	m.instances[name] = inst
	return inst, nil
}

// Instance returns a previously created instance by name.
func (m *Manager) Instance(name string) (*Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[name]
	return inst, ok
}

// ClearAll empties every instance and resets its statistics.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inst := range m.instances {
		inst.Clear()
	}
}

// Name returns the instance name.
func (i *Instance) Name() string { return i.name }

// Len returns the current entry count.
func (i *Instance) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.entries)
}

// Get returns the stored value for key, treating TTL-expired entries
// as misses (and purging them). Hits refresh the entry's last-access
// time for LRU bookkeeping. If more than the sweep interval has
// elapsed since the last passive cleanup, all expired entries are
// removed before the lookup proceeds.
func (i *Instance) Get(key string) (any, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastSweep) > i.sweepInterval {
		i.sweepLocked(now)
	}

	e, ok := i.entries[key]
	if !ok {
		i.misses++
		return nil, false
	}
	if now.Sub(e.createdAt) > i.ttl {
		delete(i.entries, key)
		i.misses++
		return nil, false
	}

	e.lastAccess = now
	i.hits++
	return e.value, true
}

// Set inserts or overwrites an entry. A full instance evicts 20% of
// its entries first, expired entries before least-recently-used ones.
func (i *Instance) Set(key string, value any, sizeHint int) {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if _, exists := i.entries[key]; !exists && len(i.entries) >= i.maxEntries {
		i.evictLocked(now)
	}

	i.entries[key] = &entry{
		value:      value,
		createdAt:  now,
		lastAccess: now,
		sizeHint:   sizeHint,
	}
}

// Delete removes a single entry if present.
func (i *Instance) Delete(key string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.entries, key)
}

// Clear empties the instance and resets its statistics.
func (i *Instance) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = make(map[string]*entry)
	i.hits = 0
	i.misses = 0
	i.evictions = 0
	i.lastSweep = i.now()
}

// sweepLocked removes every TTL-expired entry. Caller holds i.mu.
func (i *Instance) sweepLocked(now time.Time) {
	for key, e := range i.entries {
		if now.Sub(e.createdAt) > i.ttl {
			delete(i.entries, key)
			i.evictions++
		}
	}
	i.lastSweep = now
}

// evictLocked removes evictFraction of the entries, expired first and
// then least-recently-accessed. Caller holds i.mu.
func (i *Instance) evictLocked(now time.Time) {
	type candidate struct {
		key     string
		expired bool
		idle    time.Duration
	}

	candidates := make([]candidate, 0, len(i.entries))
	for key, e := range i.entries {
		candidates = append(candidates, candidate{
			key:     key,
			expired: now.Sub(e.createdAt) > i.ttl,
			idle:    now.Sub(e.lastAccess),
		})
	}

	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].expired != candidates[b].expired {
			return candidates[a].expired
		}
		return candidates[a].idle > candidates[b].idle
	})

	count := int(float64(len(candidates)) * evictFraction)
	if count < 1 {
		count = 1
	}
	for _, c := range candidates[:count] {
		delete(i.entries, c.key)
		i.evictions++
	}
}
