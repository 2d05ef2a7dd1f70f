package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// fakeClock is a manually advanced time source for TTL tests.
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.current }
func (c *fakeClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func TestManager_CreateDuplicateNameFails(t *testing.T) {
	m := NewManager()

	_, err := m.Create("results", 10, time.Minute)
	require.NoError(t, err)

	_, err = m.Create("results", 10, time.Minute)
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestManager_CreateRejectsZeroCapacity(t *testing.T) {
	m := NewManager()

	_, err := m.Create("results", 0, time.Minute)
	require.Error(t, err)
}

func TestInstance_GetMiss(t *testing.T) {
	m := NewManager()
	inst, err := m.Create("results", 10, time.Minute)
	require.NoError(t, err)

	_, ok := inst.Get("absent")
	require.False(t, ok)

	report := m.Diagnostics()
	require.Equal(t, uint64(1), report.Global.Misses)
	require.Equal(t, uint64(0), report.Global.Hits)
}

func TestInstance_SetThenGet(t *testing.T) {
	m := NewManager()
	inst, err := m.Create("results", 10, time.Minute)
	require.NoError(t, err)

	inst.Set("k", "v", 1)

	got, ok := inst.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", got)
}

func TestInstance_TTLExpiryCountsAsMiss(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(WithClock(clock.Now))
	inst, err := m.Create("results", 10, time.Minute)
	require.NoError(t, err)

	inst.Set("k", "v", 1)
	clock.Advance(2 * time.Minute)

	_, ok := inst.Get("k")
	require.False(t, ok, "entry past TTL should be a miss")
	require.Equal(t, 0, inst.Len(), "expired entry should be purged on access")

	report := m.Diagnostics()
	require.Equal(t, uint64(1), report.Global.Misses)
}

func TestInstance_EvictionPrefersExpiredOverStale(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(WithClock(clock.Now))
	inst, err := m.Create("results", 2, time.Minute)
	require.NoError(t, err)

	// "old" will be past its TTL; "stale" is fresh but least recently
	// used. With eviction count 1, "old" must go first.
	inst.Set("old", 1, 1)
	clock.Advance(90 * time.Second)
	inst.Set("stale", 2, 1)
	clock.Advance(time.Second)

	inst.Set("new", 3, 1)

	_, ok := inst.Get("stale")
	require.True(t, ok, "fresh-but-stale entry should survive")
	_, ok = inst.Get("old")
	require.False(t, ok, "expired entry should have been evicted first")
}

func TestInstance_EvictionUsesLRUAmongFresh(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(WithClock(clock.Now))
	inst, err := m.Create("results", 2, time.Hour)
	require.NoError(t, err)

	inst.Set("a", 1, 1)
	inst.Set("b", 2, 1)
	clock.Advance(time.Second)

	// Touch "a" so "b" becomes the LRU victim.
	_, ok := inst.Get("a")
	require.True(t, ok)
	clock.Advance(time.Second)

	inst.Set("c", 3, 1)

	_, ok = inst.Get("a")
	require.True(t, ok)
	_, ok = inst.Get("b")
	require.False(t, ok, "least-recently-used entry should be evicted")
}

func TestInstance_PassiveSweepRemovesExpired(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(WithClock(clock.Now))
	inst, err := m.Create("results", 10, time.Minute)
	require.NoError(t, err)

	inst.Set("a", 1, 1)
	inst.Set("b", 2, 1)

	// Past both the TTL and the sweep interval: a Get for an unrelated
	// key should sweep everything expired.
	clock.Advance(2 * time.Minute)
	_, _ = inst.Get("unrelated")

	require.Equal(t, 0, inst.Len())
}

func TestInstance_OverwriteDoesNotEvict(t *testing.T) {
	m := NewManager()
	inst, err := m.Create("results", 2, time.Minute)
	require.NoError(t, err)

	inst.Set("a", 1, 1)
	inst.Set("b", 2, 1)
	inst.Set("a", 10, 1)

	require.Equal(t, 2, inst.Len())
	got, ok := inst.Get("a")
	require.True(t, ok)
	require.Equal(t, 10, got)
}

func TestInstance_ClearResetsStats(t *testing.T) {
	m := NewManager()
	inst, err := m.Create("results", 10, time.Minute)
	require.NoError(t, err)

	inst.Set("k", "v", 8)
	_, _ = inst.Get("k")
	_, _ = inst.Get("absent")

	inst.Clear()

	require.Equal(t, 0, inst.Len())
	report := m.Diagnostics()
	require.Equal(t, uint64(0), report.Global.Hits)
	require.Equal(t, uint64(0), report.Global.Misses)
}

func TestManager_Diagnostics(t *testing.T) {
	m := NewManager()
	a, err := m.Create("alpha", 4, time.Minute)
	require.NoError(t, err)
	b, err := m.Create("beta", 10, time.Hour)
	require.NoError(t, err)

	a.Set("k1", "v", 100)
	a.Set("k2", "v", 50)
	_, _ = a.Get("k1")
	_, _ = a.Get("missing")
	b.Set("k", "v", 8)

	report := m.Diagnostics()
	require.Len(t, report.Instances, 2)
	require.Equal(t, "alpha", report.Instances[0].Name)
	require.Equal(t, 2, report.Instances[0].Entries)
	require.InDelta(t, 50.0, report.Instances[0].Utilization, 0.01)
	require.InDelta(t, 50.0, report.Instances[0].HitRate, 0.01)
	require.Equal(t, 150, report.Instances[0].MemoryHint)

	require.Equal(t, 3, report.Global.Entries)
	require.Equal(t, 158, report.Global.MemoryHint)
	require.False(t, report.Global.MemoryPressure)
}

func TestManager_MemoryPressureFlag(t *testing.T) {
	m := NewManager()
	inst, err := m.Create("tiny", 10, time.Hour)
	require.NoError(t, err)

	for n := 0; n < 9; n++ {
		inst.Set(fmt.Sprintf("k%d", n), n, 1)
	}

	report := m.Diagnostics()
	require.True(t, report.Global.MemoryPressure, "9/10 entries should exceed the 80%% threshold")
}

func TestManager_ClearAll(t *testing.T) {
	m := NewManager()
	a, err := m.Create("alpha", 4, time.Minute)
	require.NoError(t, err)
	b, err := m.Create("beta", 4, time.Minute)
	require.NoError(t, err)

	a.Set("k", "v", 1)
	b.Set("k", "v", 1)
	m.ClearAll()

	require.Equal(t, 0, a.Len())
	require.Equal(t, 0, b.Len())
}

func TestProperty_EntryCountNeverExceedsCapacity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 32).Draw(rt, "capacity")
		ops := rapid.IntRange(1, 200).Draw(rt, "ops")

		clock := newFakeClock()
		m := NewManager(WithClock(clock.Now))
		inst, err := m.Create("prop", capacity, time.Minute)
		require.NoError(rt, err)

		for n := 0; n < ops; n++ {
			key := rapid.StringMatching(`k[0-9]{1,2}`).Draw(rt, "key")
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0, 1:
				inst.Set(key, n, 1)
			case 2:
				_, _ = inst.Get(key)
			case 3:
				clock.Advance(time.Duration(rapid.IntRange(0, 30).Draw(rt, "advance")) * time.Second)
			}
			require.LessOrEqual(rt, inst.Len(), capacity,
				"entry count must never exceed capacity")
		}
	})
}
