package cache

import "sort"

// InstanceReport is a point-in-time snapshot of a single instance.
type InstanceReport struct {
	Name        string
	Entries     int
	MaxEntries  int
	Utilization float64 // percent of capacity in use
	HitRate     float64 // percent of lookups served from cache
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	MemoryHint  int // sum of size hints, in bytes
	TTLSeconds  float64
}

// GlobalReport rolls all instances up.
type GlobalReport struct {
	Instances      int
	Entries        int
	MaxEntries     int
	Hits           uint64
	Misses         uint64
	Evictions      uint64
	HitRate        float64
	MemoryHint     int
	MemoryPressure bool // aggregate entries exceed 80% of aggregate capacity
}

// Report is the full diagnostics snapshot, consumable by operational
// tooling. It is never persisted.
type Report struct {
	Instances []InstanceReport
	Global    GlobalReport
}

// Diagnostics snapshots every instance plus a global rollup, sorted by
// instance name for stable output.
func (m *Manager) Diagnostics() Report {
	m.mu.Lock()
	instances := make([]*Instance, 0, len(m.instances))
	for _, inst := range m.instances {
		instances = append(instances, inst)
	}
	m.mu.Unlock()

	report := Report{Instances: make([]InstanceReport, 0, len(instances))}
	for _, inst := range instances {
		report.Instances = append(report.Instances, inst.report())
	}
	sort.Slice(report.Instances, func(a, b int) bool {
		return report.Instances[a].Name < report.Instances[b].Name
	})

	g := &report.Global
	g.Instances = len(report.Instances)
	for _, ir := range report.Instances {
		g.Entries += ir.Entries
		g.MaxEntries += ir.MaxEntries
		g.Hits += ir.Hits
		g.Misses += ir.Misses
		g.Evictions += ir.Evictions
		g.MemoryHint += ir.MemoryHint
	}
	g.HitRate = hitRate(g.Hits, g.Misses)
	if g.MaxEntries > 0 {
		g.MemoryPressure = float64(g.Entries) > memoryPressureThreshold*float64(g.MaxEntries)
	}
	return report
}

func (i *Instance) report() InstanceReport {
	i.mu.Lock()
	defer i.mu.Unlock()

	ir := InstanceReport{
		Name:       i.name,
		Entries:    len(i.entries),
		MaxEntries: i.maxEntries,
		Hits:       i.hits,
		Misses:     i.misses,
		Evictions:  i.evictions,
		TTLSeconds: i.ttl.Seconds(),
	}
	for _, e := range i.entries {
		ir.MemoryHint += e.sizeHint
	}
	if i.maxEntries > 0 {
		ir.Utilization = 100 * float64(len(i.entries)) / float64(i.maxEntries)
	}
	ir.HitRate = hitRate(i.hits, i.misses)
	return ir
}

func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return 100 * float64(hits) / float64(total)
}
