package app

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Profiler keeps CPU timings of named frame stages and per-frame counters.
// Stages print in the order they were first seen.
type Profiler struct {
	Scopes map[string]time.Duration
	Counts map[string]int
	Order  []string

	started map[string]time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:  make(map[string]time.Duration),
		Counts:  make(map[string]int),
		started: make(map[string]time.Time),
	}
}

func (p *Profiler) BeginScope(name string) {
	p.started[name] = time.Now()
	if !slices.Contains(p.Order, name) {
		p.Order = append(p.Order, name)
	}
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.started[name]; ok {
		p.Scopes[name] = time.Since(start)
		delete(p.started, name)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

// Reset zeroes timings and counters but keeps the stage order.
func (p *Profiler) Reset() {
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
	clear(p.Counts)
}

func (p *Profiler) String() string {
	var sb strings.Builder
	sb.WriteString("frame (CPU):\n")
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		fmt.Fprintf(&sb, "  %-10s %.2f ms\n", name, ms)
	}
	for _, k := range slices.Sorted(maps.Keys(p.Counts)) {
		fmt.Fprintf(&sb, "  %-10s %d\n", k, p.Counts[k])
	}
	return sb.String()
}
