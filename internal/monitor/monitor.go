// Package monitor owns the sampling baseline and turns absolute counter
// readings into per-interval drop records.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/tinytelemetry/dropwatch/internal/counters"
	"github.com/tinytelemetry/dropwatch/internal/model"
)

// Sink consumes finalized interval records.
type Sink func(rec *model.IntervalRecord) error

// Monitor holds the last-seen absolute counter sample and produces one record
// per tick. It is owned by a single sampling loop; only Snapshot is safe to
// call from other goroutines.
type Monitor struct {
	source    counters.Source
	iface     string
	threshold uint64

	baseline  model.CounterSet
	seeded    bool
	iteration uint64

	mu        sync.Mutex
	started   time.Time
	last      *model.IntervalRecord
	ticks     uint64
	dropTicks uint64
	totals    model.CounterSet
}

// New creates a monitor over the given counter source.
func New(source counters.Source, iface string, threshold uint64) *Monitor {
	return &Monitor{
		source:    source,
		iface:     iface,
		threshold: threshold,
		started:   time.Now(),
	}
}

// Tick takes one sample. The first call seeds the baseline and returns nil; every
// later call returns a record with per-category deltas clamped at zero (a counter
// that went backwards reset, its interval delta is 0) and the baseline advanced.
func (m *Monitor) Tick(ctx context.Context, now time.Time) *model.IntervalRecord {
	cur := m.source.Sample(ctx)
	if !m.seeded {
		m.baseline = cur
		m.seeded = true
		return nil
	}

	var deltas model.CounterSet
	for _, c := range model.Categories() {
		if cur[c] > m.baseline[c] {
			deltas[c] = cur[c] - m.baseline[c]
		}
	}
	total := deltas.Total()
	m.baseline = cur
	m.iteration++

	rec := &model.IntervalRecord{
		Timestamp:  now,
		Iteration:  m.iteration,
		Interface:  m.iface,
		TotalDrops: total,
		Deltas:     deltas,
		Severity:   model.Classify(total, m.threshold),
	}

	m.mu.Lock()
	m.last = rec
	m.ticks++
	if total > 0 {
		m.dropTicks++
	}
	for _, c := range model.Categories() {
		m.totals[c] += deltas[c]
	}
	m.mu.Unlock()

	return rec
}

// Run drives the sampling loop: one seeding sample, then one tick per interval
// until ctx is cancelled. The sleep starts after a tick's work completes, so a
// slow tick delays the next one rather than being caught up. A cancellation
// observed mid-tick takes effect only after that tick's sinks have run.
func (m *Monitor) Run(ctx context.Context, interval time.Duration, sinks ...Sink) error {
	m.Tick(ctx, time.Now())

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		rec := m.Tick(ctx, time.Now())
		for _, sink := range sinks {
			if err := sink(rec); err != nil {
				return err
			}
		}
		timer.Reset(interval)
	}
}

// Snapshot is a point-in-time view of the run for the status API.
type Snapshot struct {
	Started   time.Time
	Ticks     uint64
	DropTicks uint64
	Totals    model.CounterSet
	Last      *model.IntervalRecord
}

// Snapshot returns the current run state. Safe for concurrent use.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Started:   m.started,
		Ticks:     m.ticks,
		DropTicks: m.dropTicks,
		Totals:    m.totals,
		Last:      m.last,
	}
}
