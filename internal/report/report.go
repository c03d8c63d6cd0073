// Package report computes the analyzer's aggregate views over the drop log.
// Every report is an independent pass over the record stream; no state is
// shared between reports.
package report

import (
	"sort"

	"github.com/tinytelemetry/dropwatch/internal/droplog"
	"github.com/tinytelemetry/dropwatch/internal/model"
)

// Iterator streams drop log records in file order. Each invocation is an
// independent pass, so reports can consume the same log without sharing state.
type Iterator func(fn func(rec *model.IntervalRecord) error) error

// FromFile returns an iterator that re-reads the log at path on every pass.
func FromFile(path string) Iterator {
	return func(fn func(rec *model.IntervalRecord) error) error {
		return droplog.Each(path, fn)
	}
}

// FromRecords returns an iterator over an in-memory record slice.
func FromRecords(recs []*model.IntervalRecord) Iterator {
	return func(fn func(rec *model.IntervalRecord) error) error {
		for _, rec := range recs {
			if err := fn(rec); err != nil {
				return err
			}
		}
		return nil
	}
}

// Counts summarizes how many intervals were recorded and how many saw drops.
type Counts struct {
	Total int
	Drops int
}

// DropRate returns the percentage of intervals with drops. Zero when no
// intervals were recorded.
func (c Counts) DropRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return 100 * float64(c.Drops) / float64(c.Total)
}

// CountIntervals tallies total and drop intervals.
func CountIntervals(it Iterator) (Counts, error) {
	var c Counts
	err := it(func(rec *model.IntervalRecord) error {
		c.Total++
		if rec.TotalDrops > 0 {
			c.Drops++
		}
		return nil
	})
	if err != nil {
		return Counts{}, err
	}
	return c, nil
}

// CategoryTotals sums every per-category delta column.
func CategoryTotals(it Iterator) (model.CounterSet, error) {
	var totals model.CounterSet
	err := it(func(rec *model.IntervalRecord) error {
		for _, c := range model.Categories() {
			totals[c] += rec.Deltas[c]
		}
		return nil
	})
	if err != nil {
		return model.CounterSet{}, err
	}
	return totals, nil
}

// WorstInterval pairs a record's timestamp with its interval total.
type WorstInterval struct {
	Timestamp string
	Total     uint64
}

// WorstIntervals returns up to limit records with the highest totals, ordered
// by total descending with ties kept in file order.
func WorstIntervals(it Iterator, limit int) ([]WorstInterval, error) {
	var all []WorstInterval
	err := it(func(rec *model.IntervalRecord) error {
		all = append(all, WorstInterval{
			Timestamp: rec.Timestamp.Format(model.TimestampLayout),
			Total:     rec.TotalDrops,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Total > all[j].Total })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// HourTotal is one hour bucket's drop total.
type HourTotal struct {
	Hour  string
	Total uint64
}

// HourlyBreakdown sums interval totals per hour of the record timestamp,
// returned in ascending bucket order. Buckets are whole hours.
func HourlyBreakdown(it Iterator) ([]HourTotal, error) {
	buckets := make(map[string]uint64)
	err := it(func(rec *model.IntervalRecord) error {
		buckets[rec.Timestamp.Format("2006-01-02 15:00")] += rec.TotalDrops
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]HourTotal, 0, len(buckets))
	for hour, total := range buckets {
		out = append(out, HourTotal{Hour: hour, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out, nil
}

// RecentActivity returns the last limit records in original file order.
func RecentActivity(it Iterator, limit int) ([]*model.IntervalRecord, error) {
	var window []*model.IntervalRecord
	err := it(func(rec *model.IntervalRecord) error {
		window = append(window, rec)
		if len(window) > limit {
			window = window[1:]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return window, nil
}
