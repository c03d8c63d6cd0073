package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tinytelemetry/dropwatch/internal/model"
)

func rec(ts time.Time, iter uint64, rx uint64) *model.IntervalRecord {
	r := &model.IntervalRecord{
		Timestamp:  ts,
		Iteration:  iter,
		Interface:  "eth0",
		TotalDrops: rx,
		Severity:   model.Classify(rx, model.DefaultCritThreshold),
	}
	r.Deltas[model.NICRxDropped] = rx
	return r
}

func ts(hour, min, sec int) time.Time {
	return time.Date(2026, 8, 30, hour, min, sec, 0, time.Local)
}

// The worked end-to-end example: three intervals, threshold 100.
func exampleIterator() Iterator {
	return FromRecords([]*model.IntervalRecord{
		rec(ts(10, 0, 5), 1, 5),
		rec(ts(10, 0, 10), 2, 0),
		rec(ts(11, 30, 15), 3, 150),
	})
}

func TestCountIntervals(t *testing.T) {
	counts, err := CountIntervals(exampleIterator())
	if err != nil {
		t.Fatalf("CountIntervals: %v", err)
	}
	if counts.Total != 3 || counts.Drops != 2 {
		t.Errorf("counts = %d/%d, want 3/2", counts.Total, counts.Drops)
	}
	if got := fmt.Sprintf("%.2f", counts.DropRate()); got != "66.67" {
		t.Errorf("drop rate = %s, want 66.67", got)
	}
}

func TestDropRateExtremes(t *testing.T) {
	quiet := FromRecords([]*model.IntervalRecord{
		rec(ts(10, 0, 5), 1, 0),
		rec(ts(10, 0, 10), 2, 0),
	})
	counts, err := CountIntervals(quiet)
	if err != nil {
		t.Fatalf("CountIntervals: %v", err)
	}
	if counts.DropRate() != 0 {
		t.Errorf("all-quiet drop rate = %v, want 0", counts.DropRate())
	}

	noisy := FromRecords([]*model.IntervalRecord{
		rec(ts(10, 0, 5), 1, 1),
		rec(ts(10, 0, 10), 2, 9),
	})
	counts, err = CountIntervals(noisy)
	if err != nil {
		t.Fatalf("CountIntervals: %v", err)
	}
	if counts.DropRate() != 100 {
		t.Errorf("all-drop rate = %v, want 100", counts.DropRate())
	}

	var empty Counts
	if empty.DropRate() != 0 {
		t.Errorf("empty drop rate = %v, want 0", empty.DropRate())
	}
}

func TestCategoryTotals(t *testing.T) {
	totals, err := CategoryTotals(exampleIterator())
	if err != nil {
		t.Fatalf("CategoryTotals: %v", err)
	}
	if totals[model.NICRxDropped] != 155 {
		t.Errorf("nic_rx total = %d, want 155", totals[model.NICRxDropped])
	}
	if totals[model.SoftirqDropped] != 0 {
		t.Errorf("softirq total = %d, want 0", totals[model.SoftirqDropped])
	}
}

func TestCategoryTotalsOrderIndependent(t *testing.T) {
	records := []*model.IntervalRecord{
		rec(ts(10, 0, 5), 1, 5),
		rec(ts(10, 0, 10), 2, 0),
		rec(ts(11, 30, 15), 3, 150),
	}
	reversed := []*model.IntervalRecord{records[2], records[1], records[0]}

	a, err := CategoryTotals(FromRecords(records))
	if err != nil {
		t.Fatalf("CategoryTotals: %v", err)
	}
	b, err := CategoryTotals(FromRecords(reversed))
	if err != nil {
		t.Fatalf("CategoryTotals reversed: %v", err)
	}
	if a != b {
		t.Errorf("totals depend on row order: %v vs %v", a, b)
	}
}

func TestWorstIntervals(t *testing.T) {
	worst, err := WorstIntervals(exampleIterator(), WorstLimit)
	if err != nil {
		t.Fatalf("WorstIntervals: %v", err)
	}
	if len(worst) != 3 {
		t.Fatalf("worst has %d rows, want 3 (fewer records than limit)", len(worst))
	}
	if worst[0].Total != 150 || worst[0].Timestamp != "2026-08-30 11:30:15" {
		t.Errorf("worst #1 = %+v, want 150 drops at 11:30:15", worst[0])
	}
}

func TestWorstIntervalsLimitAndStableTies(t *testing.T) {
	var records []*model.IntervalRecord
	for i := 0; i < 15; i++ {
		// All the same total: file order must be preserved among ties.
		records = append(records, rec(ts(10, i, 0), uint64(i+1), 7))
	}
	worst, err := WorstIntervals(FromRecords(records), WorstLimit)
	if err != nil {
		t.Fatalf("WorstIntervals: %v", err)
	}
	if len(worst) != WorstLimit {
		t.Fatalf("worst has %d rows, want %d", len(worst), WorstLimit)
	}
	for i, wi := range worst {
		want := ts(10, i, 0).Format(model.TimestampLayout)
		if wi.Timestamp != want {
			t.Errorf("tie %d = %s, want %s (file order)", i, wi.Timestamp, want)
		}
	}
}

func TestWorstIntervalsEmpty(t *testing.T) {
	worst, err := WorstIntervals(FromRecords(nil), WorstLimit)
	if err != nil {
		t.Fatalf("WorstIntervals: %v", err)
	}
	if len(worst) != 0 {
		t.Errorf("worst on empty log has %d rows, want 0", len(worst))
	}
}

func TestHourlyBreakdown(t *testing.T) {
	hours, err := HourlyBreakdown(exampleIterator())
	if err != nil {
		t.Fatalf("HourlyBreakdown: %v", err)
	}
	if len(hours) != 2 {
		t.Fatalf("hours = %d buckets, want 2", len(hours))
	}
	if hours[0].Hour != "2026-08-30 10:00" || hours[0].Total != 5 {
		t.Errorf("bucket 0 = %+v, want 10:00 with 5", hours[0])
	}
	if hours[1].Hour != "2026-08-30 11:00" || hours[1].Total != 150 {
		t.Errorf("bucket 1 = %+v, want 11:00 with 150", hours[1])
	}
}

func TestRecentActivityWindow(t *testing.T) {
	var records []*model.IntervalRecord
	for i := 0; i < 25; i++ {
		records = append(records, rec(ts(10, 0, i), uint64(i+1), uint64(i)))
	}
	recent, err := RecentActivity(FromRecords(records), RecentLimit)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}
	if len(recent) != RecentLimit {
		t.Fatalf("recent has %d rows, want %d", len(recent), RecentLimit)
	}
	if recent[0].Iteration != 6 || recent[len(recent)-1].Iteration != 25 {
		t.Errorf("window = iterations %d..%d, want 6..25",
			recent[0].Iteration, recent[len(recent)-1].Iteration)
	}

	short, err := RecentActivity(exampleIterator(), RecentLimit)
	if err != nil {
		t.Fatalf("RecentActivity short: %v", err)
	}
	if len(short) != 3 {
		t.Errorf("short log window = %d rows, want all 3", len(short))
	}
}

func TestWriteRendersAllReports(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, exampleIterator()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"total intervals: 3",
		"drop intervals:  2",
		"drop rate:       66.67%",
		"nic_rx_dropped:        155",
		"2026-08-30 11:30:15: 150 drops",
		"2026-08-30 11:00: 150 drops",
		"CRIT",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report output missing %q\n%s", want, out)
		}
	}
}

func TestWriteEmptyLogOmitsDropRate(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FromRecords(nil)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "total intervals: 0") {
		t.Errorf("empty report missing zero total\n%s", out)
	}
	if strings.Contains(out, "drop rate") {
		t.Errorf("empty report must not print a drop rate\n%s", out)
	}
}
