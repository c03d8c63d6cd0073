package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tinytelemetry/dropwatch/internal/counters"
	"github.com/tinytelemetry/dropwatch/internal/model"
)

func record(total uint64) *model.IntervalRecord {
	rec := &model.IntervalRecord{
		Timestamp:  time.Date(2026, 8, 30, 12, 0, 5, 0, time.Local),
		Iteration:  3,
		Interface:  "eth0",
		TotalDrops: total,
		Severity:   model.Classify(total, model.DefaultCritThreshold),
	}
	rec.Deltas[model.NICRxDropped] = total
	return rec
}

func TestIntervalSummaryLine(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Interval(record(12))

	out := buf.String()
	for _, want := range []string{"[2026-08-30 12:00:05]", "#3", "WARN", "total=12"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
	if !strings.Contains(out, "nic_rx_dropped:") || !strings.Contains(out, "12") {
		t.Errorf("breakdown missing nonzero category\n%s", out)
	}
	if strings.Contains(out, "nic_tx_dropped") {
		t.Errorf("breakdown lists a zero category\n%s", out)
	}
}

func TestIntervalZeroTotalHasNoBreakdown(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Interval(record(0))

	out := buf.String()
	if !strings.Contains(out, "OK") || !strings.Contains(out, "total=0") {
		t.Errorf("summary line wrong\n%s", out)
	}
	if lines := strings.Count(strings.TrimRight(out, "\n"), "\n"); lines != 0 {
		t.Errorf("zero-drop interval printed %d extra lines\n%s", lines, out)
	}
}

func TestBannerIncludesBondInfo(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Banner("bond0", 5*time.Second, "/tmp/drops.log",
		&counters.Bond{Mode: "802.3ad", Slaves: []string{"eth0", "eth1"}})

	out := buf.String()
	for _, want := range []string{"bond0", "5s", "/tmp/drops.log", "802.3ad", "eth0, eth1"} {
		if !strings.Contains(out, want) {
			t.Errorf("banner missing %q\n%s", want, out)
		}
	}
}
