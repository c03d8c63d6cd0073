package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/tinytelemetry/dropwatch/internal/model"
)

const (
	// WorstLimit is how many top intervals the worst-intervals report shows.
	WorstLimit = 10
	// RecentLimit is how many trailing records the recent-activity report shows.
	RecentLimit = 20
)

// Write renders all five reports to w, each computed in its own pass over it.
func Write(w io.Writer, it Iterator) error {
	if err := writeCounts(w, it); err != nil {
		return err
	}
	if err := writeCategoryTotals(w, it); err != nil {
		return err
	}
	if err := writeWorstIntervals(w, it); err != nil {
		return err
	}
	if err := writeHourlyBreakdown(w, it); err != nil {
		return err
	}
	return writeRecentActivity(w, it)
}

func writeCounts(w io.Writer, it Iterator) error {
	counts, err := CountIntervals(it)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "=== Intervals ===")
	fmt.Fprintf(w, "total intervals: %d\n", counts.Total)
	fmt.Fprintf(w, "drop intervals:  %d\n", counts.Drops)
	if counts.Total > 0 {
		fmt.Fprintf(w, "drop rate:       %.2f%%\n", counts.DropRate())
	}
	fmt.Fprintln(w)
	return nil
}

func writeCategoryTotals(w io.Writer, it Iterator) error {
	totals, err := CategoryTotals(it)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "=== Category totals ===")
	for _, c := range model.Categories() {
		fmt.Fprintf(w, "%-22s %d\n", c.String()+":", totals[c])
	}
	fmt.Fprintln(w)
	return nil
}

func writeWorstIntervals(w io.Writer, it Iterator) error {
	worst, err := WorstIntervals(it, WorstLimit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "=== Worst intervals ===")
	for i, wi := range worst {
		fmt.Fprintf(w, "%2d. %s: %d drops\n", i+1, wi.Timestamp, wi.Total)
	}
	fmt.Fprintln(w)
	return nil
}

func writeHourlyBreakdown(w io.Writer, it Iterator) error {
	hours, err := HourlyBreakdown(it)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "=== Hourly breakdown ===")
	for _, h := range hours {
		fmt.Fprintf(w, "%s: %d drops\n", h.Hour, h.Total)
	}
	fmt.Fprintln(w)
	return nil
}

func writeRecentActivity(w io.Writer, it Iterator) error {
	recent, err := RecentActivity(it, RecentLimit)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "=== Recent activity (last %d) ===\n", RecentLimit)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Timestamp", "Drops", "Severity"})
	for _, rec := range recent {
		table.Append([]string{
			rec.Timestamp.Format(model.TimestampLayout),
			strconv.FormatUint(rec.TotalDrops, 10),
			rec.Severity.String(),
		})
	}
	table.Render()
	return nil
}
