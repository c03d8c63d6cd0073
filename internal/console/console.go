// Package console renders the monitor's terminal output.
package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/dropwatch/internal/counters"
	"github.com/tinytelemetry/dropwatch/internal/model"
)

var (
	ColorGreen  = lipgloss.Color("#44FF44")
	ColorOrange = lipgloss.Color("#FFAA00")
	ColorRed    = lipgloss.Color("#FF4444")
	ColorGray   = lipgloss.Color("#888888")
)

var severityStyles = map[model.Severity]lipgloss.Style{
	model.SeverityOK:   lipgloss.NewStyle().Foreground(ColorGreen).Bold(true),
	model.SeverityWarn: lipgloss.NewStyle().Foreground(ColorOrange).Bold(true),
	model.SeverityCrit: lipgloss.NewStyle().Foreground(ColorRed).Bold(true),
}

var dimStyle = lipgloss.NewStyle().Foreground(ColorGray)

// Reporter writes one summary line per interval plus an itemized breakdown of
// the categories that saw drops. It never modifies the records it renders.
type Reporter struct {
	out io.Writer
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Banner prints the startup text: what is monitored, how often, and where the
// log goes. Bond metadata is informational only.
func (r *Reporter) Banner(iface string, interval time.Duration, logPath string, bond *counters.Bond) {
	fmt.Fprintf(r.out, "Monitoring packet drops on %s every %s\n", iface, interval)
	fmt.Fprintf(r.out, "Logging to %s\n", logPath)
	if bond != nil {
		slaves := "none"
		if len(bond.Slaves) > 0 {
			slaves = strings.Join(bond.Slaves, ", ")
		}
		fmt.Fprintf(r.out, "Bond mode %s, slaves: %s\n", bond.Mode, slaves)
	}
	fmt.Fprintln(r.out)
}

// Interval prints the one-line summary for a record and, when the interval saw
// drops, one line per nonzero category in canonical order.
func (r *Reporter) Interval(rec *model.IntervalRecord) {
	label := severityStyles[rec.Severity].Render("● " + rec.Severity.String())
	fmt.Fprintf(r.out, "[%s] #%d %s  total=%d\n",
		rec.Timestamp.Format(model.TimestampLayout), rec.Iteration, label, rec.TotalDrops)
	if rec.TotalDrops == 0 {
		return
	}
	for _, c := range model.Categories() {
		if rec.Deltas[c] > 0 {
			fmt.Fprintf(r.out, "    %s %d\n", dimStyle.Render(c.String()+":"), rec.Deltas[c])
		}
	}
}

// Shutdown prints the exit notice after the loop has finished its last tick.
func (r *Reporter) Shutdown() {
	fmt.Fprintln(r.out, "\nMonitoring stopped.")
}
