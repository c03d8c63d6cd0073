package model

import "time"

// Category identifies one drop counter. The declaration order is the canonical
// sampling, logging, and reporting order.
type Category int

const (
	NICRxDropped Category = iota
	NICTxDropped
	NICRxMissed
	QdiscDropped
	SoftirqDropped
	SynQueueDropped
	AcceptQueueOverflow
	TCPPruned
	TCPCollapsed
	UDPRcvbufErrors
	UDPSndbufErrors

	NumCategories
)

var categoryNames = [NumCategories]string{
	"nic_rx_dropped",
	"nic_tx_dropped",
	"nic_rx_missed",
	"qdisc_dropped",
	"softirq_dropped",
	"syn_queue_dropped",
	"accept_queue_overflow",
	"tcp_pruned",
	"tcp_collapsed",
	"udp_rcvbuf_errors",
	"udp_sndbuf_errors",
}

var categoryColumns = [NumCategories]string{
	"nic_rx",
	"nic_tx",
	"nic_missed",
	"qdisc",
	"softirq",
	"syn_queue",
	"accept_queue",
	"tcp_pruned",
	"tcp_collapsed",
	"udp_rcvbuf",
	"udp_sndbuf",
}

func (c Category) String() string {
	if c < 0 || c >= NumCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// Column returns the category's column name in the drop log header.
func (c Category) Column() string {
	if c < 0 || c >= NumCategories {
		return "unknown"
	}
	return categoryColumns[c]
}

// Categories returns every drop category in canonical order.
func Categories() []Category {
	out := make([]Category, NumCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// CounterSet holds one value per drop category, indexed by Category.
// Depending on context the values are absolute readings, per-interval deltas,
// or running totals.
type CounterSet [NumCategories]uint64

// Total returns the sum over all categories.
func (s CounterSet) Total() uint64 {
	var total uint64
	for _, v := range s {
		total += v
	}
	return total
}

// Sample is one absolute counter observation taken by a counter source.
type Sample struct {
	Timestamp time.Time
	Counters  CounterSet
}

// IntervalRecord is the result of one monitoring interval: clamped per-category
// deltas against the previous sample, their total, and the classified severity.
// Records are immutable once written to the drop log.
type IntervalRecord struct {
	Timestamp  time.Time
	Iteration  uint64
	Interface  string
	TotalDrops uint64
	Deltas     CounterSet
	Severity   Severity
}

// TimestampLayout is the wall-clock format used in the drop log and console output.
const TimestampLayout = "2006-01-02 15:04:05"
