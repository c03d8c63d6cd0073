package counters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prometheus/procfs"
	"github.com/vishvananda/netlink"

	"github.com/tinytelemetry/dropwatch/internal/model"
)

// ProcSource samples drop counters from procfs, sysfs, and the netlink qdisc
// statistics for one network interface.
type ProcSource struct {
	fs    procfs.FS
	proc  procfs.Proc
	iface string
	sysfs string
}

// NewProcSource opens procfs for the given interface. The interface itself is
// not validated here; see InterfaceExists.
func NewProcSource(iface string) (*ProcSource, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, fmt.Errorf("counters: mount procfs: %w", err)
	}
	proc, err := fs.Self()
	if err != nil {
		return nil, fmt.Errorf("counters: open self proc: %w", err)
	}
	return &ProcSource{
		fs:    fs,
		proc:  proc,
		iface: iface,
		sysfs: filepath.Join("/sys/class/net", iface, "statistics"),
	}, nil
}

// Sample reads every drop counter once. Counters whose backing file or stat is
// missing read as 0.
func (s *ProcSource) Sample(_ context.Context) model.CounterSet {
	var out model.CounterSet

	if dev, err := s.fs.NetDev(); err == nil {
		if line, ok := dev[s.iface]; ok {
			out[model.NICRxDropped] = line.RxDropped
			out[model.NICTxDropped] = line.TxDropped
		}
	}
	out[model.NICRxMissed] = readSysfsCounter(filepath.Join(s.sysfs, "rx_missed_errors"))
	out[model.QdiscDropped] = qdiscDrops(s.iface)

	if stats, err := s.fs.NetSoftnetStat(); err == nil {
		var dropped uint64
		for _, cpu := range stats {
			dropped += uint64(cpu.Dropped)
		}
		out[model.SoftirqDropped] = dropped
	}

	if netstat, err := s.proc.Netstat(); err == nil {
		out[model.SynQueueDropped] = statValue(netstat.TcpExt.ListenDrops)
		out[model.AcceptQueueOverflow] = statValue(netstat.TcpExt.ListenOverflows)
		out[model.TCPPruned] = statValue(netstat.TcpExt.PruneCalled)
		out[model.TCPCollapsed] = statValue(netstat.TcpExt.TCPRcvCollapsed)
	}

	if snmp, err := s.proc.Snmp(); err == nil {
		out[model.UDPRcvbufErrors] = statValue(snmp.Udp.RcvbufErrors)
		out[model.UDPSndbufErrors] = statValue(snmp.Udp.SndbufErrors)
	}

	return out
}

func statValue(v *float64) uint64 {
	if v == nil || *v < 0 {
		return 0
	}
	return uint64(*v)
}

// readSysfsCounter reads a one-integer sysfs statistics file.
func readSysfsCounter(path string) uint64 {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	n, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// qdiscDrops sums the drop counters across all queueing disciplines attached
// to the interface.
func qdiscDrops(iface string) uint64 {
	link, err := netlink.LinkByName(iface)
	if err != nil {
		return 0
	}
	qdiscs, err := netlink.QdiscList(link)
	if err != nil {
		return 0
	}
	var drops uint64
	for _, q := range qdiscs {
		if st := q.Attrs().Statistics; st != nil && st.Queue != nil {
			drops += uint64(st.Queue.Drops)
		}
	}
	return drops
}

// InterfaceExists reports whether the named network interface is present.
func InterfaceExists(name string) bool {
	_, err := netlink.LinkByName(name)
	return err == nil
}

// Bond describes bonding metadata for an interface that is a bond master.
type Bond struct {
	Mode   string
	Slaves []string
}

// BondInfo returns bonding metadata for the named interface, or nil when it is
// not a bond. The information is only used for startup text.
func BondInfo(name string) *Bond {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return nil
	}
	bond, ok := link.(*netlink.Bond)
	if !ok {
		return nil
	}
	info := &Bond{Mode: bond.Mode.String()}
	links, err := netlink.LinkList()
	if err != nil {
		return info
	}
	for _, l := range links {
		if l.Attrs().MasterIndex == bond.Attrs().Index {
			info.Slaves = append(info.Slaves, l.Attrs().Name)
		}
	}
	return info
}
