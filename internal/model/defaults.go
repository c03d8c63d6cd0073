package model

import "time"

// Shared defaults used by both the monitor and analyzer binaries.
const (
	DefaultInterface     = "eth0"
	DefaultInterval      = 5 * time.Second
	DefaultLogPath       = "/var/log/network_drops.log"
	DefaultCritThreshold = 100
)
