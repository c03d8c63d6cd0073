// Package counters reads the kernel's packet-drop counters.
package counters

import (
	"context"

	"github.com/tinytelemetry/dropwatch/internal/model"
)

// Source produces one absolute reading of every drop counter. Implementations
// never fail: a counter whose backing data is unavailable or unparseable reads
// as 0.
type Source interface {
	Sample(ctx context.Context) model.CounterSet
}
