package model

import "fmt"

// Severity is the coarse classification of one interval's total drop count.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarn
	SeverityCrit
)

func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "OK"
	case SeverityWarn:
		return "WARN"
	case SeverityCrit:
		return "CRIT"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a drop log severity field back to a Severity.
func ParseSeverity(text string) (Severity, error) {
	switch text {
	case "OK":
		return SeverityOK, nil
	case "WARN":
		return SeverityWarn, nil
	case "CRIT":
		return SeverityCrit, nil
	default:
		return SeverityOK, fmt.Errorf("unknown severity %q", text)
	}
}

// Classify maps an interval's total drop count to a severity. Zero drops is OK,
// anything below the threshold is WARN, the threshold and above is CRIT.
func Classify(total, threshold uint64) Severity {
	switch {
	case total == 0:
		return SeverityOK
	case total < threshold:
		return SeverityWarn
	default:
		return SeverityCrit
	}
}
