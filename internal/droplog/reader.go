package droplog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/tinytelemetry/dropwatch/internal/model"
)

// Each re-reads the drop log at path and calls fn for every data row in file
// order. The header row is skipped. A malformed or partially written trailing
// row ends the pass without error, which keeps repeated passes deterministic
// while a monitor may have crashed mid-append.
func Each(path string, fn func(rec *model.IntervalRecord) error) error {
	if fn == nil {
		return errors.New("droplog: nil callback")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("droplog: open: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	first := true
	for {
		row, rerr := r.Read()
		if errors.Is(rerr, io.EOF) {
			return nil
		}
		if rerr != nil {
			// Stop at the first unreadable row.
			return nil
		}
		if first {
			first = false
			if len(row) > 0 && row[0] == Columns[0] {
				continue
			}
		}
		rec, perr := parseRow(row)
		if perr != nil {
			return nil
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// ReadAll returns every data row currently in the log, in file order.
func ReadAll(path string) ([]*model.IntervalRecord, error) {
	var out []*model.IntervalRecord
	err := Each(path, func(rec *model.IntervalRecord) error {
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func parseRow(row []string) (*model.IntervalRecord, error) {
	if len(row) != len(Columns) {
		return nil, fmt.Errorf("droplog: row has %d fields, want %d", len(row), len(Columns))
	}

	ts, err := time.ParseInLocation(model.TimestampLayout, row[0], time.Local)
	if err != nil {
		return nil, fmt.Errorf("droplog: parse timestamp: %w", err)
	}
	iteration, err := strconv.ParseUint(row[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("droplog: parse iteration: %w", err)
	}
	total, err := strconv.ParseUint(row[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("droplog: parse total: %w", err)
	}

	rec := &model.IntervalRecord{
		Timestamp:  ts,
		Iteration:  iteration,
		Interface:  row[2],
		TotalDrops: total,
	}
	for i, c := range model.Categories() {
		v, err := strconv.ParseUint(row[4+i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("droplog: parse %s: %w", c.Column(), err)
		}
		rec.Deltas[c] = v
	}
	sev, err := model.ParseSeverity(row[len(row)-1])
	if err != nil {
		return nil, fmt.Errorf("droplog: %w", err)
	}
	rec.Severity = sev
	return rec, nil
}
