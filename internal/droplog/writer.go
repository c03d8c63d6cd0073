// Package droplog persists interval records as a flat delimited log: one
// header row naming the columns, then one row per monitoring interval,
// append-only.
package droplog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tinytelemetry/dropwatch/internal/model"
)

const (
	defaultFileMode = 0644
	defaultDirMode  = 0755
)

// Columns is the drop log header row, in record field order.
var Columns = columns()

func columns() []string {
	out := []string{"timestamp", "iteration", "interface", "total_drops"}
	for _, c := range model.Categories() {
		out = append(out, c.Column())
	}
	return append(out, "severity")
}

// Writer appends one row per interval record to the drop log. The log is
// single-writer append-only; the header row is written only when the file is
// new or empty.
type Writer struct {
	path string
	file *os.File
	csv  *csv.Writer
}

// NewWriter creates or opens the drop log at path, creating parent directories
// as needed.
func NewWriter(path string) (*Writer, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("droplog: path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return nil, fmt.Errorf("droplog: mkdir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, defaultFileMode)
	if err != nil {
		return nil, fmt.Errorf("droplog: open: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("droplog: stat: %w", err)
	}

	w := &Writer{path: path, file: f, csv: csv.NewWriter(f)}
	if info.Size() == 0 {
		if err := w.writeRow(Columns); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("droplog: write header: %w", err)
		}
	}
	return w, nil
}

// Append persists one finalized interval record. Each row is flushed as soon
// as it is written.
func (w *Writer) Append(rec *model.IntervalRecord) error {
	if rec == nil {
		return errors.New("droplog: nil record")
	}

	row := make([]string, 0, len(Columns))
	row = append(row,
		rec.Timestamp.Format(model.TimestampLayout),
		strconv.FormatUint(rec.Iteration, 10),
		rec.Interface,
		strconv.FormatUint(rec.TotalDrops, 10),
	)
	for _, c := range model.Categories() {
		row = append(row, strconv.FormatUint(rec.Deltas[c], 10))
	}
	row = append(row, rec.Severity.String())

	if err := w.writeRow(row); err != nil {
		return fmt.Errorf("droplog: append row: %w", err)
	}
	return nil
}

func (w *Writer) writeRow(row []string) error {
	if err := w.csv.Write(row); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}

// Close closes the underlying log file.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
