package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Output appends WindowStats rows to a CSV file.
type Output struct {
	file          *os.File
	headerWritten bool
}

// NewOutput creates the CSV file at path. Returns nil if path is empty
// (output disabled); a nil Output accepts writes and does nothing.
func NewOutput(path string) (*Output, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	return &Output{file: f}, nil
}

// Write appends one row, writing the header before the first one.
func (o *Output) Write(stats WindowStats) error {
	if o == nil {
		return nil
	}
	records := []WindowStats{stats}
	if !o.headerWritten {
		if err := gocsv.Marshal(records, o.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		o.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, o.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (o *Output) Close() error {
	if o == nil {
		return nil
	}
	return o.file.Close()
}
