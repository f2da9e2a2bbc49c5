package history

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var csvHeader = []string{"input", "result", "timestamp", "steps"}

// legacyTimestamp is the naive ISO-8601 layout written by older histories.
const legacyTimestamp = "2006-01-02T15:04:05.999999999"

func encodeCSV(w io.Writer, groups []Group) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, g := range groups {
		steps := g.Steps
		if steps == nil {
			steps = []Step{}
		}
		raw, err := json.Marshal(steps)
		if err != nil {
			return fmt.Errorf("encoding steps for %q: %w", g.Input, err)
		}

		record := []string{
			g.Input,
			strconv.FormatFloat(g.Result, 'g', -1, 64),
			g.Timestamp.Format(time.RFC3339Nano),
			string(raw),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func decodeCSV(r io.Reader) ([]Group, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range csvHeader[:3] {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing %q column", ErrCorrupt, required)
		}
	}
	stepsCol, hasSteps := cols["steps"]

	var groups []Group
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if len(record) != len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d", ErrCorrupt, line, len(record), len(header))
		}

		result, err := strconv.ParseFloat(record[cols["result"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid result %q", ErrCorrupt, line, record[cols["result"]])
		}
		ts, err := parseTimestamp(record[cols["timestamp"]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid timestamp %q", ErrCorrupt, line, record[cols["timestamp"]])
		}

		// Unreadable steps degrade to an empty trace rather than rejecting the file.
		steps := []Step{}
		if hasSteps {
			var decoded []Step
			if err := json.Unmarshal([]byte(record[stepsCol]), &decoded); err == nil && decoded != nil {
				steps = decoded
			}
		}

		groups = append(groups, Group{
			Input:     record[cols["input"]],
			Result:    result,
			Timestamp: ts,
			Steps:     steps,
		})
	}

	return groups, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	return time.ParseInLocation(legacyTimestamp, s, time.Local)
}

// CSVFile stores the primary history as a single CSV file.
type CSVFile struct {
	path string
}

// NewCSVFile returns a backend writing to path, creating its directory if needed.
func NewCSVFile(path string) (*CSVFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	return &CSVFile{path: path}, nil
}

func (f *CSVFile) Path() string {
	return f.path
}

func (f *CSVFile) Load(ctx context.Context) ([]Group, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return decodeCSV(file)
}

func (f *CSVFile) Save(ctx context.Context, groups []Group) error {
	return writeFileAtomic(f.path, func(w io.Writer) error {
		return encodeCSV(w, groups)
	})
}

func (f *CSVFile) Close() error {
	return nil
}

// writeFileAtomic writes to a temporary sibling of path and renames it into
// place, so readers see either the old or the new file.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if err := write(tmp); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
