package output

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/m3hr4nn/logboss/internal/model"
)

// ErrOutputWrite wraps every failure to create or write the result file.
var ErrOutputWrite = errors.New("output write failed")

// Header is the fixed CSV column layout.
var Header = []string{"timestamp", "command", "file_path", "log_line"}

// Format selects the result file encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSONL:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want csv or jsonl)", s)
	}
}

// Row returns the CSV fields of a record.
func Row(rec model.Record) []string {
	return []string{rec.Timestamp, rec.Command(), rec.Source, rec.Raw}
}

// WriteCSV writes the header and one row per record, quoting as needed.
func WriteCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(Row(rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSONL writes one JSON object per record.
func WriteJSONL(w io.Writer, records []model.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// Save writes records to path in the given format. Any failure, including
// on close, is wrapped with ErrOutputWrite; a partial file may remain.
func Save(path string, format Format, records []model.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrOutputWrite, cerr)
		}
	}()

	bw := bufio.NewWriterSize(f, 256<<10)
	switch format {
	case FormatJSONL:
		err = WriteJSONL(bw, records)
	default:
		err = WriteCSV(bw, records)
	}
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOutputWrite, path, err)
	}
	return nil
}
