package parser

import (
	"bytes"
	"unicode/utf8"

	"github.com/m3hr4nn/logboss/internal/model"
	"golang.org/x/text/encoding/unicode"
)

// Extractor turns the decoded bytes of one file into Records.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	pattern *CommandPattern
}

// NewExtractor returns an Extractor for the given command pattern.
func NewExtractor(p *CommandPattern) *Extractor {
	return &Extractor{pattern: p}
}

// Extract scans data once for command matches and emits one Record per
// distinct matching line, in file order.
func (e *Extractor) Extract(data []byte, source string) []model.Record {
	if len(data) == 0 {
		return nil
	}

	locs := e.pattern.re.FindAllIndex(data, -1)
	if len(locs) == 0 {
		return nil
	}

	var (
		records []model.Record
		next    int // first byte after the last emitted line
		counted int // newlines before this offset are already in lineNo
		lineNo  = 1
	)

	for _, loc := range locs {
		// Another hit on a line we already emitted.
		if loc[0] < next {
			continue
		}

		start := bytes.LastIndexByte(data[:loc[0]], '\n') + 1
		end := len(data)
		if i := bytes.IndexByte(data[loc[1]:], '\n'); i >= 0 {
			end = loc[1] + i
		}

		lineNo += bytes.Count(data[counted:start], []byte{'\n'})
		counted = start
		next = end + 1

		if rec, ok := e.buildRecord(data[start:end], source, lineNo); ok {
			records = append(records, rec)
		}
	}

	return records
}

// buildRecord re-scans a recovered line for every command and its timestamp.
func (e *Extractor) buildRecord(line []byte, source string, lineNo int) (model.Record, bool) {
	line = bytes.TrimRight(line, "\r\n")

	matches := e.pattern.re.FindAll(line, -1)
	if len(matches) == 0 {
		return model.Record{}, false
	}

	seen := make(map[string]struct{}, len(matches))
	commands := make([]string, 0, len(matches))
	for _, m := range matches {
		cmd := toText(m)
		if _, dup := seen[cmd]; dup {
			continue
		}
		seen[cmd] = struct{}{}
		commands = append(commands, cmd)
	}

	return model.Record{
		Timestamp: toText(extractTimestamp(line)),
		Commands:  commands,
		Source:    source,
		Line:      lineNo,
		Raw:       toText(line),
	}, true
}

// toText converts raw bytes to a string, replacing invalid UTF-8 with U+FFFD.
func toText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte(string(utf8.RuneError))))
	}
	return string(out)
}
