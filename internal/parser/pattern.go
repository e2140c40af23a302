package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidConfiguration is returned when no usable command pattern can be built.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// DefaultCommands is used when the configured command set is empty.
var DefaultCommands = []string{"systemctl", "reboot", "shutdown"}

// TimestampPatterns are tried in order; the first match wins.
// Group 1 of each pattern is the timestamp text.
var TimestampPatterns = []*regexp.Regexp{
	// ISO-8601-like: 2023-05-01T10:00:00Z, 2023-05-01 10:00:00.123+02:00
	regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?)\b`),
	// syslog: Jan  2 03:04:05
	regexp.MustCompile(`\b([A-Z][a-z]{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})\b`),
	// slash date: 5/1/2023 10:00:00
	regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4}\s+\d{2}:\d{2}:\d{2})\b`),
}

// CommandPattern is the compiled, case-insensitive whole-word matcher
// for the configured command tokens.
type CommandPattern struct {
	re       *regexp.Regexp
	commands []string
}

// CompileCommands builds a CommandPattern from raw command strings.
// Blank entries are ignored and an empty set falls back to DefaultCommands.
func CompileCommands(commands []string) (*CommandPattern, error) {
	tokens := make([]string, 0, len(commands))
	for _, c := range commands {
		if c = strings.TrimSpace(c); c != "" {
			tokens = append(tokens, c)
		}
	}
	if len(tokens) == 0 {
		tokens = append(tokens, DefaultCommands...)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no commands configured", ErrInvalidConfiguration)
	}

	escaped := make([]string, len(tokens))
	for i, t := range tokens {
		escaped[i] = regexp.QuoteMeta(t)
	}

	re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(escaped, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return &CommandPattern{re: re, commands: tokens}, nil
}

// Commands returns the tokens the pattern was built from.
func (p *CommandPattern) Commands() []string {
	out := make([]string, len(p.commands))
	copy(out, p.commands)
	return out
}

// String returns the regular expression source.
func (p *CommandPattern) String() string {
	return p.re.String()
}

// MatchString reports whether s contains any command as a whole word.
func (p *CommandPattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}

// extractTimestamp returns the first timestamp found in line, or nil.
func extractTimestamp(line []byte) []byte {
	for _, re := range TimestampPatterns {
		if m := re.FindSubmatch(line); m != nil {
			return m[1]
		}
	}
	return nil
}
