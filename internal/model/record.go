package model

import "strings"

// CommandDelimiter joins the matched commands of a record when serialized.
const CommandDelimiter = "|"

// Record represents a single log line that matched at least one command.
type Record struct {
	Timestamp string   `json:"timestamp"` // empty when no pattern matched
	Commands  []string `json:"commands"`  // unique, in first-seen order
	Source    string   `json:"file_path"` // originating file path
	Line      int      `json:"line"`      // 1-based line number in decoded content
	Raw       string   `json:"log_line"`  // original line text
}

// Command returns the matched commands joined with CommandDelimiter.
func (r Record) Command() string {
	return strings.Join(r.Commands, CommandDelimiter)
}
