package model

import "time"

// Failure records a file that could not be scanned.
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Summary describes one scan run.
type Summary struct {
	RunID      string        `json:"run_id"`
	Discovered int           `json:"files_discovered"`
	Scanned    int           `json:"files_scanned"`
	Failed     int           `json:"files_failed"`
	Records    int           `json:"records"`
	Elapsed    time.Duration `json:"elapsed"`
	Failures   []Failure     `json:"failures,omitempty"`
}

// Completed is the number of files that reported an outcome so far.
func (s Summary) Completed() int {
	return s.Scanned + s.Failed
}

// Done reports whether every discovered file has reported.
func (s Summary) Done() bool {
	return s.Completed() >= s.Discovered
}

// Progress is published each time a file finishes.
type Progress struct {
	Path      string        `json:"path"`
	Records   int           `json:"records"`
	Err       string        `json:"error,omitempty"`
	Completed int           `json:"completed"`
	Total     int           `json:"total"`
	Found     int           `json:"found"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Percent returns completion as a percentage of Total.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Completed) / float64(p.Total) * 100
}
