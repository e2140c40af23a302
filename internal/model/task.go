package model

import (
	"path/filepath"
	"strings"
	"time"
)

// Format is the compression format of a discovered file.
type Format int

const (
	FormatPlain Format = iota
	FormatGzip
	FormatBzip2
)

func (f Format) String() string {
	switch f {
	case FormatGzip:
		return "gzip"
	case FormatBzip2:
		return "bzip2"
	default:
		return "plain"
	}
}

// FormatFromPath resolves the format from the file extension alone.
// The boolean is false for extensions that are not scanned.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".log":
		return FormatPlain, true
	case ".gz":
		return FormatGzip, true
	case ".bz2":
		return FormatBzip2, true
	default:
		return FormatPlain, false
	}
}

// FileTask is one discovered file waiting to be scanned.
type FileTask struct {
	Path   string
	Format Format
	Size   int64 // on-disk size at discovery time
}

// FileResult is the single outcome reported for a FileTask.
type FileResult struct {
	Task     FileTask
	Records  []Record
	Err      error
	Duration time.Duration
}

// Failed reports whether the task ended with an error.
func (r FileResult) Failed() bool {
	return r.Err != nil
}
