package aggregator

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m3hr4nn/logboss/internal/model"
	"github.com/rs/zerolog"
)

// Publisher receives a Progress event each time a file reports.
// Publish must not block.
type Publisher interface {
	Publish(p model.Progress)
}

// Aggregator is the single owner of merged records and run counters.
// Workers call Report concurrently.
type Aggregator struct {
	mu       sync.RWMutex
	runID    string
	start    time.Time
	finished time.Time
	total    int
	scanned  int
	failed   int
	records  []model.Record
	failures []model.Failure
	pub      Publisher
	log      zerolog.Logger
}

// New creates an Aggregator expecting total file reports.
// pub may be nil when no live progress is wanted.
func New(total int, pub Publisher, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		runID: uuid.NewString(),
		start: time.Now(),
		total: total,
		pub:   pub,
		log:   log,
	}
}

// Report merges one file outcome.
func (a *Aggregator) Report(r model.FileResult) {
	a.mu.Lock()
	if r.Failed() {
		a.failed++
		a.failures = append(a.failures, model.Failure{Path: r.Task.Path, Error: r.Err.Error()})
	} else {
		a.scanned++
		a.records = append(a.records, r.Records...)
	}
	completed := a.scanned + a.failed
	if completed == a.total {
		a.finished = time.Now()
	}
	progress := model.Progress{
		Path:      r.Task.Path,
		Records:   len(r.Records),
		Completed: completed,
		Total:     a.total,
		Found:     len(a.records),
		Elapsed:   time.Since(a.start),
	}
	a.mu.Unlock()

	if r.Failed() {
		progress.Err = r.Err.Error()
		a.log.Warn().Err(r.Err).Str("path", r.Task.Path).Msg("file failed")
	}

	if a.pub != nil {
		a.pub.Publish(progress)
	}
}

// Snapshot returns the current counters. Elapsed stops once every file reported.
func (a *Aggregator) Snapshot() model.Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()

	elapsed := time.Since(a.start)
	if !a.finished.IsZero() {
		elapsed = a.finished.Sub(a.start)
	}

	failures := make([]model.Failure, len(a.failures))
	copy(failures, a.failures)

	return model.Summary{
		RunID:      a.runID,
		Discovered: a.total,
		Scanned:    a.scanned,
		Failed:     a.failed,
		Records:    len(a.records),
		Elapsed:    elapsed,
		Failures:   failures,
	}
}

// Records returns a copy of the merged records in report order.
func (a *Aggregator) Records() []model.Record {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]model.Record, len(a.records))
	copy(out, a.records)
	return out
}

// SortRecords orders records by source path, then line number.
func SortRecords(records []model.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Source != records[j].Source {
			return records[i].Source < records[j].Source
		}
		return records[i].Line < records[j].Line
	})
}
