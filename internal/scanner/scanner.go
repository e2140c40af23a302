package scanner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/m3hr4nn/logboss/internal/decode"
	"github.com/m3hr4nn/logboss/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Sink receives exactly one FileResult per scanned task.
// Report is called concurrently from worker goroutines.
type Sink interface {
	Report(result model.FileResult)
}

// Decoder yields the raw bytes of a task.
type Decoder interface {
	Decode(task model.FileTask) (*decode.Content, error)
}

// Extractor turns raw bytes into records.
type Extractor interface {
	Extract(data []byte, source string) []model.Record
}

// Scanner decodes and extracts files on a bounded pool of workers.
type Scanner struct {
	extractor Extractor
	decoder   Decoder
	workers   int
	log       zerolog.Logger
}

// New creates a Scanner. A non-positive worker count means runtime.NumCPU().
func New(extractor Extractor, decoder Decoder, workers int, log zerolog.Logger) *Scanner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Scanner{
		extractor: extractor,
		decoder:   decoder,
		workers:   workers,
		log:       log,
	}
}

// Workers returns the pool size.
func (s *Scanner) Workers() int {
	return s.workers
}

// Run scans every task and reports each outcome to sink. It returns once
// every task has reported. After ctx is cancelled, tasks that have not
// started are reported as failed with the context error; running tasks finish.
func (s *Scanner) Run(ctx context.Context, tasks []model.FileTask, sink Sink) {
	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			sink.Report(model.FileResult{Task: task, Err: err})
			continue
		}
		task := task
		g.Go(func() error {
			sink.Report(s.ScanFile(ctx, task))
			return nil
		})
	}

	_ = g.Wait()
}

// ScanFile decodes and extracts a single task. Failures, including panics,
// come back in the result rather than propagating.
func (s *Scanner) ScanFile(ctx context.Context, task model.FileTask) (result model.FileResult) {
	start := time.Now()
	result.Task = task

	defer func() {
		if r := recover(); r != nil {
			result.Records = nil
			result.Err = fmt.Errorf("panic scanning %s: %v", task.Path, r)
		}
		result.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	content, err := s.decoder.Decode(task)
	if err != nil {
		result.Err = err
		return result
	}
	defer content.Close()

	result.Records = s.extractor.Extract(content.Data, task.Path)

	s.log.Debug().
		Str("path", task.Path).
		Str("format", task.Format.String()).
		Bool("mapped", content.Mapped).
		Int("bytes", len(content.Data)).
		Int("records", len(result.Records)).
		Msg("file scanned")

	return result
}
