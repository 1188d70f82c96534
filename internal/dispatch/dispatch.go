package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/johns/chatlens/internal/discover"
	"github.com/johns/chatlens/internal/record"
)

// Status classifies how one input file left the pipeline.
type Status int

const (
	StatusClassified Status = iota
	StatusFiltered
	StatusError
)

// Outcome is the per-file result a pipeline function hands back.
type Outcome struct {
	Record record.Record
	Status Status
}

// Func processes one input file end to end.
type Func func(ctx context.Context, f discover.InputFile) Outcome

// Result is the aggregate of one dispatcher run. Records holds kept
// records in completion order; filtered low-value stubs are counted but
// not carried forward.
type Result struct {
	Records    []record.Record
	Classified int
	Filtered   int
	Errors     int
}

// Total returns how many inputs the run accounted for. It always equals
// the number of files dispatched.
func (r Result) Total() int {
	return r.Classified + r.Filtered + r.Errors
}

// Dispatcher fans input files across a bounded pool of workers. Workers
// is the pool size; 1 means strictly sequential processing.
type Dispatcher struct {
	Workers int
	Logger  *slog.Logger

	// progressEvery is how many completions between progress lines.
	progressEvery int
	now           func() time.Time
}

func New(workers int, logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		Workers:       workers,
		Logger:        logger,
		progressEvery: 10,
		now:           time.Now,
	}
}

// Run processes every file and returns the combined result. A panic in
// fn is confined to its file and surfaces as an error-status record, so
// one malformed input cannot take down the batch.
func (d *Dispatcher) Run(ctx context.Context, files []discover.InputFile, fn Func) Result {
	if len(files) == 0 {
		return Result{Records: []record.Record{}}
	}

	start := d.now()
	outcomes := make(chan Outcome, len(files))
	jobs := make(chan discover.InputFile)

	var wg sync.WaitGroup
	for i := 0; i < d.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				outcomes <- d.runOne(ctx, f, fn)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, f := range files {
			select {
			case jobs <- f:
			case <-ctx.Done():
				// Remaining files become error records so the run still
				// accounts for every input.
				outcomes <- Outcome{
					Record: record.FileErrorStub(f.Name, ctx.Err()),
					Status: StatusError,
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	res := Result{Records: []record.Record{}}
	done := 0
	for out := range outcomes {
		done++
		switch out.Status {
		case StatusClassified:
			res.Classified++
			res.Records = append(res.Records, out.Record)
		case StatusFiltered:
			res.Filtered++
		case StatusError:
			res.Errors++
			res.Records = append(res.Records, out.Record)
		}

		if done%d.progressEvery == 0 || done == len(files) {
			d.logProgress(done, len(files), res, start)
		}
	}
	return res
}

// runOne isolates a single file, converting a worker panic into an error
// record rather than crashing the pool.
func (d *Dispatcher) runOne(ctx context.Context, f discover.InputFile, fn Func) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.Logger.Error("worker panic", "file", f.Name, "panic", r)
			out = Outcome{
				Record: record.FileErrorStub(f.Name, fmt.Errorf("panic: %v", r)),
				Status: StatusError,
			}
		}
	}()
	return fn(ctx, f)
}

func (d *Dispatcher) logProgress(done, total int, res Result, start time.Time) {
	elapsed := d.now().Sub(start)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(done) / elapsed.Minutes()
	}
	var eta time.Duration
	if rate > 0 {
		eta = time.Duration(float64(total-done) / rate * float64(time.Minute))
	}
	d.Logger.Info("progress",
		"done", done,
		"total", total,
		"classified", res.Classified,
		"filtered", res.Filtered,
		"errors", res.Errors,
		"rate_per_min", fmt.Sprintf("%.1f", rate),
		"eta", eta.Round(time.Second).String(),
	)
}
