package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/bpvar-cli/internal/cohort"
	"github.com/KaramelBytes/bpvar-cli/internal/model"
	"github.com/KaramelBytes/bpvar-cli/internal/normalize"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Progress is reported after each finished patient.
type Progress struct {
	Done      int
	Total     int
	PatientID string
}

// Options are per-run hooks supplied by the host.
type Options struct {
	// Progress is called once per completed patient. Calls are serialised.
	Progress func(Progress)
}

// Result is the outcome of one run. RunID and Duration identify the run;
// everything else depends only on the input and the configuration.
type Result struct {
	RunID    string                  `json:"run_id"`
	Source   string                  `json:"source,omitempty"`
	Mapping  model.ColumnMapping     `json:"mapping"`
	Config   Config                  `json:"config"`
	RowsRead int                     `json:"rows_read"`
	Metrics  []model.PatientMetrics  `json:"patients"`
	Summary  model.CohortSummary     `json:"summary"`
	Skipped  []model.RowParseWarning `json:"skipped_rows"`
	Flags    []model.QualityFlag     `json:"quality_flags"`
	Duration time.Duration           `json:"duration"`
}

// Run validates cfg and mapping, normalises the table and analyses every
// patient. Structural problems return a *PipelineError wrapping a
// *model.ConfigurationError or *model.MappingError. Cancellation is not an
// error: the result is returned with Summary.Partial set and the unprocessed
// patients listed.
func Run(ctx context.Context, table model.Table, mapping model.ColumnMapping, cfg Config, log zerolog.Logger, opts Options) (*Result, error) {
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		return nil, &PipelineError{Phase: "config", Err: err}
	}
	if err := mapping.Validate(table.Headers); err != nil {
		return nil, &PipelineError{Phase: "mapping", Err: err}
	}

	log.Info().Str("source", table.Name).Int("rows", len(table.Rows)).Msg("normalizing")
	norm, err := normalize.Normalize(table, mapping, cfg.Normalize)
	if err != nil {
		return nil, &PipelineError{Phase: "normalize", Err: err}
	}
	log.Info().
		Int("patients", len(norm.Series)).
		Int("skipped_rows", norm.DroppedRows()).
		Int("flags", len(norm.Flags)).
		Int("excluded", len(norm.Excluded)).
		Msg("normalized")

	metrics, notProcessed := Execute(ctx, Units(norm.Series, cfg), cfg.Workers, opts.Progress)
	if len(notProcessed) > 0 {
		log.Warn().Int("not_processed", len(notProcessed)).Msg("run cancelled, returning partial result")
	}

	res := &Result{
		RunID:    uuid.NewString(),
		Source:   table.Name,
		Mapping:  mapping,
		Config:   cfg,
		RowsRead: norm.RowsRead,
		Metrics:  metrics,
		Summary:  cohort.Aggregate(metrics, norm.Excluded, notProcessed, norm.DroppedRows()),
		Skipped:  norm.Skipped,
		Flags:    norm.Flags,
	}
	res.Duration = time.Since(start)
	log.Info().
		Str("run_id", res.RunID).
		Int("analyzed", res.Summary.Analyzed).
		Bool("partial", res.Summary.Partial).
		Dur("elapsed", res.Duration).
		Msg("analysis complete")
	return res, nil
}

// Execute runs units with at most workers in flight. It returns the
// completed metrics sorted by patient id and the ids of units that never ran
// because ctx was cancelled.
func Execute(ctx context.Context, units []Unit, workers int, progress func(Progress)) ([]model.PatientMetrics, []string) {
	if workers < 1 {
		workers = 1
	}
	results := make([]model.PatientMetrics, len(units))
	done := make([]bool, len(units))

	var (
		mu       sync.Mutex
		finished int
	)
	var g errgroup.Group
	g.SetLimit(workers)
	for i, u := range units {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			m, err := u.Run(ctx)
			if err != nil {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			results[i], done[i] = m, true
			finished++
			if progress != nil {
				progress(Progress{Done: finished, Total: len(units), PatientID: u.PatientID})
			}
			return nil
		})
	}
	_ = g.Wait()

	var (
		out          []model.PatientMetrics
		notProcessed []string
	)
	for i, u := range units {
		if done[i] {
			out = append(out, results[i])
		} else {
			notProcessed = append(notProcessed, u.PatientID)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PatientID < out[j].PatientID })
	sort.Strings(notProcessed)
	return out, notProcessed
}
