package ingest

import (
	"context"
	"fmt"

	"github.com/rshade/ecoquest/internal/activity"
	"github.com/rshade/ecoquest/internal/batch"
	"github.com/rshade/ecoquest/internal/footprint"
	"github.com/rshade/ecoquest/internal/logging"
)

// Submitter is the part of activity.Service that Import needs.
type Submitter interface {
	Categories(ctx context.Context) ([]activity.Category, error)
	Submit(ctx context.Context, sess activity.Session, req activity.SubmitRequest) (activity.Submission, error)
}

// Options tune Import.
type Options struct {
	// BatchSize is the number of records per batch; 0 means batch.DefaultBatchSize.
	BatchSize int
	// Strict stops at the first failing record instead of skipping it.
	Strict bool
	// OnProgress is called after each batch.
	OnProgress batch.ProgressCallback
}

// RowError is a record that could not be imported. Row is 1-based.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"error"`

	err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Row, e.Message)
}

func (e RowError) Unwrap() error { return e.err }

// Summary totals an import.
type Summary struct {
	Total     int        `json:"total"`
	Imported  int        `json:"imported"`
	CarbonKg  float64    `json:"carbon_kg"`
	Points    int        `json:"points"`
	Defaulted int        `json:"records_with_defaults"`
	Failed    []RowError `json:"failed,omitempty"`
}

// Import submits records for sess in batches. Records that fail are listed
// in Summary.Failed unless opts.Strict is set, in which case the first
// failure is returned and later records are not submitted.
func Import(ctx context.Context, svc Submitter, sess activity.Session, records []Record, opts Options) (Summary, error) {
	sum := Summary{Total: len(records)}
	if len(records) == 0 {
		return sum, nil
	}
	if err := sess.Validate(); err != nil {
		return sum, err
	}

	proc := batch.NewProcessorWithDefaults[Record]()
	if opts.BatchSize != 0 {
		var err error
		if proc, err = batch.NewProcessor[Record](opts.BatchSize); err != nil {
			return sum, err
		}
	}
	proc.WithProgressCallback(opts.OnProgress)

	cats, err := svc.Categories(ctx)
	if err != nil {
		return sum, err
	}

	log := logging.FromContext(ctx)
	err = proc.Process(ctx, records, func(ctx context.Context, items []Record, batchIndex int) error {
		offset := batchIndex * proc.BatchSize()
		for i, rec := range items {
			sub, rowErr := submit(ctx, svc, sess, cats, rec)
			if rowErr != nil {
				re := RowError{Row: offset + i + 1, Message: rowErr.Error(), err: rowErr}
				if opts.Strict {
					return re
				}
				sum.Failed = append(sum.Failed, re)
				continue
			}
			sum.Imported++
			sum.CarbonKg = footprint.RoundKg(sum.CarbonKg + sub.Activity.CarbonKg)
			sum.Points += sub.Activity.Points
			if !sub.Report.Clean() {
				sum.Defaulted++
			}
		}
		log.Debug().Ctx(ctx).
			Str("component", "ingest").
			Int("batch", batchIndex).
			Int("imported", sum.Imported).
			Int("failed", len(sum.Failed)).
			Msg("batch imported")
		return nil
	})

	log.Info().Ctx(ctx).
		Str("component", "ingest").
		Str("user_id", sess.UserID).
		Int("total", sum.Total).
		Int("imported", sum.Imported).
		Int("failed", len(sum.Failed)).
		Msg("import finished")
	return sum, err
}

func submit(
	ctx context.Context, svc Submitter, sess activity.Session, cats []activity.Category, rec Record,
) (activity.Submission, error) {
	cat, err := activity.FindCategory(cats, string(rec.Category))
	if err != nil {
		return activity.Submission{}, err
	}
	return svc.Submit(ctx, sess, activity.SubmitRequest{
		CategoryID:   cat.ID,
		ActivityType: rec.ActivityType,
		Date:         rec.Date,
		Details:      rec.Details,
	})
}
