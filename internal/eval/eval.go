// Package eval runs a prediction module over a held-out example set and
// aggregates exact-match accuracy.
package eval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/halvard/nertune/internal/prompt"
	"github.com/halvard/nertune/shared/id"
)

// Predictor maps input tokens to a raw prediction. Implementations must be
// safe for concurrent calls: the harness invokes them from a bounded worker
// pool with no ordering guarantee between examples.
type Predictor interface {
	Process(ctx context.Context, inputs map[string]any) (map[string]any, error)
}

// Options configures an evaluation run.
type Options struct {
	// Concurrency bounds parallel prediction calls. Values below 1 run
	// sequentially.
	Concurrency int
}

// Row is the per-example outcome of an evaluation.
type Row struct {
	Index     int           `json:"index"`
	Tokens    []string      `json:"tokens"`
	Gold      []string      `json:"gold"`
	Predicted []string      `json:"predicted"`
	Score     float64       `json:"score"`
	Err       string        `json:"error,omitempty"`
	Latency   time.Duration `json:"latency"`
}

// Report aggregates an evaluation: mean of per-example scores plus the
// detailed per-example table.
type Report struct {
	ID       string        `json:"id"`
	Total    int           `json:"total"`
	Correct  int           `json:"correct"`
	Accuracy float64       `json:"accuracy"`
	Rows     []Row         `json:"rows"`
	Duration time.Duration `json:"duration"`
}

// Evaluate runs the predictor once per example, scores each prediction with
// the metric, and reports mean accuracy in [0,1]. Individual prediction
// failures (transport errors, malformed output) are isolated: the example
// scores zero and the run continues. Only context cancellation aborts a run.
func Evaluate(ctx context.Context, p Predictor, devset []prompt.Example, metric prompt.Metric, opts Options) (*Report, error) {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	logger := slog.Default().With("component", "eval")
	start := time.Now()

	rows := make([]Row, len(devset))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, ex := range devset {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			rows[i] = evaluateOne(gCtx, p, metric, i, ex)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluation aborted: %w", err)
	}

	report := &Report{
		ID:       id.NewReport(),
		Total:    len(rows),
		Rows:     rows,
		Duration: time.Since(start),
	}
	for _, row := range rows {
		if row.Score == 1.0 {
			report.Correct++
		}
	}
	if report.Total > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.Total)
	}

	logger.Info("evaluation complete",
		"report", report.ID,
		"examples", report.Total,
		"correct", report.Correct,
		"accuracy", report.Accuracy,
		"duration", report.Duration,
	)
	return report, nil
}

// evaluateOne runs and scores a single example. Every outcome lands in the
// row; errors never escape to the pool.
func evaluateOne(ctx context.Context, p Predictor, metric prompt.Metric, index int, ex prompt.Example) Row {
	row := Row{
		Index:  index,
		Tokens: ex.InputTokens(),
		Gold:   ex.GoldPeople(),
	}

	callStart := time.Now()
	outputs, err := p.Process(ctx, ex.Inputs)
	row.Latency = time.Since(callStart)
	if err != nil {
		row.Err = err.Error()
		return row
	}

	pred := prompt.Example{Outputs: outputs}
	result, err := metric.Score(ctx, ex, pred)
	if err != nil {
		row.Err = err.Error()
		return row
	}
	row.Score = result.Score

	if predicted, perr := prompt.ParsePeople(outputs[prompt.FieldExtractedPeople]); perr == nil {
		row.Predicted = predicted
	} else {
		row.Err = perr.Error()
	}
	return row
}
