package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/XiaoConstantine/dspy-go/pkg/core"
	"github.com/XiaoConstantine/dspy-go/pkg/modules"
)

// Extractor wraps a dspy-go Predict module for the person-extraction task.
// It normalizes the token input to the wire format and parses the model's
// free-form output into a typed prediction.
type Extractor struct {
	*modules.Predict
	sig    Signature
	logger *slog.Logger
}

// ExtractorOption configures an Extractor
type ExtractorOption func(*Extractor)

// WithLogger sets the logger used for per-call diagnostics
func WithLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an extraction module for the given signature.
func NewExtractor(sig Signature, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		Predict: modules.NewPredict(sig.Signature),
		sig:     sig,
		logger:  slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process runs one extraction. The tokens input may be a []string or an
// already-encoded JSON array string.
func (e *Extractor) Process(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	wire := make(map[string]any, len(inputs))
	for k, v := range inputs {
		wire[k] = v
	}
	if tokens, ok := wire[FieldTokens].([]string); ok {
		wire[FieldTokens] = FormatTokens(tokens)
	}

	start := time.Now()
	outputs, err := e.Predict.Process(ctx, wire)
	if err != nil {
		return nil, fmt.Errorf("extract process failed: %w", err)
	}
	e.logger.Debug("extraction complete", "duration", time.Since(start))

	return outputs, nil
}

// Extract runs one extraction over a token list and parses the result.
// A response that cannot be parsed surfaces as ErrMalformedPrediction.
func (e *Extractor) Extract(ctx context.Context, tokens []string) ([]string, error) {
	outputs, err := e.Process(ctx, map[string]any{FieldTokens: tokens})
	if err != nil {
		return nil, err
	}
	return ParsePeople(outputs[FieldExtractedPeople])
}

// ToProgram wraps the extractor in a core.Program for use with dspy-go optimizers
func (e *Extractor) ToProgram() core.Program {
	mods := map[string]core.Module{
		e.sig.Name: e.Predict,
	}

	forward := func(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
		anyInputs := make(map[string]any, len(inputs))
		for k, v := range inputs {
			anyInputs[k] = v
		}

		outputs, err := e.Process(ctx, anyInputs)
		if err != nil {
			return nil, err
		}

		result := make(map[string]interface{}, len(outputs))
		for k, v := range outputs {
			result[k] = v
		}
		return result, nil
	}

	return core.NewProgram(mods, forward)
}
