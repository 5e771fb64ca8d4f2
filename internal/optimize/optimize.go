// Package optimize tunes the extraction prompt with dspy-go's GEPA optimizer.
// The search itself is the library's concern; this package maps nertune's
// tuning knobs onto the optimizer configuration and extracts the winning
// instruction and demonstrations from the optimization state.
package optimize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/XiaoConstantine/dspy-go/pkg/core"
	"github.com/XiaoConstantine/dspy-go/pkg/optimizers"

	"github.com/halvard/nertune/internal/prompt"
	"github.com/halvard/nertune/shared/id"
)

// Effort selects the search budget.
type Effort string

const (
	EffortLight  Effort = "light"
	EffortMedium Effort = "medium"
	EffortHeavy  Effort = "heavy"
)

// ParseEffort validates an effort name.
func ParseEffort(s string) (Effort, error) {
	switch Effort(s) {
	case EffortLight, EffortMedium, EffortHeavy:
		return Effort(s), nil
	default:
		return "", fmt.Errorf("unknown effort %q: want light, medium or heavy", s)
	}
}

// Knobs are the exposed optimizer tuning controls.
type Knobs struct {
	// Effort selects the search budget.
	Effort Effort
	// MaxDemos caps few-shot demonstrations attached to the tuned prompt.
	MaxDemos int
	// DisableMinibatch evaluates candidates on the full trainset instead of
	// reflection minibatches.
	DisableMinibatch bool
}

// DefaultKnobs returns the light-effort defaults.
func DefaultKnobs() Knobs {
	return Knobs{
		Effort:   EffortLight,
		MaxDemos: 4,
	}
}

// gepaConfig maps the knobs onto the optimizer's configuration. Generations
// and population grow with effort; disabling minibatching widens the
// evaluation batch to the whole trainset.
func (k Knobs) gepaConfig(trainsetLen int) *optimizers.GEPAConfig {
	cfg := &optimizers.GEPAConfig{
		MaxGenerations:       3,
		PopulationSize:       8,
		MutationRate:         0.3,
		CrossoverRate:        0.7,
		ElitismRate:          0.1,
		ReflectionFreq:       2,
		ReflectionDepth:      3,
		SelfCritiqueTemp:     0.7,
		TournamentSize:       3,
		SelectionStrategy:    "adaptive_pareto",
		ConvergenceThreshold: 0.01,
		StagnationLimit:      3,
		EvaluationBatchSize:  5,
		ConcurrencyLevel:     3,
		Temperature:          0.8,
		MaxTokens:            500,
	}

	switch k.Effort {
	case EffortMedium:
		cfg.MaxGenerations = 6
		cfg.PopulationSize = 14
	case EffortHeavy:
		cfg.MaxGenerations = 10
		cfg.PopulationSize = 20
		cfg.ConcurrencyLevel = 5
	}

	if k.DisableMinibatch && trainsetLen > 0 {
		cfg.EvaluationBatchSize = trainsetLen
	}
	if cfg.EvaluationBatchSize > trainsetLen && trainsetLen > 0 {
		cfg.EvaluationBatchSize = trainsetLen
	}

	return cfg
}

// Candidate is one elite prompt kept by the optimizer.
type Candidate struct {
	Instruction string  `json:"instruction"`
	Generation  int     `json:"generation"`
	Fitness     float64 `json:"fitness"`
}

// Result is the outcome of an optimization run.
type Result struct {
	ID              string           `json:"id"`
	StartedAt       time.Time        `json:"started_at"`
	Duration        time.Duration    `json:"duration"`
	BestInstruction string           `json:"best_instruction"`
	BestScore       float64          `json:"best_score"`
	Demos           []prompt.Example `json:"-"`
	Archive         []Candidate      `json:"archive"`
}

// Optimizer runs GEPA over the extraction task. The task and reflection model
// handles are explicit: nothing is read from ambient process state beyond the
// per-run default-LM registration the dspy-go API requires.
type Optimizer struct {
	taskLM       core.LLM
	reflectionLM core.LLM
	knobs        Knobs
	logger       *slog.Logger
}

// Option configures an Optimizer
type Option func(*Optimizer)

// WithReflectionLM sets a separate, typically stronger, model for reflection
func WithReflectionLM(lm core.LLM) Option {
	return func(o *Optimizer) {
		o.reflectionLM = lm
	}
}

// WithKnobs sets the tuning knobs
func WithKnobs(knobs Knobs) Option {
	return func(o *Optimizer) {
		o.knobs = knobs
	}
}

// New creates an optimizer backed by the given task model.
func New(taskLM core.LLM, opts ...Option) *Optimizer {
	o := &Optimizer{
		taskLM: taskLM,
		knobs:  DefaultKnobs(),
		logger: slog.Default().With("component", "optimize"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run searches for a better extraction prompt over the trainset and returns
// the best instruction plus few-shot demonstrations drawn from the trainset.
func (o *Optimizer) Run(ctx context.Context, sig prompt.Signature, trainset []prompt.Example, metric prompt.Metric) (*Result, error) {
	if len(trainset) == 0 {
		return nil, fmt.Errorf("trainset is empty")
	}

	core.SetDefaultLLM(o.taskLM)
	if o.reflectionLM != nil {
		core.GlobalConfig.TeacherLLM = o.reflectionLM
	}

	module := prompt.NewExtractor(sig)
	program := module.ToProgram()
	dataset := prompt.NewDatasetAdapter(trainset)
	coreMetric := prompt.NewMetricAdapter(metric).ToCoreMetric()

	cfg := o.knobs.gepaConfig(len(trainset))
	gepa, err := optimizers.NewGEPA(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GEPA optimizer: %w", err)
	}

	start := time.Now()
	o.logger.Info("optimization started",
		"effort", o.knobs.Effort,
		"trainset", len(trainset),
		"generations", cfg.MaxGenerations,
		"population", cfg.PopulationSize,
	)

	if _, err := gepa.Compile(ctx, program, dataset, coreMetric); err != nil {
		return nil, fmt.Errorf("GEPA optimization failed: %w", err)
	}

	result := &Result{
		ID:              id.NewRun(),
		StartedAt:       start,
		Duration:        time.Since(start),
		BestInstruction: sig.Instruction,
	}

	state := gepa.GetOptimizationState()
	if state != nil && state.BestCandidate != nil {
		result.BestInstruction = state.BestCandidate.Instruction
		result.BestScore = state.BestCandidate.Fitness

		for _, candidate := range state.GetParetoArchive() {
			result.Archive = append(result.Archive, Candidate{
				Instruction: candidate.Instruction,
				Generation:  candidate.Generation,
				Fitness:     candidate.Fitness,
			})
		}
	}

	result.Demos = PickDemos(trainset, o.knobs.MaxDemos)

	o.logger.Info("optimization complete",
		"run", result.ID,
		"best_score", result.BestScore,
		"archive", len(result.Archive),
		"demos", len(result.Demos),
		"duration", result.Duration,
	)
	return result, nil
}

// PickDemos selects up to max demonstrations, preferring examples that
// actually contain person tokens so the demos show non-trivial extractions,
// while keeping at least one empty-answer example when available.
func PickDemos(trainset []prompt.Example, max int) []prompt.Example {
	if max <= 0 {
		return nil
	}

	var withPeople, without []prompt.Example
	for _, ex := range trainset {
		if len(ex.GoldPeople()) > 0 {
			withPeople = append(withPeople, ex)
		} else {
			without = append(without, ex)
		}
	}

	demos := make([]prompt.Example, 0, max)
	for _, ex := range withPeople {
		if len(demos) >= max {
			break
		}
		demos = append(demos, ex)
	}
	// One negative example teaches the empty-answer format.
	if len(without) > 0 {
		if len(demos) < max {
			demos = append(demos, without[0])
		} else if max > 1 {
			demos[max-1] = without[0]
		}
	}
	return demos
}
