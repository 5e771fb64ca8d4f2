package prompt

import (
	"context"
	"fmt"
)

// Metric defines an evaluation function for prompt optimization
type Metric interface {
	// Score evaluates a prediction against gold truth.
	// Returns score (0-1) and optional feedback for optimizer reflection.
	Score(ctx context.Context, gold, pred Example) (ScoreWithFeedback, error)
}

// ScoreWithFeedback combines numeric score with textual feedback for reflection
type ScoreWithFeedback struct {
	Score    float64
	Feedback string
}

// TokenMatchMetric scores a prediction correct only if its token sequence is
// exactly equal to the gold sequence: same length, same tokens, same order.
// Right tokens in the wrong order, or duplicates absent from the gold list,
// score zero; there is no partial credit. A prediction that fails to parse is
// scored zero rather than propagated, so one bad output cannot abort a run.
type TokenMatchMetric struct{}

func (m *TokenMatchMetric) Score(ctx context.Context, gold, pred Example) (ScoreWithFeedback, error) {
	expected, err := ParsePeople(gold.Outputs[FieldExtractedPeople])
	if err != nil {
		// Gold labels come from the corpus; an unparseable gold list is a
		// caller error, not a model failure.
		return ScoreWithFeedback{}, err
	}

	actual, err := ParsePeople(pred.Outputs[FieldExtractedPeople])
	if err != nil {
		return ScoreWithFeedback{
			Score:    0.0,
			Feedback: fmt.Sprintf("Unparseable output: %v. Expected a JSON array like %s.", err, FormatTokens(expected)),
		}, nil
	}

	if EqualTokens(expected, actual) {
		return ScoreWithFeedback{Score: 1.0, Feedback: "Correct."}, nil
	}

	return ScoreWithFeedback{
		Score: 0.0,
		Feedback: fmt.Sprintf("Expected %s, got %s. Tokens must match the gold list exactly, in order.",
			FormatTokens(expected), FormatTokens(actual)),
	}, nil
}

// EqualTokens reports strict order-and-multiplicity equality of two token lists.
func EqualTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
