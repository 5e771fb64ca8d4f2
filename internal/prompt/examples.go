package prompt

import (
	"fmt"

	"github.com/halvard/nertune/internal/corpus"
	"github.com/halvard/nertune/internal/domain"
)

// Example represents a training or validation example
type Example struct {
	Inputs  map[string]any
	Outputs map[string]any
}

// NewExample pairs a record's tokens with its gold person-token list.
func NewExample(tokens, people []string) Example {
	return Example{
		Inputs:  map[string]any{FieldTokens: tokens},
		Outputs: map[string]any{FieldExtractedPeople: people},
	}
}

// InputTokens returns the example's input token list.
func (e Example) InputTokens() []string {
	tokens, _ := e.Inputs[FieldTokens].([]string)
	return tokens
}

// GoldPeople returns the example's expected person-token list.
func (e Example) GoldPeople() []string {
	people, _ := e.Outputs[FieldExtractedPeople].([]string)
	return people
}

// BuildExamples derives examples from the half-open record range [start, end)
// of a split: element i holds split[start+i]'s tokens as input and its
// person-tagged tokens as expected output. The split itself is never mutated,
// and identical inputs always yield identical examples.
func BuildExamples(split *corpus.Split, start, end int, codes corpus.CodeSet) ([]Example, error) {
	if start < 0 || start > end || end > split.Len() {
		return nil, domain.NewDomainError(domain.ErrIndexOutOfRange,
			fmt.Sprintf("range [%d,%d) of split %q (len %d)", start, end, split.Name, split.Len()))
	}

	examples := make([]Example, 0, end-start)
	for i := start; i < end; i++ {
		rec, err := split.Record(i)
		if err != nil {
			return nil, err
		}
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		examples = append(examples, NewExample(rec.Tokens, corpus.PersonTokens(rec, codes)))
	}
	return examples, nil
}
