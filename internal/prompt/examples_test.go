package prompt

import (
	"errors"
	"reflect"
	"testing"

	"github.com/halvard/nertune/internal/corpus"
	"github.com/halvard/nertune/internal/domain"
)

func testSplit() *corpus.Split {
	return &corpus.Split{
		Name: corpus.SplitTrain,
		Records: []corpus.Record{
			{Tokens: []string{"John", "Smith", "went", "home"}, Tags: []int{1, 2, 0, 0}},
			{Tokens: []string{"Paris", "is", "nice"}, Tags: []int{0, 0, 0}},
			{Tokens: []string{"Anna", "met", "Bob"}, Tags: []int{1, 0, 1}},
			{Tokens: []string{"EU", "rejects", "call"}, Tags: []int{3, 0, 0}},
		},
	}
}

func TestBuildExamples(t *testing.T) {
	split := testSplit()
	codes := corpus.DefaultPersonCodes()

	examples, err := BuildExamples(split, 0, 3, codes)
	if err != nil {
		t.Fatalf("BuildExamples: %v", err)
	}
	if len(examples) != 3 {
		t.Fatalf("examples = %d, want 3", len(examples))
	}

	// Round-trip: example i's input tokens equal split[start+i]'s tokens.
	for i, ex := range examples {
		if !reflect.DeepEqual(ex.InputTokens(), split.Records[i].Tokens) {
			t.Errorf("example %d tokens = %v, want %v", i, ex.InputTokens(), split.Records[i].Tokens)
		}
	}

	if got := examples[0].GoldPeople(); !reflect.DeepEqual(got, []string{"John", "Smith"}) {
		t.Errorf("example 0 gold = %v, want [John Smith]", got)
	}
	if got := examples[1].GoldPeople(); !reflect.DeepEqual(got, []string{}) {
		t.Errorf("example 1 gold = %v, want empty", got)
	}
	if got := examples[2].GoldPeople(); !reflect.DeepEqual(got, []string{"Anna", "Bob"}) {
		t.Errorf("example 2 gold = %v, want [Anna Bob]", got)
	}
}

func TestBuildExamplesSubrange(t *testing.T) {
	split := testSplit()
	examples, err := BuildExamples(split, 1, 3, corpus.DefaultPersonCodes())
	if err != nil {
		t.Fatalf("BuildExamples: %v", err)
	}
	if len(examples) != 2 {
		t.Fatalf("examples = %d, want 2", len(examples))
	}
	if !reflect.DeepEqual(examples[0].InputTokens(), split.Records[1].Tokens) {
		t.Errorf("offset example tokens = %v, want %v", examples[0].InputTokens(), split.Records[1].Tokens)
	}
}

func TestBuildExamplesEmptyRange(t *testing.T) {
	split := testSplit()
	for k := 0; k <= split.Len(); k++ {
		examples, err := BuildExamples(split, k, k, corpus.DefaultPersonCodes())
		if err != nil {
			t.Fatalf("BuildExamples(%d,%d): %v", k, k, err)
		}
		if len(examples) != 0 {
			t.Errorf("BuildExamples(%d,%d) = %d examples, want 0", k, k, len(examples))
		}
	}
}

func TestBuildExamplesOutOfRange(t *testing.T) {
	split := testSplit()
	codes := corpus.DefaultPersonCodes()

	cases := []struct{ start, end int }{
		{-1, 2},
		{0, split.Len() + 1},
		{3, 2},
	}
	for _, c := range cases {
		if _, err := BuildExamples(split, c.start, c.end, codes); !errors.Is(err, domain.ErrIndexOutOfRange) {
			t.Errorf("BuildExamples(%d,%d) err = %v, want ErrIndexOutOfRange", c.start, c.end, err)
		}
	}
}

func TestBuildExamplesDoesNotMutateSplit(t *testing.T) {
	split := testSplit()
	before := make([]corpus.Record, len(split.Records))
	copy(before, split.Records)

	if _, err := BuildExamples(split, 0, split.Len(), corpus.DefaultPersonCodes()); err != nil {
		t.Fatalf("BuildExamples: %v", err)
	}

	if !reflect.DeepEqual(before, split.Records) {
		t.Error("BuildExamples mutated the underlying split")
	}
}

func TestBuildExamplesDeterministic(t *testing.T) {
	split := testSplit()
	codes := corpus.DefaultPersonCodes()

	first, err := BuildExamples(split, 0, split.Len(), codes)
	if err != nil {
		t.Fatalf("BuildExamples: %v", err)
	}
	second, err := BuildExamples(split, 0, split.Len(), codes)
	if err != nil {
		t.Fatalf("BuildExamples: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical split and range produced different examples")
	}
}
