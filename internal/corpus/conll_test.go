package corpus

import (
	"errors"
	"strings"
	"testing"

	"github.com/halvard/nertune/internal/domain"
)

func TestParseCoNLL(t *testing.T) {
	input := `-DOCSTART- O

John B-PER
Smith I-PER
went O
home O

Paris B-LOC
is O
nice O
`
	split, err := ParseCoNLL(strings.NewReader(input), SplitTrain)
	if err != nil {
		t.Fatalf("ParseCoNLL: %v", err)
	}

	if split.Name != SplitTrain {
		t.Errorf("split name = %q, want %q", split.Name, SplitTrain)
	}
	if split.Len() != 2 {
		t.Fatalf("records = %d, want 2", split.Len())
	}

	first, err := split.Record(0)
	if err != nil {
		t.Fatalf("Record(0): %v", err)
	}
	wantTokens := []string{"John", "Smith", "went", "home"}
	wantTags := []int{1, 2, 0, 0}
	for i, tok := range wantTokens {
		if first.Tokens[i] != tok {
			t.Errorf("token %d = %q, want %q", i, first.Tokens[i], tok)
		}
		if first.Tags[i] != wantTags[i] {
			t.Errorf("tag %d = %d, want %d", i, first.Tags[i], wantTags[i])
		}
	}
}

func TestParseCoNLLNumericTags(t *testing.T) {
	input := "Ada 1\nLovelace 2\nwrote 0\n"
	split, err := ParseCoNLL(strings.NewReader(input), SplitTest)
	if err != nil {
		t.Fatalf("ParseCoNLL: %v", err)
	}
	if split.Len() != 1 {
		t.Fatalf("records = %d, want 1", split.Len())
	}
	if got := split.Records[0].Tags; got[0] != 1 || got[1] != 2 || got[2] != 0 {
		t.Errorf("tags = %v, want [1 2 0]", got)
	}
}

func TestParseCoNLLBadLine(t *testing.T) {
	_, err := ParseCoNLL(strings.NewReader("orphantoken\n"), SplitTrain)
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Errorf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestParseCoNLLUnknownTag(t *testing.T) {
	_, err := ParseCoNLL(strings.NewReader("John B-XYZ\n"), SplitTrain)
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Errorf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestSplitRecordBounds(t *testing.T) {
	split := &Split{Name: SplitTest, Records: []Record{{Tokens: []string{"x"}, Tags: []int{0}}}}

	if _, err := split.Record(0); err != nil {
		t.Errorf("in-bounds access failed: %v", err)
	}
	if _, err := split.Record(1); !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Errorf("out-of-bounds err = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := split.Record(-1); !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Errorf("negative index err = %v, want ErrIndexOutOfRange", err)
	}
}
