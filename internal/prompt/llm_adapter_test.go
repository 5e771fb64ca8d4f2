package prompt

import (
	"reflect"
	"strings"
	"testing"
)

func TestDatasetAdapter(t *testing.T) {
	examples := []Example{
		NewExample([]string{"John", "runs"}, []string{"John"}),
		NewExample([]string{"Paris", "is", "nice"}, []string{}),
	}
	adapter := NewDatasetAdapter(examples)

	count := 0
	for {
		ex, ok := adapter.Next()
		if !ok {
			break
		}
		if ex.Inputs[FieldTokens] == nil {
			t.Errorf("example %d lost its input tokens", count)
		}
		count++
	}
	if count != len(examples) {
		t.Errorf("iterated %d examples, want %d", count, len(examples))
	}

	// Reset rewinds to the first example.
	adapter.Reset()
	ex, ok := adapter.Next()
	if !ok {
		t.Fatal("Next after Reset returned no example")
	}
	tokens, _ := ex.Inputs[FieldTokens].([]string)
	if !reflect.DeepEqual(tokens, []string{"John", "runs"}) {
		t.Errorf("first example after reset = %v", tokens)
	}
}

func TestFormatDemos(t *testing.T) {
	demos := []Example{
		NewExample([]string{"John", "Smith", "went", "home"}, []string{"John", "Smith"}),
		NewExample([]string{"Paris", "is", "nice"}, []string{}),
	}

	text := FormatDemos("Base instruction.", demos)
	if !strings.HasPrefix(text, "Base instruction.") {
		t.Error("instruction must lead the prompt")
	}
	if !strings.Contains(text, `["John","Smith","went","home"]`) {
		t.Error("demo input tokens missing")
	}
	if !strings.Contains(text, `["John","Smith"]`) {
		t.Error("demo gold output missing")
	}
	if !strings.Contains(text, "[]") {
		t.Error("empty gold list must render as []")
	}

	if got := FormatDemos("Base instruction.", nil); got != "Base instruction." {
		t.Errorf("no demos should leave the instruction unchanged, got %q", got)
	}
}
