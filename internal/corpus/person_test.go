package corpus

import (
	"reflect"
	"testing"
)

func TestPersonTokens(t *testing.T) {
	codes := DefaultPersonCodes()

	tests := []struct {
		name string
		rec  Record
		want []string
	}{
		{
			name: "leading person span",
			rec:  Record{Tokens: []string{"John", "Smith", "went", "home"}, Tags: []int{1, 2, 0, 0}},
			want: []string{"John", "Smith"},
		},
		{
			name: "no person tokens",
			rec:  Record{Tokens: []string{"Paris", "is", "nice"}, Tags: []int{0, 0, 0}},
			want: []string{},
		},
		{
			name: "non-person entities ignored",
			rec:  Record{Tokens: []string{"EU", "rejects", "German", "call"}, Tags: []int{3, 0, 7, 0}},
			want: []string{},
		},
		{
			name: "separated person spans keep order",
			rec:  Record{Tokens: []string{"Anna", "met", "Bob", "Lee"}, Tags: []int{1, 0, 1, 2}},
			want: []string{"Anna", "Bob", "Lee"},
		},
		{
			name: "empty record",
			rec:  Record{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PersonTokens(tt.rec, codes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PersonTokens() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPersonTokensIdempotent(t *testing.T) {
	rec := Record{Tokens: []string{"Ada", "Lovelace", "wrote"}, Tags: []int{1, 2, 0}}
	codes := DefaultPersonCodes()

	first := PersonTokens(rec, codes)
	second := PersonTokens(rec, codes)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ: %v vs %v", first, second)
	}
}

func TestPersonTokensSubsetOfRecord(t *testing.T) {
	rec := Record{
		Tokens: []string{"Lionel", "Messi", "joined", "Inter", "Miami"},
		Tags:   []int{1, 2, 0, 3, 4},
	}
	codes := DefaultPersonCodes()

	got := PersonTokens(rec, codes)
	if len(got) > len(rec.Tokens) {
		t.Fatalf("result longer than record: %d > %d", len(got), len(rec.Tokens))
	}

	// Every result element must come from a person-tagged position.
	next := 0
	for _, tok := range got {
		found := false
		for ; next < len(rec.Tokens); next++ {
			if rec.Tokens[next] == tok && codes.Contains(rec.Tags[next]) {
				found = true
				next++
				break
			}
		}
		if !found {
			t.Errorf("token %q not drawn from a person-tagged position in order", tok)
		}
	}
}

func TestConfigurableCodes(t *testing.T) {
	rec := Record{Tokens: []string{"Kim", "visited", "Seoul"}, Tags: []int{7, 0, 5}}

	if got := PersonTokens(rec, DefaultPersonCodes()); len(got) != 0 {
		t.Errorf("default codes matched %v, want none", got)
	}
	if got := PersonTokens(rec, NewCodeSet(7)); !reflect.DeepEqual(got, []string{"Kim"}) {
		t.Errorf("custom code set = %v, want [Kim]", got)
	}
}

func TestRecordValidate(t *testing.T) {
	good := Record{Tokens: []string{"a", "b"}, Tags: []int{0, 1}}
	if err := good.Validate(); err != nil {
		t.Errorf("valid record: %v", err)
	}

	bad := Record{Tokens: []string{"a", "b"}, Tags: []int{0}}
	if err := bad.Validate(); err == nil {
		t.Error("mismatched record passed validation")
	}
}
