package prompt

import (
	"errors"
	"reflect"
	"testing"

	"github.com/halvard/nertune/internal/domain"
)

func TestParsePeople(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    []string
		wantErr bool
	}{
		{
			name: "json array",
			raw:  `["John","Smith"]`,
			want: []string{"John", "Smith"},
		},
		{
			name: "empty json array",
			raw:  `[]`,
			want: []string{},
		},
		{
			name: "fenced json array",
			raw:  "```json\n[\"Anna\"]\n```",
			want: []string{"Anna"},
		},
		{
			name: "fence with other language tag",
			raw:  "```python\n[\"Anna\"]\n```",
			want: []string{"Anna"},
		},
		{
			name: "fence without language tag",
			raw:  "```\n[\"Anna\"]\n```",
			want: []string{"Anna"},
		},
		{
			name: "empty string means no match",
			raw:  "",
			want: []string{},
		},
		{
			name: "none means no match",
			raw:  "None",
			want: []string{},
		},
		{
			name: "comma separated fallback",
			raw:  "John, Smith",
			want: []string{"John", "Smith"},
		},
		{
			name: "newline separated fallback",
			raw:  "- John\n- Smith",
			want: []string{"John", "Smith"},
		},
		{
			name: "already structured",
			raw:  []string{"Ada"},
			want: []string{"Ada"},
		},
		{
			name: "interface slice",
			raw:  []any{"Ada", "Lovelace"},
			want: []string{"Ada", "Lovelace"},
		},
		{
			name:    "missing output",
			raw:     nil,
			wantErr: true,
		},
		{
			name:    "json object",
			raw:     `{"people":["John"]}`,
			wantErr: true,
		},
		{
			name:    "broken json array",
			raw:     `["John",`,
			wantErr: true,
		},
		{
			name:    "non-string list element",
			raw:     []any{"John", 7},
			wantErr: true,
		},
		{
			name:    "unsupported type",
			raw:     42,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeople(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrMalformedPrediction) {
					t.Errorf("err = %v, want ErrMalformedPrediction", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePeople: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePeople() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatTokensRoundTrip(t *testing.T) {
	tokens := []string{"John", "O'Neil", `he said "hi"`}
	parsed, err := ParsePeople(FormatTokens(tokens))
	if err != nil {
		t.Fatalf("ParsePeople: %v", err)
	}
	if !reflect.DeepEqual(parsed, tokens) {
		t.Errorf("round trip = %v, want %v", parsed, tokens)
	}
}
