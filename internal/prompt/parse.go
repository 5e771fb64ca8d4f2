package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/halvard/nertune/internal/domain"
)

// FormatTokens renders a token list as the JSON array handed to the model.
func FormatTokens(tokens []string) string {
	data, err := json.Marshal(tokens)
	if err != nil {
		// A []string cannot fail to marshal.
		panic(err)
	}
	return string(data)
}

// ParsePeople converts a raw model output into an ordered token list. It is a
// fallible parse: an output that cannot be understood as a token list is
// ErrMalformedPrediction, never a silent default, so callers can tell "model
// said nothing matched" apart from "output was unparseable".
//
// Accepted shapes: a []string (already structured), a JSON array of strings,
// or a plain comma/newline-separated list. Empty output, "[]" and "none"
// all mean an empty prediction.
func ParsePeople(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, domain.NewDomainError(domain.ErrMalformedPrediction, "prediction is missing")
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, domain.NewDomainError(domain.ErrMalformedPrediction,
					fmt.Sprintf("list element %T is not a string", item))
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		return parsePeopleText(v)
	default:
		return nil, domain.NewDomainError(domain.ErrMalformedPrediction,
			fmt.Sprintf("unsupported prediction type %T", raw))
	}
}

func parsePeopleText(text string) ([]string, error) {
	text = stripCodeFence(strings.TrimSpace(text))

	if text == "" || strings.EqualFold(text, "none") {
		return []string{}, nil
	}

	if strings.HasPrefix(text, "[") {
		var out []string
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			return nil, domain.NewDomainError(domain.ErrMalformedPrediction,
				"output looks like JSON but does not decode to a string array")
		}
		if out == nil {
			out = []string{}
		}
		return out, nil
	}
	if strings.HasPrefix(text, "{") {
		return nil, domain.NewDomainError(domain.ErrMalformedPrediction,
			"output is a JSON object, expected an array of strings")
	}

	// Plain-text fallback: one token per line or a comma-separated list.
	var parts []string
	if strings.Contains(text, "\n") {
		parts = strings.Split(text, "\n")
	} else {
		parts = strings.Split(text, ",")
	}

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		tok := strings.TrimSpace(part)
		tok = strings.TrimPrefix(tok, "- ")
		tok = strings.Trim(tok, `"'`)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out, nil
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Drop any language tag on the opening fence line.
	if idx := strings.IndexByte(text, '\n'); idx >= 0 && isFenceTag(text[:idx]) {
		text = text[idx+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func isFenceTag(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	for _, r := range line {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
