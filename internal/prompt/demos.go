package prompt

import "strings"

// FormatDemos appends few-shot demonstrations to an instruction, rendered in
// the same wire format the model is asked to produce.
func FormatDemos(instruction string, demos []Example) string {
	if len(demos) == 0 {
		return instruction
	}

	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nExamples:")
	for _, demo := range demos {
		b.WriteString("\n")
		b.WriteString(FieldTokens)
		b.WriteString(": ")
		b.WriteString(FormatTokens(demo.InputTokens()))
		b.WriteString("\n")
		b.WriteString(FieldExtractedPeople)
		b.WriteString(": ")
		b.WriteString(FormatTokens(demo.GoldPeople()))
	}
	return b.String()
}
