// Package prompt defines the person-extraction task for dspy-go: its
// input/output signature, example construction from labeled corpora, the
// correctness metric, and the adapters that bridge nertune types to the
// dspy-go optimizer and evaluation machinery.
package prompt

import (
	"fmt"
	"strings"

	"github.com/XiaoConstantine/dspy-go/pkg/core"
)

// Field names of the extraction task's wire contract.
const (
	FieldTokens          = "tokens"
	FieldExtractedPeople = "extracted_people"
)

// BaselineInstruction is the untuned starting prompt for the extraction task.
const BaselineInstruction = "Given an ordered list of tokens from a sentence, " +
	"list every token that is part of a person's name, in the original order. " +
	"Respond with a JSON array of strings and nothing else. " +
	"Respond with [] when no token names a person."

// Signature wraps dspy-go's signature with a stable name
type Signature struct {
	core.Signature
	Name string
}

// WithInstruction returns a copy of the signature carrying the given
// task instruction.
func (s Signature) WithInstruction(instruction string) Signature {
	s.Signature = s.Signature.WithInstruction(instruction)
	return s
}

// ExtractPeople is the prediction task declaration: one input field holding
// the sentence tokens and one output field holding the extracted person
// tokens. The field descriptions guide the model's interpretation.
func ExtractPeople() Signature {
	tokens := core.NewField(FieldTokens)
	tokens.Description = "ordered list of sentence tokens, JSON-encoded"

	people := core.NewField(FieldExtractedPeople)
	people.Description = "JSON array of tokens that are part of a person's name, in original order"

	sig := core.NewSignature(
		[]core.InputField{{Field: tokens}},
		[]core.OutputField{{Field: people}},
	).WithInstruction(BaselineInstruction)

	return Signature{Signature: sig, Name: "extract_people"}
}

// ParseSignature creates a signature from a string like "input1, input2 -> output1"
func ParseSignature(sig string) (Signature, error) {
	parts := strings.Split(sig, "->")
	if len(parts) != 2 {
		return Signature{}, fmt.Errorf("invalid signature format: %s", sig)
	}

	inputNames := parseFieldNames(strings.TrimSpace(parts[0]))
	outputNames := parseFieldNames(strings.TrimSpace(parts[1]))
	if len(inputNames) == 0 || len(outputNames) == 0 {
		return Signature{}, fmt.Errorf("signature needs at least one input and one output: %s", sig)
	}

	inputs := make([]core.InputField, len(inputNames))
	for i, name := range inputNames {
		inputs[i] = core.InputField{Field: core.NewField(name)}
	}
	outputs := make([]core.OutputField, len(outputNames))
	for i, name := range outputNames {
		outputs[i] = core.OutputField{Field: core.NewField(name)}
	}

	return Signature{
		Signature: core.NewSignature(inputs, outputs),
		Name:      signatureName(sig),
	}, nil
}

func parseFieldNames(fieldStr string) []string {
	if fieldStr == "" {
		return nil
	}
	parts := strings.Split(fieldStr, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if idx := strings.Index(name, ":"); idx >= 0 {
			name = strings.TrimSpace(name[:idx])
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func signatureName(sig string) string {
	name := strings.ReplaceAll(sig, "->", "_to_")
	name = strings.ReplaceAll(name, ",", "_")
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	return name
}
