package optimize

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/halvard/nertune/internal/prompt"
	"github.com/halvard/nertune/shared/id"
)

// Demo is a serialized few-shot demonstration.
type Demo struct {
	Tokens          []string `json:"tokens"`
	ExtractedPeople []string `json:"extracted_people"`
}

// Artifact is the persisted outcome of an optimization run: enough to rebuild
// the tuned extraction prompt in a later eval or extract invocation.
type Artifact struct {
	ID          string    `json:"id"`
	RunID       string    `json:"run_id"`
	CreatedAt   time.Time `json:"created_at"`
	Dataset     string    `json:"dataset"`
	Signature   string    `json:"signature"`
	Instruction string    `json:"instruction"`
	Demos       []Demo    `json:"demos"`
	BestScore   float64   `json:"best_score"`
}

// NewArtifact captures an optimization result for the given dataset.
func NewArtifact(result *Result, dataset string) *Artifact {
	art := &Artifact{
		ID:          id.NewArtifact(),
		RunID:       result.ID,
		CreatedAt:   time.Now().UTC(),
		Dataset:     dataset,
		Signature:   prompt.FieldTokens + " -> " + prompt.FieldExtractedPeople,
		Instruction: result.BestInstruction,
		BestScore:   result.BestScore,
	}
	for _, demo := range result.Demos {
		art.Demos = append(art.Demos, Demo{
			Tokens:          demo.InputTokens(),
			ExtractedPeople: demo.GoldPeople(),
		})
	}
	return art
}

// FullInstruction builds the complete tuned instruction, demos included.
func (a *Artifact) FullInstruction() string {
	demos := make([]prompt.Example, 0, len(a.Demos))
	for _, d := range a.Demos {
		demos = append(demos, prompt.NewExample(d.Tokens, d.ExtractedPeople))
	}
	return prompt.FormatDemos(a.Instruction, demos)
}

// Save writes the artifact as JSON.
func (a *Artifact) Save(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads a saved artifact.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", path, err)
	}
	if art.Instruction == "" {
		return nil, fmt.Errorf("artifact %s has no instruction", path)
	}
	if art.Signature != "" {
		if _, err := prompt.ParseSignature(art.Signature); err != nil {
			return nil, fmt.Errorf("artifact %s: %w", path, err)
		}
	}
	return &art, nil
}
