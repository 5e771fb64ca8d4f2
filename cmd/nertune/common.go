package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/halvard/nertune/internal/corpus"
	"github.com/halvard/nertune/internal/llm"
	"github.com/halvard/nertune/internal/optimize"
	"github.com/halvard/nertune/internal/prompt"
)

// newLoader builds a corpus loader from the active configuration.
func newLoader() *corpus.Loader {
	return corpus.NewLoader(cfg.Corpus.Dataset, corpus.LoaderOptions{
		ServerURL: cfg.Corpus.ServerURL,
		Config:    cfg.Corpus.Config,
		CacheDir:  cfg.Corpus.CacheDir,
		MaxRows:   cfg.Corpus.MaxRows,
	})
}

// loadSplit loads one split, from a local CoNLL file when --file is given and
// from the hosted dataset otherwise.
func loadSplit(ctx context.Context, name, file string) (*corpus.Split, error) {
	if file != "" {
		return corpus.LoadCoNLLFile(file, name)
	}
	return newLoader().LoadSplit(ctx, name)
}

func personCodes() corpus.CodeSet {
	return corpus.NewCodeSet(cfg.Corpus.PersonCodes...)
}

// newTaskAdapter builds the dspy-go LLM adapter for the task model.
func newTaskAdapter() (*prompt.ClientAdapter, error) {
	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return nil, err
	}
	return prompt.NewClientAdapter(client), nil
}

// newReflectionAdapter builds the adapter for the reflection model, or nil
// when none is configured.
func newReflectionAdapter() (*prompt.ClientAdapter, error) {
	if !cfg.HasReflectionLM() {
		return nil, nil
	}
	client, err := llm.NewClient(cfg.Reflection)
	if err != nil {
		return nil, err
	}
	return prompt.NewClientAdapter(client), nil
}

// taskSignature returns the extraction signature, tuned by the artifact at
// path when one is given.
func taskSignature(artifactPath string) (prompt.Signature, error) {
	sig := prompt.ExtractPeople()
	if artifactPath == "" {
		return sig, nil
	}

	art, err := optimize.LoadArtifact(artifactPath)
	if err != nil {
		return prompt.Signature{}, err
	}
	return sig.WithInstruction(art.FullInstruction()), nil
}

// confirm asks for interactive confirmation on stdin.
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func joinTokens(tokens []string) string {
	if len(tokens) == 0 {
		return "-"
	}
	return strings.Join(tokens, " ")
}
