package prompt

import (
	"context"
	"fmt"

	"github.com/XiaoConstantine/dspy-go/pkg/core"

	"github.com/halvard/nertune/internal/llm"
)

// ClientAdapter adapts nertune's chat client to dspy-go's LLM interface.
// Only plain generation is implemented: the extraction task and its optimizer
// need nothing beyond Generate.
type ClientAdapter struct {
	client *llm.Client
}

// NewClientAdapter creates a new client adapter
func NewClientAdapter(client *llm.Client) *ClientAdapter {
	return &ClientAdapter{client: client}
}

// Generate implements the dspy-go LLM interface
func (a *ClientAdapter) Generate(ctx context.Context, prompt string, opts ...core.GenerateOption) (*core.LLMResponse, error) {
	content, err := a.client.Chat(ctx, []llm.ChatMessage{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	return &core.LLMResponse{Content: content}, nil
}

// GenerateWithJSON is not required for the extraction task; the output field
// is parsed by ParsePeople instead of schema-validated JSON mode.
func (a *ClientAdapter) GenerateWithJSON(ctx context.Context, prompt string, opts ...core.GenerateOption) (map[string]interface{}, error) {
	return nil, fmt.Errorf("GenerateWithJSON not implemented: extraction parses plain completions")
}

// GenerateWithFunctions is not required: the task uses no tool calling.
func (a *ClientAdapter) GenerateWithFunctions(ctx context.Context, prompt string, functions []map[string]interface{}, opts ...core.GenerateOption) (map[string]interface{}, error) {
	return nil, fmt.Errorf("GenerateWithFunctions not implemented: no tool calling in extraction")
}

// CreateEmbedding is not required: the correctness metric is exact match,
// not embedding similarity.
func (a *ClientAdapter) CreateEmbedding(ctx context.Context, input string, opts ...core.EmbeddingOption) (*core.EmbeddingResult, error) {
	return nil, fmt.Errorf("CreateEmbedding not implemented: exact-match scoring needs no embeddings")
}

// CreateEmbeddings is not required; see CreateEmbedding.
func (a *ClientAdapter) CreateEmbeddings(ctx context.Context, inputs []string, opts ...core.EmbeddingOption) (*core.BatchEmbeddingResult, error) {
	return nil, fmt.Errorf("CreateEmbeddings not implemented: exact-match scoring needs no embeddings")
}

// StreamGenerate is not required: evaluation and optimization run in batch mode.
func (a *ClientAdapter) StreamGenerate(ctx context.Context, prompt string, opts ...core.GenerateOption) (*core.StreamResponse, error) {
	return nil, fmt.Errorf("StreamGenerate not implemented: batch-only workload")
}

// GenerateWithContent is not required: the task is text-only.
func (a *ClientAdapter) GenerateWithContent(ctx context.Context, content []core.ContentBlock, opts ...core.GenerateOption) (*core.LLMResponse, error) {
	return nil, fmt.Errorf("GenerateWithContent not implemented: text-only task")
}

// StreamGenerateWithContent is not required: the task is text-only and batch-mode.
func (a *ClientAdapter) StreamGenerateWithContent(ctx context.Context, content []core.ContentBlock, opts ...core.GenerateOption) (*core.StreamResponse, error) {
	return nil, fmt.Errorf("StreamGenerateWithContent not implemented: text-only batch workload")
}

// ProviderName returns the provider name
func (a *ClientAdapter) ProviderName() string {
	return "nertune"
}

// ModelID returns the model identifier
func (a *ClientAdapter) ModelID() string {
	return a.client.Model()
}

// Capabilities returns the capabilities of this LLM
func (a *ClientAdapter) Capabilities() []core.Capability {
	return []core.Capability{core.CapabilityChat, core.CapabilityCompletion}
}

// DatasetAdapter adapts a []Example to dspy-go's core.Dataset interface
type DatasetAdapter struct {
	examples []Example
	index    int
}

// NewDatasetAdapter creates a new dataset adapter
func NewDatasetAdapter(examples []Example) *DatasetAdapter {
	return &DatasetAdapter{examples: examples}
}

// Next returns the next example in the dataset
func (d *DatasetAdapter) Next() (core.Example, bool) {
	if d.index >= len(d.examples) {
		return core.Example{}, false
	}
	ex := d.examples[d.index]
	d.index++

	return core.Example{
		Inputs:  toInterfaceMap(ex.Inputs),
		Outputs: toInterfaceMap(ex.Outputs),
	}, true
}

// Reset resets the dataset iterator
func (d *DatasetAdapter) Reset() {
	d.index = 0
}

// MetricAdapter adapts a Metric to dspy-go's core.Metric function type
type MetricAdapter struct {
	metric Metric
}

// NewMetricAdapter creates a new metric adapter
func NewMetricAdapter(metric Metric) *MetricAdapter {
	return &MetricAdapter{metric: metric}
}

// ToCoreMetric converts to the dspy-go core.Metric function type
func (m *MetricAdapter) ToCoreMetric() core.Metric {
	return func(expected, actual map[string]interface{}) float64 {
		gold := Example{Outputs: fromInterfaceMap(expected)}
		pred := Example{Outputs: fromInterfaceMap(actual)}

		result, err := m.metric.Score(context.Background(), gold, pred)
		if err != nil {
			return 0.0
		}
		return result.Score
	}
}

func toInterfaceMap(m map[string]any) map[string]interface{} {
	result := make(map[string]interface{}, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

func fromInterfaceMap(m map[string]interface{}) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
