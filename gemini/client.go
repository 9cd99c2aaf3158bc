package gemini

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"gonum.org/v1/gonum/floats"
	"google.golang.org/api/option"
)

const (
	defaultGenerationModel = "gemini-2.5-pro-exp-0801"
	defaultEmbeddingModel  = "text-embedding-004"
	defaultTemperature     = 0.2

	// EmbeddingDim is the vector size produced by the embedding model
	EmbeddingDim = 768
)

var (
	ErrEmptyResponse  = errors.New("model returned no content")
	ErrPromptBlocked  = errors.New("prompt was blocked by the model")
	ErrEmptyEmbedding = errors.New("model returned an empty embedding")
)

// Client wraps the Gemini SDK for JSON-mode generation and text embeddings
type Client struct {
	genai           *genai.Client
	generationModel string
	embeddingModel  string
	temperature     float32
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithGenerationModel sets the model used for JSON generation
func WithGenerationModel(name string) ClientOption {
	return func(c *Client) {
		c.generationModel = name
	}
}

// WithEmbeddingModel sets the model used for embeddings
func WithEmbeddingModel(name string) ClientOption {
	return func(c *Client) {
		c.embeddingModel = name
	}
}

// WithTemperature sets the sampling temperature for generation
func WithTemperature(t float32) ClientOption {
	return func(c *Client) {
		c.temperature = t
	}
}

// NewClient creates a Gemini client authenticated with the given API key
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		genai:           gc,
		generationModel: defaultGenerationModel,
		embeddingModel:  defaultEmbeddingModel,
		temperature:     defaultTemperature,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the underlying SDK client
func (c *Client) Close() error {
	return c.genai.Close()
}

// GenerateJSON sends a system instruction plus user prompt to the generation
// model in JSON mode and returns the raw JSON bytes of the response. Blocked
// prompts and empty candidates are errors; callers validate the JSON against
// their own schema.
func (c *Client) GenerateJSON(ctx context.Context, system, prompt string) ([]byte, error) {
	model := c.genai.GenerativeModel(c.generationModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}
	model.SetTemperature(c.temperature)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return nil, fmt.Errorf("%w: %s", ErrPromptBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
		return nil, fmt.Errorf("generation stopped abnormally (finish reason: %s)", candidate.FinishReason)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return nil, ErrEmptyResponse
	}
	return []byte(out), nil
}

// EmbedText returns the L2-normalized embedding vector for the given text
func (c *Client) EmbedText(ctx context.Context, text string, taskType genai.TaskType) ([]float32, error) {
	em := c.genai.EmbeddingModel(c.embeddingModel)
	em.TaskType = taskType

	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, ErrEmptyEmbedding
	}

	values := resp.Embedding.Values
	if len(values) != EmbeddingDim {
		return nil, fmt.Errorf("unexpected embedding dimension: got %d, want %d", len(values), EmbeddingDim)
	}

	if !normalizeEmbedding(values) {
		return nil, fmt.Errorf("%w: zero vector", ErrEmptyEmbedding)
	}
	return values, nil
}

// normalizeEmbedding scales the vector to unit length in place. It reports
// false for a zero vector, which cannot be normalized.
func normalizeEmbedding(values []float32) bool {
	v := make([]float64, len(values))
	for i, x := range values {
		v[i] = float64(x)
	}

	norm := math.Sqrt(floats.Dot(v, v))
	if norm == 0 {
		return false
	}

	for i := range values {
		values[i] = float32(v[i] / norm)
	}
	return true
}
