package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// systemInstruction frames every request as a résumé edit. Prompts carry the
// job title, the text to rewrite and the keywords to keep.
const systemInstruction = "You edit résumé text so it fits one specific job posting. " +
	"Keep every claim the candidate made and never add employers, titles, dates or credentials. " +
	"Answer with a single JSON object and nothing else."

var (
	// ErrEmptyResponse means the model returned no usable text
	ErrEmptyResponse = errors.New("empty model response")
	// ErrBlocked means the provider refused the prompt or the answer
	ErrBlocked = errors.New("model response blocked")
	// ErrTruncated means the answer hit the output token cap
	ErrTruncated = errors.New("model response truncated")
)

// Client is what the polisher needs from a provider: one JSON document per
// prompt at a model tier
type Client interface {
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	Close() error
}

// NewClient creates a provider client for config and, when the breaker is
// enabled, wraps it in a BreakerClient
func NewClient(ctx context.Context, config *Config, apiKey string, logger *zap.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var client Client
	switch config.Provider {
	case ProviderGemini, "":
		gemini, err := NewGeminiClient(ctx, config, apiKey)
		if err != nil {
			return nil, err
		}
		client = gemini
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}

	if config.Breaker.Enabled {
		return NewBreakerClient(client, config.Breaker, logger), nil
	}
	return client, nil
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient connects to Gemini with apiKey
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini API key is required (set RESUME_FIT_LLM_API_KEY or GEMINI_API_KEY)")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, config: config}, nil
}

// GenerateJSON sends prompt to the tier's model in JSON response mode and
// returns the JSON value of the answer
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return "", fmt.Errorf("gemini %s: %w: %v", tier, ErrBlocked, err)
	}
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", tier, err)
	}
	text, err := responseText(resp)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", tier, err)
	}
	return CleanJSONBlock(text), nil
}

func (c *GeminiClient) model(tier ModelTier) (*genai.GenerativeModel, error) {
	name := c.config.GetModel(tier)
	if name == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(name)
	model.SetTemperature(c.config.Temperature)
	if c.config.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(c.config.MaxOutputTokens)
	}
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	return model, nil
}

// Close releases the underlying connection
func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// responseText joins the text parts of the first candidate. An answer cut
// off at the token cap is ErrTruncated since its JSON is incomplete.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	if candidate == nil {
		return "", ErrEmptyResponse
	}
	if candidate.FinishReason == genai.FinishReasonMaxTokens {
		return "", ErrTruncated
	}
	if candidate.Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
