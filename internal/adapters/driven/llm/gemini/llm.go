// Package gemini provides an LLM service adapter using the Google Gemini
// generateContent REST API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"

	"github.com/custodia-labs/ideabot/internal/adapters/driven/llm/httpjson"
	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 120 * time.Second
)

// roleModel is Gemini's name for the assistant role.
const roleModel = "model"

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the model to use (default: gemini-2.5-flash).
	Model string

	// BaseURL is the API base URL (default: https://generativelanguage.googleapis.com/v1beta).
	BaseURL string

	// Timeout bounds each request (default: 120s).
	Timeout time.Duration
}

// LLMService provides LLM operations using Google Gemini.
type LLMService struct {
	client  *httpjson.Client
	baseURL string
	model   string
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     float64  `json:"temperature,omitempty"`
	StopSequences   []string `json:"stopSequences,omitempty"`
}

// generateContentRequest is the models/*:generateContent request format.
type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

// generateContentResponse is the models/*:generateContent response format.
type generateContentResponse struct {
	Candidates []struct {
		Content      *content `json:"content"`
		FinishReason string   `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// NewLLMService creates a new Gemini LLM service.
// The API key is sent as the key query parameter on every request.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	rt, err := htransport.NewTransport(context.Background(), http.DefaultTransport, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create transport: %w", err)
	}

	return &LLMService{
		client:  httpjson.NewWithTransport("gemini", cfg.Timeout, nil, rt),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
	}, nil
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := generateContentRequest{
		Contents:         []content{textContent(driven.RoleUser, prompt)},
		GenerationConfig: newGenerationConfig(opts.MaxTokens, opts.Temperature, opts.StopWords),
	}
	return s.generateContent(ctx, req)
}

// Chat conducts a multi-turn conversation.
// System messages become the system instruction; assistant turns use the
// "model" role.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := generateContentRequest{
		GenerationConfig: newGenerationConfig(opts.MaxTokens, opts.Temperature, nil),
	}

	var system []string
	for _, msg := range messages {
		switch msg.Role {
		case driven.RoleSystem:
			system = append(system, msg.Content)
		case driven.RoleAssistant:
			req.Contents = append(req.Contents, textContent(roleModel, msg.Content))
		default:
			req.Contents = append(req.Contents, textContent(driven.RoleUser, msg.Content))
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = &content{Parts: []part{{Text: strings.Join(system, "\n\n")}}}
	}

	return s.generateContent(ctx, req)
}

func (s *LLMService) generateContent(ctx context.Context, req generateContentRequest) (string, error) {
	var resp generateContentResponse
	url := s.baseURL + "/" + s.resourceName() + ":generateContent"
	if err := s.client.PostJSON(ctx, url, req, &resp); err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini: prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates returned: %w", domain.ErrEmptyResponse)
	}

	var b strings.Builder
	if c := resp.Candidates[0]; c.Content != nil {
		for _, p := range c.Content.Parts {
			b.WriteString(p.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("gemini: empty candidate (finish reason %s): %w",
			resp.Candidates[0].FinishReason, domain.ErrEmptyResponse)
	}
	return b.String(), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the API key and model by fetching the model's metadata.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.client.Get(ctx, s.baseURL+"/"+s.resourceName())
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}

func (s *LLMService) resourceName() string {
	if strings.HasPrefix(s.model, "models/") {
		return s.model
	}
	return "models/" + s.model
}

func textContent(role, text string) content {
	return content{Role: role, Parts: []part{{Text: text}}}
}

// newGenerationConfig returns nil when every parameter is left at its default.
func newGenerationConfig(maxTokens int, temperature float64, stop []string) *generationConfig {
	if maxTokens == 0 && temperature == 0 && len(stop) == 0 {
		return nil
	}
	return &generationConfig{
		MaxOutputTokens: maxTokens,
		Temperature:     temperature,
		StopSequences:   stop,
	}
}
