// Package ai is the gateway to the generative-AI completion endpoint.
//
// Each operation builds a fixed natural-language prompt embedding the user's
// code and language, sends it to the provider, and returns the reply as
// opaque text. No structure is assumed in the model's output — any attempted
// extraction happens at the presentation boundary and is allowed to fail.
//
// The client is an explicitly constructed dependency injected at startup,
// never a package-level singleton.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sakif/code-editor/internal/apperror"
)

// Gateway is the set of AI operations offered to the rest of the application.
// Defined as an interface so services and handlers can be tested against a
// mock without network calls.
type Gateway interface {
	Analyze(ctx context.Context, code, lang string) (*Response, error)
	Explain(ctx context.Context, code, lang string) (*Response, error)
	Optimize(ctx context.Context, code, lang string) (*Response, error)
	Document(ctx context.Context, code, lang string) (*Response, error)
	Convert(ctx context.Context, code, fromLang, toLang string) (*Response, error)
	FixBugs(ctx context.Context, code, lang, errorMessage string) (*Response, error)
}

// Response tags the model's raw text with the operation that produced it.
type Response struct {
	Type         string    `json:"type"`
	Text         string    `json:"text"`
	Language     string    `json:"language,omitempty"`
	FromLanguage string    `json:"fromLanguage,omitempty"`
	ToLanguage   string    `json:"toLanguage,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Config holds the client settings.
type Config struct {
	APIKey string
	// Model is the completion model name.
	Model string
	// BaseURL is the provider API root; overridable for tests.
	BaseURL string
	// MaxAttempts caps the retry loop, including the first try.
	MaxAttempts int
	// BackoffBase is doubled per attempt between retries. Injectable so tests
	// don't sleep for seconds.
	BackoffBase time.Duration
}

// DefaultConfig returns the production settings for the given API key.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:      apiKey,
		Model:       "gemini-2.0-flash",
		BaseURL:     "https://generativelanguage.googleapis.com",
		MaxAttempts: 3,
		BackoffBase: time.Second,
	}
}

// Client implements Gateway against a Gemini-style generateContent endpoint.
type Client struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a Client. The zero-value fields of cfg are filled with
// the defaults so callers can override only what they need.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	def := DefaultConfig(cfg.APIKey)
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = def.BackoffBase
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}
}

// --- wire types for the generateContent endpoint ---

type genPart struct {
	Text string `json:"text"`
}

type genContent struct {
	Parts []genPart `json:"parts"`
}

type genConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type genRequest struct {
	Contents         []genContent `json:"contents"`
	GenerationConfig genConfig    `json:"generationConfig"`
}

type genCandidate struct {
	Content      genContent `json:"content"`
	FinishReason string     `json:"finishReason"`
}

type genFeedback struct {
	BlockReason string `json:"blockReason"`
}

type genResponse struct {
	Candidates     []genCandidate `json:"candidates"`
	PromptFeedback *genFeedback   `json:"promptFeedback"`
	Error          *struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// generate runs the retry loop around one prompt.
//
// A safety block is permanent and short-circuits the loop; every other
// failure is retried with exponential backoff (base doubled per attempt)
// until the attempt budget is spent, at which point the caller sees an
// unavailable error.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.config.APIKey == "" {
		return "", apperror.Unavailable("AI service is not configured")
	}

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		text, err := c.request(ctx, prompt)
		if err == nil {
			return text, nil
		}
		if errors.Is(err, apperror.ErrBlocked) {
			return "", err
		}
		lastErr = err
		c.logger.Warn("AI request failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		if attempt == c.config.MaxAttempts {
			break
		}
		backoff := c.config.BackoffBase << uint(attempt)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return "", &apperror.AppError{
		Err:     apperror.ErrUnavailable,
		Message: fmt.Sprintf("AI service temporarily unavailable: %v", lastErr),
	}
}

// request performs a single generateContent call.
func (c *Client) request(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(genRequest{
		Contents: []genContent{{Parts: []genPart{{Text: prompt}}}},
		GenerationConfig: genConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1500,
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai: encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.config.BaseURL, c.config.Model, c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: calling completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	var gr genResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("ai: decoding response: %w", err)
	}

	if gr.Error != nil {
		if strings.Contains(gr.Error.Status, "SAFETY") || strings.Contains(gr.Error.Message, "SAFETY") {
			return "", apperror.Blocked("Content was blocked due to safety restrictions")
		}
		return "", fmt.Errorf("ai: completion endpoint error: %s", gr.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: completion endpoint returned status %d", resp.StatusCode)
	}

	if gr.PromptFeedback != nil && gr.PromptFeedback.BlockReason != "" {
		return "", apperror.Blocked("Content was blocked due to safety restrictions")
	}
	if len(gr.Candidates) == 0 {
		return "", fmt.Errorf("ai: completion endpoint returned no candidates")
	}

	cand := gr.Candidates[0]
	if cand.FinishReason == "SAFETY" {
		return "", apperror.Blocked("Content was blocked due to safety restrictions")
	}

	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
