// Package ai talks to an OpenAI-compatible chat completion API and adapts
// it to the collaborator interfaces the wizard engine consumes.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-docwizard/internal/logger"
	"github.com/goliatone/go-docwizard/internal/schema"
	"github.com/goliatone/go-docwizard/pkg/wizard"
)

var (
	_ wizard.Extractor = (*Client)(nil)
	_ wizard.Generator = (*Client)(nil)
	_ schema.Labeler   = (*Client)(nil)
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 60 * time.Second

	// maxHistoryMessages bounds the free-chat context window per user.
	maxHistoryMessages = 20
)

// Config holds client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client is a thin OpenAI-compatible chat completion client with a small
// per-user conversation store for the free-chat fallback.
type Client struct {
	config     Config
	httpClient *http.Client
	log        *logger.Logger

	mu            sync.Mutex
	conversations map[int64][]message
}

// Option configures a Client.
type Option func(*Client)

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New validates the configuration and returns a ready client.
func New(config Config, options ...Option) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("ai: API key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	client := &Client{
		config:        config,
		httpClient:    &http.Client{Timeout: config.Timeout},
		log:           logger.Nop(),
		conversations: make(map[int64][]message),
	}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// Chat answers a free-form user message, keeping a trimmed per-user history
// so follow-up questions stay coherent.
func (c *Client) Chat(ctx context.Context, userID int64, userMessage string) (string, error) {
	c.mu.Lock()
	history := append(c.conversations[userID], message{Role: "user", Content: userMessage})
	history = trimHistory(history, maxHistoryMessages)
	c.mu.Unlock()

	messages := append([]message{{Role: "system", Content: chatSystemPrompt}}, history...)
	reply, err := c.complete(ctx, messages)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.conversations[userID] = trimHistory(append(history, message{Role: "assistant", Content: reply}), maxHistoryMessages)
	c.mu.Unlock()
	return reply, nil
}

// ClearHistory drops the stored conversation for a user.
func (c *Client) ClearHistory(userID int64) {
	c.mu.Lock()
	delete(c.conversations, userID)
	c.mu.Unlock()
}

// Extract pulls company requisites out of document text. The model returns
// a flat JSON object with only the fields it found.
func (c *Client) Extract(ctx context.Context, documentText string) (map[string]string, error) {
	raw, err := c.complete(ctx, []message{
		{Role: "system", Content: requisitePrompt},
		{Role: "user", Content: documentText},
	})
	if err != nil {
		return nil, err
	}

	var extracted map[string]string
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &extracted); err != nil {
		return nil, fmt.Errorf("ai: parse requisites response: %w", err)
	}
	return extracted, nil
}

// Generate produces a numbered list of target search queries for a business
// type, the content of the guided-generation field.
func (c *Client) Generate(ctx context.Context, businessType string) (string, error) {
	return c.complete(ctx, []message{
		{Role: "system", Content: fmt.Sprintf(targetQueriesPrompt, targetQueryCount, businessType)},
		{Role: "user", Content: businessType},
	})
}

// ConvertGenitive rewrites a business type into genitive case for use
// inside generated document phrasing.
func (c *Client) ConvertGenitive(ctx context.Context, businessType string) (string, error) {
	return c.complete(ctx, []message{
		{Role: "system", Content: genitivePrompt},
		{Role: "user", Content: businessType},
	})
}

// GenerateFieldLabels asks the model to produce Russian labels, prompts and
// types for the given template variable names.
func (c *Client) GenerateFieldLabels(ctx context.Context, variableNames []string) (map[string]schema.FieldLabel, error) {
	raw, err := c.complete(ctx, []message{
		{Role: "system", Content: fieldLabelsPrompt},
		{Role: "user", Content: strings.Join(variableNames, ", ")},
	})
	if err != nil {
		return nil, err
	}

	var parsed map[string]fieldLabelPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("ai: parse field labels response: %w", err)
	}

	labels := make(map[string]schema.FieldLabel, len(parsed))
	for name, entry := range parsed {
		labels[name] = schema.FieldLabel{
			Label:  entry.Label,
			Prompt: entry.Prompt,
			Type:   entry.Type,
		}
	}
	return labels, nil
}

// fieldLabelPayload mirrors the JSON shape the labeling prompt requests.
type fieldLabelPayload struct {
	Label  string `json:"label"`
	Prompt string `json:"prompt_ru"`
	Type   string `json:"type"`
}

// complete runs one chat completion round trip and returns the trimmed
// assistant message.
func (c *Client) complete(ctx context.Context, messages []message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.config.Model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ai: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: API error (%d): %s", resp.StatusCode, string(data))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("ai: unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("ai: no choices in response")
	}

	c.log.Debug("chat completion done",
		"model", c.config.Model,
		"duration", time.Since(started),
		"total_tokens", parsed.Usage.TotalTokens,
	)
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// stripCodeFence removes a surrounding markdown code fence the model may
// wrap JSON payloads in despite instructions.
func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	if idx := strings.IndexByte(raw, '\n'); idx >= 0 {
		raw = raw[idx+1:]
	} else {
		raw = raw[3:]
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}

func trimHistory(history []message, max int) []message {
	if len(history) > max {
		return history[len(history)-max:]
	}
	return history
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
