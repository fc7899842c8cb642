package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/open-cogeval/cogeval/internal/apperr"
)

// DefaultModel is used when no model id is configured.
const DefaultModel = "claude-sonnet-4-5"

const defaultAPIKeyEnv = "ANTHROPIC_API_KEY"

// HTTPChatClient is a minimal ChatClient over an Anthropic-compatible
// Messages endpoint. It is intentionally not a full vendor SDK — per
// spec.md §1, SDK adapter shims that wrap vendor LLM APIs are out of
// scope; this is just enough transport to send one prompt and read one
// text body, matching the external interface spec.md §6 describes.
type HTTPChatClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// HTTPChatClientOption customizes an HTTPChatClient.
type HTTPChatClientOption func(*HTTPChatClient)

// WithBaseURL overrides the default Anthropic API base URL (useful for
// pointing at a local proxy in tests).
func WithBaseURL(url string) HTTPChatClientOption {
	return func(c *HTTPChatClient) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(h *http.Client) HTTPChatClientOption {
	return func(c *HTTPChatClient) { c.httpClient = h }
}

// NewHTTPChatClient builds an HTTPChatClient. apiKeyEnv names the
// environment variable holding the credential (default
// ANTHROPIC_API_KEY); a missing credential is a fatal ConfigurationError,
// per spec.md §4.1 ("missing grader credentials is a fatal configuration
// error").
func NewHTTPChatClient(model, apiKeyEnv string, opts ...HTTPChatClientOption) (*HTTPChatClient, error) {
	if apiKeyEnv == "" {
		apiKeyEnv = defaultAPIKeyEnv
	}
	key := os.Getenv(apiKeyEnv)
	if key == "" {
		return nil, apperr.NewConfigurationError("grader", fmt.Sprintf("missing credentials: %s is not set", apiKeyEnv))
	}
	if model == "" {
		model = DefaultModel
	}
	c := &HTTPChatClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    "https://api.anthropic.com/v1/messages",
		apiKey:     key,
		model:      model,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type messagesRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	System    string           `json:"system,omitempty"`
	Messages  []messageRequest `json:"messages"`
}

type messageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete implements ChatClient.
func (c *HTTPChatClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := messagesRequest{
		Model:     c.model,
		MaxTokens: 1024,
		System:    systemPrompt,
		Messages:  []messageRequest{{Role: "user", Content: userPrompt}},
	}
	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encode grader request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("build grader request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("grader request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read grader response: %w", err)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode grader response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("grader API error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("grader API returned status %d", resp.StatusCode)
	}

	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}
