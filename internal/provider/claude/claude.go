package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"veridoc/internal/config"
	"veridoc/internal/metrics/noop"
	"veridoc/internal/port"
	"veridoc/internal/provider"
)

const (
	providerName = "claude"
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
)

// Client implements port.Provider using the Anthropic Messages API.
type Client struct {
	apiKey      string
	model       string
	endpoint    string
	maxTokens   int
	temperature float64
	client      *http.Client
	metrics     port.MetricsCollector
}

// New creates a Claude-backed provider from a provider config.
func New(cfg *config.ProviderConfig, metrics port.MetricsCollector) *Client {
	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = apiURL
	}
	return newClient(cfg, endpoint, metrics)
}

// NewWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewWithEndpoint(cfg *config.ProviderConfig, endpoint string, metrics port.MetricsCollector) *Client {
	return newClient(cfg, endpoint, metrics)
}

func newClient(cfg *config.ProviderConfig, endpoint string, metrics port.MetricsCollector) *Client {
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 16384
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if metrics == nil {
		metrics = noop.Collector{}
	}
	return &Client{
		apiKey:      cfg.APIKey,
		model:       model,
		endpoint:    endpoint,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: timeout},
		metrics:     metrics,
	}
}

// Name returns the provider name used for configuration and attribution.
func (c *Client) Name() string { return providerName }

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// Invoke sends the prompt (plus optional image) and returns the raw
// completion text.
func (c *Client) Invoke(ctx context.Context, input port.InvokeInput) (string, error) {
	start := time.Now()
	ok := false
	defer func() { c.metrics.ObserveInvocation(providerName, c.model, ok, time.Since(start)) }()

	contentBlocks, err := buildContentBlocks(input)
	if err != nil {
		return "", err
	}

	reqBody := map[string]interface{}{
		"model":       c.model,
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", provider.NewTransientError(providerName, fmt.Errorf("calling anthropic API: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", provider.NewTransientError(providerName, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := provider.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", provider.NewRateLimitError(providerName, baseErr, retryAfter)
		case resp.StatusCode >= http.StatusInternalServerError:
			return "", provider.NewTransientError(providerName, baseErr)
		default:
			return "", provider.NewBusinessError(providerName, fmt.Sprintf("status %d", resp.StatusCode), baseErr)
		}
	}

	text, err := extractText(respBody)
	if err != nil {
		return "", err
	}
	ok = true
	return text, nil
}

func buildContentBlocks(input port.InvokeInput) ([]map[string]interface{}, error) {
	var blocks []map[string]interface{}

	if len(input.ImageData) > 0 {
		switch input.ContentType {
		case "image/jpeg", "image/png":
			// supported
		default:
			return nil, provider.NewBusinessError(providerName, "unsupported content type",
				fmt.Errorf("unsupported content type for vision input: %s", input.ContentType))
		}
		blocks = append(blocks, map[string]interface{}{
			"type": "image",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": input.ContentType,
				"data":       base64.StdEncoding.EncodeToString(input.ImageData),
			},
		})
	}

	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": input.Prompt,
	})

	return blocks, nil
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func extractText(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", provider.NewBusinessError(providerName, "malformed response",
			fmt.Errorf("unmarshaling response: %w", err))
	}

	if len(resp.Content) == 0 {
		return "", provider.NewBusinessError(providerName, "empty response",
			fmt.Errorf("empty response from API"))
	}

	if resp.StopReason == "max_tokens" {
		return "", provider.NewBusinessError(providerName, "truncated output",
			fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit"))
	}

	return resp.Content[0].Text, nil
}
