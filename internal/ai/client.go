package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"docmeta/internal/model"
	"docmeta/internal/resilience"
)

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultModel     = "gpt-4"
	defaultTagsModel = "gpt-3.5-turbo"
	defaultTimeout   = 30 * time.Second

	analysisTemperature = 0.3
	analysisMaxTokens   = 500
	tagsTemperature     = 0.5
	tagsMaxTokens       = 100

	maxResponseBytes = 1 << 20
)

// ClientConfig configures an OpenAIClient.
type ClientConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	TagsModel string
	Timeout   time.Duration

	// RateLimit is requests per second; 0 disables limiting.
	RateLimit float64
	RateBurst int

	Resilience resilience.Config
}

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	cfg        ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
	log        zerolog.Logger
}

// NewOpenAIClient builds a client. httpClient may be nil, in which case a client
// with cfg.Timeout and an otelhttp transport is used.
func NewOpenAIClient(cfg ClientConfig, httpClient *http.Client, log zerolog.Logger) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.TagsModel == "" {
		cfg.TagsModel = defaultTagsModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	log = log.With().Str("component", "ai").Logger()
	return &OpenAIClient{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    limiter,
		executor:   resilience.NewExecutor(cfg.Resilience, log),
		log:        log,
	}
}

func (c *OpenAIClient) SuggestMetadata(ctx context.Context, fileName, fileType, preview string) (*model.AIAnalysisResult, error) {
	content, err := c.complete(ctx, "ai.suggest_metadata", chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: buildAnalysisPrompt(fileName, fileType, preview)},
		},
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	res, err := parseAnalysis(content)
	if err != nil {
		c.log.Warn().Err(err).Str("file_name", fileName).Msg("unparseable analysis response")
		return nil, err
	}
	return res, nil
}

func (c *OpenAIClient) SuggestTags(ctx context.Context, title, description string) ([]string, error) {
	content, err := c.complete(ctx, "ai.suggest_tags", chatRequest{
		Model: c.cfg.TagsModel,
		Messages: []chatMessage{
			{Role: "system", Content: tagsSystemPrompt},
			{Role: "user", Content: buildTagsPrompt(title, description)},
		},
		Temperature: tagsTemperature,
		MaxTokens:   tagsMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return parseTags(content)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// HTTPStatusError reports a non-2xx response from the completion endpoint.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("ai: unexpected status %d: %s", e.StatusCode, e.Body)
}

// complete sends one chat request and returns the first choice's content.
func (c *OpenAIClient) complete(ctx context.Context, operation string, req chatRequest) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	var content string
	err = c.executor.Execute(ctx, operation, func(ctx context.Context) error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		out, err := c.post(ctx, payload)
		if err != nil {
			return err
		}
		content = out
		return nil
	}, classifyError)
	if err != nil {
		return "", fmt.Errorf("%s: %w", operation, err)
	}
	return content, nil
}

func (c *OpenAIClient) post(ctx context.Context, payload []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("ai: empty choices in chat response")
	}
	return out.Choices[0].Message.Content, nil
}

func classifyError(err error) resilience.ErrorClassification {
	if errors.Is(err, context.Canceled) {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= 500:
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		default:
			return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}
