package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/caremap/medifinder/internal/domain/entities"
	"github.com/caremap/medifinder/internal/domain/providers"
	"github.com/caremap/medifinder/pkg/config"
	apperrors "github.com/caremap/medifinder/pkg/errors"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client implements the facility summarizer against an OpenAI-compatible
// chat-completion API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

var _ providers.FacilitySummarizer = (*Client)(nil)

// NewClient creates a new OpenAI client.
func NewClient(cfg *config.OpenAIConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		now: time.Now,
	}, nil
}

// NewClientWithOptions allows overriding the HTTP client and clock (used for tests).
func NewClientWithOptions(cfg *config.OpenAIConfig, httpClient *http.Client, now func() time.Time) (*Client, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		client.httpClient = httpClient
	}
	if now != nil {
		client.now = now
	}
	return client, nil
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
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// SummarizeFacility generates a reputation summary for a facility by name.
func (c *Client) SummarizeFacility(ctx context.Context, facilityName string) (*entities.FacilitySummary, error) {
	name := strings.TrimSpace(facilityName)
	if name == "" {
		return nil, apperrors.NewValidationError("facility name is required")
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: facilitySummarySystemPrompt},
			{Role: "user", Content: buildFacilitySummaryUserPrompt(name)},
		},
		Temperature: 0.3,
		MaxTokens:   400,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode summary request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewExternalError("failed to build summary request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordSummaryMetric(ctx, c.model, 0, time.Since(start), err)
		return nil, apperrors.NewExternalError("summary request failed", err)
	}
	defer resp.Body.Close()

	var envelope chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordSummaryMetric(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return nil, apperrors.NewExternalError("failed to decode summary response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := fmt.Errorf("status %d", resp.StatusCode)
		recordSummaryMetric(ctx, c.model, resp.StatusCode, time.Since(start), statusErr)
		if envelope.Error != nil && envelope.Error.Message != "" {
			return nil, apperrors.NewExternalError(fmt.Sprintf("summary request failed: %s", envelope.Error.Message), statusErr)
		}
		return nil, apperrors.NewExternalError(fmt.Sprintf("summary request failed with status %d", resp.StatusCode), statusErr)
	}

	if len(envelope.Choices) == 0 || strings.TrimSpace(envelope.Choices[0].Message.Content) == "" {
		missingErr := errors.New("missing completion text")
		recordSummaryMetric(ctx, c.model, resp.StatusCode, time.Since(start), missingErr)
		return nil, apperrors.NewExternalError("summary response missing completion text", missingErr)
	}

	recordSummaryMetric(ctx, c.model, resp.StatusCode, time.Since(start), nil)
	return &entities.FacilitySummary{
		FacilityName: name,
		Summary:      strings.TrimSpace(envelope.Choices[0].Message.Content),
		GeneratedAt:  c.now().UTC().Format(time.RFC3339),
	}, nil
}

type summaryMetrics struct {
	callCount    metric.Int64Counter
	callDuration metric.Float64Histogram
}

var (
	metricsOnce sync.Once
	metricsInst *summaryMetrics
)

func getSummaryMetrics() *summaryMetrics {
	metricsOnce.Do(func() {
		meter := otel.Meter("github.com/caremap/medifinder/internal/infrastructure/clients/openai")

		callCount, err := meter.Int64Counter(
			"openai.summary.count",
			metric.WithDescription("Number of facility summary calls"),
		)
		if err != nil {
			return
		}
		callDuration, err := meter.Float64Histogram(
			"openai.summary.duration",
			metric.WithDescription("Facility summary call duration in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}
		metricsInst = &summaryMetrics{callCount: callCount, callDuration: callDuration}
	})
	return metricsInst
}

func recordSummaryMetric(ctx context.Context, model string, statusCode int, duration time.Duration, callErr error) {
	metrics := getSummaryMetrics()
	if metrics == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("openai.model", model),
		attribute.Int("http.status_code", statusCode),
		attribute.Bool("error", callErr != nil),
	}
	metrics.callCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.callDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
