package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/caremap/medifinder/internal/domain/providers"
	"github.com/caremap/medifinder/pkg/config"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

// TwilioSMSSender sends text messages via the Twilio Messages API.
type TwilioSMSSender struct {
	accountSID string
	authToken  string
	fromNumber string
	httpClient *http.Client
	baseURL    string
}

var _ providers.SMSSender = (*TwilioSMSSender)(nil)

// NewTwilioSMSSender creates a new Twilio sender. It fails when any credential
// is absent; callers treat that as the SMS feature being disabled.
func NewTwilioSMSSender(cfg *config.SMSConfig) (*TwilioSMSSender, error) {
	return NewTwilioSMSSenderWithOptions(cfg, twilioBaseURL, nil)
}

// NewTwilioSMSSenderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewTwilioSMSSenderWithOptions(cfg *config.SMSConfig, baseURL string, httpClient *http.Client) (*TwilioSMSSender, error) {
	if cfg == nil || !cfg.Configured() {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER must be set")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = twilioBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &TwilioSMSSender{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		httpClient: httpClient,
		baseURL:    baseURL,
	}, nil
}

type twilioResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"message,omitempty"`
}

// SendText sends a text message and returns the provider message SID.
func (t *TwilioSMSSender) SendText(ctx context.Context, to, body string) (string, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL, t.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.fromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("twilio API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var twilioResp twilioResponse
	if err := json.Unmarshal(respBody, &twilioResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if twilioResp.SID == "" {
		return "", fmt.Errorf("no message SID in response")
	}

	return twilioResp.SID, nil
}
