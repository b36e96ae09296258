package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremap/medifinder/pkg/config"
	apperrors "github.com/caremap/medifinder/pkg/errors"
)

func fixedClock() time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClientWithOptions(&config.OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}, server.Client(), fixedClock)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(&config.OpenAIConfig{})
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestSummarizeFacility_Success(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Patients rate the care highly.  "}}]}`))
	})

	got, err := client.SummarizeFacility(context.Background(), "General Hospital")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody.Model)
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Contains(t, gotBody.Messages[1].Content, "General Hospital")
	assert.Equal(t, 0.3, gotBody.Temperature)
	assert.Equal(t, 400, gotBody.MaxTokens)

	assert.Equal(t, "General Hospital", got.FacilityName)
	assert.Equal(t, "Patients rate the care highly.", got.Summary)
	assert.Equal(t, "2026-08-01T12:00:00Z", got.GeneratedAt)
}

func TestSummarizeFacility_EmptyName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty facility name")
	})

	_, err := client.SummarizeFacility(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestSummarizeFacility_APIErrorCarriesMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	})

	_, err := client.SummarizeFacility(context.Background(), "General Hospital")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeExternal, apperrors.TypeOf(err))
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestSummarizeFacility_MissingCompletion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.SummarizeFacility(context.Background(), "General Hospital")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeExternal, apperrors.TypeOf(err))
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(&config.OpenAIConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", client.model)
	assert.Equal(t, defaultBaseURL, client.baseURL)

	custom, err := NewClient(&config.OpenAIConfig{APIKey: "k", Model: "gpt-4o", BaseURL: "https://proxy.example.com/v1/"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", custom.model)
	assert.Equal(t, "https://proxy.example.com/v1", custom.baseURL)
}
