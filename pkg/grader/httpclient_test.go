package grader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/open-cogeval/cogeval/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPChatClient_MissingCredentialIsConfigurationError(t *testing.T) {
	t.Setenv("COGEVAL_TEST_MISSING_KEY", "")
	_, err := NewHTTPChatClient("", "COGEVAL_TEST_MISSING_KEY")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
}

func TestHTTPChatClient_Complete_SendsPromptAndParsesText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		var reqBody messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "system prompt text", reqBody.System)
		require.Len(t, reqBody.Messages, 1)
		assert.Equal(t, "user prompt text", reqBody.Messages[0].Content)

		resp := messagesResponse{}
		resp.Content = []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{{Type: "text", Text: `{"score": 1.0, "reasoning": "ok"}`}}
		w.Header().Set("content-type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	os.Setenv("COGEVAL_TEST_KEY", "test-key")
	defer os.Unsetenv("COGEVAL_TEST_KEY")

	client, err := NewHTTPChatClient("", "COGEVAL_TEST_KEY", WithBaseURL(srv.URL))
	require.NoError(t, err)

	text, err := client.Complete(context.Background(), "system prompt text", "user prompt text")
	require.NoError(t, err)
	assert.Equal(t, `{"score": 1.0, "reasoning": "ok"}`, text)
}

func TestHTTPChatClient_Complete_SurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"type": "rate_limit_error", "message": "slow down"},
		})
	}))
	defer srv.Close()

	os.Setenv("COGEVAL_TEST_KEY2", "test-key")
	defer os.Unsetenv("COGEVAL_TEST_KEY2")

	client, err := NewHTTPChatClient("", "COGEVAL_TEST_KEY2", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")
}
