package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_CompleteJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "be careful", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "hello", req.Messages[1].Content)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": `{"ok":true}`}, "finish_reason": "stop"},
			},
		})
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL+"/", "gpt-test", time.Second)
	out, err := client.CompleteJSON(context.Background(), "be careful", "hello")

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
}

func TestOpenAIClient_CompleteJSON_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL, "gpt-test", time.Second)
	_, err := client.CompleteJSON(context.Background(), "s", "u")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestOpenAIClient_CompleteJSON_UndecodableError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL, "gpt-test", time.Second)
	_, err := client.CompleteJSON(context.Background(), "s", "u")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestOpenAIClient_CompleteJSON_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL, "gpt-test", time.Second)
	_, err := client.CompleteJSON(context.Background(), "s", "u")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
