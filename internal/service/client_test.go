package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katakuxiko/workspace-agent/internal/config"
)

func TestRagClientQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "what is entropy", body["question"])
		assert.Equal(t, float64(5), body["k"])

		json.NewEncoder(w).Encode(map[string]any{"answer": "ok"})
	}))
	defer srv.Close()

	c := NewRagClient(srv.URL)
	resp, err := c.Query(context.Background(), "what is entropy", 5)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp["answer"])
}

func TestRagClientBadStatusIsBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewRagClient(srv.URL).Query(context.Background(), "q", 3)
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Contains(t, be.Error(), "500")
}

func TestRagClientNonJSONIsBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := NewRagClient(srv.URL).Query(context.Background(), "q", 3)
	var be *BackendError
	require.ErrorAs(t, err, &be)
}

func TestCopilotClientChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["top_k"])

		json.NewEncoder(w).Encode(map[string]any{"answer": "hi", "extra": "kept"})
	}))
	defer srv.Close()

	resp, err := NewCopilotClient(srv.URL).Chat(context.Background(), "q", 7)
	require.NoError(t, err)
	assert.Equal(t, "hi", resp["answer"])
	assert.Equal(t, "kept", resp["extra"])
}

func TestLLMClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3.1", body["model"])
		assert.Equal(t, false, body["stream"])
		assert.Equal(t, float64(4096), body["num_ctx"])

		json.NewEncoder(w).Encode(map[string]any{"response": "  hello there \n"})
	}))
	defer srv.Close()

	c := NewLLMClient(&config.Config{OllamaBaseURL: srv.URL})
	out, err := c.Generate(context.Background(), "prompt", "llama3.1", 0.2, 512)
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)
}

func TestLLMClientEmptyResponseField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"done": true})
	}))
	defer srv.Close()

	c := NewLLMClient(&config.Config{OllamaBaseURL: srv.URL})
	out, err := c.Generate(context.Background(), "prompt", "m", 0.2, 512)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
