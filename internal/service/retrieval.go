package service

import (
	"context"
	"net/http"
	"strings"
)

// RagClient — коннектор к Study RAG /query. Ответ отдаётся как есть,
// нормализация — отдельный шаг (normalize.go).
type RagClient struct {
	client  *http.Client
	baseURL string
}

func NewRagClient(baseURL string) *RagClient {
	return &RagClient{
		client:  &http.Client{Timeout: queryTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (r *RagClient) Query(ctx context.Context, question string, k int) (map[string]any, error) {
	payload := map[string]any{"question": question, "k": k}
	return postJSON(ctx, r.client, r.baseURL+"/query", payload)
}
