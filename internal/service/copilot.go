package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/katakuxiko/workspace-agent/internal/model"
)

// CopilotClient — коннектор к Lab Copilot /chat. Copilot сам ходит в RAG,
// но мы на это не полагаемся: для отображения делаем свой запрос к Study RAG.
type CopilotClient struct {
	client  *http.Client
	baseURL string
}

func NewCopilotClient(baseURL string) *CopilotClient {
	return &CopilotClient{
		client:  &http.Client{Timeout: generateTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *CopilotClient) Chat(ctx context.Context, question string, topK int) (model.CopilotResult, error) {
	payload := map[string]any{"question": question, "top_k": topK}
	data, err := postJSON(ctx, c.client, c.baseURL+"/chat", payload)
	if err != nil {
		return nil, err
	}
	return model.CopilotResult(data), nil
}
