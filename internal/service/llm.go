package service

import (
	"context"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/katakuxiko/workspace-agent/internal/config"
)

// LLMClient — клиент генерации текста поверх Ollama /api/generate.
// Список моделей ходит через OpenAI-совместимый /v1 того же бэкенда.
type LLMClient struct {
	client  *http.Client
	oai     *openai.Client
	baseURL string
}

// NewLLMClient создаёт новый клиент с настройками из config
func NewLLMClient(cfg *config.Config) *LLMClient {
	base := strings.TrimRight(cfg.OllamaBaseURL, "/")

	oaiCfg := openai.DefaultConfig("not-needed")
	oaiCfg.BaseURL = base + "/v1"

	return &LLMClient{
		client:  &http.Client{Timeout: generateTimeout},
		oai:     openai.NewClientWithConfig(oaiCfg),
		baseURL: base,
	}
}

// Generate выполняет один блокирующий вызов генерации.
// Пустой ответ бэкенда возвращается как пустая строка.
func (l *LLMClient) Generate(ctx context.Context, prompt, model string, temperature float64, maxTokens int) (string, error) {
	payload := map[string]any{
		"model":       model,
		"prompt":      prompt,
		"temperature": temperature,
		"num_ctx":     4096,
		"num_predict": maxTokens,
		"stream":      false,
	}
	data, err := postJSON(ctx, l.client, l.baseURL+"/api/generate", payload)
	if err != nil {
		return "", err
	}
	text, _ := data["response"].(string)
	return strings.TrimSpace(text), nil
}

// ListModels возвращает список моделей генерационного бэкенда
func (l *LLMClient) ListModels(ctx context.Context) ([]openai.Model, error) {
	resp, err := l.oai.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Models, nil
}
