package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/katakuxiko/workspace-agent/internal/model"
)

// WorkspaceService — единственная операция, нужная транспортному слою.
type WorkspaceService interface {
	Query(ctx context.Context, req model.QueryRequest) (*model.QueryResult, error)
}

// ModelLister — проксирование списка моделей генерационного бэкенда.
type ModelLister interface {
	ListModels(ctx context.Context) ([]openai.Model, error)
}

// Handler хранит зависимости для обработчиков
type Handler struct {
	workspace WorkspaceService
	llm       ModelLister
}

// NewHandler конструктор
func NewHandler(ws WorkspaceService, llm ModelLister) *Handler {
	return &Handler{workspace: ws, llm: llm}
}

// Health — простая проверка
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "service": "workspace-agent"})
}

// ListModels — проксирование списка моделей
func (h *Handler) ListModels(c *fiber.Ctx) error {
	models, err := h.llm.ListModels(c.UserContext())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(models)
}

// Query обслуживает и HTML-форму, и JSON-тело: BodyParser разбирает
// оба формата по Content-Type в один и тот же QueryRequest.
func (h *Handler) Query(c *fiber.Ctx) error {
	req := model.QueryRequest{TopK: 8, Mode: model.ModeAssisted}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	res, err := h.workspace.Query(c.UserContext(), req)
	if err != nil {
		log.Error().Err(err).Str("mode", req.Mode).Msg("workspace query failed")
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}
