package api

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, ws WorkspaceService, llm ModelLister, guidesDir string) {
	h := NewHandler(ws, llm)

	app.Get("/healthz", h.Health)
	app.Get("/models", h.ListModels)
	app.Post("/workspace/query", h.Query)
	app.Post("/api/query", h.Query)

	app.Static("/guides", guidesDir)
	app.Static("/", "./static")
}
