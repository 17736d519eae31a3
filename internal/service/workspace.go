package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/katakuxiko/workspace-agent/internal/config"
	"github.com/katakuxiko/workspace-agent/internal/model"
	"github.com/katakuxiko/workspace-agent/internal/store"
)

// Границы top_k; запросы за пределами приводятся к ним.
const (
	defaultTopK = 8
	maxTopK     = 50
)

type generator interface {
	Generate(ctx context.Context, prompt, model string, temperature float64, maxTokens int) (string, error)
}

type retriever interface {
	Query(ctx context.Context, question string, k int) (map[string]any, error)
}

type copiloter interface {
	Chat(ctx context.Context, question string, topK int) (model.CopilotResult, error)
}

type exporter interface {
	Save(markdownText, question string) (store.ExportInfo, error)
}

// Workspace — корневой оркестратор: валидирует запрос, выбирает стратегию
// по режиму и возвращает единый конверт QueryResult.
type Workspace struct {
	cfg      *config.Config
	gen      generator
	rag      retriever
	copilot  copiloter
	exporter exporter
	manager  *Manager
}

func NewWorkspace(cfg *config.Config, gen generator, rag retriever, copilot copiloter, exp exporter) *Workspace {
	return &Workspace{
		cfg:      cfg,
		gen:      gen,
		rag:      rag,
		copilot:  copilot,
		exporter: exp,
		manager:  NewManager(gen, rag, copilot, cfg.ManagerModel),
	}
}

// Query — единая точка входа для формы и JSON API.
func (w *Workspace) Query(ctx context.Context, req model.QueryRequest) (*model.QueryResult, error) {
	question := strings.TrimSpace(req.Question)
	topK := clampTopK(req.TopK)

	// пустой вопрос не должен дойти ни до одного бэкенда
	if question == "" {
		return emptyResult(req.Mode, topK), nil
	}

	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	log.Debug().Str("mode", mode).Int("top_k", topK).Msg("dispatching workspace query")

	switch mode {
	case model.ModeRagOnly:
		return w.runRagOnly(ctx, question, topK)
	case model.ModeStudyGuide:
		return w.runStudyGuide(ctx, question, topK)
	case model.ModeManagerAuto:
		return w.runManagerAuto(ctx, question, topK)
	default:
		return w.runAssisted(ctx, question, topK)
	}
}

// runRagOnly: поиск + нормализация; ответ бэкенда, иначе короткая
// суммаризация чанков chat-моделью.
func (w *Workspace) runRagOnly(ctx context.Context, question string, topK int) (*model.QueryResult, error) {
	raw, err := w.rag.Query(ctx, question, topK)
	if err != nil {
		return nil, err
	}
	ragRes := NormalizeRagResponse(raw, topK)

	answer := ragRes.Answer
	if answer == "" && len(ragRes.Chunks) > 0 {
		answer, err = w.gen.Generate(ctx, groundedPrompt(question, ragRes.Chunks, true), w.cfg.ChatModel, 0.2, 512)
		if err != nil {
			return nil, err
		}
	}

	res := emptyResult(model.ModeRagOnly, topK)
	res.Question = question
	res.Answer = answer
	res.Rag = ragRes
	return res, nil
}

// runAssisted: Study RAG для отображения чанков + Lab Copilot за ответом.
// Приоритет ответа: copilot, затем rag, затем суммаризация чанков.
func (w *Workspace) runAssisted(ctx context.Context, question string, topK int) (*model.QueryResult, error) {
	raw, err := w.rag.Query(ctx, question, topK)
	if err != nil {
		return nil, err
	}
	ragRes := NormalizeRagResponse(raw, topK)

	copRes, err := w.copilot.Chat(ctx, question, topK)
	if err != nil {
		return nil, err
	}

	answer, _ := copRes["answer"].(string)
	if answer == "" {
		answer = ragRes.Answer
	}
	if answer == "" && len(ragRes.Chunks) > 0 {
		answer, err = w.gen.Generate(ctx, groundedPrompt(question, ragRes.Chunks, false), w.cfg.ChatModel, 0.2, 512)
		if err != nil {
			return nil, err
		}
	}

	res := emptyResult(model.ModeAssisted, topK)
	res.Question = question
	res.Answer = answer
	res.Rag = ragRes
	res.Copilot = copRes
	return res, nil
}

// runManagerAuto: явная просьба про study guide/plan обходит цикл решений
// и уходит напрямую в study_guide; иначе работает Manager.
func (w *Workspace) runManagerAuto(ctx context.Context, question string, topK int) (*model.QueryResult, error) {
	if wantsStudyGuide(question) {
		res, err := w.runStudyGuide(ctx, question, topK)
		if err != nil {
			return nil, err
		}
		direct := model.TraceStep{
			Step:    1,
			Tool:    model.ToolStudyDirect,
			Summary: "User explicitly asked for a study guide/plan, so manager delegated directly to the study_guide tool.",
		}
		res.AgentTrace = append([]model.TraceStep{direct}, res.AgentTrace...)
		res.Mode = model.ModeManagerAuto
		return res, nil
	}

	answer, ragRes, copRes, trace, err := w.manager.Run(ctx, question, topK)
	if err != nil {
		return nil, err
	}

	res := emptyResult(model.ModeManagerAuto, topK)
	res.Question = question
	res.Answer = answer
	res.Rag = ragRes
	res.Copilot = copRes
	res.AgentTrace = trace
	return res, nil
}

// runStudyGuide: поиск, генерация структурированного гайда study-моделью,
// экспорт в markdown (+ PDF по возможности) и фиксированный трейс из трёх шагов.
func (w *Workspace) runStudyGuide(ctx context.Context, question string, topK int) (*model.QueryResult, error) {
	raw, err := w.rag.Query(ctx, question, topK)
	if err != nil {
		return nil, err
	}
	ragRes := NormalizeRagResponse(raw, topK)

	var contextText string
	if len(ragRes.Chunks) > 0 {
		contextText = contextBlock(ragRes.Chunks)
	} else if ragRes.Answer != "" {
		contextText = ragRes.Answer
	} else {
		contextText = "(no context found)"
	}

	guide, err := w.gen.Generate(ctx, studyGuidePrompt(question, contextText), w.cfg.StudyModel, 0.3, 1024)
	if err != nil {
		return nil, err
	}

	info, err := w.exporter.Save(guide, question)
	if err != nil {
		return nil, fmt.Errorf("save study guide: %w", err)
	}

	res := emptyResult(model.ModeStudyGuide, topK)
	res.Question = question
	res.Answer = guide
	res.Rag = ragRes
	res.AgentTrace = []model.TraceStep{
		{Step: 1, Tool: model.ToolRag, Summary: fmt.Sprintf("Fetched top-%d chunks from Study RAG.", topK)},
		{Step: 2, Tool: model.ToolStudyLLM, Summary: "Generated a structured study guide based on RAG context."},
		{Step: 3, Tool: model.ToolFileExport, Summary: "Saved guide as markdown and optional PDF."},
	}
	res.MarkdownURL = &info.MarkdownURL
	res.PDFURL = info.PDFURL
	return res, nil
}

func wantsStudyGuide(question string) bool {
	q := strings.ToLower(question)
	return strings.Contains(q, "study guide") ||
		strings.Contains(q, "study plan") ||
		strings.Contains(q, "learning plan")
}

func clampTopK(k int) int {
	if k <= 0 {
		return defaultTopK
	}
	if k > maxTopK {
		return maxTopK
	}
	return k
}

// emptyResult — конверт со всеми полями в нейтральных значениях.
func emptyResult(mode string, topK int) *model.QueryResult {
	return &model.QueryResult{
		Mode:       mode,
		TopK:       topK,
		AgentTrace: []model.TraceStep{},
	}
}

func contextBlock(chunks []model.Chunk) string {
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s", c.Idx, c.Text)
	}
	return b.String()
}

// groundedPrompt — короткий ответ строго по чанкам. honest добавляет
// просьбу честно признать нехватку контекста (режим rag_only).
func groundedPrompt(question string, chunks []model.Chunk, honest bool) string {
	p := fmt.Sprintf(`The user asked:
%s

Here are context snippets from their Study RAG library:
%s

Provide a short, direct answer using ONLY this context.`, question, contextBlock(chunks))
	if honest {
		p += "\nIf you truly cannot answer from it, say so honestly."
	}
	return p
}

func studyGuidePrompt(question, contextText string) string {
	return fmt.Sprintf(`You are a strict but helpful study planner.

The user wants a study guide for:
%s

Here is the context from their Study RAG library:
%s

Build a clear, structured study guide that stays grounded in the context.
Requirements:
- Use markdown.
- Start with a short overview.
- Then create 5-10 sections with headings.
- Under each section, list concrete bullet points, exercises, or checkpoints.
- Do NOT invent facts that are not supported by the context.`, question, contextText)
}
