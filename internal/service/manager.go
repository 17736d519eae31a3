package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/katakuxiko/workspace-agent/internal/model"
	"github.com/katakuxiko/workspace-agent/internal/util"
)

// defaultMaxToolCalls — жёсткий предел шагов manager-цикла.
const defaultMaxToolCalls = 4

// traceSummaryLimit — усечение summary в трейсе (в рунах).
const traceSummaryLimit = 400

type managerState int

const (
	stateDeciding managerState = iota
	stateActing
	stateDone
)

// decision — структурированный выбор policy-модели.
type decision struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// Manager — ограниченный цикл "спросить модель, какой инструмент дальше".
// На каждом шаге модель выбирает rag, copilot или final; цикл строго
// последовательный и завершается не позднее maxSteps шагов.
type Manager struct {
	gen      generator
	rag      retriever
	copilot  copiloter
	model    string
	maxSteps int
}

func NewManager(gen generator, rag retriever, copilot copiloter, modelName string) *Manager {
	return &Manager{
		gen:      gen,
		rag:      rag,
		copilot:  copilot,
		model:    modelName,
		maxSteps: defaultMaxToolCalls,
	}
}

// Run прогоняет цикл решений и синтезирует финальный ответ по трейсу.
// Возвращает последний RagResult/CopilotResult, полученные внутри цикла.
func (m *Manager) Run(ctx context.Context, question string, topK int) (string, *model.RagResult, model.CopilotResult, []model.TraceStep, error) {
	trace := make([]model.TraceStep, 0, m.maxSteps)
	var ragRes *model.RagResult
	var copRes model.CopilotResult

	state := stateDeciding
	for steps := 0; state != stateDone && steps < m.maxSteps; steps++ {
		raw, err := m.gen.Generate(ctx, m.decisionPrompt(question, trace), m.model, 0.1, 256)
		if err != nil {
			return "", nil, nil, nil, err
		}
		dec := parseDecision(raw)
		state = stateActing

		switch dec.Action {
		case "final":
			trace = append(trace, model.TraceStep{
				Step:    len(trace) + 1,
				Tool:    model.ToolManager,
				Summary: "Stop and answer now. Reason: " + dec.Reason,
			})
			state = stateDone

		case "rag":
			resp, err := m.rag.Query(ctx, question, topK)
			if err != nil {
				return "", nil, nil, nil, err
			}
			ragRes = NormalizeRagResponse(resp, topK)
			summary := ragRes.Answer
			if summary == "" {
				if len(ragRes.Chunks) > 0 {
					summary = ragRes.Chunks[0].Text
				} else {
					summary = "(no chunks)"
				}
			}
			trace = append(trace, model.TraceStep{
				Step:    len(trace) + 1,
				Tool:    model.ToolRag,
				Summary: util.TruncateRunes(summary, traceSummaryLimit),
			})
			state = stateDeciding

		case "copilot":
			resp, err := m.copilot.Chat(ctx, question, topK)
			if err != nil {
				return "", nil, nil, nil, err
			}
			copRes = resp
			summary, _ := resp["answer"].(string)
			if summary == "" {
				summary = "(no answer)"
			}
			trace = append(trace, model.TraceStep{
				Step:    len(trace) + 1,
				Tool:    model.ToolCopilot,
				Summary: util.TruncateRunes(summary, traceSummaryLimit),
			})
			state = stateDeciding
		}
	}

	answer, err := m.gen.Generate(ctx, m.finalPrompt(question, trace), m.model, 0.2, 512)
	if err != nil {
		return "", nil, nil, nil, err
	}
	return answer, ragRes, copRes, trace, nil
}

func (m *Manager) decisionPrompt(question string, trace []model.TraceStep) string {
	hist := renderTrace(trace)
	if hist == "" {
		hist = "(no previous steps)"
	}
	return fmt.Sprintf(`You are the manager brain for Workspace Agent.

The user asked:
%s

Internal tool-call history so far:
%s

Tools you can choose:
  - "rag": call Study RAG /query to fetch top-K chunks.
  - "copilot": call Lab Copilot /chat (which itself uses RAG).
  - "final": stop calling tools and produce the final answer.

Respond with STRICT JSON, no extra text:
{
  "action": "rag" | "copilot" | "final",
  "reason": "short explanation"
}`, question, hist)
}

func (m *Manager) finalPrompt(question string, trace []model.TraceStep) string {
	hist := renderTrace(trace)
	if hist == "" {
		hist = "(no internal steps executed)"
	}
	return fmt.Sprintf(`You are Workspace Agent.

The user asked:
%s

Here is the internal tool-call trace:
%s

Using ONLY what is implied or explicitly stated in that trace,
provide a clear, concise answer. If information is missing, say so
instead of hallucinating.`, question, hist)
}

func renderTrace(trace []model.TraceStep) string {
	lines := make([]string, 0, len(trace))
	for _, t := range trace {
		lines = append(lines, fmt.Sprintf("Step %d via %s: %s", t.Step, t.Tool, t.Summary))
	}
	return strings.Join(lines, "\n")
}

// parseDecision — тотальный разбор вывода policy-модели.
// Модель может обернуть JSON в прозу: срезаем всё до первой "{"
// и после последней "}". Любая ошибка разбора или неизвестное
// действие даёт безопасный default "final".
func parseDecision(raw string) decision {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "{") {
		if i := strings.Index(s, "{"); i >= 0 {
			s = s[i:]
		}
	}
	if !strings.HasSuffix(s, "}") {
		if i := strings.LastIndex(s, "}"); i >= 0 {
			s = s[:i+1]
		}
	}

	var d decision
	if err := json.Unmarshal([]byte(s), &d); err != nil {
		return decision{Action: "final", Reason: "Failed to parse JSON; defaulting to final."}
	}
	d.Action = strings.ToLower(strings.TrimSpace(d.Action))
	d.Reason = strings.TrimSpace(d.Reason)

	switch d.Action {
	case "rag", "copilot", "final":
	default:
		d.Action = "final"
	}
	return d
}
