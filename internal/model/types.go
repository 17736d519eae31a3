package model

// Режимы работы workspace-оркестратора.
const (
	ModeRagOnly     = "rag_only"
	ModeAssisted    = "assisted"
	ModeManagerAuto = "manager_auto"
	ModeStudyGuide  = "study_guide"
)

// Имена инструментов в agent_trace.
const (
	ToolManager     = "manager"
	ToolRag         = "rag"
	ToolCopilot     = "copilot"
	ToolStudyLLM    = "study_guide_llm"
	ToolFileExport  = "file_export"
	ToolStudyDirect = "study_guide (direct)"
)

// QueryRequest принимается и как JSON-тело, и как HTML-форма.
type QueryRequest struct {
	Question string `json:"question" form:"question"`
	TopK     int    `json:"top_k" form:"top_k"`
	Mode     string `json:"mode" form:"mode"`
}

// Chunk — нормализованный фрагмент контекста из Study RAG.
type Chunk struct {
	Idx     int    `json:"idx"`
	Source  string `json:"source"`
	Page    *int   `json:"page,omitempty"`
	ChunkID string `json:"chunk_id,omitempty"`
	Text    string `json:"text"`
}

// RagResult — ответ Study RAG, приведённый к единому виду.
// Raw хранит исходный payload как есть.
type RagResult struct {
	Answer string         `json:"answer"`
	Chunks []Chunk        `json:"chunks"`
	Raw    map[string]any `json:"raw"`
}

// CopilotResult — непрозрачный ответ Lab Copilot; ожидается поле "answer".
type CopilotResult map[string]any

// TraceStep — одна запись журнала инструментов за запрос.
type TraceStep struct {
	Step    int    `json:"step"`
	Tool    string `json:"tool"`
	Summary string `json:"summary"`
}

// QueryResult — единый конверт ответа для всех режимов.
type QueryResult struct {
	Mode        string        `json:"mode"`
	Question    string        `json:"question"`
	TopK        int           `json:"top_k"`
	Answer      string        `json:"answer"`
	Rag         *RagResult    `json:"rag"`
	Copilot     CopilotResult `json:"copilot"`
	AgentTrace  []TraceStep   `json:"agent_trace"`
	MarkdownURL *string       `json:"markdown_url"`
	PDFURL      *string       `json:"pdf_url"`
}
