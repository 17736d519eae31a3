package config

import (
	"os"
)

type Config struct {
	ServerAddr     string
	RagBaseURL     string
	CopilotBaseURL string
	OllamaBaseURL  string
	ChatModel      string
	ManagerModel   string
	StudyModel     string
	GuidesDir      string
}

func Load() *Config {
	chat := getenv("WORKSPACE_CHAT_MODEL", "llama3.1")
	return &Config{
		ServerAddr:     getenv("SERVER_ADDR", ":8000"),
		RagBaseURL:     getenv("STUDY_RAG_BASE_URL", "http://host.docker.internal:8080"),
		CopilotBaseURL: getenv("LAB_COPILOT_BASE_URL", "http://host.docker.internal:8081"),
		OllamaBaseURL:  getenv("OLLAMA_BASE_URL", "http://host.docker.internal:11434"),
		ChatModel:      chat,
		// менеджер и study-модель по умолчанию совпадают с chat-моделью
		ManagerModel: getenv("WORKSPACE_MANAGER_MODEL", chat),
		StudyModel:   getenv("WORKSPACE_STUDY_MODEL", chat),
		GuidesDir:    getenv("GUIDES_DIR", "data/study_guides"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
