package service

import (
	"github.com/katakuxiko/workspace-agent/internal/model"
)

// NormalizeRagResponse приводит ответ Study RAG к единому виду.
// Терпимо относится к разным формам ответа:
//
//	{"answer": "...", "chunks":    [...]}
//	{"answer": "...", "retrieved": [...]}
//	{"answer": "...", "results":   [...]}
//
// Функция чистая и тотальная: любой мусор на входе даёт в худшем случае
// пустой список чанков, но никогда не ошибку.
func NormalizeRagResponse(resp map[string]any, topK int) *model.RagResult {
	rawChunks := firstList(resp, "chunks", "retrieved", "results")

	chunks := make([]model.Chunk, 0, len(rawChunks))
	for i, raw := range rawChunks {
		if i >= topK {
			break
		}
		item, _ := raw.(map[string]any)
		meta, _ := item["metadata"].(map[string]any)

		text := firstString(item, "content", "text", "page_content")
		if text == "" {
			text = stringField(meta, "text")
		}

		source := stringField(item, "source")
		if source == "" {
			source = firstString(meta, "source", "file_name")
		}
		if source == "" {
			source = "chunk"
		}

		chunkID := stringField(item, "chunk_id")
		if chunkID == "" {
			chunkID = stringField(meta, "chunk_id")
		}

		chunks = append(chunks, model.Chunk{
			Idx:     i + 1,
			Source:  source,
			Page:    intField(meta, "page"),
			ChunkID: chunkID,
			Text:    text,
		})
	}

	return &model.RagResult{
		Answer: stringField(resp, "answer"),
		Chunks: chunks,
		Raw:    resp,
	}
}

// firstList возвращает первый непустой список по приоритету ключей.
func firstList(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		if list, ok := m[k].([]any); ok && len(list) > 0 {
			return list
		}
	}
	return nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringField(m, k); s != "" {
			return s
		}
	}
	return ""
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// intField — числа из JSON приходят как float64.
func intField(m map[string]any, key string) *int {
	f, ok := m[key].(float64)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}
