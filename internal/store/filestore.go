package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/katakuxiko/workspace-agent/internal/pdf"
	"github.com/katakuxiko/workspace-agent/internal/util"
)

const slugMaxLen = 80

// ExportInfo — пути и публичные URL сохранённых артефактов.
// PDF опционален: при ошибке рендера остаётся nil.
type ExportInfo struct {
	MarkdownPath string
	MarkdownURL  string
	PDFPath      *string
	PDFURL       *string
}

// GuideStore — файловое хранилище study-гайдов. Имя файла — слаг вопроса,
// поэтому одинаковые вопросы перезаписывают друг друга.
type GuideStore struct {
	dir        string
	publicBase string
	renderPDF  func(markdownText, title string) ([]byte, error)
}

func NewGuideStore(dir, publicBase string) (*GuideStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare guide store: %w", err)
	}
	return &GuideStore{
		dir:        dir,
		publicBase: publicBase,
		renderPDF:  pdf.Render,
	}, nil
}

// Save пишет markdown (обязательный шаг) и пытается отрендерить PDF.
// Ошибка PDF-рендера глотается: гайд остаётся доступен как markdown.
func (s *GuideStore) Save(markdownText, question string) (ExportInfo, error) {
	slug := util.TruncateRunes(util.Slugify(question), slugMaxLen)

	mdName := slug + ".md"
	mdPath := filepath.Join(s.dir, mdName)
	if err := os.WriteFile(mdPath, []byte(markdownText), 0o644); err != nil {
		return ExportInfo{}, fmt.Errorf("write markdown: %w", err)
	}

	info := ExportInfo{
		MarkdownPath: mdPath,
		MarkdownURL:  s.publicBase + "/" + mdName,
	}

	data, err := s.renderPDF(markdownText, question)
	if err == nil {
		pdfName := slug + ".pdf"
		pdfPath := filepath.Join(s.dir, pdfName)
		err = os.WriteFile(pdfPath, data, 0o644)
		if err == nil {
			pdfURL := s.publicBase + "/" + pdfName
			info.PDFPath = &pdfPath
			info.PDFURL = &pdfURL
		}
	}
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("pdf render skipped")
	}

	return info, nil
}
