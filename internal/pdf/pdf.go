package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	bodySize   = 11.0
	pageMargin = 15.0
)

// Render рендерит markdown-текст в PDF-байты.
// Печатная версия гайда — best-effort: вызывающая сторона вправе
// проигнорировать ошибку и остаться с markdown-файлом.
func Render(markdownText, title string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, true)
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.AddPage()
	doc.SetFont("Arial", "", bodySize)

	source := []byte(markdownText)
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	r := &renderer{
		doc:    doc,
		source: source,
		tr:     doc.UnicodeTranslatorFromDescriptor(""),
		size:   bodySize,
	}
	if err := ast.Walk(root, r.walk); err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// renderer печатает AST goldmark через fpdf: заголовки, абзацы,
// списки, код и разделители. Таблицы и картинки не поддерживаются.
type renderer struct {
	doc    *fpdf.Fpdf
	source []byte
	tr     func(string) string

	size      float64
	bold      bool
	italic    bool
	code      bool
	listDepth int
	ordinals  []int
}

func (r *renderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n.Kind() {
	case ast.KindHeading:
		h := n.(*ast.Heading)
		if entering {
			r.doc.Ln(3)
			r.size = headingSize(h.Level)
			r.bold = true
		} else {
			r.doc.Ln(r.lineHeight() + 1)
			r.size = bodySize
			r.bold = false
		}

	case ast.KindParagraph:
		if !entering {
			r.doc.Ln(r.lineHeight() + 2)
		}

	case ast.KindTextBlock:
		if !entering {
			r.doc.Ln(r.lineHeight())
		}

	case ast.KindText:
		if entering {
			t := n.(*ast.Text)
			r.applyFont()
			r.doc.Write(r.lineHeight(), r.tr(string(t.Segment.Value(r.source))))
			if t.SoftLineBreak() || t.HardLineBreak() {
				r.doc.Ln(r.lineHeight())
			}
		}

	case ast.KindEmphasis:
		em := n.(*ast.Emphasis)
		if em.Level >= 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}

	case ast.KindCodeSpan:
		r.code = entering

	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if entering {
			r.code = true
			r.applyFont()
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				line := strings.TrimRight(string(seg.Value(r.source)), "\n")
				r.doc.MultiCell(0, r.lineHeight(), r.tr(line), "", "L", false)
			}
			r.code = false
			r.doc.Ln(2)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindList:
		l := n.(*ast.List)
		if entering {
			r.listDepth++
			start := 0
			if l.IsOrdered() {
				start = l.Start
				if start <= 0 {
					start = 1
				}
			}
			r.ordinals = append(r.ordinals, start)
		} else {
			r.listDepth--
			r.ordinals = r.ordinals[:len(r.ordinals)-1]
			if r.listDepth == 0 {
				r.doc.Ln(2)
			}
		}

	case ast.KindListItem:
		if entering {
			r.doc.SetX(pageMargin + float64(r.listDepth-1)*5)
			marker := "- "
			if i := len(r.ordinals) - 1; i >= 0 && r.ordinals[i] > 0 {
				marker = fmt.Sprintf("%d. ", r.ordinals[i])
				r.ordinals[i]++
			}
			r.applyFont()
			r.doc.Write(r.lineHeight(), marker)
		}

	case ast.KindThematicBreak:
		if entering {
			pageW, _ := r.doc.GetPageSize()
			y := r.doc.GetY() + 2
			r.doc.Line(pageMargin, y, pageW-pageMargin, y)
			r.doc.Ln(5)
		}
	}

	return ast.WalkContinue, nil
}

func (r *renderer) applyFont() {
	family := "Arial"
	if r.code {
		family = "Courier"
	}
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.doc.SetFont(family, style, r.size)
}

func (r *renderer) lineHeight() float64 {
	return r.size * 0.5
}

func headingSize(level int) float64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 14
	case 3:
		return 12.5
	default:
		return 11.5
	}
}
