package export

import (
	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// mdRenderer walks a goldmark AST and writes it into an fpdf document.
// Briefings only carry headings, paragraphs, emphasis, and lists, so the
// walker stays small.
type mdRenderer struct {
	pdf       *fpdf.Fpdf
	source    []byte
	font      string
	size      float64
	bold      bool
	italic    bool
	listLevel int
}

// renderMarkdown parses markdown and writes it into the current page.
func renderMarkdown(pdf *fpdf.Fpdf, markdown string) error {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	r := &mdRenderer{
		pdf:    pdf,
		source: source,
		font:   "Arial",
		size:   10,
	}
	r.updateFont()
	return ast.Walk(doc, r.walk)
}

func (r *mdRenderer) updateFont() {
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.pdf.SetFont(r.font, style, r.size)
}

func (r *mdRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			r.pdf.Ln(5)
			size := 13.0 - float64(node.Level)
			if size < 10 {
				size = 10
			}
			r.pdf.SetFont(r.font, "B", size)
		} else {
			r.pdf.Ln(6)
			r.updateFont()
		}
	case *ast.Paragraph:
		if !entering {
			r.pdf.Ln(7)
		}
	case *ast.Text:
		if entering {
			r.pdf.Write(5, string(node.Text(r.source)))
		}
	case *ast.Emphasis:
		if node.Level == 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.updateFont()
	case *ast.List:
		if entering {
			r.listLevel++
		} else {
			r.listLevel--
			if r.listLevel == 0 {
				r.pdf.Ln(2)
			}
		}
	case *ast.ListItem:
		if entering {
			r.pdf.Ln(5)
			r.pdf.SetX(15 + float64(r.listLevel)*5)
			r.pdf.Write(5, "- ")
		}
	case *ast.ThematicBreak:
		if entering {
			r.pdf.Ln(2)
			r.pdf.Line(15, r.pdf.GetY(), 195, r.pdf.GetY())
			r.pdf.Ln(2)
		}
	}
	return ast.WalkContinue, nil
}
