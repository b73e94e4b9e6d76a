// Package pdf renders research data as a PDF report with inline charts.
package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	chartx "github.com/tanpawarit/pharmapilot/report/chart"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var placeholderPattern = regexp.MustCompile(`^\{\{CHART:([a-z_]+)\}\}$`)

type Option func(*Renderer)

func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

type Renderer struct {
	charts contractx.ChartGenerator
	now    func() time.Time
	md     goldmark.Markdown
}

var _ contractx.PDFRenderer = (*Renderer)(nil)

// New builds a renderer. A nil chart generator produces a report without images.
func New(charts contractx.ChartGenerator, opts ...Option) *Renderer {
	r := &Renderer{
		charts: charts,
		now:    time.Now,
		md:     goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Render returns the report as base64.
func (r *Renderer) Render(ctx context.Context, data contractx.ResearchData, molecule string) (string, error) {
	raw, err := r.Document(ctx, data, molecule)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Document returns the raw PDF bytes.
func (r *Renderer) Document(ctx context.Context, data contractx.ResearchData, molecule string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := r.now()
	doc := fpdf.New("P", "mm", "Letter", "")
	doc.SetTitle("Pharma Report: "+molecule, true)
	doc.SetCreator("PharmaPilot", true)
	doc.SetMargins(18, 18, 18)
	doc.SetAutoPageBreak(true, 18)
	doc.AddPage()

	w := &writer{
		pdf:    doc,
		tr:     doc.UnicodeTranslatorFromDescriptor(""),
		images: r.registerCharts(ctx, doc, data),
	}

	src := []byte(Markdown(data, molecule, now))
	root := r.md.Parser().Parse(text.NewReader(src))
	w.src = src
	w.block(root, 0)

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("%w: build pdf: %v", contractx.ErrRender, err)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: write pdf: %v", contractx.ErrRender, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) registerCharts(ctx context.Context, doc *fpdf.Fpdf, data contractx.ResearchData) map[string]string {
	images := map[string]string{}
	if r.charts == nil {
		return images
	}
	for _, spec := range r.charts.Generate(data) {
		png, err := chartImage(spec)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("chart", spec.ID).Msg("skipping chart image")
			continue
		}
		name := "chart_" + spec.ID
		doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		images[spec.ID] = name
	}
	return images
}

type run struct {
	text  string
	style string
}

type writer struct {
	pdf    *fpdf.Fpdf
	src    []byte
	tr     func(string) string
	images map[string]string
}

func (w *writer) block(n ast.Node, depth int) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Heading:
			w.heading(node)
		case *ast.Paragraph, *ast.TextBlock:
			w.paragraph(node, depth)
		case *ast.List:
			w.list(node, depth)
		case *ast.FencedCodeBlock:
			w.code(node.Lines())
		case *ast.CodeBlock:
			w.code(node.Lines())
		case *ast.ThematicBreak:
			w.rule()
		case *extast.Table:
			w.table(node)
		default:
			w.block(node, depth)
		}
	}
}

var headingSizes = map[int]float64{1: 18, 2: 14, 3: 12}

func (w *writer) heading(h *ast.Heading) {
	size, ok := headingSizes[h.Level]
	if !ok {
		size = 11
	}
	w.pdf.Ln(2)
	w.pdf.SetFont("Helvetica", "B", size)
	if h.Level <= 2 {
		w.pdf.SetTextColor(30, 58, 138)
	}
	w.pdf.MultiCell(0, size*0.5, w.tr(w.plain(h)), "", "L", false)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Ln(2)
}

func (w *writer) paragraph(n ast.Node, depth int) {
	if m := placeholderPattern.FindStringSubmatch(strings.TrimSpace(w.plain(n))); m != nil {
		w.chart(m[1])
		return
	}
	w.writeRuns(w.runs(n), depth)
	w.pdf.Ln(6)
}

func (w *writer) list(l *ast.List, depth int) {
	i := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "-"
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d.", i)
			i++
		}
		w.pdf.SetFont("Helvetica", "", 10)
		w.pdf.SetX(w.left() + float64(depth)*6)
		w.pdf.Write(5, marker+" ")
		w.block(item, depth+1)
	}
}

func (w *writer) code(lines *text.Segments) {
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(w.src))
	}
	w.pdf.SetFont("Courier", "", 9)
	w.pdf.MultiCell(0, 4.5, w.tr(strings.TrimRight(b.String(), "\n")), "", "L", false)
	w.pdf.Ln(2)
}

func (w *writer) rule() {
	left, _, right, _ := w.pdf.GetMargins()
	pageW, _ := w.pdf.GetPageSize()
	y := w.pdf.GetY() + 2
	w.pdf.Line(left, y, pageW-right, y)
	w.pdf.Ln(5)
}

func (w *writer) table(t *extast.Table) {
	w.pdf.SetFont("Helvetica", "", 9)
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		cells := make([]string, 0, 4)
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(w.plain(cell)))
		}
		style := ""
		if _, ok := row.(*extast.TableHeader); ok {
			style = "B"
		}
		w.pdf.SetFont("Helvetica", style, 9)
		w.pdf.MultiCell(0, 5, w.tr(strings.Join(cells, "  |  ")), "B", "L", false)
	}
	w.pdf.Ln(3)
}

func (w *writer) chart(id string) {
	name, ok := w.images[id]
	if !ok {
		return
	}
	left := w.left()
	pageW, _ := w.pdf.GetPageSize()
	_, _, right, _ := w.pdf.GetMargins()
	width := pageW - left - right
	if id == chartx.MarketShare {
		width /= 2
	}
	w.pdf.ImageOptions(name, left, w.pdf.GetY(), width, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	w.pdf.Ln(4)
}

func (w *writer) writeRuns(runs []run, depth int) {
	if depth > 0 && w.pdf.GetX() <= w.left()+0.1 {
		w.pdf.SetX(w.left() + float64(depth)*6)
	}
	for _, r := range runs {
		w.pdf.SetFont("Helvetica", r.style, 10)
		w.pdf.Write(5, w.tr(r.text))
	}
	w.pdf.SetFont("Helvetica", "", 10)
}

func (w *writer) left() float64 {
	left, _, _, _ := w.pdf.GetMargins()
	return left
}

func (w *writer) runs(n ast.Node) []run {
	var out []run
	w.collect(n, "", &out)
	return out
}

func (w *writer) collect(n ast.Node, style string, out *[]run) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			s := string(node.Segment.Value(w.src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				s += " "
			}
			*out = append(*out, run{text: s, style: style})
		case *ast.String:
			*out = append(*out, run{text: string(node.Value), style: style})
		case *ast.Emphasis:
			next := "I"
			if node.Level >= 2 {
				next = "B"
			}
			w.collect(node, mergeStyle(style, next), out)
		case *ast.AutoLink:
			*out = append(*out, run{text: string(node.Label(w.src)), style: style})
		default:
			w.collect(node, style, out)
		}
	}
}

func (w *writer) plain(n ast.Node) string {
	var b strings.Builder
	for _, r := range w.runs(n) {
		b.WriteString(r.text)
	}
	return b.String()
}

func mergeStyle(a, b string) string {
	if strings.Contains(a, b) {
		return a
	}
	return a + b
}
