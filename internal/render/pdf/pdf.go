// Package pdf draws board diagrams with gofpdf.
package pdf

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"tsumego/internal/board"
	"tsumego/internal/domain/sgf"
)

const (
	margin   = 15.0
	pageSize = 180.0
)

type cell struct {
	stone  sgf.Color
	marker board.Marker
}

// Renderer collects what the board sends and lays it out on an A4 page when
// written.
type Renderer struct {
	size   int
	cells  []cell
	region *board.Region
	title  string
}

func New(size int) *Renderer {
	return &Renderer{size: size, cells: make([]cell, size*size)}
}

func (r *Renderer) SetTitle(title string) {
	r.title = title
}

func (r *Renderer) Clear() {
	for i := range r.cells {
		r.cells[i] = cell{}
	}
}

func (r *Renderer) RenderStone(pt sgf.Point, color sgf.Color) {
	if pt.InBounds(r.size) {
		r.cells[pt.Y*r.size+pt.X].stone = color
	}
}

func (r *Renderer) RenderMarker(pt sgf.Point, marker board.Marker, _ bool, _ sgf.Color) {
	if pt.InBounds(r.size) {
		r.cells[pt.Y*r.size+pt.X].marker = marker
	}
}

func (r *Renderer) ShowRegion(region board.Region) {
	r.region = &region
}

func (r *Renderer) HideRegion() {
	r.region = nil
}

// SetCursor has no meaning on paper.
func (r *Renderer) SetCursor(string) {}

// Write renders the diagram as a single page PDF.
func (r *Renderer) Write(out io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	if r.title != "" {
		pdf.SetXY(margin, margin-8)
		pdf.Cell(pageSize, 6, r.title)
	}

	top, left, w, h := 0, 0, r.size, r.size
	if r.region != nil {
		top, left = max(r.region.Top, 0), max(r.region.Left, 0)
		w, h = min(r.region.Width, r.size-left), min(r.region.Height, r.size-top)
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("empty diagram region %+v", r.region)
	}
	step := pageSize / float64(max(w, h))
	x0 := margin + step/2
	y0 := margin + step/2
	px := func(x int) float64 { return x0 + float64(x-left)*step }
	py := func(y int) float64 { return y0 + float64(y-top)*step }

	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(0, 0, 0)
	for x := left; x < left+w; x++ {
		pdf.Line(px(x), py(top), px(x), py(top+h-1))
	}
	for y := top; y < top+h; y++ {
		pdf.Line(px(left), py(y), px(left+w-1), py(y))
	}

	radius := step * 0.47
	pdf.SetFont("Helvetica", "B", step*1.6)
	for y := top; y < top+h; y++ {
		for x := left; x < left+w; x++ {
			c := r.cells[y*r.size+x]
			cx, cy := px(x), py(y)
			switch c.stone {
			case sgf.Black:
				pdf.SetFillColor(0, 0, 0)
				pdf.Circle(cx, cy, radius, "FD")
			case sgf.White:
				pdf.SetFillColor(255, 255, 255)
				pdf.Circle(cx, cy, radius, "FD")
			}
			r.drawMarker(pdf, c, cx, cy, step)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to draw diagram: %w", err)
	}
	return pdf.Output(out)
}

func (r *Renderer) drawMarker(pdf *gofpdf.Fpdf, c cell, cx, cy, step float64) {
	if c.marker == board.NoMarker {
		return
	}
	if c.stone == sgf.Black {
		pdf.SetDrawColor(255, 255, 255)
		pdf.SetTextColor(255, 255, 255)
	} else {
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetTextColor(0, 0, 0)
	}
	defer pdf.SetDrawColor(0, 0, 0)

	d := step * 0.25
	if text, ok := c.marker.Label(); ok {
		if c.stone == sgf.Empty {
			pdf.SetFillColor(255, 255, 255)
			pdf.Rect(cx-d, cy-d, 2*d, 2*d, "F")
		}
		pdf.SetXY(cx-step/2, cy-step/2)
		pdf.CellFormat(step, step, text, "", 0, "CM", false, 0, "")
		return
	}
	switch c.marker {
	case board.Triangle:
		pdf.Polygon([]gofpdf.PointType{{X: cx, Y: cy - d}, {X: cx - d, Y: cy + d}, {X: cx + d, Y: cy + d}}, "D")
	case board.Square:
		pdf.Rect(cx-d, cy-d, 2*d, 2*d, "D")
	case board.Circle, board.Current:
		pdf.Circle(cx, cy, d, "D")
	case board.Cross:
		pdf.Line(cx-d, cy-d, cx+d, cy+d)
		pdf.Line(cx-d, cy+d, cx+d, cy-d)
	}
}
