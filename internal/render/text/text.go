// Package text renders a board as rows of ASCII characters.
package text

import (
	"strings"
	"unicode/utf8"

	"tsumego/internal/board"
	"tsumego/internal/domain/sgf"
)

const (
	emptyCell = '.'
	blackCell = 'X'
	whiteCell = 'O'
)

var markerCells = map[board.Marker]rune{
	board.Triangle: 'T',
	board.Square:   'S',
	board.Circle:   'C',
	board.Cross:    'M',
	board.Current:  '*',
	board.Dim:      ',',
}

type Renderer struct {
	size   int
	cells  []rune
	region *board.Region
	cursor string
}

func New(size int) *Renderer {
	r := &Renderer{size: size, cells: make([]rune, size*size)}
	r.Clear()
	return r
}

func (r *Renderer) Clear() {
	for i := range r.cells {
		r.cells[i] = emptyCell
	}
}

func (r *Renderer) RenderStone(pt sgf.Point, color sgf.Color) {
	if !pt.InBounds(r.size) {
		return
	}
	r.cells[pt.Y*r.size+pt.X] = stoneCell(color)
}

// RenderMarker draws markers on empty points. A marked stone is written in
// lower case; a label replaces the point with its first character.
func (r *Renderer) RenderMarker(pt sgf.Point, marker board.Marker, overStone bool, stoneColor sgf.Color) {
	if !pt.InBounds(r.size) || marker == board.NoMarker {
		return
	}
	i := pt.Y*r.size + pt.X
	if text, ok := marker.Label(); ok && text != "" {
		r.cells[i], _ = utf8.DecodeRuneInString(text)
		return
	}
	if overStone {
		r.cells[i] = stoneCell(stoneColor) + 'a' - 'A'
		return
	}
	if c, ok := markerCells[marker]; ok {
		r.cells[i] = c
	}
}

func (r *Renderer) ShowRegion(region board.Region) {
	r.region = &region
}

func (r *Renderer) HideRegion() {
	r.region = nil
}

func (r *Renderer) SetCursor(style string) {
	r.cursor = style
}

func (r *Renderer) Cursor() string {
	return r.cursor
}

// Rows returns the board, cropped to the shown region if there is one.
func (r *Renderer) Rows() []string {
	top, left, w, h := 0, 0, r.size, r.size
	if r.region != nil {
		top, left = max(r.region.Top, 0), max(r.region.Left, 0)
		w, h = r.region.Width, r.region.Height
	}
	rows := make([]string, 0, h)
	for y := top; y < top+h && y < r.size; y++ {
		var b strings.Builder
		for x := left; x < left+w && x < r.size; x++ {
			b.WriteRune(r.cells[y*r.size+x])
		}
		rows = append(rows, b.String())
	}
	return rows
}

func (r *Renderer) String() string {
	return strings.Join(r.Rows(), "\n")
}

func stoneCell(color sgf.Color) rune {
	switch color {
	case sgf.Black:
		return blackCell
	case sgf.White:
		return whiteCell
	}
	return emptyCell
}
