package board

import (
	"strings"

	"tsumego/internal/domain/sgf"
)

const DefaultSize = 19

// Marker is an annotation drawn on a point. Labels are stored as "label:<text>".
type Marker string

const (
	NoMarker Marker = ""
	Triangle Marker = "triangle"
	Square   Marker = "square"
	Circle   Marker = "circle"
	Cross    Marker = "ex"
	Current  Marker = "current"
	Dim      Marker = "dim"

	labelPrefix = "label:"
)

func Label(text string) Marker {
	return Marker(labelPrefix + text)
}

func (m Marker) Label() (string, bool) {
	return strings.CutPrefix(string(m), labelPrefix)
}

// Renderer draws the board. Implementations live outside the engine.
type Renderer interface {
	Clear()
	RenderStone(pt sgf.Point, color sgf.Color)
	RenderMarker(pt sgf.Point, marker Marker, overStone bool, stoneColor sgf.Color)
}

// RegionRenderer is a Renderer that can crop the visible area and change the pointer.
type RegionRenderer interface {
	Renderer
	ShowRegion(region Region)
	HideRegion()
	SetCursor(style string)
}

type Region struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Captures counts stones captured, keyed by the capturing color.
type Captures struct {
	Black int `json:"black"`
	White int `json:"white"`
}

func (c Captures) Of(color sgf.Color) int {
	switch color {
	case sgf.Black:
		return c.Black
	case sgf.White:
		return c.White
	}
	return 0
}

func (c *Captures) add(color sgf.Color, n int) {
	switch color {
	case sgf.Black:
		c.Black += n
	case sgf.White:
		c.White += n
	}
}

type snapshot struct {
	stones   []sgf.Color
	captures Captures
}

// unrendered marks a cell the renderer has never received.
const unrendered sgf.Color = 2

// Board keeps stone and marker state and a history of committed snapshots.
type Board struct {
	size         int
	stones       []sgf.Color
	markers      []Marker
	captures     Captures
	history      []snapshot
	historyLimit int
	renderer     Renderer
	lastRender   []sgf.Color
}

type Option func(*Board)

// WithHistoryLimit caps the snapshot history; the oldest snapshots are dropped first.
func WithHistoryLimit(limit int) Option {
	return func(b *Board) {
		b.historyLimit = limit
	}
}

func WithRenderer(r Renderer) Option {
	return func(b *Board) {
		b.renderer = r
	}
}

func New(size int, opts ...Option) *Board {
	if size <= 0 {
		size = DefaultSize
	}
	b := &Board{
		size:       size,
		stones:     make([]sgf.Color, size*size),
		markers:    make([]Marker, size*size),
		lastRender: make([]sgf.Color, size*size),
	}
	for i := range b.lastRender {
		b.lastRender[i] = unrendered
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) SetRenderer(r Renderer) {
	b.renderer = r
	for i := range b.lastRender {
		b.lastRender[i] = unrendered
	}
}

func (b *Board) InBounds(pt sgf.Point) bool {
	return pt.InBounds(b.size)
}

func (b *Board) offset(pt sgf.Point) int {
	return pt.Y*b.size + pt.X
}

// AddStone sets the stone at pt. Points outside the board are ignored.
func (b *Board) AddStone(pt sgf.Point, color sgf.Color) {
	if !b.InBounds(pt) {
		return
	}
	b.stones[b.offset(pt)] = color
}

func (b *Board) Stone(pt sgf.Point) sgf.Color {
	if !b.InBounds(pt) {
		return sgf.Empty
	}
	return b.stones[b.offset(pt)]
}

func (b *Board) AddMarker(pt sgf.Point, marker Marker) {
	if !b.InBounds(pt) {
		return
	}
	b.markers[b.offset(pt)] = marker
}

func (b *Board) Marker(pt sgf.Point) Marker {
	if !b.InBounds(pt) {
		return NoMarker
	}
	return b.markers[b.offset(pt)]
}

func (b *Board) Captures() Captures {
	return b.captures
}

func (b *Board) AddCaptures(color sgf.Color, n int) {
	b.captures.add(color, n)
}

// Region returns a copy of the w*h sub-grid whose top-left corner is (left, top).
// Cells outside the board read as empty.
func (b *Board) Region(top, left, w, h int) []sgf.Color {
	if w <= 0 || h <= 0 {
		return nil
	}
	region := make([]sgf.Color, w*h)
	for y := top; y < top+h; y++ {
		for x := left; x < left+w; x++ {
			region[(y-top)*w+(x-left)] = b.Stone(sgf.Point{X: x, Y: y})
		}
	}
	return region
}

// Bounds returns the smallest region holding every stone, or false on an empty board.
func (b *Board) Bounds() (Region, bool) {
	minX, minY, maxX, maxY := b.size, b.size, -1, -1
	for i, c := range b.stones {
		if c == sgf.Empty {
			continue
		}
		x, y := i%b.size, i/b.size
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	if maxX < 0 {
		return Region{}, false
	}
	return Region{Top: minY, Left: minX, Width: maxX - minX + 1, Height: maxY - minY + 1}, true
}

func (b *Board) Clear() {
	b.ClearStones()
	b.ClearMarkers()
	b.ClearCaptures()
}

func (b *Board) ClearStones() {
	for i := range b.stones {
		b.stones[i] = sgf.Empty
	}
}

func (b *Board) ClearMarkers() {
	for i := range b.markers {
		b.markers[i] = NoMarker
	}
}

func (b *Board) ClearCaptures() {
	b.captures = Captures{}
}

// Reset clears the position, the history and the render cache.
func (b *Board) Reset() {
	b.Clear()
	b.history = nil
	for i := range b.lastRender {
		b.lastRender[i] = unrendered
	}
}

func (b *Board) HistoryLen() int {
	return len(b.history)
}

// Commit saves the current stones and captures. Nothing is stored when the
// state equals the most recent snapshot; the return value reports whether a
// snapshot was appended.
func (b *Board) Commit() bool {
	if n := len(b.history); n > 0 && b.equalsSnapshot(b.history[n-1]) {
		return false
	}
	stones := make([]sgf.Color, len(b.stones))
	copy(stones, b.stones)
	b.history = append(b.history, snapshot{stones: stones, captures: b.captures})
	if b.historyLimit > 0 && len(b.history) > b.historyLimit {
		b.history = b.history[len(b.history)-b.historyLimit:]
	}
	return true
}

func (b *Board) equalsSnapshot(s snapshot) bool {
	if s.captures != b.captures {
		return false
	}
	for i := range s.stones {
		if s.stones[i] != b.stones[i] {
			return false
		}
	}
	return true
}

// Rollback restores the second most recent snapshot, or clears the board when
// fewer than two snapshots exist. The history itself is left untouched.
func (b *Board) Rollback() {
	n := len(b.history)
	if n < 2 {
		b.Clear()
		return
	}
	prev := b.history[n-2]
	copy(b.stones, prev.stones)
	b.captures = prev.captures
}

// Revert steps back through the history, popping one snapshot per step.
func (b *Board) Revert(steps int) {
	for i := 0; i < steps; i++ {
		b.Rollback()
		if len(b.history) > 0 {
			b.history = b.history[:len(b.history)-1]
		}
	}
}

// Render sends the board to the renderer. An incremental render (complete
// false) only sends stones of the last snapshot that changed since the previous
// render, plus stones under a marker since the marker needs the stone color.
// Markers are always sent.
func (b *Board) Render(complete bool) {
	if b.renderer == nil {
		return
	}
	var last *snapshot
	if len(b.history) > 0 {
		last = &b.history[len(b.history)-1]
	}
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			i := y*b.size + x
			pt := sgf.Point{X: x, Y: y}
			send, color := true, b.stones[i]
			if !complete && last != nil {
				color = last.stones[i]
				send = color != b.lastRender[i] || (color != sgf.Empty && b.markers[i] != NoMarker)
			}
			if send {
				b.renderer.RenderStone(pt, color)
				b.lastRender[i] = color
			}
			rendered := b.lastRender[i]
			overStone := rendered != sgf.Empty && rendered != unrendered
			stoneColor := sgf.Empty
			if overStone {
				stoneColor = rendered
			}
			b.renderer.RenderMarker(pt, b.markers[i], overStone, stoneColor)
		}
	}
}
