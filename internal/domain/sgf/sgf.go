package sgf

import (
	"math"
	"sort"
	"strings"
)

// Color of a stone or of the side to move.
type Color int8

const (
	Black Color = -1
	Empty Color = 0
	White Color = 1
)

func (c Color) Opposite() Color {
	return -c
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

// Letter returns the SGF property letter of the color ("B" or "W").
func (c Color) Letter() string {
	switch c {
	case Black:
		return "B"
	case White:
		return "W"
	}
	return ""
}

func ColorFromLetter(s string) Color {
	switch strings.ToUpper(s) {
	case "B", "BLACK":
		return Black
	case "W", "WHITE":
		return White
	}
	return Empty
}

// Point is a zero-based board coordinate, X to the right and Y down.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InvalidPoint stands for a coordinate that could not be decoded.
var InvalidPoint = Point{X: math.MinInt32, Y: math.MinInt32}

func (p Point) Valid() bool {
	return p.X != math.MinInt32 && p.Y != math.MinInt32
}

func (p Point) InBounds(size int) bool {
	return p.Valid() && p.X >= 0 && p.Y >= 0 && p.X < size && p.Y < size
}

// String returns the SGF coordinate ("dd").
func (p Point) String() string {
	if !p.Valid() || p.X < 0 || p.Y < 0 || p.X > 51 || p.Y > 51 {
		return ""
	}
	return string([]byte{coordLetter(p.X), coordLetter(p.Y)})
}

func (p Point) Neighbors() []Point {
	if !p.Valid() {
		return nil
	}
	return []Point{
		{X: p.X - 1, Y: p.Y},
		{X: p.X + 1, Y: p.Y},
		{X: p.X, Y: p.Y - 1},
		{X: p.X, Y: p.Y + 1},
	}
}

func coordLetter(v int) byte {
	if v < 26 {
		return byte('a' + v)
	}
	return byte('A' + v - 26)
}

func coordValue(b byte) (int, bool) {
	switch {
	case b >= 'a' && b <= 'z':
		return int(b - 'a'), true
	case b >= 'A' && b <= 'Z':
		return int(b-'A') + 26, true
	}
	return 0, false
}

// ParsePoint decodes an SGF coordinate. Malformed input yields InvalidPoint and false.
func ParsePoint(coord string) (Point, bool) {
	if len(coord) != 2 {
		return InvalidPoint, false
	}
	x, okX := coordValue(coord[0])
	y, okY := coordValue(coord[1])
	if !okX || !okY {
		return InvalidPoint, false
	}
	return Point{X: x, Y: y}, true
}

// IsPass reports whether a move value is a pass: empty, or "tt" on boards up to 19x19.
func IsPass(coord string, size int) bool {
	return coord == "" || (coord == "tt" && size <= 19)
}

// ExpandPoints decodes a point list value, including compressed "aa:cc" rectangles.
func ExpandPoints(value string) []Point {
	from, to, compressed := strings.Cut(value, ":")
	if !compressed {
		p, ok := ParsePoint(value)
		if !ok {
			return nil
		}
		return []Point{p}
	}
	a, okA := ParsePoint(from)
	b, okB := ParsePoint(to)
	if !okA || !okB {
		return nil
	}
	minX, maxX := min(a.X, b.X), max(a.X, b.X)
	minY, maxY := min(a.Y, b.Y), max(a.Y, b.Y)
	points := make([]Point, 0, (maxX-minX+1)*(maxY-minY+1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			points = append(points, Point{X: x, Y: y})
		}
	}
	return points
}

// Value holds the values of one property: either a single string or an
// ordered list (KEY[a][b]).
type Value struct {
	items []string
	list  bool
}

func Single(v string) Value {
	return Value{items: []string{v}}
}

func List(vs ...string) Value {
	items := make([]string, len(vs))
	copy(items, vs)
	return Value{items: items, list: true}
}

func (v Value) IsList() bool {
	return v.list
}

func (v Value) Len() int {
	return len(v.items)
}

func (v Value) First() string {
	if len(v.items) == 0 {
		return ""
	}
	return v.items[0]
}

func (v Value) Values() []string {
	out := make([]string, len(v.items))
	copy(out, v.items)
	return out
}

func (v Value) Contains(s string) bool {
	for _, item := range v.items {
		if item == s {
			return true
		}
	}
	return false
}

// Append returns a list value with vs added after the current values.
func (v Value) Append(vs ...string) Value {
	items := make([]string, 0, len(v.items)+len(vs))
	items = append(items, v.items...)
	items = append(items, vs...)
	return Value{items: items, list: true}
}

// Filter keeps the values for which keep returns true. The list/single tag is preserved.
func (v Value) Filter(keep func(string) bool) Value {
	items := make([]string, 0, len(v.items))
	for _, item := range v.items {
		if keep(item) {
			items = append(items, item)
		}
	}
	return Value{items: items, list: v.list}
}

// Properties is the property bag of a node.
type Properties map[string]Value

func (p Properties) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p Properties) First(key string) string {
	return p[key].First()
}

// Add appends values to key; repetition turns the value into a list.
func (p Properties) Add(key string, values ...string) {
	if len(values) == 0 {
		return
	}
	if existing, ok := p[key]; ok {
		p[key] = existing.Append(values...)
		return
	}
	if len(values) > 1 {
		p[key] = List(values...)
		return
	}
	p[key] = Single(values[0])
}

func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = Value{items: v.Values(), list: v.list}
	}
	return out
}

func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
