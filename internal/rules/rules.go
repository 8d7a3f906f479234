package rules

import (
	"go.uber.org/zap"

	"tsumego/internal/board"
	"tsumego/internal/domain/sgf"
)

// Rules resolves stone placement and captures on a board. Ko and superko are not checked.
type Rules struct {
	board *board.Board
	log   *zap.SugaredLogger
}

func New(b *board.Board, log *zap.SugaredLogger) *Rules {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Rules{board: b, log: log}
}

// Check reports whether color may play at pt. Only occupancy is checked.
func (r *Rules) Check(pt sgf.Point, color sgf.Color) bool {
	if !r.board.InBounds(pt) {
		return false
	}
	return r.board.Stone(pt) == sgf.Empty
}

// Play checks, places the stone and applies captures.
func (r *Rules) Play(pt sgf.Point, color sgf.Color) bool {
	if !r.Check(pt, color) {
		return false
	}
	r.board.AddStone(pt, color)
	r.Apply(pt, color)
	return true
}

// Apply resolves captures around a stone just placed at pt. Opponent groups
// without liberties are removed first and credited to color; then the played
// group itself is tested, and a suicide is credited to the opponent.
func (r *Rules) Apply(pt sgf.Point, color sgf.Color) {
	captures := 0
	for _, n := range pt.Neighbors() {
		captures += r.capture(n, color)
	}
	captures -= r.capture(pt, color.Opposite())
	if captures < 0 {
		color = color.Opposite()
		captures = -captures
	}
	r.board.AddCaptures(color, captures)
}

// capture removes the group at pt if it has no liberty. Stones of color bound
// the group. Returns the number of removed stones.
func (r *Rules) capture(pt sgf.Point, color sgf.Color) int {
	group, hasLiberty := r.findGroup(pt, color)
	if hasLiberty {
		return 0
	}
	for _, p := range group {
		r.board.AddStone(p, sgf.Empty)
	}
	return len(group)
}

// findGroup walks the group reachable from start through stones that are
// neither empty nor color. It stops as soon as an empty point is reached.
func (r *Rules) findGroup(start sgf.Point, color sgf.Color) ([]sgf.Point, bool) {
	var group []sgf.Point
	visited := make(map[sgf.Point]struct{})
	stack := []sgf.Point{start}
	for len(stack) > 0 {
		pt := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !pt.Valid() {
			r.log.Warnw("invalid point fed to capture search", "point", pt, "color", color.String())
			continue
		}
		if !r.board.InBounds(pt) {
			continue
		}
		stone := r.board.Stone(pt)
		if stone == color {
			continue
		}
		if stone == sgf.Empty {
			return group, true
		}
		if _, seen := visited[pt]; seen {
			continue
		}
		visited[pt] = struct{}{}
		group = append(group, pt)
		stack = append(stack, pt.Neighbors()...)
	}
	return group, false
}
