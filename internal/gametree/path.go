package gametree

import (
	"slices"
	"strconv"
	"strings"
)

// Path returns the child indices leading from the collection root to n. The
// first index selects the game. The result is cached: nodes are only ever
// appended, so the shape above n never changes.
func (n *Node) Path() []int {
	if n.path == nil {
		var rpath []int
		for cur := n; !cur.IsCollectionRoot(); cur = cur.Parent() {
			pos, _ := cur.Position()
			rpath = append(rpath, pos)
		}
		slices.Reverse(rpath)
		if rpath == nil {
			rpath = []int{}
		}
		n.path = rpath
	}
	return slices.Clone(n.path)
}

// ResolvePath finds the node addressed by path.
func (t *Tree) ResolvePath(path []int) (*Node, bool) {
	cur := t.Root()
	for _, i := range path {
		next, ok := cur.Child(i)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func FormatPath(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

// ParsePath decodes a comma separated path. The empty string is the root.
func ParsePath(s string) ([]int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, true
	}
	parts := strings.Split(s, ",")
	path := make([]int, 0, len(parts))
	for _, part := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || i < 0 {
			return nil, false
		}
		path = append(path, i)
	}
	return path, true
}

// PathMoves returns the coordinates played from the top of the game down to n.
func (n *Node) PathMoves() []string {
	if n.pathMoves == nil {
		var moves []string
		n.climbGame(func(cur *Node) {
			if m, ok := cur.Move(); ok && m != "" {
				moves = append(moves, m)
			}
		})
		slices.Reverse(moves)
		if moves == nil {
			moves = []string{}
		}
		n.pathMoves = moves
	}
	return slices.Clone(n.pathMoves)
}

// climbGame calls fn for n and each ancestor up to and including the game root.
func (n *Node) climbGame(fn func(*Node)) {
	for cur := n; cur != nil && !cur.IsCollectionRoot(); cur = cur.Parent() {
		fn(cur)
		if cur.IsGameRoot() {
			return
		}
	}
}

// OnSamePath reports whether other continues the line that leads to n.
func (n *Node) OnSamePath(other *Node) bool {
	mine, his := n.PathMoves(), other.PathMoves()
	return len(his) >= len(mine) && slices.Equal(his[:len(mine)], mine)
}

// OnFirstVariationPath reports whether n lies on the main line that starts at other.
func (n *Node) OnFirstVariationPath(other *Node) bool {
	mine := n.PathMoves()
	found := false
	n.tree.WalkFirstChildren(other, func(cur *Node) bool {
		if slices.Equal(cur.PathMoves(), mine) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Equals compares two nodes by the moves that lead to them.
func (n *Node) Equals(other *Node) bool {
	return slices.Equal(n.PathMoves(), other.PathMoves())
}
