package gametree

import (
	"slices"
	"strings"

	"tsumego/internal/domain/sgf"
)

// colorPathMoves lists "B"/"W" + coordinate for n and every move above it in
// its game. Passes above n are skipped; a pass at n itself is kept so that it
// never matches its parent. It is nil when n has no B or W property.
func (n *Node) colorPathMoves() []string {
	if n.colorPath != nil {
		return n.colorPath
	}
	if moveColor(n.props) == sgf.Empty {
		return nil
	}
	own, _ := n.Move()
	path := []string{n.Color().Letter() + own}
	if p := n.Parent(); p != nil && !n.IsGameRoot() {
		p.climbGame(func(cur *Node) {
			if m, ok := cur.Move(); ok && m != "" {
				path = append(path, cur.Color().Letter()+m)
			}
		})
	}
	n.colorPath = path
	return path
}

// isoKeyOf is the order independent form of colorPathMoves.
func (n *Node) isoKeyOf() (string, bool) {
	if n.isoKey != "" {
		return n.isoKey, true
	}
	moves := n.colorPathMoves()
	if moves == nil {
		return "", false
	}
	sorted := slices.Clone(moves)
	slices.Sort(sorted)
	n.isoKey = strings.Join(sorted, ",")
	return n.isoKey, true
}

// lookForIsos links n with every node of its game that holds the same set of
// moves. The link is stored on the other node only, unless the pair is already
// linked in either direction.
//
// Each call walks the whole game, so building a tree of n colored nodes costs
// O(n^2). That is fine for problems and games of a few hundred nodes.
func (t *Tree) lookForIsos(n *Node) {
	key, ok := n.isoKeyOf()
	if !ok {
		return
	}
	top := n
	for !top.IsGameRoot() && top.Parent() != nil {
		top = top.Parent()
	}
	t.Walk(top, func(other *Node) bool {
		if other.id == n.id {
			return true
		}
		if otherKey, ok := other.isoKeyOf(); ok && otherKey == key {
			other.addIsoNode(n)
		}
		return true
	})
}

func (n *Node) addIsoNode(other *Node) {
	if slices.Contains(other.iso, n.id) || slices.Contains(n.iso, other.id) {
		return
	}
	n.iso = append(n.iso, other.id)
}

// LookForIsosFromRoot runs transposition detection for every node of every game.
func (t *Tree) LookForIsosFromRoot() {
	t.Walk(t.Root(), func(n *Node) bool {
		if !n.IsCollectionRoot() {
			t.lookForIsos(n)
		}
		return true
	})
}
