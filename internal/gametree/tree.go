// Package gametree holds the branching move tree of a game record.
//
// Nodes live in an arena owned by the Tree and refer to each other by NodeID.
// The tree root is a synthetic node without properties; its children are the
// game roots of the collection. A node without a grandparent is therefore the
// effective top of its game.
package gametree

import (
	"tsumego/internal/domain/sgf"
)

type NodeID int

const NoNode NodeID = -1

type Tree struct {
	nodes []*Node
}

func New() *Tree {
	t := &Tree{}
	t.newNode(NoNode, sgf.Properties{})
	return t
}

func (t *Tree) newNode(parent NodeID, props sgf.Properties) *Node {
	n := &Node{
		tree:   t,
		id:     NodeID(len(t.nodes)),
		parent: parent,
		props:  props,
	}
	t.nodes = append(t.nodes, n)
	return n
}

// Root returns the synthetic collection root.
func (t *Tree) Root() *Node {
	return t.nodes[0]
}

// GameRoot returns the first game of the collection.
func (t *Tree) GameRoot() (*Node, bool) {
	return t.Root().Child(0)
}

func (t *Tree) Node(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil, false
	}
	return t.nodes[id], true
}

// Len counts the nodes of the record, without the synthetic root.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// AppendChild attaches a new node under parent. A node that plays a move gets
// its color immediately, its parent inherits the opposite color if it has none,
// and transposition detection runs for it.
func (t *Tree) AppendChild(parent *Node, props sgf.Properties) *Node {
	if props == nil {
		props = sgf.Properties{}
	}
	n := t.newNode(parent.id, props)
	n.depth = parent.depth + 1
	parent.children = append(parent.children, n.id)

	n.color = moveColor(props)
	if n.color != sgf.Empty && !parent.IsCollectionRoot() && parent.color == sgf.Empty {
		parent.color = n.color.Opposite()
	}
	if n.color != sgf.Empty {
		t.lookForIsos(n)
	}
	return n
}

func moveColor(props sgf.Properties) sgf.Color {
	if props.Has("W") {
		return sgf.White
	}
	if props.Has("B") {
		return sgf.Black
	}
	return sgf.Empty
}

// Walk visits n and its descendants depth first. Returning false from fn stops the walk.
func (t *Tree) Walk(n *Node, fn func(*Node) bool) {
	stack := []NodeID{n.id}
	for len(stack) > 0 {
		cur := t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			return
		}
		for i := len(cur.children) - 1; i >= 0; i-- {
			stack = append(stack, cur.children[i])
		}
	}
}

// WalkFirstChildren visits n and then follows the main line.
func (t *Tree) WalkFirstChildren(n *Node, fn func(*Node) bool) {
	for cur := n; cur != nil; {
		if !fn(cur) {
			return
		}
		next, ok := cur.Child(0)
		if !ok {
			return
		}
		cur = next
	}
}

// WalkUp visits n and then its ancestors up to the collection root.
func (t *Tree) WalkUp(n *Node, fn func(*Node) bool) {
	for cur := n; cur != nil; cur = cur.Parent() {
		if !fn(cur) {
			return
		}
	}
}

// Find returns the first node in depth-first order that matches.
func (t *Tree) Find(match func(*Node) bool) (*Node, bool) {
	var found *Node
	t.Walk(t.Root(), func(n *Node) bool {
		if match(n) {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Leaves returns every descendant of n without children, in depth-first order.
func (t *Tree) Leaves(n *Node) []*Node {
	var leaves []*Node
	t.Walk(n, func(cur *Node) bool {
		if cur != n && len(cur.children) == 0 {
			leaves = append(leaves, cur)
		}
		return true
	})
	return leaves
}
