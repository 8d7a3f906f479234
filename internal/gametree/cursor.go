package gametree

import (
	"tsumego/internal/domain/sgf"
)

// Cursor points at one node. It owns no tree state; any number of cursors may
// walk the same tree.
type Cursor struct {
	node *Node
}

func NewCursor(n *Node) *Cursor {
	return &Cursor{node: n}
}

func (c *Cursor) Node() *Node {
	return c.node
}

func (c *Cursor) MoveTo(n *Node) {
	c.node = n
}

func (c *Cursor) HasNext() bool {
	return c.node != nil && len(c.node.children) > 0
}

// Next moves to the preferred child.
func (c *Cursor) Next() bool {
	if !c.HasNext() {
		return false
	}
	return c.NextVariation(c.node.preferred)
}

// NextVariation moves to child i.
func (c *Cursor) NextVariation(i int) bool {
	next, ok := c.GetNext(i)
	if !ok {
		return false
	}
	c.node = next
	return true
}

// GetNext returns child i without moving. A negative i selects the preferred child.
func (c *Cursor) GetNext(i int) (*Node, bool) {
	if !c.HasNext() {
		return nil, false
	}
	if i < 0 {
		i = c.node.preferred
	}
	return c.node.Child(i)
}

// HasPrevious is false at the top of a game: the collection root is not navigable.
func (c *Cursor) HasPrevious() bool {
	if c.node == nil {
		return false
	}
	p := c.node.Parent()
	return p != nil && !p.IsCollectionRoot()
}

func (c *Cursor) Previous() bool {
	if !c.HasPrevious() {
		return false
	}
	c.node = c.node.Parent()
	return true
}

// NextMoves maps the move of every child to its index.
func (c *Cursor) NextMoves() map[string]int {
	if !c.HasNext() {
		return nil
	}
	moves := make(map[string]int, len(c.node.children))
	for i, child := range c.node.Children() {
		m, _ := child.Move()
		moves[m] = i
	}
	return moves
}

// Color is the color of the current move, guessed from the children or the
// parent when the node plays none.
func (c *Cursor) Color() sgf.Color {
	if c.node.PlaysMove() {
		return moveColor(c.node.props)
	}
	for _, child := range c.node.Children() {
		if child.PlaysMove() {
			return moveColor(child.props).Opposite()
		}
	}
	if p := c.node.Parent(); p != nil && p.PlaysMove() {
		return moveColor(p.props).Opposite()
	}
	return c.node.Color()
}

// NextColor is the color to play after the current node.
func (c *Cursor) NextColor() sgf.Color {
	return c.Color().Opposite()
}

// MoveNumber counts the moves played up to and including the current node.
func (c *Cursor) MoveNumber() int {
	num := 0
	for n := c.node; n != nil; n = n.Parent() {
		if n.PlaysMove() {
			num++
		}
	}
	return num
}

// NextNodeWithVariations follows single children until a branch or a leaf.
func (c *Cursor) NextNodeWithVariations() *Node {
	n := c.node
	for len(n.children) == 1 {
		n, _ = n.Child(0)
	}
	return n
}

// GameRoot returns the top of the current game. On the collection root it
// returns the first game.
func (c *Cursor) GameRoot() (*Node, bool) {
	if c.node == nil {
		return nil, false
	}
	if c.node.IsCollectionRoot() {
		return c.node.Child(0)
	}
	n := c.node
	for !n.IsGameRoot() {
		n = n.Parent()
	}
	return n, true
}

func (c *Cursor) Path() []int {
	return c.node.Path()
}

func (c *Cursor) PathMoves() []string {
	return c.node.PathMoves()
}
