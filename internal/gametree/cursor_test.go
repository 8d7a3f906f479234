package gametree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsumego/internal/domain/sgf"
)

func TestCursorNavigation(t *testing.T) {
	// Given a game with a branch after the first move
	tree := New()
	game := tree.AppendChild(tree.Root(), props("GM", "1"))
	first := tree.AppendChild(game, props("B", "aa"))
	tree.AppendChild(first, props("W", "bb"))
	sideReply := tree.AppendChild(first, props("W", "cc"))

	c := NewCursor(game)

	// Then the game root has no previous node
	assert.False(t, c.HasPrevious())
	assert.False(t, c.Previous())

	require.True(t, c.Next())
	assert.Equal(t, first.ID(), c.Node().ID())

	require.True(t, c.NextVariation(1))
	assert.Equal(t, sideReply.ID(), c.Node().ID())
	assert.False(t, c.Next())

	require.True(t, c.Previous())
	first.SetPreferredChild(1)
	next, ok := c.GetNext(-1)
	require.True(t, ok)
	assert.Equal(t, sideReply.ID(), next.ID())

	assert.False(t, c.NextVariation(5))
	assert.Equal(t, map[string]int{"bb": 0, "cc": 1}, c.NextMoves())
}

func TestCursorColorAndMoveNumber(t *testing.T) {
	tree := New()
	game := tree.AppendChild(tree.Root(), props("GM", "1"))
	nodes := line(tree, game, props("B", "aa"), props("W", "bb"), props("C", "hmm"))

	c := NewCursor(game)
	assert.Equal(t, sgf.White, c.Color())
	assert.Equal(t, sgf.Black, c.NextColor())
	assert.Equal(t, 0, c.MoveNumber())

	c.MoveTo(nodes[1])
	assert.Equal(t, sgf.White, c.Color())
	assert.Equal(t, 2, c.MoveNumber())

	c.MoveTo(nodes[2])
	assert.Equal(t, sgf.Black, c.Color())
	assert.Equal(t, 2, c.MoveNumber())
}

func TestCursorNextNodeWithVariations(t *testing.T) {
	tree := New()
	game := tree.AppendChild(tree.Root(), props("GM", "1"))
	nodes := line(tree, game, props("B", "aa"), props("W", "bb"))
	tree.AppendChild(nodes[1], props("B", "cc"))
	tree.AppendChild(nodes[1], props("B", "dd"))

	c := NewCursor(game)
	assert.Equal(t, nodes[1].ID(), c.NextNodeWithVariations().ID())
}

func TestCursorGameRoot(t *testing.T) {
	tree := New()
	game := tree.AppendChild(tree.Root(), props("GM", "1"))
	nodes := line(tree, game, props("B", "aa"), props("W", "bb"))

	c := NewCursor(nodes[1])
	root, ok := c.GameRoot()
	require.True(t, ok)
	assert.Equal(t, game.ID(), root.ID())
	assert.Equal(t, []int{0, 0, 0}, c.Path())
	assert.Equal(t, []string{"aa", "bb"}, c.PathMoves())

	c.MoveTo(tree.Root())
	root, ok = c.GameRoot()
	require.True(t, ok)
	assert.Equal(t, game.ID(), root.ID())
}
