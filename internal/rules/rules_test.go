package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"tsumego/internal/board"
	"tsumego/internal/domain/sgf"
)

func pt(x, y int) sgf.Point {
	return sgf.Point{X: x, Y: y}
}

func TestCheck(t *testing.T) {
	b := board.New(3)
	r := New(b, nil)
	b.AddStone(pt(1, 1), sgf.White)

	assert.False(t, r.Check(pt(1, 1), sgf.Black))
	assert.True(t, r.Check(pt(0, 0), sgf.Black))
	assert.False(t, r.Check(pt(3, 0), sgf.Black))
}

func TestCaptureInCenter(t *testing.T) {
	// Given white in the center of an empty 3x3 board
	b := board.New(3)
	r := New(b, nil)
	require.True(t, r.Play(pt(1, 1), sgf.White))

	// When black fills all four neighbors
	for _, p := range []sgf.Point{pt(0, 1), pt(1, 0), pt(1, 2)} {
		require.True(t, r.Play(p, sgf.Black))
		assert.Equal(t, sgf.White, b.Stone(pt(1, 1)))
	}
	require.True(t, r.Play(pt(2, 1), sgf.Black))

	// Then the white stone is removed and credited to black
	assert.Equal(t, sgf.Empty, b.Stone(pt(1, 1)))
	assert.Equal(t, 1, b.Captures().Of(sgf.Black))
	assert.Equal(t, 0, b.Captures().Of(sgf.White))
}

func TestCaptureGroup(t *testing.T) {
	// Given a two stone white group on the top edge of a 4x4 board
	b := board.New(4)
	r := New(b, nil)
	b.AddStone(pt(1, 0), sgf.White)
	b.AddStone(pt(2, 0), sgf.White)
	b.AddStone(pt(0, 0), sgf.Black)
	b.AddStone(pt(1, 1), sgf.Black)
	b.AddStone(pt(2, 1), sgf.Black)

	// When black takes the last liberty
	require.True(t, r.Play(pt(3, 0), sgf.Black))

	// Then both stones are removed
	assert.Equal(t, sgf.Empty, b.Stone(pt(1, 0)))
	assert.Equal(t, sgf.Empty, b.Stone(pt(2, 0)))
	assert.Equal(t, 2, b.Captures().Of(sgf.Black))
}

func TestCornerStoneHasTwoLiberties(t *testing.T) {
	b := board.New(5)
	r := New(b, nil)
	require.True(t, r.Play(pt(0, 0), sgf.White))

	require.True(t, r.Play(pt(1, 0), sgf.Black))
	assert.Equal(t, sgf.White, b.Stone(pt(0, 0)))

	require.True(t, r.Play(pt(0, 1), sgf.Black))
	assert.Equal(t, sgf.Empty, b.Stone(pt(0, 0)))
	assert.Equal(t, 1, b.Captures().Of(sgf.Black))
}

func TestSuicideIsCreditedToOpponent(t *testing.T) {
	// Given black stones surrounding the empty corner
	b := board.New(3)
	r := New(b, nil)
	b.AddStone(pt(1, 0), sgf.Black)
	b.AddStone(pt(0, 1), sgf.Black)

	// When white plays into it
	require.True(t, r.Play(pt(0, 0), sgf.White))

	// Then the white stone is removed and black gets the capture
	assert.Equal(t, sgf.Empty, b.Stone(pt(0, 0)))
	assert.Equal(t, 1, b.Captures().Of(sgf.Black))
	assert.Equal(t, 0, b.Captures().Of(sgf.White))
}

func TestCaptureBeforeSuicide(t *testing.T) {
	// Given a white corner stone in atari whose capturing point has no liberty
	b := board.New(3)
	r := New(b, nil)
	b.AddStone(pt(0, 0), sgf.White)
	b.AddStone(pt(0, 1), sgf.Black)
	b.AddStone(pt(2, 0), sgf.White)
	b.AddStone(pt(1, 1), sgf.White)

	// When black plays between the white stones
	require.True(t, r.Play(pt(1, 0), sgf.Black))

	// Then the white corner stone is captured first and black lives
	assert.Equal(t, sgf.Empty, b.Stone(pt(0, 0)))
	assert.Equal(t, sgf.Black, b.Stone(pt(1, 0)))
	assert.Equal(t, 1, b.Captures().Of(sgf.Black))
}

func TestInvalidPointIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	b := board.New(3)
	r := New(b, zap.New(core).Sugar())

	r.Apply(sgf.InvalidPoint, sgf.Black)

	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, board.Captures{}, b.Captures())
}
