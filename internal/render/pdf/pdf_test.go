package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsumego/internal/board"
	"tsumego/internal/domain/sgf"
)

func TestWrite(t *testing.T) {
	r := New(9)
	r.SetTitle("Problem 1")
	b := board.New(9, board.WithRenderer(r))
	b.AddStone(sgf.Point{X: 2, Y: 2}, sgf.Black)
	b.AddStone(sgf.Point{X: 3, Y: 3}, sgf.White)
	b.AddMarker(sgf.Point{X: 3, Y: 3}, board.Square)
	b.AddMarker(sgf.Point{X: 4, Y: 4}, board.Label("a"))
	b.Commit()
	b.Render(true)

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteRegion(t *testing.T) {
	r := New(9)
	r.ShowRegion(board.Region{Top: 6, Left: 6, Width: 5, Height: 5})

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf))
	assert.NotZero(t, buf.Len())

	r.ShowRegion(board.Region{Top: 9, Left: 0, Width: 3, Height: 3})
	assert.Error(t, r.Write(&bytes.Buffer{}))
}
