package game

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "tsumego/internal/domain/game"
	"tsumego/internal/errors"
)

type memoryStore struct {
	mu      sync.Mutex
	records map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]string)}
}

func (m *memoryStore) SaveRecord(_ context.Context, id string, sgfText string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id] = sgfText
	return nil
}

func (m *memoryStore) LoadRecord(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.records[id]
	if !ok {
		return "", errors.ErrRecordNotFound
	}
	return text, nil
}

func (m *memoryStore) DeleteRecord(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func newUseCase(t *testing.T) (*GameUseCase, *memoryStore) {
	store := newMemoryStore()
	return NewGameUseCase(store, zaptest.NewLogger(t).Sugar(), SessionConfig{}), store
}

func TestCreateRecord(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	id, pos, err := uc.CreateRecord(ctx, []byte(problemRecord))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, pos.RecordID)
	assert.Equal(t, 9, pos.Size)
	assert.Contains(t, store.records, id)

	_, _, err = uc.CreateRecord(ctx, []byte("not a record"))
	assert.ErrorIs(t, err, errors.ErrEmptyRecord)
}

func TestPositionByPath(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	id, _, err := uc.CreateRecord(ctx, []byte(problemRecord))
	require.NoError(t, err)

	pos, err := uc.Position(ctx, id, "0,1,0")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, pos.Path)
	assert.Equal(t, "ii", pos.LastMove.Coordinates)

	pos, err = uc.Position(ctx, id, "")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, pos.Path)

	_, err = uc.Position(ctx, id, "0,x")
	assert.ErrorIs(t, err, errors.ErrInvalidPath)
	_, err = uc.Position(ctx, id, "0,5")
	assert.ErrorIs(t, err, errors.ErrInvalidPath)
	_, err = uc.Position(ctx, "missing", "")
	assert.ErrorIs(t, err, errors.ErrRecordNotFound)
}

func TestSGFAndTree(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	id, _, err := uc.CreateRecord(ctx, []byte(problemRecord))
	require.NoError(t, err)

	text, err := uc.SGF(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, text, "C[RIGHT good]")

	tree, err := uc.Tree(ctx, id)
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	assert.Len(t, tree.Children[0].Children, 2)

	require.NoError(t, uc.DeleteRecord(ctx, id))
	_, err = uc.SGF(ctx, id)
	assert.ErrorIs(t, err, errors.ErrRecordNotFound)
}

func TestNavigate(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	id, _, err := uc.CreateRecord(ctx, []byte(problemRecord))
	require.NoError(t, err)
	session, err := uc.OpenSession(ctx, id)
	require.NoError(t, err)

	changed, err := uc.Navigate(session, domain.NavRequest{Action: domain.ActionVariation, Variation: 1})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []int{0, 1}, session.Cursor().Path())

	_, err = uc.Navigate(session, domain.NavRequest{Action: domain.ActionPrevious})
	require.NoError(t, err)
	_, err = uc.Navigate(session, domain.NavRequest{Action: domain.ActionNext})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, session.Cursor().Path())

	_, err = uc.Navigate(session, domain.NavRequest{Action: domain.ActionGoTo, Path: "0,0,0,0"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSolved, session.Status())

	_, err = uc.Navigate(session, domain.NavRequest{Action: domain.ActionGoTo, Path: "bad"})
	assert.ErrorIs(t, err, errors.ErrInvalidPath)

	_, err = uc.Navigate(session, domain.NavRequest{Action: "jump"})
	assert.ErrorIs(t, err, errors.ErrUnknownAction)
}

func TestNavigatePlayIsSaved(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	id, _, err := uc.CreateRecord(ctx, []byte(problemRecord))
	require.NoError(t, err)
	session, err := uc.OpenSession(ctx, id)
	require.NoError(t, err)

	changed, err := uc.Navigate(session, domain.NavRequest{Action: domain.ActionPlay, Point: "ab"})
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, uc.SaveSession(ctx, id, session))

	pos, err := uc.Position(ctx, id, "0,2")
	require.NoError(t, err)
	assert.Equal(t, "ab", pos.LastMove.Coordinates)

	changed, err = uc.Navigate(session, domain.NavRequest{Action: domain.ActionPlay, Point: "ab"})
	assert.ErrorIs(t, err, errors.ErrIllegalMove)
	assert.False(t, changed)
}

func TestSessionsOnSharedTree(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	id, _, err := uc.CreateRecord(ctx, []byte(problemRecord))
	require.NoError(t, err)

	tree, err := uc.LoadTree(ctx, id)
	require.NoError(t, err)
	first, err := uc.SessionOn(tree)
	require.NoError(t, err)
	second, err := uc.SessionOn(tree)
	require.NoError(t, err)

	_, err = uc.Navigate(first, domain.NavRequest{Action: domain.ActionPlay, Point: "ab"})
	require.NoError(t, err)
	require.NoError(t, uc.SaveSession(ctx, id, first))
	assert.Contains(t, second.Position().NextMoves, "ab")

	_, err = uc.Navigate(second, domain.NavRequest{Action: domain.ActionPlay, Point: "ac"})
	require.NoError(t, err)
	require.NoError(t, uc.SaveSession(ctx, id, second))

	assert.Contains(t, store.records[id], "B[ab]")
	assert.Contains(t, store.records[id], "B[ac]")

	store.records["blank"] = "no record here"
	_, err = uc.LoadTree(ctx, "blank")
	assert.ErrorIs(t, err, errors.ErrEmptyRecord)
}
