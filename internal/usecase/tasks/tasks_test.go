package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tsumego/internal/domain/comment"
	"tsumego/internal/domain/game"
	"tsumego/internal/domain/task"
	"tsumego/internal/errors"
	gameUC "tsumego/internal/usecase/game"
)

const problem = "(;SZ[9]AB[cc][dc]AW[dd](;B[ee];W[ff];B[gg]C[RIGHT])(;B[hh];W[ii]))"

type fakeTaskStore struct {
	tasks map[int]*task.Task
	done  map[string][]int
}

func (f *fakeTaskStore) PutAllTasksToMongoByPath(context.Context, string) (int, error) {
	return len(f.tasks), nil
}

func (f *fakeTaskStore) GetTasksWithStatusPaginated(context.Context, string, int, int) (*task.TaskResponse, error) {
	return &task.TaskResponse{}, nil
}

func (f *fakeTaskStore) GetTaskByNumber(_ context.Context, number int) (*task.Task, error) {
	tsk, ok := f.tasks[number]
	if !ok {
		return nil, errors.ErrTaskNotFound
	}
	return tsk, nil
}

func (f *fakeTaskStore) TaskIsDone(_ context.Context, number int, userID string) (bool, error) {
	for _, n := range f.done[userID] {
		if n == number {
			return true, nil
		}
	}
	f.done[userID] = append(f.done[userID], number)
	return false, nil
}

type fakeCommentStore struct {
	comments []comment.Comment
}

func (f *fakeCommentStore) AddComment(_ context.Context, c comment.Comment) error {
	f.comments = append(f.comments, c)
	return nil
}

func (f *fakeCommentStore) GetCommentsByTask(_ context.Context, number int) ([]comment.Comment, error) {
	var out []comment.Comment
	for _, c := range f.comments {
		if c.TaskNumber == number {
			out = append(out, c)
		}
	}
	return out, nil
}

func newTaskUseCase() (*TaskUseCase, *fakeTaskStore, *fakeCommentStore) {
	tasks := &fakeTaskStore{
		tasks: map[int]*task.Task{1: {TaskUniqNumber: 1, TaskSgf: problem}},
		done:  map[string][]int{},
	}
	comments := &fakeCommentStore{}
	return NewTaskUseCase(tasks, comments, zap.NewNop().Sugar(), gameUC.SessionConfig{}), tasks, comments
}

func TestGetTaskIsCropped(t *testing.T) {
	uc, _, _ := newTaskUseCase()

	view, err := uc.GetTask(context.Background(), 1)
	require.NoError(t, err)

	require.NotNil(t, view.Position.Region)
	assert.Equal(t, []string{"....", ".XX.", "..O.", "...."}, view.Position.Rows)
	assert.Equal(t, 1, view.Task.TaskUniqNumber)

	_, err = uc.GetTask(context.Background(), 2)
	assert.ErrorIs(t, err, errors.ErrTaskNotFound)
}

func TestAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("solved attempt is recorded", func(t *testing.T) {
		uc, store, _ := newTaskUseCase()

		res, err := uc.Attempt(ctx, 1, task.AttemptRequest{UserID: "u1", Moves: []string{"ee", "gg"}})
		require.NoError(t, err)

		assert.True(t, res.Solved)
		assert.Equal(t, game.StatusSolved, res.Status)
		assert.Equal(t, []int{1}, store.done["u1"])
	})

	t.Run("wrong answer stops the attempt", func(t *testing.T) {
		uc, store, _ := newTaskUseCase()

		res, err := uc.Attempt(ctx, 1, task.AttemptRequest{UserID: "u1", Moves: []string{"hh", "gg"}})
		require.NoError(t, err)

		assert.False(t, res.Solved)
		assert.Equal(t, game.StatusFailed, res.Status)
		assert.Empty(t, store.done["u1"])
	})

	t.Run("unfinished attempt", func(t *testing.T) {
		uc, _, _ := newTaskUseCase()

		res, err := uc.Attempt(ctx, 1, task.AttemptRequest{Moves: []string{"ee"}})
		require.NoError(t, err)

		assert.Equal(t, game.StatusPlaying, res.Status)
		assert.Equal(t, "ff", res.Position.LastMove.Coordinates)
	})

	t.Run("illegal move", func(t *testing.T) {
		uc, _, _ := newTaskUseCase()

		_, err := uc.Attempt(ctx, 1, task.AttemptRequest{Moves: []string{"cc"}})
		assert.ErrorIs(t, err, errors.ErrIllegalMove)
	})
}

func TestComments(t *testing.T) {
	ctx := context.Background()
	uc, _, store := newTaskUseCase()

	added, err := uc.AddComment(ctx, 1, comment.CreateRequest{Author: "ann", Text: " tricky ", Path: "0, 0"})
	require.NoError(t, err)
	assert.Equal(t, "tricky", added.Text)
	assert.Equal(t, "0,0", added.Path)
	assert.Equal(t, comment.GenreComment, added.Genre)
	assert.NotEmpty(t, added.ID)
	assert.True(t, added.Alive)

	store.comments = append(store.comments,
		comment.Comment{TaskNumber: 1, Author: "bob", Text: "hm", Path: "0,0", Entered: time.Now()},
		comment.Comment{TaskNumber: 1, Author: "eve", Text: "", Path: "0", Entered: time.Now()},
	)

	resp, err := uc.Comments(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, resp.Comments, 3)
	assert.Equal(t, map[string]int{"0,0": 2}, resp.Counts)

	view, err := uc.GetTask(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, view.Position.External)

	_, err = uc.AddComment(ctx, 1, comment.CreateRequest{Author: "ann", Text: "x", Path: "0,9"})
	assert.ErrorIs(t, err, errors.ErrInvalidPath)
	_, err = uc.AddComment(ctx, 1, comment.CreateRequest{Author: " ", Text: "x", Path: "0"})
	assert.ErrorIs(t, err, errors.ErrInvalidComment)
}
