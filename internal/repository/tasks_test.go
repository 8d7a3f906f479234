package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsumego/internal/domain/task"
	appErrors "tsumego/internal/errors"
)

func TestExtractChapterIndex(t *testing.T) {
	level, ok := ExtractChapterIndex("problems/Chapter 3/17.sgf")
	assert.True(t, ok)
	assert.Equal(t, 3, level)

	_, ok = ExtractChapterIndex("problems/misc/17.sgf")
	assert.False(t, ok)
}

func TestTaskFromSGF(t *testing.T) {
	t.Run("size and side to move", func(t *testing.T) {
		tsk, err := TaskFromSGF(7, 2, []byte("(;SZ[9]AB[aa]AW[bb];W[cc];B[dd])"))
		require.NoError(t, err)

		assert.Equal(t, 7, tsk.TaskUniqNumber)
		assert.Equal(t, 2, tsk.TaskLevel)
		assert.Equal(t, 9, tsk.BoardSize)
		assert.Equal(t, "white", tsk.ToPlay)
	})

	t.Run("player property wins", func(t *testing.T) {
		tsk, err := TaskFromSGF(1, 1, []byte("(;PL[B]AB[aa];W[cc])"))
		require.NoError(t, err)

		assert.Equal(t, 19, tsk.BoardSize)
		assert.Equal(t, "black", tsk.ToPlay)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := TaskFromSGF(1, 1, []byte("   "))
		assert.ErrorIs(t, err, appErrors.ErrEmptyRecord)
	})
}

func TestPaginateTasks(t *testing.T) {
	all := func() []task.Task {
		var tasks []task.Task
		for i := 1; i <= 5; i++ {
			tasks = append(tasks, task.Task{TaskUniqNumber: i})
		}
		return tasks
	}

	t.Run("unsolved first", func(t *testing.T) {
		resp := paginateTasks(all(), []int{1, 2}, 1, 2)

		assert.Equal(t, 3, resp.TotalPages)
		assert.Equal(t, 1, resp.PageWithUnresolved)
		require.Len(t, resp.Tasks, 2)
		assert.Equal(t, 3, resp.Tasks[0].TaskUniqNumber)
		assert.Equal(t, task.StatusNotDone, resp.Tasks[0].TaskStatus)
	})

	t.Run("last page", func(t *testing.T) {
		resp := paginateTasks(all(), []int{1, 2}, 3, 2)

		require.Len(t, resp.Tasks, 1)
		assert.Equal(t, 2, resp.Tasks[0].TaskUniqNumber)
		assert.Equal(t, task.StatusDone, resp.Tasks[0].TaskStatus)
	})

	t.Run("page past the end", func(t *testing.T) {
		resp := paginateTasks(all(), nil, 9, 2)

		assert.Empty(t, resp.Tasks)
		assert.Equal(t, 9, resp.PageNum)
	})

	t.Run("all solved", func(t *testing.T) {
		resp := paginateTasks(all(), []int{1, 2, 3, 4, 5}, 1, 2)

		assert.Equal(t, 1, resp.PageWithUnresolved)
		assert.Equal(t, task.StatusDone, resp.Tasks[0].TaskStatus)
	})
}
