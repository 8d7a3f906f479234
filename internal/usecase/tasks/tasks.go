package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tsumego/internal/domain/comment"
	"tsumego/internal/domain/game"
	"tsumego/internal/domain/task"
	"tsumego/internal/errors"
	"tsumego/internal/gametree"
	gameUC "tsumego/internal/usecase/game"
)

// cropPadding is the number of empty lines kept around the stones of a problem.
const cropPadding = 1

type TaskStore interface {
	PutAllTasksToMongoByPath(ctx context.Context, pathToTasks string) (int, error)
	GetTasksWithStatusPaginated(ctx context.Context, userIDStr string, taskLevel int, pageNum int) (*task.TaskResponse, error)
	GetTaskByNumber(ctx context.Context, taskUniqNumber int) (*task.Task, error)
	TaskIsDone(ctx context.Context, taskUniqNumber int, userID string) (bool, error)
}

type CommentStore interface {
	AddComment(ctx context.Context, c comment.Comment) error
	GetCommentsByTask(ctx context.Context, taskNumber int) ([]comment.Comment, error)
}

type TaskUseCase struct {
	taskStore    TaskStore
	commentStore CommentStore
	log          *zap.SugaredLogger
	cfg          gameUC.SessionConfig
}

func NewTaskUseCase(taskStore TaskStore, commentStore CommentStore, log *zap.SugaredLogger, cfg gameUC.SessionConfig) *TaskUseCase {
	return &TaskUseCase{
		taskStore:    taskStore,
		commentStore: commentStore,
		log:          log,
		cfg:          cfg,
	}
}

func (t *TaskUseCase) PutTasksToMongoByPath(ctx context.Context, path string) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, fmt.Errorf("empty tasks path")
	}
	return t.taskStore.PutAllTasksToMongoByPath(ctx, path)
}

func (t *TaskUseCase) GetAvailableTasksForUserByIdByLevelByPage(ctx context.Context, userID string, pageNum int, level int) (*task.TaskResponse, error) {
	return t.taskStore.GetTasksWithStatusPaginated(ctx, userID, level, pageNum)
}

func (t *TaskUseCase) MarkTaskAsDone(ctx context.Context, userID string, taskID int) error {
	_, err := t.taskStore.TaskIsDone(ctx, taskID, userID)
	return err
}

// openTask loads a problem into a session cropped to its stones, with the
// comment counts of the feed attached to the tree.
func (t *TaskUseCase) openTask(ctx context.Context, number int) (*task.Task, *gameUC.Session, error) {
	tsk, err := t.taskStore.GetTaskByNumber(ctx, number)
	if err != nil {
		return nil, nil, err
	}
	session := gameUC.NewSession(t.log, t.cfg)
	if err = session.Load(tsk.TaskSgf); err != nil {
		return nil, nil, fmt.Errorf("task %d: %w", number, err)
	}
	session.Crop(cropPadding)

	feed, err := t.commentStore.GetCommentsByTask(ctx, number)
	if err != nil {
		t.log.Errorf("failed to load comments of task %d: %v", number, err)
	} else {
		session.ApplyComments(feed)
	}
	return tsk, session, nil
}

func (t *TaskUseCase) GetTask(ctx context.Context, number int) (*task.TaskView, error) {
	tsk, session, err := t.openTask(ctx, number)
	if err != nil {
		return nil, err
	}
	return &task.TaskView{Task: *tsk, Position: session.Position()}, nil
}

// Attempt plays the moves of a user against the problem. Play stops at the
// first move that solves or fails it; a solved problem is recorded for the user.
func (t *TaskUseCase) Attempt(ctx context.Context, number int, req task.AttemptRequest) (*task.AttemptResult, error) {
	_, session, err := t.openTask(ctx, number)
	if err != nil {
		return nil, err
	}

	status := session.Status()
	for _, move := range req.Moves {
		if err = session.Play(move); err != nil {
			return nil, err
		}
		status = session.Status()
		if status == game.StatusSolved || status == game.StatusFailed {
			break
		}
	}

	solved := status == game.StatusSolved
	if solved && req.UserID != "" {
		if err = t.MarkTaskAsDone(ctx, req.UserID, number); err != nil {
			return nil, err
		}
		t.log.Infof("task %d solved by user %s", number, req.UserID)
	}
	return &task.AttemptResult{Status: status, Solved: solved, Position: session.Position()}, nil
}

// Comments lists the feed of a problem together with the number of comments
// per path.
func (t *TaskUseCase) Comments(ctx context.Context, number int) (*comment.CountsResponse, error) {
	tsk, err := t.taskStore.GetTaskByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	feed, err := t.commentStore.GetCommentsByTask(ctx, number)
	if err != nil {
		return nil, err
	}
	session := gameUC.NewSession(t.log, t.cfg)
	if err = session.Load(tsk.TaskSgf); err != nil {
		return nil, fmt.Errorf("task %d: %w", number, err)
	}
	return &comment.CountsResponse{Comments: feed, Counts: session.ApplyComments(feed)}, nil
}

func (t *TaskUseCase) AddComment(ctx context.Context, number int, req comment.CreateRequest) (*comment.Comment, error) {
	_, session, err := t.openTask(ctx, number)
	if err != nil {
		return nil, err
	}
	path, ok := gametree.ParsePath(req.Path)
	if !ok {
		return nil, errors.ErrInvalidPath
	}
	if _, ok = session.Tree().ResolvePath(path); !ok {
		return nil, errors.ErrInvalidPath
	}
	genre := req.Genre
	if genre == "" {
		genre = comment.GenreComment
	}

	c := comment.Comment{
		ID:         uuid.New().String(),
		TaskNumber: number,
		Author:     strings.TrimSpace(req.Author),
		Entered:    time.Now(),
		Text:       strings.TrimSpace(req.Text),
		Path:       gametree.FormatPath(path),
		Genre:      genre,
		Strength:   req.Strength,
		Alive:      true,
	}
	if !c.Valid() {
		return nil, errors.ErrInvalidComment
	}
	if err = t.commentStore.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}
