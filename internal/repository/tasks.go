package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tsumego/internal/adapters"
	"tsumego/internal/bootstrap"
	"tsumego/internal/domain/sgf"
	"tsumego/internal/domain/task"
	appErrors "tsumego/internal/errors"
	"tsumego/internal/gametree"
	"tsumego/internal/parser"
)

const importWorkers = 8

var chapterRe = regexp.MustCompile(`(?i)^Chapter (\d+)$`)

type TaskStorage struct {
	cfg   *bootstrap.Config
	log   *zap.SugaredLogger
	mongo *adapters.AdapterMongo
}

func NewTaskStorage(cfg *bootstrap.Config, log *zap.SugaredLogger, mongoAdapter *adapters.AdapterMongo) *TaskStorage {
	return &TaskStorage{
		cfg:   cfg,
		log:   log,
		mongo: mongoAdapter,
	}
}

// PutAllTasksToMongoByPath parses every .sgf file below pathToTasks and
// upserts the problems by number. Returns the number of stored problems.
func (t *TaskStorage) PutAllTasksToMongoByPath(ctx context.Context, pathToTasks string) (int, error) {
	var files []string
	err := filepath.WalkDir(pathToTasks, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".sgf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk %s: %w", pathToTasks, err)
	}

	tasks := make([]*task.Task, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importWorkers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			taskStruct, err := t.ConvertSgfTaskToStructTask(path)
			if err != nil {
				return fmt.Errorf("failed to process file %s: %w", path, err)
			}
			tasks[i] = taskStruct
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return 0, err
	}
	if len(tasks) == 0 {
		return 0, nil
	}

	models := make([]mongo.WriteModel, 0, len(tasks))
	for _, tsk := range tasks {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"task_number": tsk.TaskUniqNumber}).
			SetReplacement(tsk).
			SetUpsert(true))
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err = t.mongo.Database.Collection("tasks").BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("failed to save tasks to mongo: %w", err)
	}

	t.log.Infof("imported %d tasks from %s", len(tasks), pathToTasks)
	return len(tasks), nil
}

// ConvertSgfTaskToStructTask reads one problem file. The file name is the
// problem number and a "Chapter N" directory gives the level.
func (t *TaskStorage) ConvertSgfTaskToStructTask(pathToTask string) (*task.Task, error) {
	filename := filepath.Base(pathToTask)
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	taskUniqNum, err := strconv.Atoi(name)
	if err != nil {
		return nil, err
	}
	taskLevel, ok := ExtractChapterIndex(pathToTask)
	if !ok {
		t.log.Warnw("task is outside a chapter directory", "path", pathToTask)
	}

	data, err := os.ReadFile(pathToTask)
	if err != nil {
		return nil, err
	}
	return TaskFromSGF(taskUniqNum, taskLevel, data)
}

// TaskFromSGF builds a problem from raw record data.
func TaskFromSGF(number int, level int, data []byte) (*task.Task, error) {
	text := parser.Decode(data)
	tree := parser.Parse(text)
	game, ok := tree.GameRoot()
	if !ok {
		return nil, appErrors.ErrEmptyRecord
	}

	size, err := strconv.Atoi(game.Properties().First("SZ"))
	if err != nil || size <= 0 {
		size = 19
	}
	toPlay := sgf.ColorFromLetter(game.Properties().First("PL"))
	if first, ok := tree.Find(func(n *gametree.Node) bool { return n.PlaysMove() }); ok && toPlay == sgf.Empty {
		toPlay = first.Color()
	}
	if toPlay == sgf.Empty {
		toPlay = sgf.Black
	}

	return &task.Task{
		TaskUniqNumber: number,
		TaskLevel:      level,
		TaskSgf:        text,
		BoardSize:      size,
		ToPlay:         toPlay.String(),
	}, nil
}

func ExtractChapterIndex(pathToTask string) (int, bool) {
	dirs := strings.Split(filepath.ToSlash(pathToTask), "/")

	for _, dir := range dirs {
		if match := chapterRe.FindStringSubmatch(dir); len(match) == 2 {
			indexNum, err := strconv.Atoi(match[1])
			if err != nil {
				return 0, false
			}
			return indexNum, true
		}
	}
	return 0, false
}

func (t *TaskStorage) GetTaskByNumber(ctx context.Context, taskUniqNumber int) (*task.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result task.Task
	err := t.mongo.Database.Collection("tasks").
		FindOne(ctx, bson.M{"task_number": taskUniqNumber}).
		Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, appErrors.ErrTaskNotFound
	} else if err != nil {
		return nil, err
	}
	return &result, nil
}

func (t *TaskStorage) doneTasks(ctx context.Context, userID string) ([]int, error) {
	if userID == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrInvalidUserID, err)
	}

	var user struct {
		TasksDone []int `bson:"done_tasks_ids"`
	}
	err = t.mongo.Database.Collection("users").
		FindOne(ctx, bson.M{"_id": oid}).
		Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	return user.TasksDone, nil
}

func (t *TaskStorage) GetTasksWithStatusPaginated(
	ctx context.Context,
	userIDStr string,
	taskLevel int,
	pageNum int,
) (*task.TaskResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	done, err := t.doneTasks(ctx, userIDStr)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"task_level": taskLevel}
	cursor, err := t.mongo.Database.Collection("tasks").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var allTasks []task.Task
	if err := cursor.All(ctx, &allTasks); err != nil {
		return nil, err
	}

	return paginateTasks(allTasks, done, pageNum, t.cfg.PageLimitTasks), nil
}

// paginateTasks marks solved problems, lists unsolved ones first and cuts the
// requested page. Pages start at 1.
func paginateTasks(allTasks []task.Task, done []int, pageNum int, pageLimit int) *task.TaskResponse {
	if pageLimit <= 0 {
		pageLimit = 20
	}
	if pageNum < 1 {
		pageNum = 1
	}

	doneMap := make(map[int]struct{}, len(done))
	for _, n := range done {
		doneMap[n] = struct{}{}
	}

	for i := range allTasks {
		if _, ok := doneMap[allTasks[i].TaskUniqNumber]; ok {
			allTasks[i].TaskStatus = task.StatusDone
		} else {
			allTasks[i].TaskStatus = task.StatusNotDone
		}
	}

	sort.SliceStable(allTasks, func(i, j int) bool {
		a, b := allTasks[i], allTasks[j]
		if a.TaskStatus != b.TaskStatus {
			return a.TaskStatus == task.StatusNotDone
		}
		return a.TaskUniqNumber < b.TaskUniqNumber
	})

	pageWithUnresolved := 1
	for i, tsk := range allTasks {
		if tsk.TaskStatus == task.StatusNotDone {
			pageWithUnresolved = (i / pageLimit) + 1
			break
		}
	}

	totalPages := (len(allTasks) + pageLimit - 1) / pageLimit
	start := min((pageNum-1)*pageLimit, len(allTasks))
	end := min(start+pageLimit, len(allTasks))

	return &task.TaskResponse{
		PageNum:            pageNum,
		TotalPages:         totalPages,
		PageWithUnresolved: pageWithUnresolved,
		Tasks:              allTasks[start:end],
	}
}

// TaskIsDone records the problem as solved by the user and reports whether it
// had been solved before.
func (t *TaskStorage) TaskIsDone(ctx context.Context, taskUniqNumber int, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := t.mongo.Database.Collection("users")

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", appErrors.ErrInvalidUserID, err)
	}

	filter := bson.M{
		"_id":            oid,
		"done_tasks_ids": taskUniqNumber,
	}

	err = collection.FindOne(ctx, filter).Err()
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return false, err
	}

	update := bson.M{
		"$addToSet": bson.M{"done_tasks_ids": taskUniqNumber},
	}

	_, err = collection.UpdateByID(ctx, oid, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to mark task %d as done: %w", taskUniqNumber, err)
	}

	return false, nil
}
