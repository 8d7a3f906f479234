package task

import (
	"tsumego/internal/domain/game"
)

const (
	StatusDone    = "done"
	StatusNotDone = "not_done"
)

type Task struct {
	TaskUniqNumber int    `json:"task_number" bson:"task_number"`
	TaskLevel      int    `json:"task_level" bson:"task_level"`
	TaskSgf        string `json:"task_sgf" bson:"task_sgf"`
	TaskStatus     string `json:"task_status" bson:"task_status"`
	BoardSize      int    `json:"board_size" bson:"board_size"`
	ToPlay         string `json:"to_play" bson:"to_play"`
}

type TaskResponse struct {
	PageNum            int    `json:"page_tmp" bson:"page_tmp"`
	TotalPages         int    `json:"total_pages" bson:"total_pages"`
	PageWithUnresolved int    `json:"page_with_unresolved" bson:"page_with_unresolved"`
	Tasks              []Task `json:"tasks" bson:"tasks"`
}

// TaskView is a problem opened at its start position.
type TaskView struct {
	Task     Task           `json:"task"`
	Position *game.Position `json:"position"`
}

type AttemptRequest struct {
	UserID string   `json:"user_id"`
	Moves  []string `json:"moves"`
}

type AttemptResult struct {
	Status   string         `json:"status"`
	Solved   bool           `json:"solved"`
	Position *game.Position `json:"position"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}
