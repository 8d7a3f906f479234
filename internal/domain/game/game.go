package game

import (
	"tsumego/internal/board"
	"tsumego/internal/gametree"
)

// Problem status of the current node.
const (
	StatusPlaying = "playing"
	StatusSolved  = "solved"
	StatusFailed  = "failed"
	StatusChoice  = "choice"
	StatusForced  = "forced"
)

type Stone struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color"`
}

type Marker struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Marker string `json:"marker"`
}

// Position is the board and the node state at the cursor.
type Position struct {
	RecordID    string                `json:"record_id,omitempty"`
	Path        []int                 `json:"path"`
	Size        int                   `json:"size"`
	Rows        []string              `json:"rows"`
	Stones      []Stone               `json:"stones"`
	Markers     []Marker              `json:"markers,omitempty"`
	Captures    board.Captures        `json:"captures"`
	MoveNumber  int                   `json:"move_number"`
	LastMove    *Move                 `json:"last_move,omitempty"`
	ToPlay      string                `json:"to_play"`
	Comments    []string              `json:"comments,omitempty"`
	NextMoves   map[string]int        `json:"next_moves,omitempty"`
	HasPrevious bool                  `json:"has_previous"`
	Transposed  [][]int               `json:"transposed,omitempty"`
	OffPath     bool                  `json:"off_path"`
	Flags       gametree.ProblemFlags `json:"flags"`
	Status      string                `json:"status"`
	Region      *board.Region         `json:"region,omitempty"`
	Replies     []Move                `json:"replies,omitempty"`
	External    int                   `json:"external_comments,omitempty"`
}

// TreeNode is the move tree as sent to clients. Index is the position among
// the siblings, so the path of a node is the indices from the top down.
type TreeNode struct {
	Index    int         `json:"index"`
	Move     string      `json:"move,omitempty"`
	Color    string      `json:"color,omitempty"`
	Comment  bool        `json:"comment,omitempty"`
	Iso      bool        `json:"iso,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

type RecordCreateResponse struct {
	ID       string    `json:"id"`
	Position *Position `json:"position"`
}

type SGFResponse struct {
	SGF string `json:"sgf"`
}

// Navigation actions of the live session.
const (
	ActionNext      = "next"
	ActionPrevious  = "previous"
	ActionGoTo      = "goto"
	ActionPlay      = "play"
	ActionVariation = "variation"
)

type NavRequest struct {
	Action    string `json:"action"`
	Path      string `json:"path,omitempty"`
	Variation int    `json:"variation,omitempty"`
	Point     string `json:"point,omitempty"`
}

type NavResponse struct {
	Position *Position `json:"position,omitempty"`
	Error    string    `json:"error,omitempty"`
}
