package errors

import "errors"

var (
	ErrRecordNotFound = errors.New("record was not found")
	ErrEmptyRecord    = errors.New("record holds no game")
	ErrInvalidPath    = errors.New("path does not address a node")
	ErrInvalidPoint   = errors.New("invalid point")
	ErrIllegalMove    = errors.New("illegal move")
	ErrNoNextNode     = errors.New("no next node")
	ErrNoPreviousNode = errors.New("no previous node")
	ErrUnknownAction  = errors.New("unknown action")
	ErrTaskNotFound   = errors.New("task was not found")
	ErrInvalidComment = errors.New("comment needs an author and a text")
	ErrInvalidUserID  = errors.New("invalid user id")
	ErrInternal       = errors.New("internal error")
)
