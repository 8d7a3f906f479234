package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "tsumego/internal/domain/game"
	"tsumego/internal/errors"
	"tsumego/internal/gametree"
	"tsumego/internal/parser"
)

type RecordStore interface {
	SaveRecord(ctx context.Context, id string, sgfText string) error
	LoadRecord(ctx context.Context, id string) (string, error)
	DeleteRecord(ctx context.Context, id string) error
}

type GameUseCase struct {
	store RecordStore
	log   *zap.SugaredLogger
	cfg   SessionConfig
}

func NewGameUseCase(store RecordStore, log *zap.SugaredLogger, cfg SessionConfig) *GameUseCase {
	return &GameUseCase{store: store, log: log, cfg: cfg}
}

// CreateRecord parses raw record data and stores it under a new id.
func (g *GameUseCase) CreateRecord(ctx context.Context, data []byte) (string, *domain.Position, error) {
	session := NewSession(g.log, g.cfg)
	if err := session.LoadBytes(data); err != nil {
		return "", nil, err
	}

	id := uuid.New().String()
	if err := g.store.SaveRecord(ctx, id, session.SGF()); err != nil {
		return "", nil, fmt.Errorf("failed to save record %s: %w", id, err)
	}
	g.log.Infof("record %s created with %d nodes", id, session.Tree().Len())

	pos := session.Position()
	pos.RecordID = id
	return id, pos, nil
}

// LoadTree reads and parses a stored record.
func (g *GameUseCase) LoadTree(ctx context.Context, id string) (*gametree.Tree, error) {
	sgfText, err := g.store.LoadRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	tree := parser.Parse(sgfText)
	if _, ok := tree.GameRoot(); !ok {
		return nil, fmt.Errorf("record %s: %w", id, errors.ErrEmptyRecord)
	}
	return tree, nil
}

// SessionOn opens a session over tree. Several sessions may share one tree as
// long as the caller serializes everything they do.
func (g *GameUseCase) SessionOn(tree *gametree.Tree) (*Session, error) {
	session := NewSession(g.log, g.cfg)
	if err := session.LoadTree(tree); err != nil {
		return nil, err
	}
	return session, nil
}

// OpenSession loads a stored record.
func (g *GameUseCase) OpenSession(ctx context.Context, id string) (*Session, error) {
	tree, err := g.LoadTree(ctx, id)
	if err != nil {
		return nil, err
	}
	return g.SessionOn(tree)
}

// SaveSession writes the tree of a session back, keeping moves added by play.
func (g *GameUseCase) SaveSession(ctx context.Context, id string, session *Session) error {
	return g.store.SaveRecord(ctx, id, session.SGF())
}

// Position returns the position at a comma separated path. The empty path is
// the root of the first game.
func (g *GameUseCase) Position(ctx context.Context, id string, pathStr string) (*domain.Position, error) {
	path, ok := gametree.ParsePath(pathStr)
	if !ok {
		return nil, errors.ErrInvalidPath
	}
	session, err := g.OpenSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(path) > 0 {
		if err = session.GoTo(path); err != nil {
			return nil, err
		}
	}
	pos := session.Position()
	pos.RecordID = id
	return pos, nil
}

func (g *GameUseCase) SGF(ctx context.Context, id string) (string, error) {
	session, err := g.OpenSession(ctx, id)
	if err != nil {
		return "", err
	}
	return session.SGF(), nil
}

func (g *GameUseCase) Tree(ctx context.Context, id string) (*domain.TreeNode, error) {
	session, err := g.OpenSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return session.TreeView(), nil
}

func (g *GameUseCase) DeleteRecord(ctx context.Context, id string) error {
	return g.store.DeleteRecord(ctx, id)
}

// Navigate applies one live navigation request to the session. It reports
// whether the tree changed and must be saved.
func (g *GameUseCase) Navigate(session *Session, req domain.NavRequest) (bool, error) {
	switch req.Action {
	case domain.ActionNext:
		return false, session.Next(-1)
	case domain.ActionVariation:
		return false, session.Next(req.Variation)
	case domain.ActionPrevious:
		return false, session.Previous()
	case domain.ActionGoTo:
		path, ok := gametree.ParsePath(req.Path)
		if !ok {
			return false, errors.ErrInvalidPath
		}
		return false, session.GoTo(path)
	case domain.ActionPlay:
		before := session.Tree().Len()
		if err := session.Play(req.Point); err != nil {
			return false, err
		}
		return session.Tree().Len() != before, nil
	}
	return false, fmt.Errorf("%w: %q", errors.ErrUnknownAction, req.Action)
}
