package record

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tsumego/internal/adapters"
	"tsumego/internal/bootstrap"
	"tsumego/internal/domain/game"
	appErrors "tsumego/internal/errors"
	"tsumego/internal/gametree"
	"tsumego/internal/httpresponse"
	"tsumego/internal/repository"
	gameuc "tsumego/internal/usecase/game"
	"tsumego/internal/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveRecord is the tree shared by every live connection to one record. mu
// guards the tree and the sessions opened on it.
type liveRecord struct {
	mu    sync.Mutex
	tree  *gametree.Tree
	conns int
}

type RecordHandler struct {
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase

	liveMu sync.Mutex
	live   map[string]*liveRecord
}

func NewRecordHandler(log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *RecordHandler {
	return &RecordHandler{
		log:    log,
		gameUC: gameUC,
		live:   make(map[string]*liveRecord),
	}
}

func NewRecordHandlerFromAdapters(cfg *bootstrap.Config, log *zap.SugaredLogger, mongoAdapter *adapters.AdapterMongo, redisAdapter *adapters.AdapterRedis) *RecordHandler {
	store := repository.NewRecordRepository(cfg, log, redisAdapter.GetClient(), mongoAdapter.Database)
	sessionCfg := gameuc.SessionConfig{DefaultSize: cfg.DefaultBoardSize, HistoryLimit: cfg.HistoryLimit}
	return NewRecordHandler(log, gameuc.NewGameUseCase(store, log, sessionCfg))
}

func (h *RecordHandler) Routes(r chi.Router) {
	r.Post("/", h.HandleCreate)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Get("/position", h.HandlePosition)
		r.Get("/sgf", h.HandleSGF)
		r.Get("/tree", h.HandleTree)
		r.Delete("/", h.HandleDelete)
		r.Get("/live", h.HandleLive)
	})
}

// statusFor maps use case errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, appErrors.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, appErrors.ErrEmptyRecord),
		errors.Is(err, appErrors.ErrInvalidPath),
		errors.Is(err, appErrors.ErrInvalidPoint),
		errors.Is(err, appErrors.ErrIllegalMove),
		errors.Is(err, appErrors.ErrNoNextNode),
		errors.Is(err, appErrors.ErrNoPreviousNode),
		errors.Is(err, appErrors.ErrUnknownAction):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *RecordHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Errorf("record request failed: %v", err)
		httpresponse.WriteResponseWithStatus(w, status, httpresponse.ErrorResponse{ErrorDescription: appErrors.ErrInternal.Error()})
		return
	}
	httpresponse.WriteResponseWithStatus(w, status, httpresponse.ErrorResponse{ErrorDescription: err.Error()})
}

func (h *RecordHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := utils.ReadRequestBody(r)
	if err != nil {
		h.log.Error("Failed to read body:", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	id, pos, err := h.gameUC.CreateRecord(r.Context(), body)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, game.RecordCreateResponse{ID: id, Position: pos})
}

func (h *RecordHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	pos, err := h.gameUC.Position(r.Context(), chi.URLParam(r, "id"), "")
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, pos)
}

func (h *RecordHandler) HandlePosition(w http.ResponseWriter, r *http.Request) {
	pos, err := h.gameUC.Position(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("path"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, pos)
}

func (h *RecordHandler) HandleSGF(w http.ResponseWriter, r *http.Request) {
	text, err := h.gameUC.SGF(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.SGFResponse{SGF: text})
}

func (h *RecordHandler) HandleTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.gameUC.Tree(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, tree)
}

func (h *RecordHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.gameUC.DeleteRecord(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, "record deleted")
}

// joinLive returns the shared tree of a record, loading it for the first
// connection.
func (h *RecordHandler) joinLive(ctx context.Context, id string) (*liveRecord, error) {
	h.liveMu.Lock()
	defer h.liveMu.Unlock()
	if lr, ok := h.live[id]; ok {
		lr.conns++
		return lr, nil
	}
	tree, err := h.gameUC.LoadTree(ctx, id)
	if err != nil {
		return nil, err
	}
	lr := &liveRecord{tree: tree, conns: 1}
	h.live[id] = lr
	return lr, nil
}

func (h *RecordHandler) leaveLive(id string) {
	h.liveMu.Lock()
	defer h.liveMu.Unlock()
	lr, ok := h.live[id]
	if !ok {
		return
	}
	lr.conns--
	if lr.conns <= 0 {
		delete(h.live, id)
	}
}

// HandleLive walks a record over a websocket. Every request is answered with
// the position after it; moves added by play are saved back. Connections to
// the same record share one tree, so each sees the moves of the others.
func (h *RecordHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lr, err := h.joinLive(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer h.leaveLive(id)

	lr.mu.Lock()
	session, err := h.gameUC.SessionOn(lr.tree)
	var pos *game.Position
	if err == nil {
		pos = session.Position()
		pos.RecordID = id
	}
	lr.mu.Unlock()
	if err != nil {
		h.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorf("upgrade error: %v", err)
		return
	}
	defer conn.Close()

	if err = conn.WriteJSON(game.NavResponse{Position: pos}); err != nil {
		h.log.Errorf("write error: %v", err)
		return
	}

	for {
		var req game.NavRequest
		if err = conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warnw("live session closed", "id", id, "error", err)
			}
			return
		}

		lr.mu.Lock()
		resp := h.navigate(r.Context(), id, session, req)
		lr.mu.Unlock()

		if err = conn.WriteJSON(resp); err != nil {
			h.log.Errorf("write error: %v", err)
			return
		}
	}
}

func (h *RecordHandler) navigate(ctx context.Context, id string, session *gameuc.Session, req game.NavRequest) game.NavResponse {
	changed, err := h.gameUC.Navigate(session, req)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.log.Errorf("navigation failed: %v", err)
		}
		return game.NavResponse{Error: err.Error()}
	}
	if changed {
		if err = h.gameUC.SaveSession(ctx, id, session); err != nil {
			h.log.Errorf("failed to save record %s: %v", id, err)
			return game.NavResponse{Error: fmt.Sprintf("%v: move was not saved", appErrors.ErrInternal)}
		}
	}
	pos := session.Position()
	pos.RecordID = id
	return game.NavResponse{Position: pos}
}
