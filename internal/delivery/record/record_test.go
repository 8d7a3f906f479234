package record

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tsumego/internal/domain/game"
	appErrors "tsumego/internal/errors"
	gameuc "tsumego/internal/usecase/game"
)

const record = "(;SZ[9]AB[cc]AW[dd](;B[ee];W[ff])(;B[hh]))"

type memoryStore struct {
	mu      sync.Mutex
	records map[string]string
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
		return "", appErrors.ErrRecordNotFound
	}
	return text, nil
}

func (m *memoryStore) DeleteRecord(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

type envelope struct {
	Status int             `json:"Status"`
	Body   json.RawMessage `json:"Body"`
}

func newServer(t *testing.T) *httptest.Server {
	srv, _ := newHandlerServer(t)
	return srv
}

func newHandlerServer(t *testing.T) (*httptest.Server, *RecordHandler) {
	log := zap.NewNop().Sugar()
	store := &memoryStore{records: map[string]string{}}
	h := NewRecordHandler(log, gameuc.NewGameUseCase(store, log, gameuc.SessionConfig{}))

	r := chi.NewRouter()
	r.Route("/records", h.Routes)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, h
}

func dialLive(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/records/" + id + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	var first game.NavResponse
	require.NoError(t, conn.ReadJSON(&first))
	return conn
}

func play(t *testing.T, conn *websocket.Conn, point string) game.NavResponse {
	t.Helper()
	require.NoError(t, conn.WriteJSON(game.NavRequest{Action: game.ActionPlay, Point: point}))
	var out game.NavResponse
	require.NoError(t, conn.ReadJSON(&out))
	return out
}

func do(t *testing.T, method, url string, body string, out any) envelope {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Body, out))
	}
	return env
}

func createRecord(t *testing.T, srv *httptest.Server) string {
	var created game.RecordCreateResponse
	env := do(t, http.MethodPost, srv.URL+"/records", record, &created)
	require.Equal(t, http.StatusCreated, env.Status)
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestRecordEndpoints(t *testing.T) {
	srv := newServer(t)
	id := createRecord(t, srv)
	base := srv.URL + "/records/" + id

	var pos game.Position
	env := do(t, http.MethodGet, base, "", &pos)
	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, []int{0}, pos.Path)
	assert.Equal(t, 9, pos.Size)

	env = do(t, http.MethodGet, base+"/position?path=0,0,0", "", &pos)
	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, "ff", pos.LastMove.Coordinates)

	env = do(t, http.MethodGet, base+"/position?path=0,4", "", nil)
	assert.Equal(t, http.StatusBadRequest, env.Status)

	var text game.SGFResponse
	do(t, http.MethodGet, base+"/sgf", "", &text)
	assert.Contains(t, text.SGF, "AB[cc]")

	var tree game.TreeNode
	do(t, http.MethodGet, base+"/tree", "", &tree)
	require.Len(t, tree.Children, 1)
	assert.Len(t, tree.Children[0].Children, 2)

	env = do(t, http.MethodDelete, base, "", nil)
	assert.Equal(t, http.StatusOK, env.Status)
	env = do(t, http.MethodGet, base, "", nil)
	assert.Equal(t, http.StatusNotFound, env.Status)
}

func TestCreateRejectsEmptyRecord(t *testing.T) {
	srv := newServer(t)

	env := do(t, http.MethodPost, srv.URL+"/records", "hello", nil)

	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestLiveSession(t *testing.T) {
	srv := newServer(t)
	id := createRecord(t, srv)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/records/" + id + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var resp game.NavResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, []int{0}, resp.Position.Path)

	send := func(req game.NavRequest) game.NavResponse {
		require.NoError(t, conn.WriteJSON(req))
		var out game.NavResponse
		require.NoError(t, conn.ReadJSON(&out))
		return out
	}

	resp = send(game.NavRequest{Action: game.ActionNext})
	assert.Equal(t, []int{0, 0}, resp.Position.Path)

	resp = send(game.NavRequest{Action: game.ActionPrevious})
	assert.Equal(t, []int{0}, resp.Position.Path)

	resp = send(game.NavRequest{Action: game.ActionPrevious})
	assert.NotEmpty(t, resp.Error)

	resp = send(game.NavRequest{Action: game.ActionPlay, Point: "aa"})
	require.Empty(t, resp.Error)
	assert.True(t, resp.Position.OffPath)
	assert.Equal(t, []int{0, 2}, resp.Position.Path)

	var pos game.Position
	env := do(t, http.MethodGet, srv.URL+"/records/"+id+"/position?path=0,2", "", &pos)
	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, "aa", pos.LastMove.Coordinates)
}

func TestLiveUnknownRecord(t *testing.T) {
	srv := newServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/records/missing/live"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)

	assert.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLiveSessionsShareRecord(t *testing.T) {
	// Given two live connections to one record
	srv, h := newHandlerServer(t)
	id := createRecord(t, srv)
	first := dialLive(t, srv, id)
	second := dialLive(t, srv, id)

	// When each plays a different new move at the game root
	resp := play(t, first, "aa")
	require.Empty(t, resp.Error)
	assert.Equal(t, []int{0, 2}, resp.Position.Path)

	resp = play(t, second, "bb")
	require.Empty(t, resp.Error)
	assert.Equal(t, []int{0, 3}, resp.Position.Path)

	// Then the stored record keeps both moves
	var tree game.TreeNode
	do(t, http.MethodGet, srv.URL+"/records/"+id+"/tree", "", &tree)
	require.Len(t, tree.Children, 1)
	moves := []string{}
	for _, child := range tree.Children[0].Children {
		moves = append(moves, child.Move)
	}
	assert.Equal(t, []string{"ee", "hh", "aa", "bb"}, moves)

	// And the shared tree is dropped once both connections are gone
	require.NoError(t, first.Close())
	require.NoError(t, second.Close())
	assert.Eventually(t, func() bool {
		h.liveMu.Lock()
		defer h.liveMu.Unlock()
		return len(h.live) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
