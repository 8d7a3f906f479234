package game

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"tsumego/internal/board"
	"tsumego/internal/domain/comment"
	domain "tsumego/internal/domain/game"
	"tsumego/internal/domain/sgf"
	"tsumego/internal/errors"
	"tsumego/internal/gametree"
	"tsumego/internal/parser"
	"tsumego/internal/render/text"
	"tsumego/internal/rules"
)

type SessionConfig struct {
	DefaultSize  int
	HistoryLimit int
}

// View is the renderer a session draws into.
type View interface {
	board.RegionRenderer
	Rows() []string
}

var setupColors = []struct {
	key   string
	color sgf.Color
}{
	{"AE", sgf.Empty},
	{"AB", sgf.Black},
	{"AW", sgf.White},
}

var markerKeys = map[string]board.Marker{
	"TR": board.Triangle,
	"SQ": board.Square,
	"CR": board.Circle,
	"MA": board.Cross,
	"DD": board.Dim,
}

// Session replays a record onto a board while a cursor walks it.
type Session struct {
	log *zap.SugaredLogger
	cfg SessionConfig

	tree   *gametree.Tree
	cursor *gametree.Cursor
	board  *board.Board
	rules  *rules.Rules
	view   View
	region *board.Region

	// pushed[i] tells whether executing the i-th node of the current line
	// appended a board snapshot.
	pushed  []bool
	problem bool
	replies []domain.Move
}

func NewSession(log *zap.SugaredLogger, cfg SessionConfig) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.DefaultSize <= 0 {
		cfg.DefaultSize = board.DefaultSize
	}
	return &Session{log: log, cfg: cfg}
}

// LoadBytes decodes raw record data and loads it. Charset declarations are
// rewritten to UTF-8 since the text is decoded from here on.
func (s *Session) LoadBytes(data []byte) error {
	tree := parser.ParseBytes(data)
	for _, game := range tree.Root().Children() {
		if game.Properties().Has("CA") {
			game.DeletePropertyValue([]string{"CA"}, func(string) bool { return true })
			game.PushProperty("CA", "UTF-8")
		}
	}
	return s.LoadTree(tree)
}

func (s *Session) Load(sgfText string) error {
	return s.LoadTree(parser.Parse(sgfText))
}

// LoadTree opens the first game of tree at its root.
func (s *Session) LoadTree(tree *gametree.Tree) error {
	game, ok := tree.GameRoot()
	if !ok {
		return errors.ErrEmptyRecord
	}
	size := s.cfg.DefaultSize
	if v, err := strconv.Atoi(game.Properties().First("SZ")); err == nil && v > 0 && v <= 52 {
		size = v
	}

	s.tree = tree
	s.board = board.New(size, board.WithHistoryLimit(s.cfg.HistoryLimit))
	s.view = text.New(size)
	s.board.SetRenderer(s.view)
	s.rules = rules.New(s.board, s.log)
	s.cursor = gametree.NewCursor(game)
	s.region = nil
	s.replies = nil
	_, s.problem = tree.Find(func(n *gametree.Node) bool { return n.Flags().Right })

	s.pushed = nil
	s.execute(game)
	return nil
}

func (s *Session) Tree() *gametree.Tree {
	return s.tree
}

func (s *Session) Cursor() *gametree.Cursor {
	return s.cursor
}

func (s *Session) Board() *board.Board {
	return s.board
}

func (s *Session) IsProblem() bool {
	return s.problem
}

func (s *Session) SGF() string {
	return s.tree.ToSGF()
}

// execute applies the setup stones, the move and the markers of n and commits
// the result.
func (s *Session) execute(n *gametree.Node) {
	props := n.Properties()
	for _, setup := range setupColors {
		for _, v := range props[setup.key].Values() {
			for _, pt := range sgf.ExpandPoints(v) {
				s.board.AddStone(pt, setup.color)
			}
		}
	}
	if n.PlaysMove() {
		color, coord := sgf.Black, props.First("B")
		if props.Has("W") {
			color, coord = sgf.White, props.First("W")
		}
		s.playMove(n, coord, color)
	}
	s.drawMarkers(n)
	s.pushed = append(s.pushed, s.board.Commit())
}

func (s *Session) playMove(n *gametree.Node, coord string, color sgf.Color) {
	if sgf.IsPass(coord, s.board.Size()) {
		return
	}
	pt, ok := sgf.ParsePoint(coord)
	if !ok {
		s.log.Warnw("skipping move with invalid coordinate", "coord", coord, "path", gametree.FormatPath(n.Path()))
		return
	}
	if !s.board.InBounds(pt) {
		s.log.Warnw("skipping move outside the board", "coord", coord, "size", s.board.Size(), "path", gametree.FormatPath(n.Path()))
		return
	}
	if !s.rules.Play(pt, color) {
		s.log.Warnw("skipping move on occupied point", "coord", coord, "path", gametree.FormatPath(n.Path()))
	}
}

func (s *Session) drawMarkers(n *gametree.Node) {
	s.board.ClearMarkers()
	props := n.Properties()
	for key, marker := range markerKeys {
		for _, v := range props[key].Values() {
			for _, pt := range sgf.ExpandPoints(v) {
				s.board.AddMarker(pt, marker)
			}
		}
	}
	for _, v := range props["LB"].Values() {
		coord, label, ok := strings.Cut(v, ":")
		if !ok {
			continue
		}
		if pt, ok := sgf.ParsePoint(coord); ok {
			s.board.AddMarker(pt, board.Label(label))
		}
	}
	if move, ok := n.Move(); ok && n.PlaysMove() {
		if pt, ok := sgf.ParsePoint(move); ok && s.board.Stone(pt) != sgf.Empty && s.board.Marker(pt) == board.NoMarker {
			s.board.AddMarker(pt, board.Current)
		}
	}
}

// Next follows the variation with the given index; a negative index follows
// the preferred child.
func (s *Session) Next(variation int) error {
	if !s.cursor.NextVariation(variation) {
		return errors.ErrNoNextNode
	}
	s.execute(s.cursor.Node())
	return nil
}

// Previous steps back using the board history. When the history was trimmed
// by the limit the line is replayed instead.
func (s *Session) Previous() error {
	if !s.cursor.Previous() {
		return errors.ErrNoPreviousNode
	}
	last := len(s.pushed) - 1
	pushed := s.pushed[last]
	if pushed && s.board.HistoryLen() < lo.Count(s.pushed, true) {
		return s.GoTo(s.cursor.Node().Path())
	}
	s.pushed = s.pushed[:last]
	if pushed {
		s.board.Revert(1)
	}
	s.drawMarkers(s.cursor.Node())
	return nil
}

// GoTo resets the board and replays the line leading to the node at path. The
// empty path selects the first game.
func (s *Session) GoTo(path []int) error {
	target, ok := s.tree.ResolvePath(path)
	if !ok {
		return errors.ErrInvalidPath
	}
	if target.IsCollectionRoot() {
		target, _ = s.tree.GameRoot()
	}
	var line []*gametree.Node
	s.tree.WalkUp(target, func(n *gametree.Node) bool {
		if n.IsCollectionRoot() {
			return false
		}
		line = append(line, n)
		return true
	})

	s.board.Reset()
	s.pushed = nil
	s.replies = nil
	for i := len(line) - 1; i >= 0; i-- {
		s.execute(line[i])
	}
	s.cursor.MoveTo(target)
	return nil
}

// Play puts a stone of the side to move at coord. An existing continuation
// with that move is followed; otherwise a new off-path node is added. In a
// problem the main-line answer is then played automatically.
func (s *Session) Play(coord string) error {
	pt, ok := sgf.ParsePoint(coord)
	if !ok || !s.board.InBounds(pt) {
		return errors.ErrInvalidPoint
	}
	s.replies = nil
	if i, exists := s.cursor.NextMoves()[coord]; exists {
		if err := s.Next(i); err != nil {
			return err
		}
		s.autoReply()
		return nil
	}

	color := s.NextColor()
	if !s.rules.Check(pt, color) {
		return errors.ErrIllegalMove
	}
	node := s.tree.AppendChild(s.cursor.Node(), sgf.Properties{color.Letter(): sgf.Single(coord)})
	node.SetOffPath(true)
	s.cursor.MoveTo(node)
	s.execute(node)
	s.log.Infow("added off-path move", "coord", coord, "path", gametree.FormatPath(node.Path()))
	return nil
}

func (s *Session) autoReply() {
	if !s.problem {
		return
	}
	for s.cursor.HasNext() {
		status := s.Status()
		if status != domain.StatusPlaying && status != domain.StatusForced {
			return
		}
		if err := s.Next(-1); err != nil {
			return
		}
		n := s.cursor.Node()
		move, _ := n.Move()
		s.replies = append(s.replies, domain.Move{Color: n.Color().String(), Coordinates: move})
		if !n.Flags().Force {
			return
		}
	}
}

// NextColor is the side to move. Records that do not say fall back to PL, then black.
func (s *Session) NextColor() sgf.Color {
	if c := s.cursor.NextColor(); c != sgf.Empty {
		return c
	}
	if game, ok := s.cursor.GameRoot(); ok {
		if c := sgf.ColorFromLetter(game.Properties().First("PL")); c != sgf.Empty {
			return c
		}
	}
	return sgf.Black
}

// Status evaluates the current node as a problem answer.
func (s *Session) Status() string {
	n := s.cursor.Node()
	flags := n.Flags()
	switch {
	case n.OffPath() || flags.NotThis:
		return domain.StatusFailed
	case flags.Right:
		return domain.StatusSolved
	case flags.Choice:
		return domain.StatusChoice
	case flags.Force:
		return domain.StatusForced
	case s.problem && n.ChildCount() == 0:
		return domain.StatusFailed
	}
	return domain.StatusPlaying
}

// Crop limits the view to the stones of the position plus padding, the way
// problems are shown.
func (s *Session) Crop(padding int) {
	bounds, ok := s.board.Bounds()
	if !ok {
		return
	}
	size := s.board.Size()
	top, left := max(bounds.Top-padding, 0), max(bounds.Left-padding, 0)
	bottom := min(bounds.Top+bounds.Height+padding, size)
	right := min(bounds.Left+bounds.Width+padding, size)
	s.region = &board.Region{Top: top, Left: left, Width: right - left, Height: bottom - top}
	s.view.ShowRegion(*s.region)
}

func (s *Session) Uncrop() {
	s.region = nil
	s.view.HideRegion()
}

// ApplyComments attaches the counts of an external comment feed to the tree.
func (s *Session) ApplyComments(feed []comment.Comment) map[string]int {
	return s.tree.ApplyExternalComments(feed)
}

// Position snapshots the node under the cursor.
func (s *Session) Position() *domain.Position {
	n := s.cursor.Node()
	status := s.Status()
	if s.problem && (status == domain.StatusSolved || status == domain.StatusFailed) {
		s.view.SetCursor("default")
	} else {
		s.view.SetCursor("pointer")
	}
	s.view.Clear()
	s.board.Render(true)

	size := s.board.Size()
	pos := &domain.Position{
		Path:        n.Path(),
		Size:        size,
		Rows:        s.view.Rows(),
		Stones:      []domain.Stone{},
		Captures:    s.board.Captures(),
		MoveNumber:  s.cursor.MoveNumber(),
		ToPlay:      s.NextColor().String(),
		Comments:    n.Comments(),
		NextMoves:   s.cursor.NextMoves(),
		HasPrevious: s.cursor.HasPrevious(),
		OffPath:     n.OffPath(),
		Flags:       n.Flags(),
		Status:      status,
		Region:      s.region,
		Replies:     s.replies,
		External:    n.ExternalCommentCount(),
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			pt := sgf.Point{X: x, Y: y}
			if c := s.board.Stone(pt); c != sgf.Empty {
				pos.Stones = append(pos.Stones, domain.Stone{X: x, Y: y, Color: c.String()})
			}
			if m := s.board.Marker(pt); m != board.NoMarker {
				pos.Markers = append(pos.Markers, domain.Marker{X: x, Y: y, Marker: string(m)})
			}
		}
	}
	if move, ok := n.Move(); ok && n.PlaysMove() {
		pos.LastMove = &domain.Move{Color: n.Color().String(), Coordinates: move}
	}
	pos.Transposed = lo.Map(n.IsoNodes(), func(iso *gametree.Node, _ int) []int {
		return iso.Path()
	})
	return pos
}

// TreeView returns the move tree of every game for display. Nodes carry their
// index among their siblings; a path is the indices along the nesting.
func (s *Session) TreeView() *domain.TreeNode {
	root := &domain.TreeNode{}
	type item struct {
		node *gametree.Node
		view *domain.TreeNode
	}
	stack := []item{{node: s.tree.Root(), view: root}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		children := cur.node.Children()
		cur.view.Children = make([]*domain.TreeNode, 0, len(children))
		for i, child := range children {
			v := &domain.TreeNode{
				Index:   i,
				Comment: child.Properties().Has("C"),
				Iso:     len(child.IsoNodes()) > 0,
			}
			if move, ok := child.Move(); ok && child.PlaysMove() {
				v.Move = move
				v.Color = child.Color().String()
			}
			cur.view.Children = append(cur.view.Children, v)
			stack = append(stack, item{node: child, view: v})
		}
	}
	return root
}
