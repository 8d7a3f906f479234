package gametree

import (
	"regexp"

	"tsumego/internal/domain/sgf"
)

// ProblemFlags are the puzzle annotations found in node comments.
type ProblemFlags struct {
	Right   bool `json:"right,omitempty"`
	Choice  bool `json:"choice,omitempty"`
	NotThis bool `json:"not_this,omitempty"`
	Force   bool `json:"force,omitempty"`
}

type Node struct {
	tree      *Tree
	id        NodeID
	parent    NodeID
	children  []NodeID
	preferred int
	props     sgf.Properties

	color            sgf.Color
	depth            int
	iso              []NodeID
	offPath          bool
	externalComments int
	flags            ProblemFlags

	path      []int
	pathMoves []string
	colorPath []string
	isoKey    string
}

func (n *Node) ID() NodeID {
	return n.id
}

func (n *Node) Tree() *Tree {
	return n.tree
}

func (n *Node) IsCollectionRoot() bool {
	return n.parent == NoNode
}

// IsGameRoot reports whether n is the top of its game (it has no grandparent).
func (n *Node) IsGameRoot() bool {
	p := n.Parent()
	return p != nil && p.parent == NoNode
}

func (n *Node) Parent() *Node {
	if n.parent == NoNode {
		return nil
	}
	return n.tree.nodes[n.parent]
}

func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	for i, id := range n.children {
		out[i] = n.tree.nodes[id]
	}
	return out
}

func (n *Node) ChildCount() int {
	return len(n.children)
}

func (n *Node) Child(i int) (*Node, bool) {
	if i < 0 || i >= len(n.children) {
		return nil, false
	}
	return n.tree.nodes[n.children[i]], true
}

// PreferredChild is the index of the main-line continuation.
func (n *Node) PreferredChild() int {
	return n.preferred
}

func (n *Node) SetPreferredChild(i int) bool {
	if i < 0 || i >= len(n.children) {
		return false
	}
	n.preferred = i
	return true
}

// Position returns the index of n among its parent's children.
func (n *Node) Position() (int, bool) {
	p := n.Parent()
	if p == nil {
		return 0, false
	}
	for i, id := range p.children {
		if id == n.id {
			return i, true
		}
	}
	return 0, false
}

func (n *Node) Depth() int {
	return n.depth
}

// Color returns the color of the move n plays. Nodes without a move take the
// opposite of their nearest colored ancestor, computed once on first use.
// Empty means no ancestor has a color yet.
func (n *Node) Color() sgf.Color {
	if n.color != sgf.Empty {
		return n.color
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.color != sgf.Empty {
			n.color = p.color.Opposite()
			break
		}
	}
	return n.color
}

// Move returns the coordinate of the B or W property. ok is false when the
// node has no color at all; a colored node without a move returns "", true.
func (n *Node) Move() (string, bool) {
	if v, ok := n.props["W"]; ok {
		return v.First(), true
	}
	if v, ok := n.props["B"]; ok {
		return v.First(), true
	}
	if n.color != sgf.Empty {
		return "", true
	}
	return "", false
}

func (n *Node) PlaysMove() bool {
	return n.props.Has("B") || n.props.Has("W")
}

func (n *Node) Properties() sgf.Properties {
	return n.props
}

func (n *Node) Property(key string) (sgf.Value, bool) {
	v, ok := n.props[key]
	return v, ok
}

func (n *Node) Comments() []string {
	return n.props["C"].Values()
}

// PushProperty adds value to key unless it is already there.
func (n *Node) PushProperty(key, value string) {
	v, ok := n.props[key]
	if !ok {
		n.props[key] = sgf.Single(value)
		return
	}
	if !v.Contains(value) {
		n.props[key] = v.Append(value)
	}
}

func (n *Node) HasPropertyValue(key, value string) bool {
	return n.props[key].Contains(value)
}

// DeletePropertyValue removes matching values from each key. A key left
// without values is deleted.
func (n *Node) DeletePropertyValue(keys []string, match func(string) bool) {
	for _, key := range keys {
		v, ok := n.props[key]
		if !ok {
			continue
		}
		kept := v.Filter(func(s string) bool { return !match(s) })
		if kept.Len() == 0 {
			delete(n.props, key)
			continue
		}
		n.props[key] = kept
	}
}

func Equal(value string) func(string) bool {
	return func(s string) bool { return s == value }
}

func Matching(re *regexp.Regexp) func(string) bool {
	return re.MatchString
}

// EmptyPoint removes coord from the stone properties of the node and returns
// the removed value.
func (n *Node) EmptyPoint(coord string) (string, bool) {
	deleted := false
	for _, key := range []string{"AB", "AW", "AE"} {
		if n.props[key].Contains(coord) {
			n.DeletePropertyValue([]string{key}, Equal(coord))
			deleted = true
		}
	}
	for _, key := range []string{"B", "W"} {
		if v, ok := n.props[key]; ok && v.First() == coord {
			delete(n.props, key)
			deleted = true
		}
	}
	if !deleted {
		return "", false
	}
	return coord, true
}

func (n *Node) Flags() ProblemFlags {
	return n.flags
}

func (n *Node) SetFlags(f ProblemFlags) {
	n.flags = f
}

// OffPath reports whether the node was added by a user rather than loaded.
func (n *Node) OffPath() bool {
	return n.offPath
}

func (n *Node) SetOffPath(offPath bool) {
	n.offPath = offPath
}

func (n *Node) IncreaseExternalCommentCount(count int) {
	n.externalComments += count
}

func (n *Node) ExternalCommentCount() int {
	return n.externalComments
}

// IsoNodes returns the nodes reached by another move order with the same stones.
func (n *Node) IsoNodes() []*Node {
	out := make([]*Node, len(n.iso))
	for i, id := range n.iso {
		out[i] = n.tree.nodes[id]
	}
	return out
}
