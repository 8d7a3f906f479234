package gametree

import (
	"strings"

	"tsumego/internal/domain/sgf"
)

// fixed order for the common SGF properties, everything else follows sorted
var orderedKeys = []string{"FF", "GM", "CA", "SZ", "PB", "PW", "DT", "RE", "KM", "RU", "C", "B", "W"}

var valueEscaper = strings.NewReplacer(`\`, `\\`, `]`, `\]`)

// ToSGF serializes the collection. Runs of single children are written flat
// and every branch is parenthesized. A child is also parenthesized when a bare
// semicolon would not end its parent: the first node of the text needs a
// placed or added stone, later nodes need a move. Problem flags are written
// back into the comment.
func (t *Tree) ToSGF() string {
	var b strings.Builder
	type frame struct {
		node  *Node
		close bool
	}
	var stack []frame
	pushChildren := func(n *Node) {
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: t.nodes[n.children[i]]})
		}
	}
	pushChildren(t.Root())
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.close {
			b.WriteString(")")
			continue
		}
		b.WriteString("(")
		n := f.node
		first := b.Len() == 1
		writeNode(&b, n)
		for len(n.children) == 1 && endsOnSemicolon(n, first) {
			n = t.nodes[n.children[0]]
			first = false
			writeNode(&b, n)
		}
		stack = append(stack, frame{close: true})
		pushChildren(n)
	}
	return b.String()
}

func endsOnSemicolon(n *Node, first bool) bool {
	if first {
		return n.props.Has("B") || n.props.Has("W") || n.props.Has("AB") || n.props.Has("AW")
	}
	return n.PlaysMove()
}

func writeNode(b *strings.Builder, n *Node) {
	props := n.props
	if tokens := n.flags.tokens(); len(tokens) > 0 {
		props = props.Clone()
		comments := props["C"].Values()
		if len(comments) == 0 {
			props["C"] = sgf.Single(tokens)
		} else {
			comments[0] = tokens + " " + comments[0]
			if props["C"].IsList() {
				props["C"] = sgf.List(comments...)
			} else {
				props["C"] = sgf.Single(comments[0])
			}
		}
	}
	b.WriteString(";")
	used := make(map[string]bool, len(orderedKeys))
	for _, key := range orderedKeys {
		if v, ok := props[key]; ok {
			used[key] = true
			writeProperty(b, key, v)
		}
	}
	for _, key := range props.Keys() {
		if !used[key] {
			writeProperty(b, key, props[key])
		}
	}
}

func writeProperty(b *strings.Builder, key string, v sgf.Value) {
	b.WriteString(key)
	for _, item := range v.Values() {
		b.WriteString("[")
		b.WriteString(valueEscaper.Replace(item))
		b.WriteString("]")
	}
}

func (f ProblemFlags) tokens() string {
	var out []string
	if f.Right {
		out = append(out, "RIGHT")
	}
	if f.Choice {
		out = append(out, "CHOICE")
	}
	if f.NotThis {
		out = append(out, "NOTTHIS")
	}
	if f.Force {
		out = append(out, "FORCE")
	}
	return strings.Join(out, " ")
}
