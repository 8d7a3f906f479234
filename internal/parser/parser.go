// Package parser turns SGF text into a gametree.Tree.
//
// The parser is lenient: it performs no validation, skips characters it does
// not expect and never fails. Malformed input gives a best-effort tree.
package parser

import (
	"strings"

	"tsumego/internal/domain/sgf"
	"tsumego/internal/gametree"
)

// stoneAdded ends the leading metadata node of a record.
var stoneAdded = map[string]bool{"B": true, "W": true, "AB": true, "AW": true}

type parser struct {
	text      string
	pos       int
	firstNode bool
	tree      *gametree.Tree
}

// Parse builds the tree of every game found in text.
//
// Semicolons do not always start a new node. Until a stone is placed or
// added, the first node of the record keeps absorbing the following
// segments; later nodes absorb them until a move is played. A parenthesis
// always ends the node.
func Parse(text string) *gametree.Tree {
	p := &parser{
		text:      text,
		firstNode: true,
		tree:      gametree.New(),
	}
	p.parseTree()
	return p.tree
}

func (p *parser) parseTree() {
	cur := p.tree.Root()
	var stack []*gametree.Node
	for p.pos < len(p.text) {
		c := p.text[p.pos]
		p.pos++
		switch c {
		case ';':
			props, flags := p.parseProperties()
			cur = p.tree.AppendChild(cur, props)
			cur.SetFlags(flags)
		case '(':
			stack = append(stack, cur)
		case ')':
			if len(stack) == 0 {
				return
			}
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		}
	}
}

func (p *parser) parseProperties() (sgf.Properties, gametree.ProblemFlags) {
	props := sgf.Properties{}
	var key strings.Builder
	stonePlayed := false
	stonesAdded := !p.firstNode

	for p.pos < len(p.text) {
		c := p.text[p.pos]
		if c == ';' || c == '(' || c == ')' {
			if c == ';' && ((p.firstNode && !stonesAdded) || (!p.firstNode && !stonePlayed)) {
				p.pos++
				continue
			}
			p.firstNode = false
			break
		}
		if c == '[' {
			k := key.String()
			if p.firstNode && stoneAdded[k] {
				stonesAdded = true
			}
			if k == "B" || k == "W" {
				stonePlayed = true
			}
			values := p.parseValues()
			if k != "" {
				props.Add(k, values...)
			}
			key.Reset()
			continue
		}
		if c != ' ' && c != '\n' && c != '\r' && c != '\t' {
			key.WriteByte(c)
		}
		p.pos++
	}
	return props, extractFlags(props)
}

// parseValues reads consecutive bracketed values. A backslash drops the line
// breaks that follow it and keeps the next character as is.
func (p *parser) parseValues() []string {
	var values []string
	for p.pos < len(p.text) && p.text[p.pos] == '[' {
		p.pos++
		var v strings.Builder
		for p.pos < len(p.text) && p.text[p.pos] != ']' {
			if p.text[p.pos] == '\\' {
				p.pos++
				for p.pos < len(p.text) && (p.text[p.pos] == '\r' || p.text[p.pos] == '\n') {
					p.pos++
				}
				if p.pos >= len(p.text) {
					break
				}
			}
			v.WriteByte(p.text[p.pos])
			p.pos++
		}
		values = append(values, v.String())
		for p.pos < len(p.text) && (p.text[p.pos] == ']' || p.text[p.pos] == '\n' || p.text[p.pos] == '\r') {
			p.pos++
		}
	}
	return values
}
