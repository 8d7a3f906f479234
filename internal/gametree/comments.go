package gametree

import (
	"tsumego/internal/domain/comment"
)

// ApplyExternalComments counts the valid comments of the feed per path and adds
// the counts to the nodes they address. The empty path addresses the first game
// root. Returns the counts keyed by path; comments on paths that do not resolve
// are counted but not attached.
func (t *Tree) ApplyExternalComments(feed []comment.Comment) map[string]int {
	counts := make(map[string]int)
	for _, c := range feed {
		if !c.Valid() {
			continue
		}
		counts[c.Path]++
	}
	for key, count := range counts {
		path, ok := ParsePath(key)
		if !ok {
			continue
		}
		n, ok := t.ResolvePath(path)
		if ok && n.IsCollectionRoot() {
			n, ok = t.GameRoot()
		}
		if ok {
			n.IncreaseExternalCommentCount(count)
		}
	}
	return counts
}
