package parser

import (
	"strings"

	"github.com/samber/lo"

	"tsumego/internal/domain/sgf"
	"tsumego/internal/gametree"
)

const (
	tokenRight   = "RIGHT"
	tokenChoice  = "CHOICE"
	tokenNotThis = "NOTTHIS"
	tokenForce   = "FORCE"
)

// extractFlags strips the problem tokens from the C property and records them.
// Each fragment is trimmed, empty fragments are dropped and C goes away when
// nothing is left.
func extractFlags(props sgf.Properties) gametree.ProblemFlags {
	var flags gametree.ProblemFlags
	c, ok := props["C"]
	if !ok {
		return flags
	}
	strip := func(s, token string, flag *bool) string {
		if strings.Contains(s, token) {
			*flag = true
			return strings.Replace(s, token, "", 1)
		}
		return s
	}
	fragments := lo.FilterMap(c.Values(), func(s string, _ int) (string, bool) {
		s = strip(s, tokenRight, &flags.Right)
		s = strip(s, tokenChoice, &flags.Choice)
		s = strip(s, tokenNotThis, &flags.NotThis)
		s = strip(s, tokenForce, &flags.Force)
		s = strings.TrimSpace(s)
		return s, s != ""
	})

	switch {
	case len(fragments) == 0:
		delete(props, "C")
	case c.IsList():
		props["C"] = sgf.List(fragments...)
	default:
		props["C"] = sgf.Single(fragments[0])
	}
	return flags
}
