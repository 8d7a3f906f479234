package parser

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"tsumego/internal/gametree"
)

var (
	utf8BOM   = []byte{0xEF, 0xBB, 0xBF}
	charsetRe = regexp.MustCompile(`CA\s*\[([^\]]*)\]`)
)

// Decode converts raw record bytes to text. The CA property names the charset
// of legacy records; without it, invalid UTF-8 is read as Latin-1.
func Decode(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)

	var enc encoding.Encoding
	if m := charsetRe.FindSubmatch(data); m != nil {
		name := strings.TrimSpace(string(m[1]))
		if e, err := htmlindex.Get(name); err == nil {
			enc = e
		}
	}
	if enc == nil {
		if utf8.Valid(data) {
			return string(data)
		}
		enc = charmap.ISO8859_1
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return string(data)
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

// ParseBytes decodes data and parses it.
func ParseBytes(data []byte) *gametree.Tree {
	return Parse(Decode(data))
}
