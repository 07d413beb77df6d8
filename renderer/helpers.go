package renderer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// text strips every markup tag from user provided text.
var text = bluemonday.StrictPolicy()

// plain strips markup from s and collapses its whitespace. The entities
// added by the sanitizer are decoded back, the output is not HTML.
func plain(s string) string {
	s = html.UnescapeString(text.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// sanitize makes free text safe to print in a markdown table cell.
func sanitize(s string) string {
	return strings.ReplaceAll(plain(s), "|", `\|`)
}
