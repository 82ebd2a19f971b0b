package tui

import (
	"html"
	"html/template"
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// plain turns rendered cell markup into terminal text.
func plain(content template.HTML) string {
	s := tagPattern.ReplaceAllString(string(content), "")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
