package navigation

import (
	"regexp"
	"strings"

	"jaytaylor.com/html2text"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML converts a Directions html_instructions fragment to plain
// speakable text on a single line.
func StripHTML(s string) string {
	text, err := html2text.FromString(s, html2text.Options{OmitLinks: true})
	if err != nil {
		text = tagPattern.ReplaceAllString(s, " ")
	}
	// html2text renders <b> as *bold*
	text = strings.ReplaceAll(text, "*", "")
	return strings.Join(strings.Fields(text), " ")
}
