// Package htmltext flattens the HTML fragments feeds put in descriptions.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Plain returns the visible text of an HTML fragment with whitespace
// collapsed. Input that is not HTML comes back trimmed.
func Plain(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}

	// Block-level siblings would otherwise run together.
	doc.Find("br, p, div, li, font").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})

	return strings.Join(strings.Fields(doc.Text()), " ")
}
