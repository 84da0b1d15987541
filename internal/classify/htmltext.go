package classify

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLToText flattens a posting description to whitespace-normalized plain
// text. Non-HTML input passes through with whitespace collapsed.
func HTMLToText(s string) string {
	if !strings.Contains(s, "<") {
		return collapse(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapse(s)
	}
	doc.Find("script, style").Remove()
	return collapse(doc.Text())
}

func collapse(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
