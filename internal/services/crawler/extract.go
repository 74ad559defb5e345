package crawler

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/indago/internal/common"
)

// chrome elements stripped before text extraction.
const strippedSelectors = "nav, footer, script, style, aside, form, header, noscript, iframe, svg"

var blankRuns = regexp.MustCompile(`\n{3,}`)

// extractText converts a parsed HTML document to markdown text with page
// chrome removed, collapsed whitespace, and a hard character cap.
func extractText(doc *goquery.Document, charLimit int) string {
	doc.Find(strippedSelectors).Remove()

	html, err := doc.Find("body").Html()
	if err != nil || strings.TrimSpace(html) == "" {
		return ""
	}

	converter := md.NewConverter("", true, nil)
	text, err := converter.ConvertString(html)
	if err != nil {
		return ""
	}

	text = blankRuns.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)
	return common.Truncate(text, charLimit)
}
