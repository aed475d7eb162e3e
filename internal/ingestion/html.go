package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelector matches page chrome that never belongs to a posting
const noiseSelector = "script, style, noscript, template, iframe, svg, nav, footer, header, form, .cookie-banner, .sidebar"

var whitespaceRun = regexp.MustCompile(`\s+`)

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true,
	"figcaption": true, "figure": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "hr": true, "main": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "tr": true,
	"ul": true,
}

// lineWriter accumulates text and emits at most one newline between blocks
type lineWriter struct {
	sb strings.Builder
}

// text appends s; whitespace at the start of a line is dropped
func (w *lineWriter) text(s string) {
	if strings.TrimSpace(s) == "" && w.atLineStart() {
		return
	}
	w.sb.WriteString(s)
}

func (w *lineWriter) atLineStart() bool {
	str := w.sb.String()
	return str == "" || strings.HasSuffix(str, "\n")
}

func (w *lineWriter) newline() {
	if !w.atLineStart() {
		w.sb.WriteByte('\n')
	}
}

// ExtractHTMLText converts an HTML posting to line-oriented text. Page chrome
// (scripts, styles, navigation, headers and footers) is dropped, block
// elements start new lines, <br> breaks a line and list items become "- "
// bullets so the extractor's bullet and heading rules apply.
func ExtractHTMLText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(noiseSelector).Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	w := &lineWriter{}
	walkHTML(root, w)

	lines := strings.Split(w.sb.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return CleanText(strings.Join(lines, "\n")), nil
}

func walkHTML(sel *goquery.Selection, w *lineWriter) {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		switch {
		case name == "#text":
			w.text(whitespaceRun.ReplaceAllString(child.Text(), " "))
		case name == "br":
			w.sb.WriteByte('\n')
		case name == "li":
			w.newline()
			w.text("- ")
			walkHTML(child, w)
			w.newline()
		case name == "td" || name == "th":
			walkHTML(child, w)
			w.text(" ")
		case blockElements[name]:
			w.newline()
			walkHTML(child, w)
			w.newline()
		default:
			walkHTML(child, w)
		}
	})
}
