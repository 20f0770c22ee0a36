package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Harvest budgets: headings are read while fewer than maxHeadingCandidates
// candidates exist, quotes while fewer than maxQuoteCandidates exist.
const (
	maxHeadingCandidates = 4
	maxQuoteCandidates   = 8
)

var (
	scriptBlock = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	styleBlock  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)

	titleMetaKeys       = []string{"og:title", "twitter:title", "title"}
	descriptionMetaKeys = []string{"og:description", "twitter:description", "description"}

	quotePatterns = []*regexp.Regexp{
		regexp.MustCompile(`“([^”]{10,200})”`),
		regexp.MustCompile(`"([^"]{10,200})"`),
		regexp.MustCompile(`'([^']{10,200})'`),
	}
)

// Harvest collects claim candidates from an HTML page in priority order:
// title metas, <title>, description metas, h1/h2 headings, quoted spans in
// the body text, and finally the first, middle and last body sentences.
// Script and style blocks are removed before anything else is read.
func (e *ClaimExtractor) Harvest(page string) []string {
	page = scriptBlock.ReplaceAllString(page, " ")
	page = styleBlock.ReplaceAllString(page, " ")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil
	}

	var candidates []string
	add := func(s string) {
		if s = collapseSpace(s); s != "" {
			candidates = append(candidates, s)
		}
	}

	for _, key := range titleMetaKeys {
		add(metaContent(doc, key))
	}
	add(doc.Find("title").First().Text())
	for _, key := range descriptionMetaKeys {
		add(metaContent(doc, key))
	}

	doc.Find("h1, h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(candidates) >= maxHeadingCandidates {
			return false
		}
		add(s.Text())
		return true
	})

	body := bodyText(doc)

quotes:
	for _, re := range quotePatterns {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			if len(candidates) >= maxQuoteCandidates {
				break quotes
			}
			add(m[1])
		}
	}

	for _, s := range KeySentences(e.split(body)) {
		add(s)
	}

	return candidates
}

// metaContent returns the content of the first <meta> whose name or
// property equals key, ignoring case and attribute order.
func metaContent(doc *goquery.Document, key string) string {
	var content string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		property, _ := s.Attr("property")
		if !strings.EqualFold(name, key) && !strings.EqualFold(property, key) {
			return true
		}
		value, ok := s.Attr("content")
		if !ok {
			return true
		}
		content = value
		return false
	})
	return content
}

// bodyText returns the visible text of <body> with tags removed, entities
// decoded and whitespace collapsed.
func bodyText(doc *goquery.Document) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range doc.Find("body").Nodes {
		walk(n)
	}
	return collapseSpace(buf.String())
}
