package feed

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
)

// FallbackFeedTitle is surfaced when a document carries no usable title.
const FallbackFeedTitle = "Untitled Feed"

var (
	cdataExpr     = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	itemBlockExpr = regexp.MustCompile(`(?is)<(?:item|entry)[\s>].*?</(?:item|entry)\s*>`)
	titleExpr     = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title\s*>`)
	linkTextExpr  = regexp.MustCompile(`(?is)<link[^>]*>(.*?)</link\s*>`)
	linkHrefExpr  = regexp.MustCompile(`(?is)<link[^>]+href\s*=\s*["']([^"']+)["']`)
	descExpr      = regexp.MustCompile(`(?is)<(?:description|summary|content)[^>]*>(.*?)</(?:description|summary|content)\s*>`)
	dateExpr      = regexp.MustCompile(`(?is)<(?:pubDate|published|updated|dc:date)[^>]*>(.*?)</(?:pubDate|published|updated|dc:date)\s*>`)
	guidExpr      = regexp.MustCompile(`(?is)<(?:guid|id)[^>]*>(.*?)</(?:guid|id)\s*>`)
)

// Extractor turns raw syndication markup into an ordered item sequence.
// It never fails: documents gofeed rejects go through a lexical block scan,
// and items missing a title or link are silently dropped either way.
type Extractor struct {
	parser *gofeed.Parser
}

// NewExtractor builds an extractor with a shared gofeed parser.
func NewExtractor() *Extractor {
	return &Extractor{parser: gofeed.NewParser()}
}

// Extract parses raw feed text into a title plus items in document order.
// Duplicates within one document are not collapsed here.
func (e *Extractor) Extract(raw string) domain.Feed {
	parsed, err := e.parser.ParseString(raw)
	if err != nil {
		return e.scan(raw)
	}

	doc := domain.Feed{Title: CleanText(parsed.Title)}
	if doc.Title == "" {
		doc.Title = FallbackFeedTitle
	}

	for _, item := range parsed.Items {
		pubDate := item.Published
		if pubDate == "" {
			pubDate = item.Updated
		}

		entry := domain.RawFeedItem{
			Title:       CleanText(item.Title),
			Link:        strings.TrimSpace(item.Link),
			Description: CleanText(item.Description),
			PubDate:     strings.TrimSpace(pubDate),
			GUID:        strings.TrimSpace(item.GUID),
		}
		if entry.Title == "" || entry.Link == "" {
			continue
		}
		doc.Items = append(doc.Items, entry)
	}

	return doc
}

// scan is the tolerant fallback for markup the tree parser rejects: it walks
// <item>/<entry> blocks lexically and salvages whatever fields it can.
func (e *Extractor) scan(raw string) domain.Feed {
	blocks := itemBlockExpr.FindAllString(raw, -1)

	// The feed-level title is the first one outside any item block.
	head := raw
	if len(blocks) > 0 {
		if idx := strings.Index(raw, blocks[0]); idx > 0 {
			head = raw[:idx]
		}
	}
	doc := domain.Feed{Title: CleanText(firstMatch(titleExpr, head))}
	if doc.Title == "" {
		doc.Title = FallbackFeedTitle
	}

	for _, block := range blocks {
		entry := domain.RawFeedItem{
			Title:       CleanText(firstMatch(titleExpr, block)),
			Link:        extractLink(block),
			Description: CleanText(firstMatch(descExpr, block)),
			PubDate:     strings.TrimSpace(stripCDATA(firstMatch(dateExpr, block))),
			GUID:        strings.TrimSpace(stripCDATA(firstMatch(guidExpr, block))),
		}
		if entry.Title == "" || entry.Link == "" {
			continue
		}
		doc.Items = append(doc.Items, entry)
	}

	return doc
}

// extractLink understands both RSS text links and Atom href attributes.
func extractLink(block string) string {
	if link := strings.TrimSpace(stripCDATA(firstMatch(linkTextExpr, block))); link != "" {
		return link
	}
	return strings.TrimSpace(firstMatch(linkHrefExpr, block))
}

func firstMatch(expr *regexp.Regexp, s string) string {
	m := expr.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

func stripCDATA(s string) string {
	if m := cdataExpr.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// CleanText strips residual markup and entity escapes from a recognized text
// field and collapses whitespace.
func CleanText(s string) string {
	s = stripCDATA(s)

	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}

	return strings.Join(strings.Fields(s), " ")
}
