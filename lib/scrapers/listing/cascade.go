package listing

import (
	"context"
	"fmt"
	"log/slog"

	"gaafix-backend/lib/daterange"
	"gaafix-backend/lib/htmlutil"
	"gaafix-backend/lib/scraper"
	"gaafix-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// a strategy makes one attempt at pulling fixtures out of a parsed
// page; returning nothing hands over to the next one in line
type strategy interface {
	name() string
	attempt(doc *goquery.Document, r daterange.Range) []Candidate
}

// known markup shapes, most to least specific. the listing site has
// cycled through several of these over time and may cycle back.
var candidateSelectors = []string{
	"div.fixture-item",
	"tr.fixture-row",
	`div[class*="fixture"]`,
	`div[class*="match"]`,
	"tbody tr",
	".fixture",
	".match-row",
}

func cascade() []strategy {
	strategies := make([]strategy, 0, len(candidateSelectors)+1)
	for _, sel := range candidateSelectors {
		strategies = append(strategies, selectorStrategy{selector: sel})
	}
	return append(strategies, textScanStrategy{})
}

// Extract runs the strategy cascade over a listing page, stopping at
// the first tier that yields at least one fixture inside the window.
// Exhausting every tier is the one case that counts as a parse
// failure rather than an empty day.
func Extract(ctx context.Context, doc *goquery.Document, r daterange.Range) ([]Candidate, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	for _, s := range cascade() {
		found := s.attempt(doc, r)
		if len(found) == 0 {
			continue
		}
		slog.DebugContext(ctx, "extraction strategy matched",
			"strategy", s.name(), "fixtures", len(found))
		span.SetAttributes(
			attribute.String("strategy", s.name()),
			attribute.Int("fixtures", len(found)),
		)
		return found, nil
	}

	return nil, fmt.Errorf(
		"%w: no extraction strategy yielded fixtures for %s (tried %d selectors and the text scan)",
		scraper.ErrUnparseable, r, len(candidateSelectors),
	)
}

type selectorStrategy struct {
	selector string
}

func (s selectorStrategy) name() string {
	return "selector:" + s.selector
}

func (s selectorStrategy) attempt(doc *goquery.Document, r daterange.Range) []Candidate {
	var found []Candidate
	doc.Find(s.selector).Each(func(_ int, el *goquery.Selection) {
		c, ok := parseCandidateText(textutil.CollapseWhitespace(el.Text()))
		if ok && dateInRange(c.Date, r) {
			found = append(found, c)
		}
	})
	return found
}

type textScanStrategy struct{}

func (textScanStrategy) name() string {
	return "text-scan"
}

var lineDatePattern = datePatterns[2]

// the last resort: walk every visible text line and keep the ones that
// look like "<date> ... TeamA v TeamB"
func (textScanStrategy) attempt(doc *goquery.Document, r daterange.Range) []Candidate {
	if len(doc.Nodes) == 0 {
		return nil
	}

	var found []Candidate
	for _, line := range htmlutil.TextLines(doc.Nodes[0]) {
		if !lineDatePattern.MatchString(line) {
			continue
		}
		if !teamsPattern.MatchString(line) {
			continue
		}
		c, ok := parseLine(line)
		if ok && dateInRange(c.Date, r) {
			found = append(found, c)
		}
	}
	return found
}
