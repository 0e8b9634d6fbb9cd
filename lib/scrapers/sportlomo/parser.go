package sportlomo

import (
	"strings"

	"gaafix-backend/lib/scraper"
	"gaafix-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// Match is one row of the AJAX fragment. Every field is populated,
// anything the markup lacked holds the sentinel.
type Match struct {
	Date        string
	Time        string
	Competition string
	HomeTeam    string
	AwayTeam    string
	Venue       string
	Referee     string
	// the calendar date the row was requested under (YYYY-MM-DD)
	ScrapedDate string
}

// competitionGroup pairs a fragment's competition header with the row
// elements that belong to it.
type competitionGroup struct {
	name string
	date string
	rows []*goquery.Selection
}

// ParseFragment extracts matches from the html fragment the AJAX
// endpoint returns. The fragment lays fixtures out as a competition
// header (`thead.divider`) followed by one `tbody` element per match;
// a row belongs to the nearest header above it. Grouping happens
// first, row parsing second, so traversal order only matters in one
// place.
func ParseFragment(fragment string) ([]Match, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, group := range groupByCompetition(doc) {
		for _, row := range group.rows {
			matches = append(matches, parseRow(group, row))
		}
	}
	return matches, nil
}

func groupByCompetition(doc *goquery.Document) []competitionGroup {
	var groups []competitionGroup

	doc.Find("thead.divider").Each(func(_ int, header *goquery.Selection) {
		group := competitionGroup{
			name: textOr(header.Find("div.comp-name"), scraper.Sentinel),
			date: scraper.Sentinel,
		}

		dateSel := header.Find("div.date")
		if dateSel.Length() > 0 {
			group.date = textutil.StripOrdinals(textutil.CollapseWhitespace(dateSel.Text()))
		}

		// rows run until the next header (or anything else) shows up
		for sib := header.Next(); sib.Length() > 0 && goquery.NodeName(sib) == "tbody"; sib = sib.Next() {
			group.rows = append(group.rows, sib)
		}

		groups = append(groups, group)
	})

	return groups
}

func parseRow(group competitionGroup, row *goquery.Selection) Match {
	return Match{
		Date:        group.date,
		Time:        textOr(row.Find("td.time"), scraper.Sentinel),
		Competition: group.name,
		HomeTeam:    textOr(row.Find("td.align-right span.team-name"), scraper.Sentinel),
		AwayTeam:    textOr(row.Find("td.align-left span.team-name"), scraper.Sentinel),
		Venue:       textOr(row.Find("div.venue span"), scraper.Sentinel),
		Referee:     textOr(row.Find("div.referee span"), scraper.Sentinel),
	}
}

func textOr(sel *goquery.Selection, fallback string) string {
	if sel.Length() == 0 {
		return fallback
	}
	text := textutil.CollapseWhitespace(sel.First().Text())
	if text == "" {
		return fallback
	}
	return text
}
