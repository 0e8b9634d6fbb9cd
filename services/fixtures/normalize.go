package fixtures

import (
	"gaafix-backend/lib/scraper"
	"gaafix-backend/lib/scrapers/listing"
	"gaafix-backend/lib/scrapers/sportlomo"
)

// Raw is an upstream record before canonicalization, an ordered list of
// key/value pairs as the adapter produced them.
type Raw []Field

// preferred column order for canonical fields, extras follow in the
// order they were first encountered
var canonicalColumns = []string{
	"sport", "date", "time", "competition",
	"home_team", "away_team", "venue", "referee", "source",
}

// Normalize maps a raw record onto the canonical fixture schema. Keys
// the schema does not know are preserved verbatim under Extra. Missing
// or empty canonical values become the sentinel. A record that carries
// neither a date nor both teams identifies nothing and is dropped,
// signalled by the second return.
func Normalize(sport Sport, source Source, raw Raw) (Fixture, bool) {
	f := Fixture{
		Sport:       sport,
		Source:      source,
		Date:        scraper.Sentinel,
		Time:        scraper.Sentinel,
		Competition: scraper.Sentinel,
		HomeTeam:    scraper.Sentinel,
		AwayTeam:    scraper.Sentinel,
		Venue:       scraper.Sentinel,
		Referee:     scraper.Sentinel,
	}

	for _, field := range raw {
		if field.Value == "" {
			continue
		}
		switch field.Key {
		case "sport", "source":
			// tagged by the caller, never trusted from upstream
		case "date":
			f.Date = field.Value
		case "time":
			f.Time = field.Value
		case "competition":
			f.Competition = field.Value
		case "home_team", "team1":
			f.HomeTeam = field.Value
		case "away_team", "team2":
			f.AwayTeam = field.Value
		case "venue":
			f.Venue = field.Value
		case "referee":
			f.Referee = field.Value
		default:
			f.Extra = append(f.Extra, field)
		}
	}

	if f.Date == scraper.Sentinel &&
		(f.HomeTeam == scraper.Sentinel || f.AwayTeam == scraper.Sentinel) {
		return Fixture{}, false
	}
	return f, true
}

// Raw converts a fixture back into record form, canonical fields first
// then extras. Normalizing the result reproduces the fixture exactly.
func (f Fixture) Raw() Raw {
	raw := Raw{
		{Key: "date", Value: f.Date},
		{Key: "time", Value: f.Time},
		{Key: "competition", Value: f.Competition},
		{Key: "home_team", Value: f.HomeTeam},
		{Key: "away_team", Value: f.AwayTeam},
		{Key: "venue", Value: f.Venue},
		{Key: "referee", Value: f.Referee},
	}
	return append(raw, f.Extra...)
}

func FromMatch(sport Sport, m sportlomo.Match) (Fixture, bool) {
	return Normalize(sport, SourceAjax, Raw{
		{Key: "date", Value: m.Date},
		{Key: "time", Value: m.Time},
		{Key: "competition", Value: m.Competition},
		{Key: "home_team", Value: m.HomeTeam},
		{Key: "away_team", Value: m.AwayTeam},
		{Key: "venue", Value: m.Venue},
		{Key: "referee", Value: m.Referee},
		{Key: "scraped_date", Value: m.ScrapedDate},
	})
}

func FromCandidate(sport Sport, c listing.Candidate) (Fixture, bool) {
	return Normalize(sport, SourceListing, Raw{
		{Key: "date", Value: c.Date},
		{Key: "time", Value: c.Time},
		{Key: "team1", Value: c.Team1},
		{Key: "team2", Value: c.Team2},
		{Key: "venue", Value: c.Venue},
		{Key: "competition", Value: c.Competition},
		{Key: "source_line", Value: c.SourceLine},
	})
}

// Columns returns the tabular header for a set of fixtures, canonical
// columns then every extra key in first-encountered order.
func Columns(fixtures []Fixture) []string {
	columns := append([]string(nil), canonicalColumns...)
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}
	for _, f := range fixtures {
		for _, field := range f.Extra {
			if !seen[field.Key] {
				seen[field.Key] = true
				columns = append(columns, field.Key)
			}
		}
	}
	return columns
}

// Get looks a column up by name, extras included. An extra the fixture
// does not carry comes back empty rather than as the sentinel, the
// sentinel means "upstream had no value", absence means "this source
// never produces that column".
func (f Fixture) Get(column string) string {
	switch column {
	case "sport":
		return string(f.Sport)
	case "date":
		return f.Date
	case "time":
		return f.Time
	case "competition":
		return f.Competition
	case "home_team":
		return f.HomeTeam
	case "away_team":
		return f.AwayTeam
	case "venue":
		return f.Venue
	case "referee":
		return f.Referee
	case "source":
		return string(f.Source)
	}
	for _, field := range f.Extra {
		if field.Key == column {
			return field.Value
		}
	}
	return ""
}
