package listing

import (
	"regexp"
	"strings"
	"time"

	"gaafix-backend/lib/daterange"
	"gaafix-backend/lib/textutil"
	"gaafix-backend/lib/timezone"
)

// Candidate is a fixture pulled out of unstructured listing markup.
// Unlike the AJAX fragment rows, fields here are best-effort: an empty
// string means the field was never extracted.
type Candidate struct {
	Date        string
	Time        string
	Team1       string
	Team2       string
	Venue       string
	Competition string
	// set by the free-text scanner, the raw line a record came from
	SourceLine string
}

// tried in order, first match wins
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`),
	regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`),
}

var timePattern = regexp.MustCompile(`\b(\d{1,2}:\d{2})\b`)

// teams sit either side of a standalone V (the listing style) or a
// lowercase v (the free-text style)
var teamsPattern = regexp.MustCompile(`([A-Za-z][A-Za-z\s.']*?)\s+[Vv]\s+([A-Za-z][A-Za-z\s.']*)`)

var venueKeywords = []string{"Park", "Ground", "Pitch", "Field", "GAA"}

// parseCandidateText extracts whatever fixture fields it can from a
// blob of element text. ok is false when none of date, team1 or team2
// could be found, in which case the blob was probably navigation or
// filler rather than a fixture.
func parseCandidateText(text string) (Candidate, bool) {
	var c Candidate

	for _, pattern := range datePatterns {
		if groups := pattern.FindStringSubmatch(text); len(groups) >= 2 {
			c.Date = groups[1]
			break
		}
	}

	if groups := timePattern.FindStringSubmatch(text); len(groups) >= 2 {
		c.Time = groups[1]
	}

	if groups := teamsPattern.FindStringSubmatch(text); len(groups) >= 3 {
		c.Team1 = textutil.CollapseWhitespace(groups[1])
		c.Team2 = trimTeam(groups[2])
	}

	c.Venue = findVenue(text)
	c.Competition = inferCompetition(text)

	if c.Date == "" && c.Team1 == "" && c.Team2 == "" {
		return Candidate{}, false
	}
	return c, true
}

// parseLine handles one plain-text line from the last-resort scanner.
func parseLine(line string) (Candidate, bool) {
	c, ok := parseCandidateText(line)
	if !ok {
		return Candidate{}, false
	}
	c.SourceLine = line
	return c, true
}

var competitionKeywords = []string{"AFL", "HL", "Football", "Hurling"}

// trimTeam cuts the away-team capture short: the teams regex is
// greedy and happily swallows "at Collins Park" or a trailing
// competition tag along with the name.
func trimTeam(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "at" || textutil.ContainsAny(w, venueKeywords) || textutil.ContainsAny(w, competitionKeywords) {
			words = words[:i]
			break
		}
	}
	return strings.Join(words, " ")
}

// findVenue scans whitespace tokens for a venue keyword and takes the
// matching token plus the following two as the venue name.
func findVenue(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		if !textutil.ContainsAny(word, venueKeywords) {
			continue
		}
		end := i + 3
		if end > len(words) {
			end = len(words)
		}
		return strings.Join(words[i:end], " ")
	}
	return ""
}

func inferCompetition(text string) string {
	if strings.Contains(text, "AFL") || strings.Contains(text, "Football") {
		return "Football"
	}
	if strings.Contains(text, "Hurling") || strings.Contains(text, "HL") {
		return "Hurling"
	}
	return ""
}

// dateInRange reports whether a candidate's date falls inside the
// requested window. A date that is present but does not parse counts
// as in range: when the source's formatting drifts we would rather
// hand back a stray fixture than silently lose real ones. A missing
// date is still out.
func dateInRange(dateStr string, r daterange.Range) bool {
	if dateStr == "" {
		return false
	}

	var parsed time.Time
	var err error
	if strings.Contains(dateStr, "/") {
		// DD/MM/YYYY first, this is Ireland
		parsed, err = time.ParseInLocation("2/1/2006", dateStr, timezone.Location)
		if err != nil {
			parsed, err = time.ParseInLocation("1/2/2006", dateStr, timezone.Location)
		}
	} else {
		parsed, err = time.ParseInLocation(time.DateOnly, dateStr, timezone.Location)
	}
	if err != nil {
		return true
	}

	return !parsed.Before(r.Start) && !parsed.After(r.End)
}
