package fixtures

import (
	"fmt"
	"strings"
)

type Sport string

const (
	MaleFootball   Sport = "Male Football"
	Hurling        Sport = "Hurling"
	LadiesFootball Sport = "Ladies Football"
	Camogie        Sport = "Camogie"
)

var ErrUnknownSport = fmt.Errorf("unknown sport")

// encoded as the upstream writes them: user_id, optionally followed by
// an underscore and a code_id. the mens codes share one account and
// only differ in code while the ladies codes are a bare account id.
var sportCodes = map[Sport]string{
	MaleFootball:   "3,7167,7130_26",
	Hurling:        "3,7167,7130_27",
	LadiesFootball: "7046",
	Camogie:        "7282",
}

// sportCode carries the two form values the ajax endpoint filters by.
type sportCode struct {
	userId string
	codeId string
}

// AllSports returns every supported sport in a stable order.
func AllSports() []Sport {
	return []Sport{MaleFootball, Hurling, LadiesFootball, Camogie}
}

func (s Sport) codes() (sportCode, error) {
	encoded, ok := sportCodes[s]
	if !ok {
		return sportCode{}, fmt.Errorf("%w: %q", ErrUnknownSport, string(s))
	}
	userId, codeId, _ := strings.Cut(encoded, "_")
	return sportCode{userId: userId, codeId: codeId}, nil
}

type Source string

const (
	SourceAjax    Source = "sportlomo_ajax"
	SourceListing Source = "listing_scrape"
)

// Field is one non-canonical key/value pair carried through from an
// upstream record. Kept as a slice so encounter order survives.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Fixture struct {
	Sport       Sport   `json:"sport"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Competition string  `json:"competition"`
	HomeTeam    string  `json:"home_team"`
	AwayTeam    string  `json:"away_team"`
	Venue       string  `json:"venue"`
	Referee     string  `json:"referee"`
	Source      Source  `json:"source"`
	Extra       []Field `json:"extra,omitempty"`
}

// SportResult is the outcome for one sport. Success means the sport's
// data was retrieved, possibly through the fallback scrape. Error holds
// the failure messages batches accumulated along the way.
type SportResult struct {
	Sport    Sport     `json:"sport"`
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
	Fixtures []Fixture `json:"fixtures"`
}

// CollectionResult is a whole run. Success reports that the run itself
// completed, individual sports may still have failed, check BySport.
type CollectionResult struct {
	Success       bool                  `json:"success"`
	DateRange     string                `json:"date_range"`
	TotalFixtures int                   `json:"total_fixtures"`
	Fixtures      []Fixture             `json:"fixtures"`
	BySport       map[Sport]SportResult `json:"by_sport"`
	Sports        []Sport               `json:"sports"`
}
