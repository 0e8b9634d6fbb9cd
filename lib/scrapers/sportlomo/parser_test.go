package sportlomo

import (
	"testing"

	_ "embed"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/fragment.html
var fixtureFragment string

func TestParseFragment(t *testing.T) {
	matches, err := ParseFragment(fixtureFragment)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	require.Equal(t, Match{
		Date:        "Friday 4 July",
		Time:        "10:30",
		Competition: "U12 Division 1",
		HomeTeam:    "Na Fianna",
		AwayTeam:    "St Vincents",
		Venue:       "Collins Park",
		Referee:     "J. Murphy",
	}, matches[0])

	// row without time/venue/referee falls back to the sentinel but
	// still belongs to the header above it
	require.Equal(t, Match{
		Date:        "Friday 4 July",
		Time:        "N/A",
		Competition: "U12 Division 1",
		HomeTeam:    "Ballyboden",
		AwayTeam:    "Kilmacud Crokes",
		Venue:       "N/A",
		Referee:     "N/A",
	}, matches[1])

	// the second header starts a new group
	require.Equal(t, "Senior Hurling League", matches[2].Competition)
	require.Equal(t, "Saturday 5 July", matches[2].Date)
	require.Equal(t, "Parnell Park", matches[2].Venue)
	require.Equal(t, "N/A", matches[2].Referee)
}

func TestParseFragmentEmpty(t *testing.T) {
	matches, err := ParseFragment("<div>nothing here</div>")
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestParseFragmentHeaderWithoutRows(t *testing.T) {
	fragment := `<table>
		<thead class="divider"><tr><th><div class="comp-name">AFL Division 2</div></th></tr></thead>
		<thead class="divider"><tr><th>
			<div class="comp-name">AFL Division 3</div>
			<div class="date">21st June</div>
		</th></tr></thead>
		<tbody><tr>
			<td class="align-right"><span class="team-name">Raheny</span></td>
			<td class="align-left"><span class="team-name">Clontarf</span></td>
		</tr></tbody>
	</table>`

	matches, err := ParseFragment(fragment)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "AFL Division 3", matches[0].Competition)
	require.Equal(t, "21 June", matches[0].Date)
}
