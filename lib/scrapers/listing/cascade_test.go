package listing

import (
	"context"
	"strings"
	"testing"
	"time"

	"gaafix-backend/lib/daterange"
	"gaafix-backend/lib/scraper"
	"gaafix-backend/lib/telemetry"
	"gaafix-backend/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func julyWindow() daterange.Range {
	return daterange.Range{
		Start: timezone.Date(2025, time.July, 1),
		End:   timezone.Date(2025, time.July, 31),
	}
}

func parseDoc(t *testing.T, page string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestExtractStopsAtFirstMatchingTier(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/listing")
	defer cleanup()

	// both div.fixture-item and tbody tr would match, the more
	// specific selector must win
	page := `<html><body>
		<div class="fixture-item">04/07/2025 10:30 Na Fianna V St Vincents at Collins Park AFL</div>
		<table><tbody>
			<tr><td>05/07/2025</td><td>Raheny V Clontarf</td></tr>
		</tbody></table>
	</body></html>`

	found, err := Extract(context.Background(), parseDoc(t, page), julyWindow())
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Na Fianna", found[0].Team1)
	require.Equal(t, "St Vincents", found[0].Team2)
	require.Equal(t, "04/07/2025", found[0].Date)
	require.Equal(t, "10:30", found[0].Time)
	require.Equal(t, "Football", found[0].Competition)
	require.Equal(t, "Park AFL", found[0].Venue)
}

func TestExtractFallsThroughToLaterSelector(t *testing.T) {
	page := `<html><body><table><tbody>
		<tr>
			<td>05/07/2025</td>
			<td>19:00</td>
			<td>Lucan Sarsfields V Cuala</td>
			<td>Hurling</td>
		</tr>
	</tbody></table></body></html>`

	found, err := Extract(context.Background(), parseDoc(t, page), julyWindow())
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Lucan Sarsfields", found[0].Team1)
	require.Equal(t, "Cuala", found[0].Team2)
	require.Equal(t, "Hurling", found[0].Competition)
	require.Empty(t, found[0].SourceLine)
}

func TestExtractFreeTextFallback(t *testing.T) {
	// nothing matching any selector, fixtures only visible as text
	page := `<html><body>
		<p>Upcoming games</p>
		<p>12/07/2025 11:00 Ballyboden v Kilmacud Crokes at Pairc Ui Murchu Pitch</p>
		<p>Contact the club secretary for details</p>
	</body></html>`

	found, err := Extract(context.Background(), parseDoc(t, page), julyWindow())
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "12/07/2025", found[0].Date)
	require.Equal(t, "11:00", found[0].Time)
	require.Equal(t, "Ballyboden", found[0].Team1)
	require.Equal(t, "Kilmacud Crokes", found[0].Team2)
	require.Contains(t, found[0].SourceLine, "Ballyboden v Kilmacud Crokes")
}

func TestExtractExhaustedCascade(t *testing.T) {
	page := `<html><body><p>Site under maintenance</p></body></html>`

	_, err := Extract(context.Background(), parseDoc(t, page), julyWindow())
	require.ErrorIs(t, err, scraper.ErrUnparseable)
}

func TestExtractRangeFilter(t *testing.T) {
	page := `<html><body>
		<div class="fixture-item">04/07/2025 Na Fianna V St Vincents</div>
		<div class="fixture-item">04/09/2025 Raheny V Clontarf</div>
		<div class="fixture-item">sometime in July Thomas Davis V Round Towers Field</div>
	</body></html>`

	found, err := Extract(context.Background(), parseDoc(t, page), julyWindow())
	require.NoError(t, err)
	// the September fixture is filtered, the date-less one whose text
	// yields no parseable date at all is dropped, but a fixture with a
	// date we cannot read stays in
	require.Len(t, found, 1)
	require.Equal(t, "Na Fianna", found[0].Team1)
}

func TestExtractKeepsUnparsableDates(t *testing.T) {
	page := `<html><body>
		<div class="fixture-item">99/99/2025 13:00 Erins Isle V Whitehall GAA Grounds</div>
	</body></html>`

	found, err := Extract(context.Background(), parseDoc(t, page), julyWindow())
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "99/99/2025", found[0].Date)
}
