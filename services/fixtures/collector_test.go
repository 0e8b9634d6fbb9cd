package fixtures

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gaafix-backend/lib/daterange"
	"gaafix-backend/lib/scrapers/listing"
	"gaafix-backend/lib/scrapers/sportlomo"
	"gaafix-backend/lib/telemetry"
	"gaafix-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

const collectorFragment = `
<table>
  <thead class="divider">
    <tr><th>
      <div class="comp-name">U12 Division 1</div>
      <div class="date">4th July</div>
    </th></tr>
  </thead>
  <tbody>
    <tr>
      <td class="time">10:30</td>
      <td class="align-right"><span class="team-name">Na Fianna</span></td>
      <td class="align-left"><span class="team-name">St Vincents</span></td>
      <td><div class="venue"><span>Collins Park</span></div></td>
    </tr>
  </tbody>
  <tbody>
    <tr>
      <td class="align-right"><span class="team-name">Ballyboden</span></td>
      <td class="align-left"><span class="team-name">Kilmacud Crokes</span></td>
    </tr>
  </tbody>
</table>`

const listingPage = `<html><body>
<div class="fixture-item">AFL 05/07/2025 14:00 Raheny V Clontarf at St Annes Park</div>
<div class="fixture-item">HL 12/07/2025 15:00 Cuala V Ballyboden at Parnell Park</div>
</body></html>`

func newTestCollector(t *testing.T, primary, fallback http.Handler, batchDays int) *Collector {
	primarySrv := httptest.NewServer(primary)
	t.Cleanup(primarySrv.Close)
	fallbackSrv := httptest.NewServer(fallback)
	t.Cleanup(fallbackSrv.Close)

	primaryClient, err := sportlomo.NewClient(context.Background(), sportlomo.ClientOptions{
		BaseUrl: primarySrv.URL,
	})
	require.NoError(t, err)
	fallbackClient, err := listing.NewClient(context.Background(), listing.ClientOptions{
		BaseUrl: fallbackSrv.URL,
	})
	require.NoError(t, err)

	return NewCollector(CollectorOptions{
		Primary:      primaryClient,
		Fallback:     fallbackClient,
		BatchDays:    batchDays,
		RequestDelay: time.Millisecond,
	})
}

func TestFetchFixturesFromAjax(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/fixtures")
	defer cleanup()

	collector := newTestCollector(t,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"html": collectorFragment})
		}),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("fallback must not be consulted while the ajax endpoint works")
		}),
		7,
	)

	day := timezone.Date(2025, time.July, 4)
	result, err := collector.FetchFixtures(context.Background(), MaleFootball, day, day)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Empty(t, result.Error)
	require.Len(t, result.Fixtures, 2)

	require.Equal(t, Fixture{
		Sport:       MaleFootball,
		Source:      SourceAjax,
		Date:        "4 July",
		Time:        "10:30",
		Competition: "U12 Division 1",
		HomeTeam:    "Na Fianna",
		AwayTeam:    "St Vincents",
		Venue:       "Collins Park",
		Referee:     "N/A",
		Extra:       []Field{{Key: "scraped_date", Value: "2025-07-04"}},
	}, result.Fixtures[0])
	require.Equal(t, "Kilmacud Crokes", result.Fixtures[1].AwayTeam)
	require.Equal(t, "N/A", result.Fixtures[1].Time)
}

func TestFetchFixturesFallsBackPerBatch(t *testing.T) {
	var primaryCalls, fallbackCalls atomic.Int64

	collector := newTestCollector(t,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			primaryCalls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fallbackCalls.Add(1)
			w.Write([]byte(listingPage))
		}),
		7,
	)

	result, err := collector.FetchFixtures(
		context.Background(), Hurling,
		timezone.Date(2025, time.July, 4),
		timezone.Date(2025, time.July, 17),
	)
	require.NoError(t, err)

	// 14 days probed one by one, then one listing scrape per batch
	require.EqualValues(t, 14, primaryCalls.Load())
	require.EqualValues(t, 2, fallbackCalls.Load())

	// the scrape still counts as the sport succeeding
	require.True(t, result.Success)
	require.Len(t, result.Fixtures, 2)
	for _, f := range result.Fixtures {
		require.Equal(t, SourceListing, f.Source)
		require.Equal(t, Hurling, f.Sport)
	}
	require.Equal(t, "Raheny", result.Fixtures[0].HomeTeam)
	require.Equal(t, "Clontarf", result.Fixtures[0].AwayTeam)
	require.Equal(t, "Cuala", result.Fixtures[1].HomeTeam)
}

func TestFetchFixturesRecordsBatchFailures(t *testing.T) {
	collector := newTestCollector(t,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}),
		7,
	)

	result, err := collector.FetchFixtures(
		context.Background(), Camogie,
		timezone.Date(2025, time.July, 4),
		timezone.Date(2025, time.July, 5),
	)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.NotEmpty(t, result.Error)
	require.Empty(t, result.Fixtures)
}

func TestFetchFixturesUnknownSport(t *testing.T) {
	var calls atomic.Int64
	counting := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	collector := newTestCollector(t, counting, counting, 7)

	_, err := collector.FetchFixtures(
		context.Background(), Sport("Cricket"),
		timezone.Date(2025, time.July, 4),
		timezone.Date(2025, time.July, 5),
	)
	require.ErrorIs(t, err, ErrUnknownSport)
	require.EqualValues(t, 0, calls.Load())
}

func TestFetchFixturesInvalidRange(t *testing.T) {
	collector := newTestCollector(t,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		7,
	)

	_, err := collector.FetchFixtures(
		context.Background(), MaleFootball,
		timezone.Date(2025, time.July, 5),
		timezone.Date(2025, time.July, 4),
	)
	require.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestFetchDateRangeOverridesBatchSize(t *testing.T) {
	var fallbackCalls atomic.Int64
	collector := newTestCollector(t,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fallbackCalls.Add(1)
			w.Write([]byte(listingPage))
		}),
		7,
	)

	fixtures, err := collector.FetchDateRange(
		context.Background(),
		timezone.Date(2025, time.July, 4),
		timezone.Date(2025, time.July, 17),
		14,
	)
	require.NoError(t, err)
	// one window instead of the collector's usual two
	require.EqualValues(t, 1, fallbackCalls.Load())
	require.Len(t, fixtures, 2)
}

func TestFetchAllSportsIsolatesSports(t *testing.T) {
	collector := newTestCollector(t,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			if r.PostForm.Get("code_id") != "27" {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"html": collectorFragment})
		}),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}),
		7,
	)

	day := timezone.Date(2025, time.July, 4)
	result := collector.FetchAllSports(context.Background(), day, day,
		[]Sport{MaleFootball, Hurling})

	// the run completed even though one sport came up empty handed
	require.True(t, result.Success)
	require.Equal(t, []Sport{MaleFootball, Hurling}, result.Sports)
	require.Equal(t, "2025-07-04 to 2025-07-04", result.DateRange)

	require.False(t, result.BySport[MaleFootball].Success)
	require.NotEmpty(t, result.BySport[MaleFootball].Error)
	require.True(t, result.BySport[Hurling].Success)
	require.Len(t, result.BySport[Hurling].Fixtures, 2)
	require.Equal(t, 2, result.TotalFixtures)
}

func TestFetchTwoWeeksCoversFourteenDays(t *testing.T) {
	seen := make(map[string]bool)
	collector := newTestCollector(t,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			seen[r.PostForm.Get("fdate")] = true
			json.NewEncoder(w).Encode(map[string]string{"html": "not_found"})
		}),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("fallback must not be consulted while the ajax endpoint works")
		}),
		7,
	)

	result := collector.FetchTwoWeeks(context.Background(),
		timezone.Date(2025, time.July, 4), []Sport{Camogie})

	require.True(t, result.BySport[Camogie].Success)
	require.Equal(t, 0, result.TotalFixtures)
	require.Len(t, seen, 14)
	require.True(t, seen["2025-07-04"])
	require.True(t, seen["2025-07-17"])
}
