package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gaafix-backend/lib/scraper"

	"github.com/stretchr/testify/require"
)

func TestFetchRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fixtures/", r.URL.Path)
		w.Write([]byte(`<html><body>
			<div class="fixture-item">04/07/2025 10:30 Na Fianna V St Vincents at Collins Park</div>
		</body></html>`))
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	found, err := client.FetchRange(context.Background(), julyWindow())
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Na Fianna", found[0].Team1)
}

func TestFetchRangeUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	_, err = client.FetchRange(context.Background(), julyWindow())
	require.ErrorIs(t, err, scraper.ErrUnreachable)
}
