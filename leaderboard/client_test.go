package leaderboard

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tann9949/go-receipts-indexer/eas"
)

func leaderboardServer(t *testing.T, body string) (*httptest.Server, *url.Values) {
	t.Helper()
	var params url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params = r.URL.Query()
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &params
}

func TestWeeklyQueryParameters(t *testing.T) {
	srv, params := leaderboardServer(t, `{"data":[]}`)
	c := NewClient(srv.URL, srv.Client())

	_, err := c.Weekly(context.Background(), RunningDistance, 10, false)
	require.NoError(t, err)

	require.Equal(t, "strava", params.Get("social"))
	require.Equal(t, "week", params.Get("time_range"))
	require.Equal(t, "running_distance", params.Get("filter"))
	require.Equal(t, "10", params.Get("limit"))
}

func TestWeeklyDefaultLimit(t *testing.T) {
	srv, params := leaderboardServer(t, `{"data":[]}`)
	c := NewClient(srv.URL, srv.Client())

	_, err := c.Weekly(context.Background(), MovingTime, 0, false)
	require.NoError(t, err)
	require.Equal(t, "undefined", params.Get("limit"))
}

func TestWeeklySortsDescending(t *testing.T) {
	srv, _ := leaderboardServer(t, `{"data":[
		{"name":"alice","running_distance":5000},
		{"name":"bob","running_distance":21097},
		{"name":"carol","running_distance":10000}
	]}`)
	c := NewClient(srv.URL, srv.Client())

	rows, err := c.Weekly(context.Background(), RunningDistance, 0, true)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "bob", rows[0]["name"])
	require.Equal(t, "carol", rows[1]["name"])
	require.Equal(t, "alice", rows[2]["name"])
}

func TestWeeklyTotalActivitiesSortKey(t *testing.T) {
	// The upstream row field is "activities", not the filter name.
	srv, _ := leaderboardServer(t, `{"data":[
		{"name":"alice","activities":3},
		{"name":"bob","activities":7}
	]}`)
	c := NewClient(srv.URL, srv.Client())

	rows, err := c.Weekly(context.Background(), TotalActivities, 0, true)
	require.NoError(t, err)
	require.Equal(t, "bob", rows[0]["name"])
}

func TestWeeklyTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "leaderboard down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, srv.Client())

	_, err := c.Weekly(context.Background(), RunningDistance, 0, false)
	var transportErr *eas.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, http.StatusServiceUnavailable, transportErr.Status)
}
