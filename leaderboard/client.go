package leaderboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/tann9949/go-receipts-indexer/eas"
)

// Filter selects the metric the leaderboard is ranked by.
type Filter string

const (
	RunningDistance Filter = "running_distance"
	CyclingDistance Filter = "cycling_distance"
	MovingTime      Filter = "moving_time"
	TotalActivities Filter = "total_activities"
)

// Client reads the ranked weekly aggregates endpoint. This is a separate
// collaborator from the ingestion pipeline: its rows never pass through the
// schema system, and the upstream field set drifts, so rows stay untyped.
type Client struct {
	Endpoint string
	http     *http.Client
}

func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{Endpoint: endpoint, http: httpClient}
}

// Weekly fetches the current week's leaderboard. limit <= 0 requests the
// upstream default. When sortRows is set, rows are re-sorted client side by
// the requested metric, descending.
func (c *Client) Weekly(ctx context.Context, filter Filter, limit int, sortRows bool) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("social", "strava")
	params.Set("time_range", "week")
	params.Set("filter", string(filter))
	params.Set("activity", "")
	params.Set("time_class", "undefined")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	} else {
		params.Set("limit", "undefined")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &eas.TransportError{Status: resp.StatusCode, Body: string(raw)}
	}

	var payload struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	if sortRows {
		key := string(filter)
		if filter == TotalActivities {
			key = "activities"
		}
		sort.SliceStable(payload.Data, func(i, j int) bool {
			return numeric(payload.Data[i][key]) > numeric(payload.Data[j][key])
		})
	}
	return payload.Data, nil
}

func numeric(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	default:
		return 0
	}
}
