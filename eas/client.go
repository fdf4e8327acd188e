package eas

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/ttacon/chalk"

	"github.com/tann9949/go-receipts-indexer/config"
	"github.com/tann9949/go-receipts-indexer/metrics"
	"github.com/tann9949/go-receipts-indexer/types"
)

// Client issues GraphQL queries against the attestation index. The HTTP
// client is caller-supplied so tests can point it at a double.
type Client struct {
	Endpoint  string
	BatchSize int
	http      *http.Client
}

func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		Endpoint:  endpoint,
		BatchSize: config.DefaultBatchSize,
		http:      httpClient,
	}
}

// GraphQLResponse is the generic attestations query result.
type GraphQLResponse struct {
	Data struct {
		Attestations []types.AttestationEnvelope `json:"attestations"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query posts a single GraphQL document. A non-2xx status aborts with a
// *TransportError carrying the upstream status and body.
func (c *Client) Query(ctx context.Context, query string) (*GraphQLResponse, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	metrics.PageLatency.Observe(time.Since(start).Seconds())

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Status: resp.StatusCode, Body: string(raw)}
	}

	var out GraphQLResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	for _, gqlErr := range out.Errors {
		log.Printf("%s[WARN]: gateway error: %s%s", chalk.Yellow, gqlErr.Message, chalk.Reset)
	}
	return &out, nil
}

// FetchAll pages through the index at increasing skip offsets until a short
// page signals the end, or an empty page does (the gateway does not
// distinguish end-of-data from a malformed response, so an empty page
// terminates with a warning). No dedup happens at page boundaries; unstable
// gateway ordering between requests is the gateway's consistency contract.
func (c *Client) FetchAll(ctx context.Context, buildQuery func(take, skip int) string) ([]types.AttestationEnvelope, error) {
	var all []types.AttestationEnvelope
	skip := 0

	for {
		log.Printf("Fetching batch with skip value: %d", skip)
		resp, err := c.Query(ctx, buildQuery(c.BatchSize, skip))
		if err != nil {
			return nil, err
		}
		metrics.PagesFetched.Inc()

		page := resp.Data.Attestations
		if len(page) == 0 {
			log.Printf("%s[WARN]: no more data available or unexpected response format%s", chalk.Yellow, chalk.Reset)
			break
		}

		all = append(all, page...)
		metrics.EnvelopesFetched.Add(float64(len(page)))
		log.Printf("Fetched %d records in this batch", len(page))

		if len(page) < c.BatchSize {
			break
		}
		skip += c.BatchSize
	}

	log.Printf("Total records fetched: %d", len(all))
	return all, nil
}
