package eas

import (
	"context"
	"fmt"
	"strings"

	"github.com/tann9949/go-receipts-indexer/config"
	"github.com/tann9949/go-receipts-indexer/types"
)

// Filter narrows an attestations query. Zero values mean "no constraint";
// a time window requires Start < End.
type Filter struct {
	Recipient string
	Attester  string
	SchemaID  string
	UID       string
	Start     int64
	End       int64
}

func (f Filter) Validate() error {
	if (f.Start != 0 || f.End != 0) && f.Start >= f.End {
		return ErrInvalidRange
	}
	return nil
}

func (f Filter) whereClause() string {
	var parts []string
	if f.UID != "" {
		parts = append(parts, fmt.Sprintf(`id: { equals: %q }`, f.UID))
	}
	if f.Recipient != "" {
		parts = append(parts, fmt.Sprintf(`recipient: { equals: %q }`, f.Recipient))
	}
	if f.Attester != "" {
		parts = append(parts, fmt.Sprintf(`attester: { equals: %q }`, f.Attester))
	}
	if f.Start != 0 || f.End != 0 {
		parts = append(parts, fmt.Sprintf(`time: { lte: %d, gte: %d }`, f.End, f.Start))
	}
	if f.SchemaID != "" {
		parts = append(parts, fmt.Sprintf(`schema: { is: { id: { equals: %q } } }`, f.SchemaID))
	}
	return strings.Join(parts, ", ")
}

// Result field selections per registry generation. The first generation
// keeps time/txid inside the signed payload; the second selects them at the
// index level. The users query only needs recipients.
const (
	v1Selection = `id data decodedDataJson revoked ipfsHash schema { id txid }`
	v2Selection = `id time txid data decodedDataJson revoked ipfsHash schema { id }`
	userSelect  = `recipient time`
)

func attestationsQuery(f Filter, selection string) func(take, skip int) string {
	where := f.whereClause()
	return func(take, skip int) string {
		return fmt.Sprintf(`query Attestations {
	attestations(
		orderBy: { time: desc },
		where: { %s },
		take: %d,
		skip: %d
	) { %s }
}`, where, take, skip, selection)
	}
}

// QueryAttestation fetches a single envelope by uid.
func (c *Client) QueryAttestation(ctx context.Context, uid string) (*types.AttestationEnvelope, error) {
	f := Filter{UID: uid, Attester: config.V1Attester}
	resp, err := c.Query(ctx, attestationsQuery(f, v1Selection)(1, 0))
	if err != nil {
		return nil, err
	}
	atts := resp.Data.Attestations
	if len(atts) == 0 {
		return nil, fmt.Errorf("uid %s not found in attestation index", uid)
	}
	return &atts[0], nil
}

// QueryUserWorkouts fetches all first-generation workout attestations
// published for the given recipient.
func (c *Client) QueryUserWorkouts(ctx context.Context, address string) ([]types.AttestationEnvelope, error) {
	f := Filter{Recipient: address, SchemaID: types.SchemaSingleWorkout}
	return c.FetchAll(ctx, attestationsQuery(f, v1Selection))
}

// QueryWorkoutsInInterval fetches all first-generation workouts inside
// [start, end].
func (c *Client) QueryWorkoutsInInterval(ctx context.Context, start, end int64) ([]types.AttestationEnvelope, error) {
	f := Filter{SchemaID: types.SchemaSingleWorkout, Start: start, End: end}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return c.FetchAll(ctx, attestationsQuery(f, v1Selection))
}

// QueryUserWorkoutsInInterval combines the recipient and time filters.
func (c *Client) QueryUserWorkoutsInInterval(ctx context.Context, address string, start, end int64) ([]types.AttestationEnvelope, error) {
	f := Filter{Recipient: address, SchemaID: types.SchemaSingleWorkout, Start: start, End: end}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return c.FetchAll(ctx, attestationsQuery(f, v1Selection))
}

// QueryRegisteredUsers fetches the recipients of the user-registration
// schema.
func (c *Client) QueryRegisteredUsers(ctx context.Context) ([]types.AttestationEnvelope, error) {
	f := Filter{SchemaID: types.SchemaUserRegistration}
	return c.FetchAll(ctx, attestationsQuery(f, userSelect))
}

// QueryEventWorkouts fetches all second-generation event attestations.
func (c *Client) QueryEventWorkouts(ctx context.Context) ([]types.AttestationEnvelope, error) {
	f := Filter{SchemaID: types.SchemaWorkoutEvent, Attester: config.V2Attester}
	return c.FetchAll(ctx, attestationsQuery(f, v2Selection))
}

// QueryEventWorkoutsInInterval restricts the event query to [start, end].
func (c *Client) QueryEventWorkoutsInInterval(ctx context.Context, start, end int64) ([]types.AttestationEnvelope, error) {
	f := Filter{SchemaID: types.SchemaWorkoutEvent, Attester: config.V2Attester, Start: start, End: end}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return c.FetchAll(ctx, attestationsQuery(f, v2Selection))
}
