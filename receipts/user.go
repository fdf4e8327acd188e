package receipts

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ttacon/chalk"

	"github.com/tann9949/go-receipts-indexer/eas"
	"github.com/tann9949/go-receipts-indexer/ens"
	"github.com/tann9949/go-receipts-indexer/metrics"
	"github.com/tann9949/go-receipts-indexer/types"
)

// UserWorkouts fetches the activities attested for one user. address may be
// a hex account address or a name; names are resolved through the resolver
// before the query is built. start/end of 0 means no time window.
func UserWorkouts(ctx context.Context, client *eas.Client, resolver ens.Resolver, address string, start, end int64) ([]types.SingleWorkoutReceipt, error) {
	if !strings.HasPrefix(address, "0x") {
		if resolver == nil {
			return nil, fmt.Errorf("no resolver configured for name %q", address)
		}
		name := address
		resolved, err := resolver.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		address = resolved
		log.Printf("Resolved name from %s to address: %s", name, address)
	}

	address, err := ens.ToChecksumAddress(address)
	if err != nil {
		return nil, err
	}

	var envelopes []types.AttestationEnvelope
	if start == 0 && end == 0 {
		log.Printf("Fetching all attestations for address: %s", address)
		envelopes, err = client.QueryUserWorkouts(ctx, address)
	} else {
		log.Printf("Fetching attestations for address: %s between %d and %d", address, start, end)
		envelopes, err = client.QueryUserWorkoutsInInterval(ctx, address, start, end)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("Found %d attestations for address: %s", len(envelopes), address)

	workouts := make([]types.SingleWorkoutReceipt, 0, len(envelopes))
	for i := range envelopes {
		env := &envelopes[i]
		workout, err := SingleWorkoutFromEnvelope(env)
		if err != nil {
			metrics.MappingFailures.Inc()
			log.Printf("%s[WARN]: failed to parse attestation %s: %v%s", chalk.Yellow, env.ID, err, chalk.Reset)
			continue
		}
		workouts = append(workouts, *workout)
	}
	return workouts, nil
}

// RegisteredUsers returns the distinct recipients of the user-registration
// schema, most recent first.
func RegisteredUsers(ctx context.Context, client *eas.Client) ([]string, error) {
	envelopes, err := client.QueryRegisteredUsers(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(envelopes))
	users := make([]string, 0, len(envelopes))
	for _, env := range envelopes {
		if env.Recipient == "" || seen[env.Recipient] {
			continue
		}
		seen[env.Recipient] = true
		users = append(users, env.Recipient)
	}
	return users, nil
}
