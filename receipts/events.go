package receipts

import (
	"context"
	"log"
	"sort"

	"github.com/ttacon/chalk"

	"github.com/tann9949/go-receipts-indexer/eas"
	"github.com/tann9949/go-receipts-indexer/metrics"
	"github.com/tann9949/go-receipts-indexer/types"
)

// EventWorkouts fetches the second-generation event aggregates, optionally
// filtered to one event name, newest first.
func EventWorkouts(ctx context.Context, client *eas.Client, eventName string) ([]types.WorkoutEventReceipt, error) {
	envelopes, err := client.QueryEventWorkouts(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]types.WorkoutEventReceipt, 0, len(envelopes))
	for i := range envelopes {
		env := &envelopes[i]
		event, err := WorkoutEventFromEnvelope(env)
		if err != nil {
			metrics.MappingFailures.Inc()
			log.Printf("%s[WARN]: failed to parse attestation %s: %v%s", chalk.Yellow, env.ID, err, chalk.Reset)
			continue
		}
		if eventName != "" && event.Name != eventName {
			continue
		}
		events = append(events, *event)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Time > events[j].Time
	})
	return events, nil
}
