package receipts

import (
	"context"
	"log"
	"time"

	"github.com/ttacon/chalk"

	"github.com/tann9949/go-receipts-indexer/eas"
	"github.com/tann9949/go-receipts-indexer/metrics"
	"github.com/tann9949/go-receipts-indexer/types"
)

// WeeklyWorkouts fetches every activity attested inside the current week
// and maps it to a typed receipt. Records that fail to decode or map are
// logged, counted and skipped; they never abort the batch. Fetch-level
// failures surface unrecovered.
func WeeklyWorkouts(ctx context.Context, client *eas.Client, deduplicate bool) ([]types.SingleWorkoutReceipt, error) {
	interval := types.CurrentWeek(time.Now())
	log.Printf("Fetching attestations between %s", interval.Formatted())

	envelopes, err := client.QueryWorkoutsInInterval(ctx, interval.Start, interval.End)
	if err != nil {
		return nil, err
	}

	workouts := make([]types.SingleWorkoutReceipt, 0, len(envelopes))
	for i := range envelopes {
		env := &envelopes[i]
		if env.MessageSchemaID() != types.SchemaSingleWorkout {
			continue
		}
		workout, err := SingleWorkoutFromEnvelope(env)
		if err != nil {
			metrics.MappingFailures.Inc()
			log.Printf("%s[WARN]: failed to parse attestation %s: %v%s", chalk.Yellow, env.ID, err, chalk.Reset)
			continue
		}
		workouts = append(workouts, *workout)
	}

	if deduplicate {
		workouts = Dedupe(workouts)
	}
	return workouts, nil
}
