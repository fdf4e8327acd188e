package receipts

import (
	"github.com/tann9949/go-receipts-indexer/metrics"
	"github.com/tann9949/go-receipts-indexer/types"
)

// workoutKey is the canonical content key: the fields that make two records
// describe the same real-world activity. Creation time, revocation, ipfs
// hash and txid are deliberately excluded since they vary across
// republications.
type workoutKey struct {
	title          string
	sportType      string
	receiptType    string
	movingTime     int64
	distance       int64
	averageSpeed   string
	elevationGain  int64
	timezone       string
	localTime      string
	utcTime        int64
	singleActivity bool
	dataSource     string
}

func keyOf(r types.SingleWorkoutReceipt) workoutKey {
	return workoutKey{
		title:          r.Title,
		sportType:      r.SportType,
		receiptType:    r.ReceiptType,
		movingTime:     r.MovingTime,
		distance:       r.Distance,
		averageSpeed:   r.AverageSpeed,
		elevationGain:  r.ElevationGain,
		timezone:       r.Timezone,
		localTime:      r.LocalTime,
		utcTime:        r.UTCTime,
		singleActivity: r.StravaSingleActivity,
		dataSource:     r.DataSource,
	}
}

// Dedupe collapses republished activities, keeping the latest CreatedAt per
// content key. Equal timestamps resolve to the lexically greater attestation
// uid so reruns over reordered input stay deterministic. Single pass; output
// order is not the input order.
func Dedupe(workouts []types.SingleWorkoutReceipt) []types.SingleWorkoutReceipt {
	latest := make(map[workoutKey]types.SingleWorkoutReceipt, len(workouts))

	for _, w := range workouts {
		key := keyOf(w)
		existing, seen := latest[key]
		if !seen {
			latest[key] = w
			continue
		}
		metrics.DuplicatesDropped.Inc()
		switch {
		case w.Metadata.CreatedAt.After(existing.Metadata.CreatedAt):
			latest[key] = w
		case w.Metadata.CreatedAt.Equal(existing.Metadata.CreatedAt) && w.Metadata.UID > existing.Metadata.UID:
			latest[key] = w
		}
	}

	deduped := make([]types.SingleWorkoutReceipt, 0, len(latest))
	for _, w := range latest {
		deduped = append(deduped, w)
	}
	return deduped
}
