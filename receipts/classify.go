package receipts

import (
	"encoding/json"

	"github.com/tann9949/go-receipts-indexer/types"
)

// variants is the closed dispatch table: schema id -> typed constructor.
// Registry generations are independent entries here, not versions of a
// shared type, because earlier generations omit fields the later ones carry.
var variants = map[string]func(*types.AttestationEnvelope) (types.Receipt, error){
	types.SchemaSingleWorkout: func(env *types.AttestationEnvelope) (types.Receipt, error) {
		return SingleWorkoutFromEnvelope(env)
	},
	types.SchemaWeekToDate: func(env *types.AttestationEnvelope) (types.Receipt, error) {
		return WeekToDateFromEnvelope(env)
	},
	types.SchemaWorkoutEvent: func(env *types.AttestationEnvelope) (types.Receipt, error) {
		return WorkoutEventFromEnvelope(env)
	},
}

// Classify dispatches an envelope to its typed receipt by declared schema
// id. ok is false when no known variant matches; that is a skip for batch
// callers, never an error. A matched variant that fails to map returns the
// per-record error.
func Classify(env *types.AttestationEnvelope) (types.Receipt, bool, error) {
	build, ok := variants[env.MessageSchemaID()]
	if !ok {
		return nil, false, nil
	}
	receipt, err := build(env)
	if err != nil {
		return nil, true, err
	}
	return receipt, true, nil
}

// SingleWorkoutFromEnvelope maps a first-generation activity attestation.
func SingleWorkoutFromEnvelope(env *types.AttestationEnvelope) (*types.SingleWorkoutReceipt, error) {
	meta, err := env.Metadata()
	if err != nil {
		return nil, err
	}
	decoded, err := decodeFields(env, types.SingleWorkoutSchema)
	if err != nil {
		return nil, err
	}

	r := &types.SingleWorkoutReceipt{Metadata: meta}
	if r.Title, err = decoded.str("title"); err != nil {
		return nil, err
	}
	if r.SportType, err = decoded.str("sport_type"); err != nil {
		return nil, err
	}
	if r.ReceiptType, err = decoded.str("type"); err != nil {
		return nil, err
	}
	if r.MovingTime, err = decoded.integer("moving_time"); err != nil {
		return nil, err
	}
	if r.Distance, err = decoded.integer("distance"); err != nil {
		return nil, err
	}
	if r.AverageSpeed, err = decoded.str("average_speed"); err != nil {
		return nil, err
	}
	if r.ElevationGain, err = decoded.integer("elevation_gain"); err != nil {
		return nil, err
	}
	if r.Timezone, err = decoded.str("timezone"); err != nil {
		return nil, err
	}
	if r.LocalTime, err = decoded.str("local_time"); err != nil {
		return nil, err
	}
	if r.UTCTime, err = decoded.integer("utc_time"); err != nil {
		return nil, err
	}
	if r.StravaSingleActivity, err = decoded.boolean("strava_single_activity"); err != nil {
		return nil, err
	}
	if r.DataSource, err = decoded.str("data_source"); err != nil {
		return nil, err
	}
	r.ReceiptMap = decoded.optStr("map")
	return r, nil
}

// WeekToDateFromEnvelope maps a first-generation weekly aggregate.
func WeekToDateFromEnvelope(env *types.AttestationEnvelope) (*types.WeekToDateReceipt, error) {
	meta, err := env.Metadata()
	if err != nil {
		return nil, err
	}
	decoded, err := decodeFields(env, types.WeekToDateSchema)
	if err != nil {
		return nil, err
	}

	r := &types.WeekToDateReceipt{Metadata: meta}
	activities, err := decoded.integer("activities")
	if err != nil {
		return nil, err
	}
	r.Activities = int(activities)

	// Per-sport counts ship as a nested JSON object string.
	sportTypes, err := decoded.str("sport_types")
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sportTypes), &r.SportTypes); err != nil {
		return nil, &FieldMappingError{Field: "sport_types", Reason: err.Error()}
	}

	if r.RunningDistance, err = decoded.integer("running_distance"); err != nil {
		return nil, err
	}
	if r.CyclingDistance, err = decoded.integer("cycling_distance"); err != nil {
		return nil, err
	}
	if r.MovingTime, err = decoded.integer("moving_time"); err != nil {
		return nil, err
	}
	if r.RangeStart, err = decoded.integer("range_start"); err != nil {
		return nil, err
	}
	if r.RangeEnd, err = decoded.integer("range_end"); err != nil {
		return nil, err
	}
	if r.StravaWeekRange, err = decoded.boolean("strava_week_range"); err != nil {
		return nil, err
	}
	if r.DataSource, err = decoded.str("data_source"); err != nil {
		return nil, err
	}
	return r, nil
}

// WorkoutEventFromEnvelope maps a second-generation event aggregate. The
// second generation carries no offchain sig envelope, so the attestation
// uid, txid and time come from the index itself.
func WorkoutEventFromEnvelope(env *types.AttestationEnvelope) (*types.WorkoutEventReceipt, error) {
	decoded, err := decodeFields(env, types.WorkoutEventSchema)
	if err != nil {
		return nil, err
	}

	r := &types.WorkoutEventReceipt{
		AttestationUID: env.ID,
		Txid:           env.Txid,
		Time:           env.Time,
	}
	if r.ID, err = decoded.str("id"); err != nil {
		return nil, err
	}
	if r.Name, err = decoded.str("name"); err != nil {
		return nil, err
	}
	if r.TotalParticipants, err = decoded.integer("total_participants"); err != nil {
		return nil, err
	}
	if r.TotalMovingTime, err = decoded.integer("total_moving_time"); err != nil {
		return nil, err
	}
	if r.TotalIntensityTime, err = decoded.integer("total_intensity_time"); err != nil {
		return nil, err
	}
	if r.TotalRunDistance, err = decoded.integer("total_run_distance"); err != nil {
		return nil, err
	}
	if r.TotalBikeDistance, err = decoded.integer("total_bike_distance"); err != nil {
		return nil, err
	}
	if r.TotalStrengthTime, err = decoded.integer("total_strength_time"); err != nil {
		return nil, err
	}
	if r.HasEnded, err = decoded.boolean("has_ended"); err != nil {
		return nil, err
	}
	return r, nil
}
