package receipts

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tann9949/go-receipts-indexer/types"
)

type decodedValue struct {
	Value any `json:"value"`
}

type decodedField struct {
	Name  string       `json:"name"`
	Value decodedValue `json:"value"`
}

func decodedJSON(t *testing.T, fields []decodedField) string {
	t.Helper()
	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	return string(raw)
}

func field(name string, value any) decodedField {
	return decodedField{Name: name, Value: decodedValue{Value: value}}
}

func offchainData(schema, recipient, signer string, createdAt int64) string {
	return fmt.Sprintf(
		`{"signer":"%s","sig":{"message":{"schema":"%s","recipient":"%s","time":%d,"expirationTime":0}}}`,
		signer, schema, recipient, createdAt)
}

func workoutFields() []decodedField {
	return []decodedField{
		field("title", "Morning Run"),
		field("sport_type", "Run"),
		field("type", "single_activity"),
		field("moving_time", map[string]any{"type": "BigNumber", "hex": "0x1518"}),
		field("distance", 10000),
		field("average_speed", "5:24 /km"),
		field("elevation_gain", 42),
		field("timezone", "Asia/Bangkok"),
		field("local_time", "2024-06-12 17:00"),
		field("utc_time", 1718190000),
		field("map", "QmMapHash"),
		field("strava_single_activity", true),
		field("data_source", "strava"),
	}
}

func workoutEnvelope(t *testing.T, uid string, createdAt int64, fields []decodedField) types.AttestationEnvelope {
	t.Helper()
	return types.AttestationEnvelope{
		ID:              uid,
		Data:            offchainData(types.SchemaSingleWorkout, "0xRecipient", "0xSigner", createdAt),
		DecodedDataJSON: decodedJSON(t, fields),
		IpfsHash:        "QmReceipt",
		Schema:          types.SchemaRef{ID: types.SchemaSingleWorkout, Txid: "0xTx"},
	}
}

func TestClassifyUnknownSchemaIsNoMatch(t *testing.T) {
	env := types.AttestationEnvelope{
		ID:     "0xabc",
		Data:   offchainData("0xdeadbeef", "0xRecipient", "0xSigner", 100),
		Schema: types.SchemaRef{ID: "0xdeadbeef"},
	}

	receipt, ok, err := Classify(&env)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, receipt)
}

func TestClassifySingleWorkout(t *testing.T) {
	env := workoutEnvelope(t, "0xuid1", 1718190123, workoutFields())

	receipt, ok, err := Classify(&env)
	require.NoError(t, err)
	require.True(t, ok)

	workout, isWorkout := receipt.(*types.SingleWorkoutReceipt)
	require.True(t, isWorkout, "expected *SingleWorkoutReceipt, got %T", receipt)
	require.Equal(t, "Morning Run", workout.Title)
	require.Equal(t, "Run", workout.SportType)
	require.Equal(t, "single_activity", workout.ReceiptType)
	require.Equal(t, int64(5400), workout.MovingTime)
	require.Equal(t, int64(10000), workout.Distance)
	require.Equal(t, "QmMapHash", workout.ReceiptMap)
	require.True(t, workout.StravaSingleActivity)

	require.Equal(t, "0xuid1", workout.Metadata.UID)
	require.Equal(t, time.Unix(1718190123, 0).UTC(), workout.Metadata.CreatedAt)
	require.Equal(t, "0xRecipient", workout.Metadata.FromAddress)
	require.Equal(t, "0xSigner", workout.Metadata.ToAddress)
	require.Equal(t, "QmReceipt", workout.Metadata.IpfsHash)
	require.Equal(t, "0xTx", workout.Metadata.Txid)
}

func TestClassifyMissingFieldNamesTheField(t *testing.T) {
	fields := workoutFields()
	var withoutDistance []decodedField
	for _, f := range fields {
		if f.Name != "distance" {
			withoutDistance = append(withoutDistance, f)
		}
	}
	env := workoutEnvelope(t, "0xuid2", 1718190123, withoutDistance)

	_, ok, err := Classify(&env)
	require.True(t, ok)
	var mappingErr *FieldMappingError
	require.ErrorAs(t, err, &mappingErr)
	require.Equal(t, "distance", mappingErr.Field)
}

func TestClassifyTypeMismatchNamesTheField(t *testing.T) {
	fields := workoutFields()
	for i := range fields {
		if fields[i].Name == "title" {
			fields[i] = field("title", 12345)
		}
	}
	env := workoutEnvelope(t, "0xuid3", 1718190123, fields)

	_, _, err := Classify(&env)
	var mappingErr *FieldMappingError
	require.ErrorAs(t, err, &mappingErr)
	require.Equal(t, "title", mappingErr.Field)
}

func TestClassifyBinaryFirstGenPayloadFailsRecord(t *testing.T) {
	env := types.AttestationEnvelope{
		ID:              "0xuid4",
		Data:            "0x48d9973e",
		DecodedDataJSON: decodedJSON(t, workoutFields()),
		Schema:          types.SchemaRef{ID: types.SchemaSingleWorkout},
	}

	_, ok, err := Classify(&env)
	require.True(t, ok)
	require.ErrorIs(t, err, types.ErrBinaryPayload)
}

func TestClassifyWeekToDate(t *testing.T) {
	fields := []decodedField{
		field("activities", 4),
		field("sport_types", `{"Run":3,"Ride":1}`),
		field("running_distance", map[string]any{"type": "BigNumber", "hex": "0x7530"}),
		field("cycling_distance", 20000),
		field("moving_time", 14400),
		field("range_start", 1718000000),
		field("range_end", 1718600000),
		field("strava_week_range", true),
		field("data_source", "strava"),
	}
	env := types.AttestationEnvelope{
		ID:              "0xuid5",
		Data:            offchainData(types.SchemaWeekToDate, "0xRecipient", "0xSigner", 1718190000),
		DecodedDataJSON: decodedJSON(t, fields),
		Schema:          types.SchemaRef{ID: types.SchemaWeekToDate},
	}

	receipt, ok, err := Classify(&env)
	require.NoError(t, err)
	require.True(t, ok)

	week, isWeek := receipt.(*types.WeekToDateReceipt)
	require.True(t, isWeek, "expected *WeekToDateReceipt, got %T", receipt)
	require.Equal(t, 4, week.Activities)
	require.Equal(t, map[string]int{"Run": 3, "Ride": 1}, week.SportTypes)
	require.Equal(t, int64(30000), week.RunningDistance)
}

func TestWorkoutEventFromEnvelope(t *testing.T) {
	fields := []decodedField{
		field("id", "ocs-2024"),
		field("name", "Onchain Summer Olympics"),
		field("total_participants", 812),
		field("total_moving_time", map[string]any{"type": "BigNumber", "hex": "0x2a30"}),
		field("total_intensity_time", 7200),
		field("total_run_distance", 120000),
		field("total_bike_distance", 340000),
		field("total_strength_time", 3600),
		field("has_ended", false),
	}
	env := types.AttestationEnvelope{
		ID:              "0xevent1",
		Time:            1722000000,
		Txid:            "0xEventTx",
		Data:            "0x0000",
		DecodedDataJSON: decodedJSON(t, fields),
		Schema:          types.SchemaRef{ID: types.SchemaWorkoutEvent},
	}

	receipt, ok, err := Classify(&env)
	require.NoError(t, err)
	require.True(t, ok)

	event, isEvent := receipt.(*types.WorkoutEventReceipt)
	require.True(t, isEvent, "expected *WorkoutEventReceipt, got %T", receipt)
	require.Equal(t, "ocs-2024", event.ID)
	require.Equal(t, "0xevent1", event.AttestationUID)
	require.Equal(t, "0xEventTx", event.Txid)
	require.Equal(t, int64(1722000000), event.Time)
	require.Equal(t, int64(10800), event.TotalMovingTime)
	require.False(t, event.HasEnded)
}
