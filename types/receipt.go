package types

// Schema ids published by the registry. These are fixed 66-character hex
// strings and must match the upstream schema registry exactly.
const (
	// First generation, attested by the v1 publisher.
	SchemaSingleWorkout    = "0x48d9973eb6863978c104f85dc6864e827fc0f72c4083dd853171e0bf034f8774"
	SchemaWeekToDate       = "0xcd6475d55ff914b51faf41f8f85a6bfe27875fc87eaa7d50762cf6c89050adac"
	SchemaUserRegistration = "0x0f575d6100ca5a0d82b037f97673b97ebb8bb55848aa8b861ee4a843e247c1d2"

	// Second generation, attested by the v2 publisher.
	SchemaWorkoutEvent = "0x306c3768de1da8b0d36386d395ccafd05526741a6d38a3cee1bbbb7765d461d2"
)

// Field schema descriptions for the payload decoder, in declared order.
const (
	SingleWorkoutSchema = "string title,string sport_type,string type," +
		"uint64 moving_time,uint64 distance,string average_speed," +
		"uint64 elevation_gain,string timezone,string local_time," +
		"uint64 utc_time,ipfsHash map,bool strava_single_activity,string data_source"

	WeekToDateSchema = "uint64 activities,string sport_types," +
		"uint64 running_distance,uint64 cycling_distance,uint64 moving_time," +
		"uint64 range_start,uint64 range_end,bool strava_week_range,string data_source"

	WorkoutEventSchema = "string id,string name,uint64 total_participants," +
		"uint64 total_moving_time,uint64 total_intensity_time," +
		"uint64 total_run_distance,uint64 total_bike_distance," +
		"uint64 total_strength_time,bool has_ended"
)

// SingleWorkoutReceipt is one attested activity.
// https://base.easscan.org/schema/view/0x48d9973eb6863978c104f85dc6864e827fc0f72c4083dd853171e0bf034f8774
type SingleWorkoutReceipt struct {
	Title                string `json:"title" bson:"title"`
	SportType            string `json:"sport_type" bson:"sportType"`
	ReceiptType          string `json:"receipt_type" bson:"receiptType"`
	MovingTime           int64  `json:"moving_time" bson:"movingTime"`
	Distance             int64  `json:"distance" bson:"distance"`
	AverageSpeed         string `json:"average_speed" bson:"averageSpeed"`
	ElevationGain        int64  `json:"elevation_gain" bson:"elevationGain"`
	Timezone             string `json:"timezone" bson:"timezone"`
	LocalTime            string `json:"local_time" bson:"localTime"`
	UTCTime              int64  `json:"utc_time" bson:"utcTime"`
	ReceiptMap           string `json:"receipt_map,omitempty" bson:"receiptMap,omitempty"`
	StravaSingleActivity bool   `json:"strava_single_activity" bson:"stravaSingleActivity"`
	DataSource           string `json:"data_source" bson:"dataSource"`

	Metadata AttestationMetadata `json:"metadata" bson:"metadata"`
}

func (SingleWorkoutReceipt) SchemaID() string { return SchemaSingleWorkout }

// WeekToDateReceipt aggregates one user's week, keyed by sport type.
type WeekToDateReceipt struct {
	Activities      int            `json:"activities" bson:"activities"`
	SportTypes      map[string]int `json:"sport_types" bson:"sportTypes"`
	RunningDistance int64          `json:"running_distance" bson:"runningDistance"`
	CyclingDistance int64          `json:"cycling_distance" bson:"cyclingDistance"`
	MovingTime      int64          `json:"moving_time" bson:"movingTime"`
	RangeStart      int64          `json:"range_start" bson:"rangeStart"`
	RangeEnd        int64          `json:"range_end" bson:"rangeEnd"`
	StravaWeekRange bool           `json:"strava_week_range" bson:"stravaWeekRange"`
	DataSource      string         `json:"data_source" bson:"dataSource"`

	Metadata AttestationMetadata `json:"metadata" bson:"metadata"`
}

func (WeekToDateReceipt) SchemaID() string { return SchemaWeekToDate }

// WorkoutEventReceipt is the second-generation event aggregate. The second
// generation publishes no offchain sig envelope, so there is no embedded
// AttestationMetadata; the attestation uid, txid and time ride along instead.
type WorkoutEventReceipt struct {
	ID                 string `json:"id" bson:"id"`
	Txid               string `json:"txid" bson:"txid"`
	AttestationUID     string `json:"aid" bson:"aid"`
	Name               string `json:"name" bson:"name"`
	Time               int64  `json:"time" bson:"time"`
	TotalParticipants  int64  `json:"total_participants" bson:"totalParticipants"`
	TotalMovingTime    int64  `json:"total_moving_time" bson:"totalMovingTime"`
	TotalIntensityTime int64  `json:"total_intensity_time" bson:"totalIntensityTime"`
	TotalRunDistance   int64  `json:"total_run_distance" bson:"totalRunDistance"`
	TotalBikeDistance  int64  `json:"total_bike_distance" bson:"totalBikeDistance"`
	TotalStrengthTime  int64  `json:"total_strength_time" bson:"totalStrengthTime"`
	HasEnded           bool   `json:"has_ended" bson:"hasEnded"`
}

func (WorkoutEventReceipt) SchemaID() string { return SchemaWorkoutEvent }

// Receipt is implemented by every typed receipt variant.
type Receipt interface {
	SchemaID() string
}
