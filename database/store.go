package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tann9949/go-receipts-indexer/types"
)

// ReceiptStore persists the pipeline's typed output so the API can serve
// reads without refetching the gateway. Receipts are immutable once mapped;
// upserts exist only because ingest passes overlap.
type ReceiptStore struct {
	workouts *mongo.Collection
	events   *mongo.Collection
}

func NewReceiptStore(conn *Connection) *ReceiptStore {
	db := conn.Database("receipts")
	return &ReceiptStore{
		workouts: db.Collection("workout"),
		events:   db.Collection("event"),
	}
}

// UpsertWorkouts writes deduped workout receipts keyed by attestation uid.
func (s *ReceiptStore) UpsertWorkouts(ctx context.Context, workouts []types.SingleWorkoutReceipt) error {
	opts := options.Update().SetUpsert(true)
	for i := range workouts {
		w := &workouts[i]
		filter := bson.M{"metadata.uid": w.Metadata.UID}
		if _, err := s.workouts.UpdateOne(ctx, filter, bson.M{"$set": w}, opts); err != nil {
			return err
		}
	}
	return nil
}

// WorkoutsBetween reads workouts created inside [start, end], newest first.
func (s *ReceiptStore) WorkoutsBetween(ctx context.Context, start, end int64) ([]types.SingleWorkoutReceipt, error) {
	filter := bson.M{"metadata.createdAt": bson.M{
		"$gte": time.Unix(start, 0).UTC(),
		"$lte": time.Unix(end, 0).UTC(),
	}}
	opts := options.Find().SetSort(bson.D{{Key: "metadata.createdAt", Value: -1}})

	cursor, err := s.workouts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workouts []types.SingleWorkoutReceipt
	if err := cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// UpsertEvents writes event receipts keyed by attestation uid.
func (s *ReceiptStore) UpsertEvents(ctx context.Context, events []types.WorkoutEventReceipt) error {
	opts := options.Update().SetUpsert(true)
	for i := range events {
		e := &events[i]
		if _, err := s.events.UpdateOne(ctx, bson.M{"aid": e.AttestationUID}, bson.M{"$set": e}, opts); err != nil {
			return err
		}
	}
	return nil
}

// LatestEvents reads event receipts, optionally filtered by event name,
// newest first.
func (s *ReceiptStore) LatestEvents(ctx context.Context, name string, limit int64) ([]types.WorkoutEventReceipt, error) {
	filter := bson.M{}
	if name != "" {
		filter["name"] = name
	}
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.events.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []types.WorkoutEventReceipt
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
