package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/ttacon/chalk"

	"github.com/tann9949/go-receipts-indexer/config"
	"github.com/tann9949/go-receipts-indexer/database"
	"github.com/tann9949/go-receipts-indexer/eas"
	"github.com/tann9949/go-receipts-indexer/ens"
	"github.com/tann9949/go-receipts-indexer/leaderboard"
	"github.com/tann9949/go-receipts-indexer/receipts"
	"github.com/tann9949/go-receipts-indexer/server"
	"github.com/tann9949/go-receipts-indexer/state"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		go func() {
			if err := config.Watch(path); err != nil {
				log.Printf("%s[WARN]: config watch: %v%s", chalk.Yellow, err, chalk.Reset)
			}
		}()
	}

	conn, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalln(err.Error())
	}
	store := database.NewReceiptStore(conn)

	client := eas.NewClient(cfg.GraphQLEndpoint, nil)
	client.BatchSize = cfg.BatchSize
	lb := leaderboard.NewClient(cfg.LeaderboardEndpoint, nil)

	var resolver ens.Resolver
	if r, err := ens.Dial(cfg.RPCEndpoint); err != nil {
		log.Printf("%s[WARN]: name resolution disabled: %v%s", chalk.Yellow, err, chalk.Reset)
	} else {
		resolver = r
	}

	if last := state.LoadProgress(); last > 0 {
		log.Printf("Last sync at %s", time.Unix(last, 0).UTC().Format(time.RFC3339))
	}

	go server.Start(server.Deps{
		Store:       store,
		EAS:         client,
		Leaderboard: lb,
		Resolver:    resolver,
	})

	ticker := time.NewTicker(time.Duration(cfg.IngestIntervalMins) * time.Minute)
	defer ticker.Stop()
	for {
		ingest(ctx, client, store)
		<-ticker.C
	}
}

// ingest runs one pull pass: current-week activities plus event aggregates,
// deduped and persisted. A fetch-level failure skips the pass; the next tick
// retries from scratch.
func ingest(ctx context.Context, client *eas.Client, store *database.ReceiptStore) {
	start := time.Now()

	workouts, err := receipts.WeeklyWorkouts(ctx, client, true)
	if err != nil {
		log.Printf("%s[ERROR]: weekly ingest failed: %v%s", chalk.Red, err, chalk.Reset)
		return
	}
	if err := store.UpsertWorkouts(ctx, workouts); err != nil {
		log.Printf("%s[ERROR]: persisting workouts: %v%s", chalk.Red, err, chalk.Reset)
		return
	}

	events, err := receipts.EventWorkouts(ctx, client, "")
	if err != nil {
		log.Printf("%s[ERROR]: event ingest failed: %v%s", chalk.Red, err, chalk.Reset)
		return
	}
	if err := store.UpsertEvents(ctx, events); err != nil {
		log.Printf("%s[ERROR]: persisting events: %v%s", chalk.Red, err, chalk.Reset)
		return
	}

	state.SaveProgress(time.Now().Unix())
	log.Printf("%sIngested %d workouts and %d events in %.1fs%s",
		chalk.Cyan, len(workouts), len(events), time.Since(start).Seconds(), chalk.Reset)
}
