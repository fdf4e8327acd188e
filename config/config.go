package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/ttacon/chalk"
)

// Upstream constants. The schema ids and attester addresses are part of the
// registry's published contract; any drift turns into silent classification
// misses, not protocol errors.
const (
	GraphQLEndpoint     = "https://base.easscan.org/graphql"
	LeaderboardEndpoint = "https://leaderboard.receipts.xyz/api/receipts"
	MainnetRPCEndpoint  = "https://eth.llamarpc.com" // change via https://chainlist.org/

	// First registry generation.
	V1Attester = "0x77a3b79a2De700AfcfC761fED837a67D7d8fAe1B"
	// Second registry generation (re-deployed under a new attester).
	V2Attester = "0x2261A703139c6230f2a9Fb173cc245B83348C6Ba"

	DefaultBatchSize = 8000
	DefaultPort      = "3000"
)

// Settings are the process-level knobs. Defaults come from the consts above,
// overridable via environment and an optional JSON overrides file.
type Settings struct {
	GraphQLEndpoint     string `json:"graphqlEndpoint"`
	LeaderboardEndpoint string `json:"leaderboardEndpoint"`
	RPCEndpoint         string `json:"rpcEndpoint"`
	MongoURI            string `json:"mongoUri"`
	Port                string `json:"port"`
	BatchSize           int    `json:"batchSize"`
	IngestIntervalMins  int    `json:"ingestIntervalMins"`
}

var (
	mu      sync.RWMutex
	current = defaults()
)

func defaults() Settings {
	return Settings{
		GraphQLEndpoint:     GraphQLEndpoint,
		LeaderboardEndpoint: LeaderboardEndpoint,
		RPCEndpoint:         MainnetRPCEndpoint,
		MongoURI:            "mongodb://localhost:27017",
		Port:                DefaultPort,
		BatchSize:           DefaultBatchSize,
		IngestIntervalMins:  15,
	}
}

// Load builds settings from defaults plus environment overrides.
func Load() Settings {
	s := defaults()
	if v := os.Getenv("GRAPHQL_ENDPOINT"); v != "" {
		s.GraphQLEndpoint = v
	}
	if v := os.Getenv("LEADERBOARD_ENDPOINT"); v != "" {
		s.LeaderboardEndpoint = v
	}
	if v := os.Getenv("RPC_ENDPOINT"); v != "" {
		s.RPCEndpoint = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		s.MongoURI = v
	}
	if v := os.Getenv("PORT"); v != "" {
		s.Port = v
	}
	if v := os.Getenv("BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.BatchSize = n
		}
	}
	if v := os.Getenv("INGEST_INTERVAL_MINS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.IngestIntervalMins = n
		}
	}
	mu.Lock()
	current = s
	mu.Unlock()
	return s
}

// Current returns the active settings.
func Current() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func applyFile(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("%s[WARN]: could not read config file %s: %v%s", chalk.Yellow, path, err, chalk.Reset)
		return
	}
	mu.Lock()
	defer mu.Unlock()
	s := current
	if err := json.Unmarshal(raw, &s); err != nil {
		log.Printf("%s[WARN]: bad config file %s: %v%s", chalk.Yellow, path, err, chalk.Reset)
		return
	}
	current = s
	log.Printf("Reloaded config from %s", path)
}

// Watch hot-reloads the overrides file whenever it changes. It blocks, so run
// it on its own goroutine.
func Watch(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if _, err := os.Stat(path); err == nil {
		applyFile(path)
	}
	if err := watcher.Add(path); err != nil {
		return err
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				applyFile(path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("%s[WARN]: config watcher: %v%s", chalk.Yellow, err, chalk.Reset)
		}
	}
}
