package state

import (
	"encoding/json"
	"log"
	"os"

	"github.com/ttacon/chalk"
)

// Path of the watermark file. Overridable so tests can point it elsewhere.
var Path = "state.json"

type progress struct {
	LastSync int64 `json:"lastSync"`
}

// LoadProgress returns the unix time of the last successful ingest pass, or
// 0 when none has been recorded yet.
func LoadProgress() int64 {
	raw, err := os.ReadFile(Path)
	if err != nil {
		return 0
	}
	var p progress
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Printf("%s[WARN]: corrupt state file %s: %v%s", chalk.Yellow, Path, err, chalk.Reset)
		return 0
	}
	return p.LastSync
}

// SaveProgress records the watermark after a completed ingest pass.
func SaveProgress(lastSync int64) {
	raw, err := json.Marshal(progress{LastSync: lastSync})
	if err != nil {
		return
	}
	if err := os.WriteFile(Path, raw, 0o644); err != nil {
		log.Printf("%s[WARN]: could not write state file %s: %v%s", chalk.Yellow, Path, err, chalk.Reset)
	}
}
