package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"
)

// SessionLog records what happened during one play session.
type SessionLog struct {
	SessionID      string         `json:"session_id,omitempty"`
	Player         string         `json:"player,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
	DurationSec    float64        `json:"duration_sec"`
	Collected      map[string]int `json:"collected"` // item ID → units collected
	Used           map[string]int `json:"used"`      // item ID → units used
	Rejected       int            `json:"rejected"`
	InventoryOpens int            `json:"inventory_opens"`
}

func newSessionLog(sessionID, player string) SessionLog {
	return SessionLog{
		SessionID: sessionID,
		Player:    player,
		Collected: make(map[string]int),
		Used:      make(map[string]int),
	}
}

// saveSessionLog appends the session as a single JSON line to sessions.jsonl.
// The caller only logs the error; a disk problem never ends the game badly.
func saveSessionLog(log SessionLog) error {
	dir, err := sessionLogDir()
	if err != nil {
		return err
	}
	errb := oops.In("session_log").With("dir", dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errb.Wrapf(err, "create log dir")
	}
	f, err := os.OpenFile(filepath.Join(dir, "sessions.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errb.Wrapf(err, "open sessions.jsonl")
	}
	defer f.Close()

	data, err := json.Marshal(log)
	if err != nil {
		return errb.Wrapf(err, "encode session")
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return errb.Wrapf(err, "write session")
	}
	return nil
}

// sessionLogDir returns the directory where session logs are stored.
// Follows the XDG Base Directory layout: $XDG_DATA_HOME/satchel, defaulting to
// ~/.local/share/satchel.
func sessionLogDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", oops.In("session_log").Wrapf(err, "resolve home directory")
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "satchel"), nil
}
