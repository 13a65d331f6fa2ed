package ledger

import (
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
)

// store is the SQL backed Ledger.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Run is one recorded reconciliation run.
type Run struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Submissions int       `json:"submissions"`
	Confirmed   int       `json:"confirmed"`
	Games       int       `json:"games"`
	Events      int       `json:"events"`
	Notified    int       `json:"notified"`
	Digest      string    `json:"digest"`
}

// Notification is a dispatched event.
type Notification struct {
	Fingerprint string    `json:"fingerprint"`
	Kind        string    `json:"kind"`
	Fixture     string    `json:"fixture"`
	RunID       string    `json:"run_id"`
	NotifiedAt  time.Time `json:"notified_at"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}
