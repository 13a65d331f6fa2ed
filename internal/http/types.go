package http

import (
	"net/http"
	"sync"

	"github.com/mauv0809/croquet-league/internal/engine"
	"github.com/mauv0809/croquet-league/internal/ledger"
	"github.com/mauv0809/croquet-league/internal/processor"
)

// Loader reads a fresh snapshot of the league inputs.
type Loader func() (engine.Input, engine.Options, error)

type Server struct {
	Ledger         ledger.Ledger
	Processor      *processor.Processor
	MetricsHandler http.Handler
	Load           Loader
	// Output is the directory /process writes reports into. Empty disables writing.
	Output string
	Router *http.ServeMux

	// runMu serializes runs so two triggers never dispatch the same event.
	runMu sync.Mutex
}

type runResponse struct {
	ID              string         `json:"id"`
	Digest          string         `json:"digest"`
	DryRun          bool           `json:"dry_run"`
	Sent            int            `json:"sent"`
	AlreadyNotified int            `json:"already_notified"`
	Failed          int            `json:"failed"`
	Summary         engine.Summary `json:"summary"`
}

type tableResponse struct {
	League string     `json:"league"`
	Status string     `json:"status"`
	Grid   [][]string `json:"grid"`
}
