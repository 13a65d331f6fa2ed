package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/engine"
	"github.com/mauv0809/croquet-league/internal/report"
	"github.com/mauv0809/croquet-league/internal/standings"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// ProcessHandler runs the full pipeline over a fresh snapshot of the inputs.
func (s *Server) ProcessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flags := runFlagsFromContext(r)
		log.Info("Starting run from HTTP trigger", "notify", flags.Notify, "dryRun", flags.DryRun)

		in, opts, err := s.Load()
		if err != nil {
			log.Error("Failed to load league inputs", "error", err)
			http.Error(w, "Failed to load league inputs", http.StatusInternalServerError)
			return
		}

		s.runMu.Lock()
		run, err := s.Processor.Process(in, opts, flags)
		s.runMu.Unlock()
		if err != nil {
			log.Error("Run failed", "error", err)
			http.Error(w, "Run failed", http.StatusInternalServerError)
			return
		}
		if s.Output != "" && !flags.DryRun {
			if err := report.WriteAll(s.Output, run.Result); err != nil {
				log.Error("Failed to write reports", "error", err)
				http.Error(w, "Failed to write reports", http.StatusInternalServerError)
				return
			}
		}

		writeJSON(w, runResponse{
			ID:              run.ID,
			Digest:          run.Digest,
			DryRun:          flags.DryRun,
			Sent:            run.Sent,
			AlreadyNotified: run.AlreadyNotified,
			Failed:          run.Failed,
			Summary:         run.Result.Summary,
		})
		log.Info("Run finished", "run", run.ID)
	}
}

func (s *Server) StandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := s.snapshot(w)
		if !ok {
			return
		}
		tables := make([]tableResponse, 0, len(res.Tables))
		for _, t := range res.Tables {
			tables = append(tables, newTableResponse(t))
		}
		writeJSON(w, tables)
	}
}

// LeagueTableHandler serves one league's table, as CSV when format=csv.
func (s *Server) LeagueTableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("league")
		res, ok := s.snapshot(w)
		if !ok {
			return
		}
		for _, t := range res.Tables {
			if t.League != name {
				continue
			}
			if r.URL.Query().Get("format") == "csv" {
				w.Header().Set("Content-Type", "text/csv")
				if err := report.WriteTableCSV(w, t); err != nil {
					log.Error("Failed to write table", "league", name, "error", err)
				}
				return
			}
			writeJSON(w, newTableResponse(t))
			return
		}
		http.Error(w, fmt.Sprintf("Unknown league %q", name), http.StatusNotFound)
	}
}

func (s *Server) EventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := s.snapshot(w)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := report.WriteEventsJSON(w, res.Events); err != nil {
			log.Error("Failed to encode events to JSON", "error", err)
		}
	}
}

func (s *Server) ListRunsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		runs, err := s.Ledger.Runs(limit)
		if err != nil {
			log.Error("Failed to list runs", "error", err)
			http.Error(w, "Failed to list runs", http.StatusInternalServerError)
			return
		}
		writeJSON(w, runs)
	}
}

func (s *Server) ListNotifiedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notes, err := s.Ledger.Notified(r.URL.Query().Get("run"))
		if err != nil {
			log.Error("Failed to list notices", "error", err)
			http.Error(w, "Failed to list notices", http.StatusInternalServerError)
			return
		}
		writeJSON(w, notes)
	}
}

// snapshot computes the current result without dispatching or recording
// anything. It writes the error response itself and reports whether to go on.
func (s *Server) snapshot(w http.ResponseWriter) (engine.Result, bool) {
	in, opts, err := s.Load()
	if err != nil {
		log.Error("Failed to load league inputs", "error", err)
		http.Error(w, "Failed to load league inputs", http.StatusInternalServerError)
		return engine.Result{}, false
	}
	return engine.Run(in, opts), true
}

func newTableResponse(t standings.Table) tableResponse {
	return tableResponse{League: t.League, Status: t.Status(), Grid: t.Grid()}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}
