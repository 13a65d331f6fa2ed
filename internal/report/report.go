// Package report writes the results of a run: one CSV per league table, the
// game log, the event list, and a terminal rendering of the tables.
package report

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/engine"
	"github.com/mauv0809/croquet-league/internal/events"
	"github.com/mauv0809/croquet-league/internal/reconcile"
	"github.com/mauv0809/croquet-league/internal/standings"
	"github.com/mauv0809/croquet-league/internal/submission"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const (
	GameLogFile  = "games.csv"
	EventsFile   = "events.json"
	FixturesFile = "fixtures.csv"
)

// FixturesHeader is the first row of the fixture progress CSV.
var FixturesHeader = []string{"League", "Completed", "Started", "Not started"}

// GameLogHeader is the first row of the game log CSV.
var GameLogHeader = []string{
	"Seq", "Timestamp", "League", "Date", "Venue", "Home team", "Away team",
	"Game", "Team A", "Team B", "Score A", "Score B", "Winner",
	"Player A", "Player B", "Handicap A", "Handicap B", "Peeling",
}

// TableFile is the file name used for a league's table.
func TableFile(leagueName string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(leagueName)), "-")
	slug = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '-'
		}
		return r
	}, slug)
	return slug + "-table.csv"
}

// WriteTableCSV writes a league table grid: a header row, then one row per
// team. Every row has the same number of fields.
func WriteTableCSV(w io.Writer, t standings.Table) error {
	if err := csv.NewWriter(w).WriteAll(t.Grid()); err != nil {
		return fmt.Errorf("failed to write table %s: %w", t.League, err)
	}
	return nil
}

// WriteFixturesCSV writes one row of fixture progress per league.
func WriteFixturesCSV(w io.Writer, tables []standings.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FixturesHeader); err != nil {
		return fmt.Errorf("failed to write fixtures: %w", err)
	}
	for _, t := range tables {
		err := cw.Write([]string{t.League, strconv.Itoa(t.Completed), strconv.Itoa(t.Started), strconv.Itoa(t.NotStarted)})
		if err != nil {
			return fmt.Errorf("failed to write fixtures: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGameLogCSV writes every recorded game in admission order.
func WriteGameLogCSV(w io.Writer, games []standings.GameResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(GameLogHeader); err != nil {
		return fmt.Errorf("failed to write game log: %w", err)
	}
	for _, g := range games {
		err := cw.Write([]string{
			strconv.Itoa(g.Seq), g.Timestamp,
			g.Key.League, g.Key.Date, g.Key.Venue, g.Key.HomeTeam, g.Key.AwayTeam,
			strconv.Itoa(g.Game), g.Pair.A, g.Pair.B,
			strconv.Itoa(g.ScoreA), strconv.Itoa(g.ScoreB), g.Winner(),
			g.PlayerA, g.PlayerB, g.HandicapA, g.HandicapB, g.Peeling,
		})
		if err != nil {
			return fmt.Errorf("failed to write game log: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type eventRecord struct {
	Fingerprint string `json:"fingerprint"`
	Summary     string `json:"summary"`
	events.Event
}

// WriteEventsJSON writes the events as an indented JSON array. Each entry
// carries its fingerprint and summary alongside the event fields.
func WriteEventsJSON(w io.Writer, evs []events.Event) error {
	records := make([]eventRecord, 0, len(evs))
	for _, e := range evs {
		records = append(records, eventRecord{Fingerprint: e.Fingerprint(), Summary: e.Summary(), Event: e})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to write events: %w", err)
	}
	return nil
}

// RenderTable prints a league table for the terminal.
func RenderTable(w io.Writer, t standings.Table) error {
	grid := t.Grid()
	align := make([]tw.Align, len(grid[0]))
	for i := range align {
		align[i] = tw.AlignCenter
	}
	align[0] = tw.AlignLeft

	cfg := tablewriter.Config{}
	cfg.Header.Alignment = tw.CellAlignment{PerColumn: align}
	cfg.Row.Alignment = tw.CellAlignment{PerColumn: align}
	table := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))

	table.Header(toAny(grid[0])...)
	for _, row := range grid[1:] {
		if err := table.Append(toAny(row)...); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s (%s)\n", t.League, t.Status()); err != nil {
		return err
	}
	return table.Render()
}

// RenderEvents prints one line per event.
func RenderEvents(w io.Writer, evs []events.Event) error {
	if len(evs) == 0 {
		return nil
	}
	table := tablewriter.NewTable(w)
	table.Header("Kind", "Fixture", "Detail")
	for _, e := range evs {
		if err := table.Append(string(e.Kind), e.Key.String(), e.Summary()); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderCorrections prints the loaded corrections in file order. Fields are
// shown as sorted column=value pairs.
func RenderCorrections(w io.Writer, cs []submission.Correction) error {
	if len(cs) == 0 {
		return nil
	}
	table := tablewriter.NewTable(w)
	table.Header("Line", "Timestamp", "Op", "Fields")
	for _, c := range cs {
		fields := make([]string, 0, len(c.Fields))
		for k, v := range c.Fields {
			fields = append(fields, k+"="+v)
		}
		sort.Strings(fields)
		if err := table.Append(strconv.Itoa(c.Line), c.Timestamp, string(c.Op), strings.Join(fields, "; ")); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderCorrectionIssues prints corrections that were discarded or never used.
func RenderCorrectionIssues(w io.Writer, issues []submission.CorrectionIssue) error {
	if len(issues) == 0 {
		return nil
	}
	table := tablewriter.NewTable(w)
	table.Header("Issue", "Line", "Timestamp", "Detail")
	for _, i := range issues {
		line := ""
		if i.Line > 0 {
			line = strconv.Itoa(i.Line)
		}
		if err := table.Append(string(i.Kind), line, i.Timestamp, i.Detail); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderSummary prints the counts of a run, one per line.
func RenderSummary(w io.Writer, s engine.Summary) error {
	table := tablewriter.NewTable(w)
	table.Header("Count", "Value")
	rows := [][]any{
		{"Submissions", s.Submissions},
		{"Corrections", s.Corrections},
		{"Updated", s.Updated},
		{"Deleted", s.Deleted},
		{"Unused corrections", s.Unapplied},
		{"Fixtures", s.Fixtures},
		{"Confirmed", s.Outcomes[reconcile.StatusConfirmed]},
		{"Unconfirmed", s.Outcomes[reconcile.StatusUnconfirmed]},
		{"Captain mismatches", s.Outcomes[reconcile.StatusCaptainMismatch]},
		{"Data conflicts", s.Outcomes[reconcile.StatusDataConflict]},
		{"Over-reported", s.Outcomes[reconcile.StatusOverReported]},
		{"Unexpected fixtures", s.Unexpected},
		{"Games recorded", s.Games},
		{"Games rejected", s.Rejected},
		{"Events", s.Events},
	}
	for _, r := range rows {
		if err := table.Append(r...); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteAll writes every output file of a run into dir, creating it if needed.
func WriteAll(dir string, res engine.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	for _, t := range res.Tables {
		if err := writeFile(filepath.Join(dir, TableFile(t.League)), func(w io.Writer) error {
			return WriteTableCSV(w, t)
		}); err != nil {
			return err
		}
	}
	if err := writeFile(filepath.Join(dir, FixturesFile), func(w io.Writer) error {
		return WriteFixturesCSV(w, res.Tables)
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, GameLogFile), func(w io.Writer) error {
		return WriteGameLogCSV(w, res.GameLog)
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, EventsFile), func(w io.Writer) error {
		return WriteEventsJSON(w, res.Events)
	}); err != nil {
		return err
	}
	log.Info("Wrote reports", "dir", dir, "tables", len(res.Tables), "games", len(res.GameLog), "events", len(res.Events))
	return nil
}

// Digest hashes the table and game log CSVs. Two runs with the same standings
// have the same digest.
func Digest(res engine.Result) (string, error) {
	h := sha256.New()
	for _, t := range res.Tables {
		if err := WriteTableCSV(h, t); err != nil {
			return "", err
		}
	}
	if err := WriteGameLogCSV(h, res.GameLog); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func toAny(row []string) []any {
	out := make([]any, len(row))
	for i, c := range row {
		out[i] = c
	}
	return out
}
