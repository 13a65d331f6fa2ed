// Package ingest reads the captain submission export, the correction file and
// the team roster into the types the engine works on.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/league"
	"github.com/mauv0809/croquet-league/internal/submission"
)

var (
	ErrMissingColumn       = errors.New("missing required column")
	ErrMalformedRoster     = errors.New("malformed roster")
	ErrMalformedCorrection = errors.New("malformed correction stream")
)

// Roster columns. Each configured league adds one column named after it.
const (
	ColTeam    = "Team"
	ColCaptain = "Captain"
	ColEmail   = "Email"
)

// ReadSubmissions reads a CSV export with a header row, one submission per row,
// preserving arrival order.
func ReadSubmissions(r io.Reader) ([]submission.Submission, error) {
	header, rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(header, submission.RequiredColumns...); err != nil {
		return nil, err
	}

	subs := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, submission.FromRecord(recordOf(header, row)))
	}
	log.Debug("Read submissions", "count", len(subs))
	return subs, nil
}

// ReadRoster reads the team roster. Every league in leagues must have a column;
// empty cells read as level 0.
func ReadRoster(r io.Reader, leagues []string) ([]league.Team, error) {
	header, rows, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRoster, err)
	}
	if err := requireColumns(header, append([]string{ColTeam}, leagues...)...); err != nil {
		return nil, err
	}

	teams := make([]league.Team, 0, len(rows))
	for i, row := range rows {
		rec := recordOf(header, row)
		t := league.Team{
			Name:    strings.TrimSpace(rec[ColTeam]),
			Captain: strings.TrimSpace(rec[ColCaptain]),
			Email:   strings.TrimSpace(rec[ColEmail]),
			Levels:  make(map[string]int, len(leagues)),
		}
		if t.Name == "" {
			return nil, fmt.Errorf("%w: row %d has no team name", ErrMalformedRoster, i+2)
		}
		for _, name := range leagues {
			cell := strings.TrimSpace(rec[name])
			if cell == "" {
				continue
			}
			lvl, err := strconv.Atoi(cell)
			if err != nil || lvl < 0 {
				return nil, fmt.Errorf("%w: row %d: level %q for %s", ErrMalformedRoster, i+2, cell, name)
			}
			t.Levels[name] = lvl
		}
		teams = append(teams, t)
	}
	log.Debug("Read roster", "teams", len(teams))
	return teams, nil
}

// ReadCorrections reads one correction per line. A line is either a JSON object
// or the bare key/value list of one, e.g.
//
//	"ts": "2024/05/01 10:00:00", "op": "update", "Venue": "Lawn 2"
//
// Blank lines and lines starting with # are skipped. A line that does not parse
// or a correction that cannot be kept is returned as an issue; only a failure
// to read the stream is an error. A correction without "op" is an update.
func ReadCorrections(r io.Reader) (*submission.CorrectionSet, []submission.CorrectionIssue, error) {
	set := submission.NewCorrectionSet()
	var issues []submission.CorrectionIssue

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		c, err := parseCorrection(text)
		if err != nil {
			log.Warn("Skipping unparsable correction", "line", line, "error", err)
			issues = append(issues, submission.CorrectionIssue{Kind: submission.IssueMalformed, Line: line, Detail: err.Error()})
			continue
		}
		c.Line = line
		if issue := set.Add(c); issue != nil {
			log.Warn("Discarding correction", "line", line, "issue", issue.Kind, "detail", issue.Detail)
			issues = append(issues, *issue)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedCorrection, err)
	}
	log.Debug("Read corrections", "count", set.Len(), "issues", len(issues))
	return set, issues, nil
}

func parseCorrection(text string) (submission.Correction, error) {
	if !strings.HasPrefix(text, "{") {
		text = "{" + text + "}"
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return submission.Correction{}, err
	}

	c := submission.Correction{Op: submission.OpUpdate, Fields: make(map[string]string)}
	for k, v := range raw {
		s, err := stringValue(v)
		if err != nil {
			return submission.Correction{}, fmt.Errorf("field %q: %w", k, err)
		}
		switch k {
		case "ts":
			c.Timestamp = s
		case "op":
			c.Op = submission.Op(strings.ToLower(s))
		default:
			c.Fields[k] = s
		}
	}
	return c, nil
}

func stringValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("unsupported value %v", v)
}

func readCSV(r io.Reader) ([]string, [][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	// Spreadsheet exports often start with a byte order mark.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	return header, records[1:], nil
}

func requireColumns(header []string, cols ...string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var missing []string
	for _, c := range cols {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

func recordOf(header, row []string) map[string]string {
	rec := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(row) {
			rec[h] = row[i]
		}
	}
	return rec
}
