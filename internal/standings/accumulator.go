package standings

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/league"
	"github.com/mauv0809/croquet-league/internal/submission"
)

// Accumulator folds confirmed fixtures into per-pair tallies and a game log.
type Accumulator struct {
	registry   *league.Registry
	records    map[string]map[league.Pair]*PairRecord
	log        []GameResult
	rejections []Rejection
}

// NewAccumulator seeds an empty tally for every expected fixture of every league.
func NewAccumulator(registry *league.Registry) *Accumulator {
	a := &Accumulator{
		registry: registry,
		records:  make(map[string]map[league.Pair]*PairRecord),
	}
	for _, name := range registry.Names() {
		l, _ := registry.League(name)
		recs := make(map[league.Pair]*PairRecord)
		for _, f := range l.Fixtures() {
			recs[f.Pair] = &PairRecord{Fixture: f}
		}
		a.records[name] = recs
	}
	return a
}

// Add records the played games of a confirmed fixture. A fixture that is not
// expected by the registry records nothing and returns the violation. Drawn
// or unreadable games are skipped and returned as rejections.
func (a *Accumulator) Add(s submission.Submission) ([]Rejection, *league.Violation) {
	key := s.Key()
	f, v := a.registry.Validate(key)
	if v != nil {
		log.Warn("Unexpected fixture", "fixture", key, "reason", v.Kind)
		return nil, v
	}
	rec := a.records[key.League][f.Pair]
	_, swapped := league.NewPair(key.HomeTeam, key.AwayTeam)

	var rejected []Rejection
	for i, g := range s.Played() {
		home, herr := parseHoops(g.HomeHoops)
		away, aerr := parseHoops(g.AwayHoops)
		reason := RejectReason("")
		switch {
		case herr != nil || aerr != nil:
			reason = RejectInvalidScore
		case home == away:
			reason = RejectDrawn
		}
		if reason != "" {
			log.Warn("Game not recorded", "fixture", key, "game", i+1, "reason", reason, "home", g.HomeHoops, "away", g.AwayHoops)
			rejected = append(rejected, Rejection{
				Reason:      reason,
				Key:         key,
				Game:        i + 1,
				HomeHoops:   g.HomeHoops,
				AwayHoops:   g.AwayHoops,
				Reporter:    s.Reporter,
				Counterpart: s.Counterpart,
			})
			continue
		}

		gr := GameResult{
			Seq:       len(a.log) + 1,
			Timestamp: s.Timestamp,
			Key:       key,
			Pair:      f.Pair,
			Game:      i + 1,
			ScoreA:    home,
			ScoreB:    away,
			PlayerA:   g.HomePlayer,
			PlayerB:   g.AwayPlayer,
			HandicapA: g.HomeHandicap,
			HandicapB: g.AwayHandicap,
			Peeling:   g.Peeling,
		}
		if swapped {
			gr.ScoreA, gr.ScoreB = away, home
			gr.PlayerA, gr.PlayerB = g.AwayPlayer, g.HomePlayer
			gr.HandicapA, gr.HandicapB = g.AwayHandicap, g.HomeHandicap
		}
		a.log = append(a.log, gr)

		rec.Recorded++
		if gr.ScoreA > gr.ScoreB {
			rec.WinsA++
		} else {
			rec.WinsB++
		}
	}
	a.rejections = append(a.rejections, rejected...)
	return rejected, nil
}

// GameLog returns every recorded game in the order fixtures were added.
func (a *Accumulator) GameLog() []GameResult {
	return append([]GameResult{}, a.log...)
}

// Rejections returns every game that was not recorded.
func (a *Accumulator) Rejections() []Rejection {
	return append([]Rejection{}, a.rejections...)
}

// Tables returns the table of every league in configured order.
func (a *Accumulator) Tables() []Table {
	names := a.registry.Names()
	tables := make([]Table, 0, len(names))
	for _, name := range names {
		t, _ := a.Table(name)
		tables = append(tables, t)
	}
	return tables
}

// Table computes the named league's table.
func (a *Accumulator) Table(name string) (Table, bool) {
	l, ok := a.registry.League(name)
	if !ok {
		return Table{}, false
	}
	recs := a.records[name]
	t := Table{League: name, Teams: l.Teams()}

	for _, f := range l.Fixtures() {
		rec := *recs[f.Pair]
		t.Pairs = append(t.Pairs, rec)
		switch rec.State() {
		case Completed:
			t.Completed++
		case Started:
			t.Started++
		default:
			t.NotStarted++
		}
	}

	for _, team := range t.Teams {
		row := Row{Team: team, Cells: make([]string, len(t.Teams))}
		var net float64
		for j, opp := range t.Teams {
			if opp == team {
				row.Cells[j] = "-"
				continue
			}
			p, _ := league.NewPair(team, opp)
			rec := recs[p]
			won, lost := rec.WinsA, rec.WinsB
			if p.A != team {
				won, lost = lost, won
			}
			if rec.Recorded > 0 {
				row.Cells[j] = fmt.Sprintf("%d-%d", won, lost)
				net += float64(won-lost) / float64(rec.Fixture.Planned)
			}
			if !rec.Decided() {
				continue
			}
			row.Played++
			switch {
			case won > lost:
				row.Points += 2
			case won == lost:
				row.Points++
			}
		}
		row.NetGames = round2(net)
		t.Rows = append(t.Rows, row)
	}
	return t, true
}

// Status summarises fixture progress, e.g. "3 completed, 1 started, 2 not started".
func (t Table) Status() string {
	return fmt.Sprintf("%d completed, %d started, %d not started", t.Completed, t.Started, t.NotStarted)
}

// Ranking returns the rows ordered by points, then net games, then team name.
func (t Table) Ranking() []Row {
	rows := append([]Row{}, t.Rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].NetGames != rows[j].NetGames {
			return rows[i].NetGames > rows[j].NetGames
		}
		return rows[i].Team < rows[j].Team
	})
	return rows
}

// Grid returns the table as rows of strings: a header naming every team, one
// row per team, and trailing played/points/net-games columns.
func (t Table) Grid() [][]string {
	header := append([]string{"Team"}, t.Teams...)
	header = append(header, "Played", "Points", "Net games")
	grid := [][]string{header}
	for _, r := range t.Rows {
		line := append([]string{r.Team}, r.Cells...)
		line = append(line, strconv.Itoa(r.Played), strconv.Itoa(r.Points), strconv.FormatFloat(r.NetGames, 'f', 2, 64))
		grid = append(grid, line)
	}
	return grid
}

func parseHoops(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative score %d", n)
	}
	return n, nil
}

func round2(x float64) float64 {
	r := math.Round(x*100) / 100
	if r == 0 {
		return 0
	}
	return r
}
