package standings

import (
	"github.com/mauv0809/croquet-league/internal/league"
	"github.com/mauv0809/croquet-league/internal/submission"
)

// GameResult is one individual game of a confirmed fixture, with sides in
// canonical pair order.
type GameResult struct {
	Seq       int                   `json:"seq"`
	Timestamp string                `json:"timestamp"`
	Key       submission.FixtureKey `json:"fixture"`
	Pair      league.Pair           `json:"pair"`
	Game      int                   `json:"game"`
	ScoreA    int                   `json:"score_a"`
	ScoreB    int                   `json:"score_b"`
	PlayerA   string                `json:"player_a"`
	PlayerB   string                `json:"player_b"`
	HandicapA string                `json:"handicap_a"`
	HandicapB string                `json:"handicap_b"`
	Peeling   string                `json:"peeling"`
}

// Winner returns the team that won the game.
func (g GameResult) Winner() string {
	if g.ScoreA > g.ScoreB {
		return g.Pair.A
	}
	return g.Pair.B
}

// RejectReason explains why a game slot was not recorded.
type RejectReason string

const (
	RejectDrawn        RejectReason = "drawn"
	RejectInvalidScore RejectReason = "invalid-score"
)

// Rejection is a game slot of a confirmed fixture that was not recorded.
type Rejection struct {
	Reason      RejectReason          `json:"reason"`
	Key         submission.FixtureKey `json:"fixture"`
	Game        int                   `json:"game"`
	HomeHoops   string                `json:"home_hoops"`
	AwayHoops   string                `json:"away_hoops"`
	Reporter    string                `json:"reporter"`
	Counterpart string                `json:"counterpart"`
}

// PairState is how far a fixture has progressed.
type PairState string

const (
	NotStarted PairState = "not started"
	Started    PairState = "started"
	Completed  PairState = "completed"
)

// PairRecord tallies the recorded games between two teams.
type PairRecord struct {
	Fixture  league.Fixture `json:"fixture"`
	WinsA    int            `json:"wins_a"`
	WinsB    int            `json:"wins_b"`
	Recorded int            `json:"recorded"`
}

// State classifies the pair by its recorded games against the threshold.
func (p PairRecord) State() PairState {
	switch {
	case p.Recorded == 0:
		return NotStarted
	case p.Recorded < p.Fixture.Threshold:
		return Started
	default:
		return Completed
	}
}

// Decided reports whether the pair counts towards points.
func (p PairRecord) Decided() bool {
	return p.State() == Completed
}

// Row is one team's line of a league table.
type Row struct {
	Team     string   `json:"team"`
	Cells    []string `json:"cells"`
	Played   int      `json:"played"`
	Points   int      `json:"points"`
	NetGames float64  `json:"net_games"`
}

// Table is a league's team-by-team grid with trailing totals.
type Table struct {
	League     string       `json:"league"`
	Teams      []string     `json:"teams"`
	Rows       []Row        `json:"rows"`
	Pairs      []PairRecord `json:"pairs"`
	Completed  int          `json:"completed"`
	Started    int          `json:"started"`
	NotStarted int          `json:"not_started"`
}
