package submission

import (
	"errors"
	"fmt"
)

// Column names of the flat submission record.
const (
	ColTimestamp   = "Timestamp"
	ColReporter    = "Email address"
	ColLeague      = "League"
	ColDate        = "Date"
	ColVenue       = "Venue"
	ColHomeTeam    = "Home team"
	ColAwayTeam    = "Away team"
	ColCounterpart = "Email of opponents captain"
)

// MaxGames is the number of game slots a submission can carry.
const MaxGames = 4

// RequiredColumns must be present in every submission stream.
var RequiredColumns = []string{
	ColTimestamp, ColReporter, ColLeague, ColDate, ColVenue, ColHomeTeam, ColAwayTeam, ColCounterpart,
}

// ErrUnknownField is returned when a correction names a field the record does not have.
var ErrUnknownField = errors.New("unknown submission field")

// GameField identifies one field of a game slot. The declaration order is the
// order in which two reports of the same fixture are compared.
type GameField int

const (
	HomeHoops GameField = iota
	AwayHoops
	HomePlayer
	AwayPlayer
	HomeHandicap
	AwayHandicap
	Peeling
)

var gameFieldLabels = [...]string{
	HomeHoops:    "Home player hoops scored",
	AwayHoops:    "Away player hoops scored",
	HomePlayer:   "Home player name",
	AwayPlayer:   "Away player name",
	HomeHandicap: "Home player handicap",
	AwayHandicap: "Away player handicap",
	Peeling:      "Peeling",
}

func (f GameField) String() string {
	if f < 0 || int(f) >= len(gameFieldLabels) {
		return fmt.Sprintf("GameField(%d)", int(f))
	}
	return gameFieldLabels[f]
}

// GameFields returns every game field in comparison order.
func GameFields() []GameField {
	return []GameField{HomeHoops, AwayHoops, HomePlayer, AwayPlayer, HomeHandicap, AwayHandicap, Peeling}
}

// GameColumn returns the record column holding field f of the given 1-based game.
// The first game uses the bare label, later games append their number.
func GameColumn(f GameField, game int) string {
	if game <= 1 {
		return f.String()
	}
	return fmt.Sprintf("%s %d", f, game)
}

// FixtureKey identifies one real-world match.
type FixtureKey struct {
	League   string `json:"league"`
	Date     string `json:"date"`
	Venue    string `json:"venue"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

func (k FixtureKey) String() string {
	return fmt.Sprintf("%s %s at %s: %s v %s", k.League, k.Date, k.Venue, k.HomeTeam, k.AwayTeam)
}

// Game is one individual game slot of a submission. Values are kept exactly as
// reported; scores are parsed only when the fixture reaches the standings.
type Game struct {
	HomePlayer   string `json:"home_player"`
	HomeHandicap string `json:"home_handicap"`
	HomeHoops    string `json:"home_hoops"`
	AwayPlayer   string `json:"away_player"`
	AwayHandicap string `json:"away_handicap"`
	AwayHoops    string `json:"away_hoops"`
	Peeling      string `json:"peeling"`
}

// Submission is one captain's report of one fixture.
type Submission struct {
	Timestamp   string         `json:"timestamp"`
	League      string         `json:"league"`
	Date        string         `json:"date"`
	Venue       string         `json:"venue"`
	HomeTeam    string         `json:"home_team"`
	AwayTeam    string         `json:"away_team"`
	Reporter    string         `json:"reporter"`
	Counterpart string         `json:"counterpart"`
	Games       [MaxGames]Game `json:"games"`
}
