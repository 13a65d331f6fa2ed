package submission

import (
	"fmt"
	"strings"
)

type gameSlot struct {
	game  int
	field GameField
}

// gameColumns maps every game column name to its slot.
var gameColumns = func() map[string]gameSlot {
	m := make(map[string]gameSlot, MaxGames*len(gameFieldLabels))
	for g := 1; g <= MaxGames; g++ {
		for _, f := range GameFields() {
			m[GameColumn(f, g)] = gameSlot{game: g, field: f}
		}
	}
	return m
}()

// Columns returns every column a submission record can carry, in a stable order.
func Columns() []string {
	cols := append([]string{}, RequiredColumns...)
	for g := 1; g <= MaxGames; g++ {
		for _, f := range []GameField{HomePlayer, HomeHandicap, HomeHoops, AwayPlayer, AwayHandicap, AwayHoops, Peeling} {
			cols = append(cols, GameColumn(f, g))
		}
	}
	return cols
}

// IsCorrectable reports whether a correction may overwrite the named column.
// The timestamp identifies the submission and is never correctable.
func IsCorrectable(column string) bool {
	if column == ColTimestamp {
		return false
	}
	if _, ok := gameColumns[column]; ok {
		return true
	}
	for _, c := range RequiredColumns {
		if c == column {
			return true
		}
	}
	return false
}

// FromRecord builds a Submission from a column-name to value mapping.
// Columns the record does not know are ignored; missing columns read as empty.
func FromRecord(rec map[string]string) Submission {
	var s Submission
	for col, val := range rec {
		if p := s.field(col); p != nil {
			*p = strings.TrimSpace(val)
		}
	}
	return s
}

// Record returns the submission as one value per Columns entry, the inverse
// of FromRecord.
func (s Submission) Record() []string {
	cols := Columns()
	row := make([]string, len(cols))
	for i, c := range cols {
		row[i] = *s.field(c)
	}
	return row
}

// Key returns the fixture this submission reports on.
func (s Submission) Key() FixtureKey {
	return FixtureKey{
		League:   s.League,
		Date:     s.Date,
		Venue:    s.Venue,
		HomeTeam: s.HomeTeam,
		AwayTeam: s.AwayTeam,
	}
}

// Value returns a game field of the given 1-based game.
func (g Game) Value(f GameField) string {
	switch f {
	case HomeHoops:
		return g.HomeHoops
	case AwayHoops:
		return g.AwayHoops
	case HomePlayer:
		return g.HomePlayer
	case AwayPlayer:
		return g.AwayPlayer
	case HomeHandicap:
		return g.HomeHandicap
	case AwayHandicap:
		return g.AwayHandicap
	case Peeling:
		return g.Peeling
	}
	return ""
}

// Empty reports whether the slot holds no game. A slot without a home hoop
// score ends the list of played games.
func (g Game) Empty() bool {
	return strings.TrimSpace(g.HomeHoops) == ""
}

// Played returns the games up to, not including, the first empty slot.
func (s Submission) Played() []Game {
	games := make([]Game, 0, MaxGames)
	for _, g := range s.Games {
		if g.Empty() {
			break
		}
		games = append(games, g)
	}
	return games
}

// With returns a copy of s with the named column overwritten. The receiver is
// left untouched.
func (s Submission) With(column, value string) (Submission, error) {
	if !IsCorrectable(column) {
		return s, fmt.Errorf("%w: %q", ErrUnknownField, column)
	}
	out := s
	*out.field(column) = strings.TrimSpace(value)
	return out, nil
}

func (s *Submission) field(column string) *string {
	switch column {
	case ColTimestamp:
		return &s.Timestamp
	case ColReporter:
		return &s.Reporter
	case ColLeague:
		return &s.League
	case ColDate:
		return &s.Date
	case ColVenue:
		return &s.Venue
	case ColHomeTeam:
		return &s.HomeTeam
	case ColAwayTeam:
		return &s.AwayTeam
	case ColCounterpart:
		return &s.Counterpart
	}
	slot, ok := gameColumns[column]
	if !ok {
		return nil
	}
	g := &s.Games[slot.game-1]
	switch slot.field {
	case HomeHoops:
		return &g.HomeHoops
	case AwayHoops:
		return &g.AwayHoops
	case HomePlayer:
		return &g.HomePlayer
	case AwayPlayer:
		return &g.AwayPlayer
	case HomeHandicap:
		return &g.HomeHandicap
	case AwayHandicap:
		return &g.AwayHandicap
	case Peeling:
		return &g.Peeling
	}
	return nil
}
