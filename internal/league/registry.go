package league

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/submission"
)

// League is one league's expected fixtures, built once by NewRegistry and
// never modified afterwards.
type League struct {
	name     string
	teams    []string
	fixtures map[Pair]Fixture
	order    []Pair
}

// Registry holds every league derived from a roster.
type Registry struct {
	leagues map[string]*League
	names   []string
	teams   map[string]Team
}

// Threshold is the number of recorded games that decides a fixture of the
// given planned length: a majority of the planned games.
func Threshold(planned int) int {
	return (planned + 2) / 2
}

// NewRegistry derives the expected fixtures of each named league from the
// roster. Every unordered pair of distinct teams with a level above 1 in a
// league owes one fixture, planned to the smaller of the two levels.
func NewRegistry(leagueNames []string, roster []Team) (*Registry, error) {
	if len(leagueNames) > MaxLeagues {
		return nil, fmt.Errorf("%w: %d configured, at most %d", ErrTooManyLeagues, len(leagueNames), MaxLeagues)
	}

	r := &Registry{
		leagues: make(map[string]*League, len(leagueNames)),
		teams:   make(map[string]Team, len(roster)),
	}
	for _, t := range roster {
		if _, dup := r.teams[t.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, t.Name)
		}
		r.teams[t.Name] = t
	}

	for _, name := range leagueNames {
		if _, dup := r.leagues[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		l := &League{name: name, fixtures: make(map[Pair]Fixture)}
		levels := make(map[string]int)
		for _, t := range roster {
			if lvl := t.Levels[name]; lvl > 1 {
				l.teams = append(l.teams, t.Name)
				levels[t.Name] = lvl
			}
		}
		sort.Strings(l.teams)
		for i, a := range l.teams {
			for _, b := range l.teams[i+1:] {
				planned := min(levels[a], levels[b])
				p := Pair{A: a, B: b}
				l.fixtures[p] = Fixture{Pair: p, Planned: planned, Threshold: Threshold(planned)}
				l.order = append(l.order, p)
			}
		}
		log.Debug("Registered league", "league", name, "teams", len(l.teams), "fixtures", len(l.order))
		r.leagues[name] = l
		r.names = append(r.names, name)
	}
	return r, nil
}

// Names returns the league names in configured order.
func (r *Registry) Names() []string {
	return append([]string{}, r.names...)
}

// League returns the named league.
func (r *Registry) League(name string) (*League, bool) {
	l, ok := r.leagues[name]
	return l, ok
}

// Team returns the roster entry of a team.
func (r *Registry) Team(name string) (Team, bool) {
	t, ok := r.teams[name]
	return t, ok
}

// Validate checks that a fixture key names an expected fixture. It returns the
// expected fixture, or the reason the key is not one.
func (r *Registry) Validate(key submission.FixtureKey) (Fixture, *Violation) {
	l, ok := r.leagues[key.League]
	if !ok {
		return Fixture{}, &Violation{Kind: ViolationUnknownLeague, League: key.League, Detail: fmt.Sprintf("league %q is not configured", key.League)}
	}
	if key.HomeTeam == key.AwayTeam {
		return Fixture{}, &Violation{Kind: ViolationSameTeam, League: key.League, Team: key.HomeTeam, Detail: fmt.Sprintf("%s cannot play itself", key.HomeTeam)}
	}
	for _, team := range []string{key.HomeTeam, key.AwayTeam} {
		if !l.HasTeam(team) {
			return Fixture{}, &Violation{Kind: ViolationUnknownTeam, League: key.League, Team: team, Detail: fmt.Sprintf("team %q is not in %s", team, key.League)}
		}
	}
	f, ok := l.Fixture(key.HomeTeam, key.AwayTeam)
	if !ok {
		return Fixture{}, &Violation{Kind: ViolationUnexpectedPair, League: key.League, Detail: fmt.Sprintf("%s v %s is not a %s fixture", key.HomeTeam, key.AwayTeam, key.League)}
	}
	return f, nil
}

// Name returns the league name.
func (l *League) Name() string {
	return l.name
}

// Teams returns the participating teams in lexicographic order.
func (l *League) Teams() []string {
	return append([]string{}, l.teams...)
}

// HasTeam reports whether team plays in this league.
func (l *League) HasTeam(team string) bool {
	i := sort.SearchStrings(l.teams, team)
	return i < len(l.teams) && l.teams[i] == team
}

// Fixture returns the expected fixture between two teams, in either order.
func (l *League) Fixture(x, y string) (Fixture, bool) {
	p, _ := NewPair(x, y)
	f, ok := l.fixtures[p]
	return f, ok
}

// Fixtures returns every expected fixture in canonical pair order.
func (l *League) Fixtures() []Fixture {
	out := make([]Fixture, 0, len(l.order))
	for _, p := range l.order {
		out = append(out, l.fixtures[p])
	}
	return out
}
