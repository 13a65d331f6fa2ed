package league

import "errors"

// MaxLeagues is the number of leagues a roster can describe.
const MaxLeagues = 5

var (
	ErrTooManyLeagues = errors.New("too many leagues")
	ErrDuplicateTeam  = errors.New("duplicate team")
	ErrDuplicateName  = errors.New("duplicate league name")
)

// Team is one roster entry. Levels maps league name to the declared
// participation level; a level of 0 or 1 means the team is not in that league.
type Team struct {
	Name    string         `json:"name" yaml:"name"`
	Captain string         `json:"captain" yaml:"captain"`
	Email   string         `json:"email" yaml:"email"`
	Levels  map[string]int `json:"levels" yaml:"levels"`
}

// Pair is an unordered team pair stored in canonical (lexicographic) order.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewPair orders two team names canonically. Swapped is true when x sorts after y.
func NewPair(x, y string) (p Pair, swapped bool) {
	if y < x {
		return Pair{A: y, B: x}, true
	}
	return Pair{A: x, B: y}, false
}

// Has reports whether team is one side of the pair.
func (p Pair) Has(team string) bool {
	return p.A == team || p.B == team
}

// Fixture is the obligation between two teams of one league.
type Fixture struct {
	Pair      Pair `json:"pair"`
	Planned   int  `json:"planned"`
	Threshold int  `json:"threshold"`
}

// ViolationKind classifies why a fixture is not an expected one.
type ViolationKind string

const (
	ViolationUnknownLeague  ViolationKind = "unknown-league"
	ViolationUnknownTeam    ViolationKind = "unknown-team"
	ViolationSameTeam       ViolationKind = "same-team"
	ViolationUnexpectedPair ViolationKind = "unexpected-pair"
)

// Violation explains why a fixture key does not name an expected fixture.
type Violation struct {
	Kind   ViolationKind `json:"kind"`
	League string        `json:"league"`
	Team   string        `json:"team,omitempty"`
	Detail string        `json:"detail"`
}

func (v Violation) Error() string {
	return v.Detail
}
