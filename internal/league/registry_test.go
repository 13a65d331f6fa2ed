package league

import (
	"testing"

	"github.com/mauv0809/croquet-league/internal/submission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roster() []Team {
	return []Team{
		{Name: "Beta", Levels: map[string]int{"A Level": 4, "B Level": 2}},
		{Name: "Alpha", Levels: map[string]int{"A Level": 3}},
		{Name: "Gamma", Levels: map[string]int{"A Level": 4, "B Level": 1}},
		{Name: "Delta", Levels: map[string]int{"B Level": 2}},
	}
}

func TestThreshold(t *testing.T) {
	for planned, want := range map[int]int{2: 2, 3: 2, 4: 3} {
		assert.Equal(t, want, Threshold(planned), "planned %d", planned)
	}
}

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry([]string{"A Level", "B Level"}, roster())
	require.NoError(t, err)
	assert.Equal(t, []string{"A Level", "B Level"}, r.Names())

	a, ok := r.League("A Level")
	require.True(t, ok)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, a.Teams())
	assert.Equal(t, []Fixture{
		{Pair: Pair{A: "Alpha", B: "Beta"}, Planned: 3, Threshold: 2},
		{Pair: Pair{A: "Alpha", B: "Gamma"}, Planned: 3, Threshold: 2},
		{Pair: Pair{A: "Beta", B: "Gamma"}, Planned: 4, Threshold: 3},
	}, a.Fixtures())

	b, ok := r.League("B Level")
	require.True(t, ok)
	assert.Equal(t, []string{"Beta", "Delta"}, b.Teams(), "level 1 is not participating")

	f, ok := b.Fixture("Delta", "Beta")
	require.True(t, ok)
	assert.Equal(t, 2, f.Planned)
	assert.Equal(t, 2, f.Threshold)
}

func TestNewRegistry_Errors(t *testing.T) {
	_, err := NewRegistry([]string{"1", "2", "3", "4", "5", "6"}, nil)
	assert.ErrorIs(t, err, ErrTooManyLeagues)

	_, err = NewRegistry([]string{"A Level"}, append(roster(), Team{Name: "Alpha"}))
	assert.ErrorIs(t, err, ErrDuplicateTeam)

	_, err = NewRegistry([]string{"A Level", "A Level"}, roster())
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestValidate(t *testing.T) {
	r, err := NewRegistry([]string{"A Level", "B Level"}, roster())
	require.NoError(t, err)

	key := func(league, home, away string) submission.FixtureKey {
		return submission.FixtureKey{League: league, Date: "2024-05-01", Venue: "V", HomeTeam: home, AwayTeam: away}
	}

	f, v := r.Validate(key("A Level", "Gamma", "Beta"))
	require.Nil(t, v)
	assert.Equal(t, Pair{A: "Beta", B: "Gamma"}, f.Pair)

	tests := []struct {
		name string
		key  submission.FixtureKey
		want ViolationKind
	}{
		{"unknown league", key("Z Level", "Alpha", "Beta"), ViolationUnknownLeague},
		{"same team", key("A Level", "Alpha", "Alpha"), ViolationSameTeam},
		{"team not in league", key("B Level", "Alpha", "Beta"), ViolationUnknownTeam},
		{"misspelt team", key("A Level", "Alpha", "Betta"), ViolationUnknownTeam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, v := r.Validate(tt.key)
			require.NotNil(t, v)
			assert.Equal(t, tt.want, v.Kind)
			assert.NotEmpty(t, v.Error())
		})
	}
}

func TestNewPair(t *testing.T) {
	p, swapped := NewPair("Beta", "Alpha")
	assert.True(t, swapped)
	assert.Equal(t, Pair{A: "Alpha", B: "Beta"}, p)
	assert.True(t, p.Has("Beta"))

	_, swapped = NewPair("Alpha", "Beta")
	assert.False(t, swapped)
}
