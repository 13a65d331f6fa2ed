package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-yaml"
	"github.com/mauv0809/croquet-league/internal/config"
	"github.com/mauv0809/croquet-league/internal/events"
	"github.com/mauv0809/croquet-league/internal/ingest"
	"github.com/mauv0809/croquet-league/internal/league"
	"github.com/mauv0809/croquet-league/internal/submission"
)

var teamNames = []string{"Bowdon", "Chester", "Ellesmere", "Fylde", "Hamptworth", "Nottingham", "Southport", "Wrest Park"}

// season is a generated demo season.
type season struct {
	leagues     []string
	teams       []league.Team
	submissions []submission.Submission
	corrections []string
}

// generate builds a season of nTeams teams. Every expected fixture is played
// and reported by both captains, except that roughly one in eight fixtures is
// reported only once and one second report carries a typo that a correction fixes.
func generate(rng *rand.Rand, nTeams int) season {
	s := season{leagues: []string{"A Level", "B Level"}}
	for i := 0; i < nTeams && i < len(teamNames); i++ {
		name := teamNames[i]
		s.teams = append(s.teams, league.Team{
			Name:    name,
			Captain: name + " Captain",
			Email:   fmt.Sprintf("captain%d@example.org", i+1),
			Levels:  map[string]int{"A Level": 2 + rng.Intn(3), "B Level": rng.Intn(4)},
		})
	}

	ts := 0
	nextTS := func() string {
		ts++
		return fmt.Sprintf("2024/05/%02d %02d:%02d:00", 1+ts/96, (ts/4)%24, (ts%4)*15)
	}
	registry, err := league.NewRegistry(s.leagues, s.teams)
	if err != nil {
		log.Fatalf("Failed to build registry: %s", err)
	}
	typoDone := false
	for _, name := range registry.Names() {
		l, _ := registry.League(name)
		for n, f := range l.Fixtures() {
			home, away := f.Pair.A, f.Pair.B
			if rng.Intn(2) == 0 {
				home, away = away, home
			}
			homeTeam, _ := registry.Team(home)
			awayTeam, _ := registry.Team(away)

			sub := submission.Submission{
				League:      name,
				Date:        fmt.Sprintf("2024-06-%02d", 1+n%28),
				Venue:       home,
				HomeTeam:    home,
				AwayTeam:    away,
				Reporter:    homeTeam.Email,
				Counterpart: awayTeam.Email,
			}
			for g := 0; g < f.Planned; g++ {
				winner, loser := 26, rng.Intn(26)
				if rng.Intn(2) == 0 {
					winner, loser = loser, winner
				}
				sub.Games[g] = submission.Game{
					HomePlayer:   fmt.Sprintf("%s player %d", home, g+1),
					HomeHandicap: strconv.Itoa(rng.Intn(20)),
					HomeHoops:    strconv.Itoa(winner),
					AwayPlayer:   fmt.Sprintf("%s player %d", away, g+1),
					AwayHandicap: strconv.Itoa(rng.Intn(20)),
					AwayHoops:    strconv.Itoa(loser),
				}
			}
			sub.Timestamp = nextTS()
			s.submissions = append(s.submissions, sub)
			if rng.Intn(8) == 0 {
				continue
			}

			second := sub
			second.Timestamp = nextTS()
			second.Reporter, second.Counterpart = sub.Counterpart, sub.Reporter
			if !typoDone {
				typoDone = true
				second.Games[0].HomeHoops = sub.Games[0].AwayHoops
				s.corrections = append(s.corrections, fmt.Sprintf("%q: %q, %q: %q",
					"ts", second.Timestamp, submission.GameColumn(submission.HomeHoops, 1), sub.Games[0].HomeHoops))
			}
			s.submissions = append(s.submissions, second)
		}
	}
	return s
}

func (s season) write(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	teams := [][]string{append([]string{ingest.ColTeam, ingest.ColCaptain, ingest.ColEmail}, s.leagues...)}
	for _, t := range s.teams {
		row := []string{t.Name, t.Captain, t.Email}
		for _, l := range s.leagues {
			row = append(row, strconv.Itoa(t.Levels[l]))
		}
		teams = append(teams, row)
	}
	if err := writeCSV(filepath.Join(dir, "teams.csv"), teams); err != nil {
		return err
	}

	results := [][]string{submission.Columns()}
	for _, sub := range s.submissions {
		results = append(results, sub.Record())
	}
	if err := writeCSV(filepath.Join(dir, "results.csv"), results); err != nil {
		return err
	}

	body := "# Generated corrections\n"
	for _, c := range s.corrections {
		body += c + "\n"
	}
	if err := os.WriteFile(filepath.Join(dir, "corrections.txt"), []byte(body), 0o644); err != nil {
		return err
	}

	lc := config.LeagueConfig{
		Files:      config.FilesConfig{Results: "results.csv", Corrections: "corrections.txt", Teams: "teams.csv"},
		Output:     "out",
		Leagues:    s.leagues,
		Contacts:   events.Contacts{Rankings: "rankings@example.org", Observer: "observer@example.org"},
		Recipients: events.DefaultPolicy(),
	}
	data, err := yaml.Marshal(lc)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "league.yaml"), data, 0o644)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

func main() {
	dir := flag.String("out", "demo", "Directory to write the demo season into")
	nTeams := flag.Int("teams", 6, "Number of teams")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	log.Info("Generating demo season", "dir", *dir, "teams", *nTeams, "seed", *seed)
	s := generate(rand.New(rand.NewSource(*seed)), *nTeams)
	if err := s.write(*dir); err != nil {
		log.Fatalf("Failed to write demo season: %s", err)
	}
	log.Info("Demo season written", "submissions", len(s.submissions), "corrections", len(s.corrections))
}
