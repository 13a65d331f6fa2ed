package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teamsCSV = `Team,Captain,Email,A Level
Alpha,Alice,alpha@x,2
Beta,Bert,beta@x,2
`

const resultsCSV = `Timestamp,League,Date,Venue,Home team,Away team,Email address,Email of opponents captain,Home player name,Home player hoops scored,Away player name,Away player hoops scored,Home player name 2,Home player hoops scored 2,Away player name 2,Away player hoops scored 2
2024/05/01 10:00:00,A Level,2024-05-01,Lawn 1,Alpha,Beta,alpha@x,beta@x,Ann,26,Bob,20,Art,26,Bea,3
2024/05/01 11:00:00,A Level,2024-05-01,Lawn 1,Alpha,Beta,beta@x,alpha@x,Ann,26,Bob,21,Art,26,Bea,3
`

const correctionsTxt = `# Bob's score was 20
"ts": "2024/05/01 11:00:00", "Away player hoops scored": "20"
"ts": "2024/01/01 00:00:00", "op": "delete"
`

func writeLeague(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"teams.csv":       teamsCSV,
		"results.csv":     resultsCSV,
		"corrections.txt": correctionsTxt,
		"league.yaml": `files:
  results: results.csv
  corrections: corrections.txt
  teams: teams.csv
leagues: [A Level]
contacts:
  rankings: rankings@league
`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return filepath.Join(dir, "league.yaml")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestStandingsCommand(t *testing.T) {
	path := writeLeague(t)

	out, err := execute(t, "standings", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "A Level (1 completed, 0 started, 0 not started)")
	assert.Contains(t, out, "2-0")

	_, err = execute(t, "standings", "Z Level", "--config", path)
	assert.ErrorContains(t, err, "unknown league")
}

func TestCorrectionsCommand(t *testing.T) {
	out, err := execute(t, "corrections", "--config", writeLeague(t))
	require.NoError(t, err)
	assert.Contains(t, out, "2 corrections: 1 updated, 0 deleted, 1 issues")
	assert.Contains(t, out, "Away player hoops scored=20")
	assert.Contains(t, out, "2024/01/01 00:00:00")
}

func TestCheckCommand(t *testing.T) {
	out, err := execute(t, "check", "--config", writeLeague(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Games recorded")
	assert.Contains(t, out, "unapplied")
}

func TestRunCommand(t *testing.T) {
	path := writeLeague(t)
	dir := filepath.Dir(path)
	t.Setenv("DB_NAME", filepath.Join(dir, "league.db"))
	t.Setenv("SLACK_BOT_TOKEN", "")
	t.Setenv("GCP_PROJECT", "")
	metricsPath := filepath.Join(dir, "league.prom")

	out, err := execute(t, "run", "--config", path, "--notify", "--metrics-file", metricsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "0 sent, 0 already notified, 0 failed")

	assert.NotContains(t, out, "unchanged")
	for _, name := range []string{"a-level-table.csv", "fixtures.csv", "games.csv", "events.json"} {
		_, err := os.Stat(filepath.Join(dir, "out", name))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(metricsPath)
	assert.NoError(t, err)

	m := regexp.MustCompile(`Run ([0-9a-f-]{36}):`).FindStringSubmatch(out)
	require.Len(t, m, 2)

	out, err = execute(t, "run", "--config", path, "--notify", "--metrics-file", metricsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Standings unchanged since run "+m[1])

	out, err = execute(t, "runs", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, m[1])
}
