package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/engine"
	"github.com/mauv0809/croquet-league/internal/events"
	"github.com/mauv0809/croquet-league/internal/metrics"
	"github.com/mauv0809/croquet-league/internal/notifier"
	"github.com/mauv0809/croquet-league/internal/reconcile"
	"github.com/mauv0809/croquet-league/internal/standings"
	"github.com/slack-go/slack"
)

// Channel is the metrics label for Slack deliveries.
const Channel = "slack"

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts run results to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncNotifFailed(Channel)
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent(Channel)
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendEvent(ev events.Event, recipients []string, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatEvent(ev, recipients), dryRun)
	return err
}

func (s *Notifier) SendStandings(t standings.Table, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatStandings(t), dryRun)
	return err
}

func (s *Notifier) SendRunSummary(runID string, sum engine.Summary, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatRunSummary(runID, sum), dryRun)
	return err
}

var eventTitles = map[events.Kind]string{
	events.KindMissingReport:       ":hourglass: Waiting for the second report",
	events.KindCaptainMismatch:     ":busts_in_silhouette: Captains do not match",
	events.KindDataConflict:        ":warning: Reports disagree",
	events.KindUnexpectedFixture:   ":question: Unexpected fixture",
	events.KindDuplicateSubmission: ":repeat: Too many reports",
	events.KindDrawnGame:           ":scales: Drawn game rejected",
	events.KindInvalidScore:        ":x: Unreadable score",
}

// formatEvent creates the Slack message for one event using Block Kit.
func (s *Notifier) formatEvent(ev events.Event, recipients []string) slack.Message {
	blocks := make([]slack.Block, 0)

	title, ok := eventTitles[ev.Kind]
	if !ok {
		title = string(ev.Kind)
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, true, false)))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*League:*\n%s", ev.Key.League), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Date:*\n%s", ev.Key.Date), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Venue:*\n%s", ev.Key.Venue), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Match:*\n%s v %s", ev.Key.HomeTeam, ev.Key.AwayTeam), false, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", ev.Summary(), false, false), nil, nil))

	if len(recipients) > 0 {
		ctx := slack.NewTextBlockObject("mrkdwn", "To: "+strings.Join(recipients, ", "), false, false)
		blocks = append(blocks, slack.NewContextBlock("", ctx))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatStandings creates the Slack message for a league table, ranked.
func (s *Notifier) formatStandings(t standings.Table) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf(":trophy: %s standings :trophy:", t.League), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var lines []string
	for i, r := range t.Ranking() {
		lines = append(lines, fmt.Sprintf("%d. *%s*  %d pts from %d  (net %.2f)", i+1, r.Team, r.Points, r.Played, r.NetGames))
	}
	if len(lines) == 0 {
		lines = append(lines, "No teams in this league yet.")
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))

	status := slack.NewTextBlockObject("plain_text", "Fixtures: "+t.Status(), false, false)
	blocks = append(blocks, slack.NewContextBlock("", status))

	return slack.NewBlockMessage(blocks...)
}

// formatRunSummary creates the Slack message with a run's counts.
func (s *Notifier) formatRunSummary(runID string, sum engine.Summary) slack.Message {
	blocks := make([]slack.Block, 0)

	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "League results processed", false, false)))

	field := func(label string, n int) *slack.TextBlockObject {
		return slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*%s:*\n%d", label, n), false, false)
	}
	fields := []*slack.TextBlockObject{
		field("Submissions", sum.Submissions),
		field("Fixtures", sum.Fixtures),
		field("Confirmed", sum.Outcomes[reconcile.StatusConfirmed]),
		field("Awaiting report", sum.Outcomes[reconcile.StatusUnconfirmed]),
		field("Games recorded", sum.Games),
		field("Events", sum.Events),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	if sum.Corrections > 0 {
		text := fmt.Sprintf("Corrections: %d read, %d updated, %d deleted, %d unused", sum.Corrections, sum.Updated, sum.Deleted, sum.Unapplied)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", text, false, false)))
	}
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", "Run `"+runID+"`", false, false)))

	return slack.NewBlockMessage(blocks...)
}
