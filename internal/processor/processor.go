package processor

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/config"
	"github.com/mauv0809/croquet-league/internal/engine"
	"github.com/mauv0809/croquet-league/internal/events"
	"github.com/mauv0809/croquet-league/internal/ledger"
	"github.com/mauv0809/croquet-league/internal/metrics"
	"github.com/mauv0809/croquet-league/internal/pubsub"
	"github.com/mauv0809/croquet-league/internal/report"
)

// New creates a new Processor. pubsub may be nil, in which case events are
// only sent through the notifier.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, contacts events.Contacts, topic string) *Processor {
	return &Processor{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		contacts: contacts,
		topic:    topic,
		now:      time.Now,
	}
}

// Process runs the engine over in. With flags.Notify set, every event not
// already in the ledger is dispatched and league standings are posted. The run
// and its dispatched events are recorded unless flags.DryRun is set.
func (p *Processor) Process(in engine.Input, opts engine.Options, flags config.RunFlags) (Run, error) {
	started := p.now()
	run := Run{ID: ledger.NewRunID()}
	log.Info("Starting run", "run", run.ID, "notify", flags.Notify, "dryRun", flags.DryRun)

	run.Result = engine.Run(in, opts)
	p.recordMetrics(run.Result)

	digest, err := report.Digest(run.Result)
	if err != nil {
		return run, fmt.Errorf("failed to compute digest: %w", err)
	}
	run.Digest = digest

	run.Previous, err = p.store.LastRun()
	if err != nil {
		return run, fmt.Errorf("failed to read last run: %w", err)
	}
	if !run.Changed() {
		log.Info("Standings unchanged since last run", "previous", run.Previous.ID, "digest", run.Digest)
	}

	if flags.Notify {
		if err := p.dispatch(&run, flags.DryRun); err != nil {
			return run, err
		}
	}

	finished := p.now()
	p.metrics.ObserveRunDuration(finished.Sub(started).Seconds())
	p.metrics.SetLastRun(float64(finished.Unix()))

	if flags.DryRun {
		log.Info("[Dry Run] Not recording run", "run", run.ID, "digest", run.Digest)
		return run, nil
	}
	err = p.store.RecordRun(ledger.Run{
		ID:          run.ID,
		StartedAt:   started,
		FinishedAt:  finished,
		Submissions: run.Result.Summary.Submissions,
		Confirmed:   run.Result.Summary.Admitted,
		Games:       run.Result.Summary.Games,
		Events:      run.Result.Summary.Events,
		Notified:    run.Sent,
		Digest:      run.Digest,
	})
	if err != nil {
		return run, fmt.Errorf("failed to record run: %w", err)
	}
	log.Info("Run finished", "run", run.ID, "digest", run.Digest, "sent", run.Sent, "alreadyNotified", run.AlreadyNotified, "failed", run.Failed)
	return run, nil
}

func (p *Processor) recordMetrics(res engine.Result) {
	s := res.Summary
	p.metrics.AddSubmissions(s.Submissions)
	p.metrics.AddCorrections("updated", s.Updated)
	p.metrics.AddCorrections("deleted", s.Deleted)
	for kind, n := range s.IssuesByKind {
		p.metrics.AddCorrections(string(kind), n)
	}
	for status, n := range s.Outcomes {
		p.metrics.AddOutcomes(string(status), n)
	}
	for _, e := range res.Events {
		p.metrics.IncEvent(string(e.Kind))
	}
	p.metrics.AddGames(s.Games)
}

// dispatch sends every event the ledger has not seen. A failed delivery is
// counted and left unmarked so the next run retries it.
func (p *Processor) dispatch(run *Run, dryRun bool) error {
	for _, ev := range run.Result.Events {
		fp := ev.Fingerprint()
		done, err := p.store.IsNotified(fp)
		if err != nil {
			return fmt.Errorf("failed to check ledger: %w", err)
		}
		if done {
			run.AlreadyNotified++
			log.Debug("Event already notified", "kind", ev.Kind, "fixture", ev.Key, "fingerprint", fp)
			continue
		}

		recipients := ev.Addresses(p.contacts)
		if err := p.notifier.SendEvent(ev, recipients, dryRun); err != nil {
			run.Failed++
			log.Error("Failed to send event", "kind", ev.Kind, "fixture", ev.Key, "error", err)
			continue
		}
		if err := p.publish(run.ID, ev, recipients, dryRun); err != nil {
			run.Failed++
			continue
		}
		run.Sent++

		if dryRun {
			continue
		}
		if err := p.store.MarkNotified(run.ID, ev); err != nil {
			return fmt.Errorf("failed to mark event notified: %w", err)
		}
	}

	for _, t := range run.Result.Tables {
		if err := p.notifier.SendStandings(t, dryRun); err != nil {
			log.Error("Failed to send standings", "league", t.League, "error", err)
			continue
		}
		run.Standings++
	}
	if err := p.notifier.SendRunSummary(run.ID, run.Result.Summary, dryRun); err != nil {
		log.Error("Failed to send run summary", "run", run.ID, "error", err)
	}
	return nil
}

func (p *Processor) publish(runID string, ev events.Event, recipients []string, dryRun bool) error {
	if p.pubsub == nil || p.topic == "" {
		return nil
	}
	msg := pubsub.NewEventMessage(runID, ev, recipients)
	if dryRun {
		log.Info("[Dry Run] Would publish event", "topic", p.topic, "kind", msg.Kind, "fixture", ev.Key)
		return nil
	}
	if err := p.pubsub.SendMessage(p.topic, msg); err != nil {
		p.metrics.IncNotifFailed(pubsub.Channel)
		log.Error("Failed to publish event", "topic", p.topic, "kind", msg.Kind, "error", err)
		return err
	}
	p.metrics.IncNotifSent(pubsub.Channel)
	return nil
}
