package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/config"
	"github.com/mauv0809/croquet-league/internal/engine"
	"github.com/mauv0809/croquet-league/internal/ledger"
	"github.com/mauv0809/croquet-league/internal/metrics"
	"github.com/mauv0809/croquet-league/internal/processor"
	"github.com/mauv0809/croquet-league/internal/report"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	notify      bool
	dryRun      bool
	metricsFile string
	runID       string
	runsLimit   int
)

func init() {
	runCmd.Flags().BoolVar(&notify, "notify", false, "Dispatch new notices and post standings")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log notices instead of sending them and do not record the run")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write run metrics to this Prometheus textfile")
	notifiedCmd.Flags().StringVar(&runID, "run", "", "Only list notices sent during this run")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "Number of runs to list, 0 for all")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(correctionsCmd)
	rootCmd.AddCommand(notifiedCmd)
	rootCmd.AddCommand(runsCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconcile, write the tables and game log, and optionally notify",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		flags := config.RunFlags{Notify: notify, DryRun: dryRun, Verbose: verbose}

		in, err := loadInput(cfg.League)
		if err != nil {
			return err
		}
		db, teardown, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer teardown()

		registry := prometheus.NewRegistry()
		metricsSvc := metrics.NewService(registry)
		ps, err := newPubSub(cfg)
		if err != nil {
			return err
		}
		if ps != nil {
			defer ps.Close()
		}
		p := processor.New(ledger.New(db), newNotifier(cfg, metricsSvc), metricsSvc, ps, cfg.League.Contacts, cfg.PubSub.Topic)

		run, err := p.Process(in, options(cfg.League), flags)
		if err != nil {
			return err
		}
		if err := report.WriteAll(cfg.League.Output, run.Result); err != nil {
			return err
		}
		if metricsFile != "" {
			if err := metrics.WriteTextfile(metricsFile, registry); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if err := printResult(out, run.Result); err != nil {
			return err
		}
		fmt.Fprintf(out, "Run %s: %d sent, %d already notified, %d failed\n", run.ID, run.Sent, run.AlreadyNotified, run.Failed)
		if !run.Changed() {
			fmt.Fprintf(out, "Standings unchanged since run %s\n", run.Previous.ID)
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Reconcile and print notices without writing or sending anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, err := config.LoadLeague(configPath)
		if err != nil {
			return err
		}
		in, err := loadInput(lc)
		if err != nil {
			return err
		}
		res := engine.Run(in, options(lc))
		out := cmd.OutOrStdout()
		if err := report.RenderSummary(out, res.Summary); err != nil {
			return err
		}
		if err := report.RenderCorrectionIssues(out, res.CorrectionIssues); err != nil {
			return err
		}
		return report.RenderEvents(out, res.Events)
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings [league]",
	Short: "Print the league tables",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, err := config.LoadLeague(configPath)
		if err != nil {
			return err
		}
		in, err := loadInput(lc)
		if err != nil {
			return err
		}
		res := engine.Run(in, options(lc))
		out := cmd.OutOrStdout()
		found := false
		for _, t := range res.Tables {
			if len(args) == 1 && t.League != args[0] {
				continue
			}
			found = true
			if err := report.RenderTable(out, t); err != nil {
				return err
			}
		}
		if len(args) == 1 && !found {
			return fmt.Errorf("unknown league %q", args[0])
		}
		return nil
	},
}

var correctionsCmd = &cobra.Command{
	Use:   "corrections",
	Short: "List the loaded corrections and those that were discarded or matched no submission",
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, err := config.LoadLeague(configPath)
		if err != nil {
			return err
		}
		in, err := loadInput(lc)
		if err != nil {
			return err
		}
		res := engine.Run(in, options(lc))
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d corrections: %d updated, %d deleted, %d issues\n",
			res.Summary.Corrections, res.Summary.Updated, res.Summary.Deleted, len(res.CorrectionIssues))
		if err := report.RenderCorrections(out, in.Corrections.All()); err != nil {
			return err
		}
		return report.RenderCorrectionIssues(out, res.CorrectionIssues)
	},
}

var notifiedCmd = &cobra.Command{
	Use:   "notified",
	Short: "List notices already sent",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		db, teardown, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer teardown()

		notes, err := ledger.New(db).Notified(runID)
		if err != nil {
			return fmt.Errorf("failed to list notices: %w", err)
		}
		table := tablewriter.NewTable(cmd.OutOrStdout())
		table.Header("Sent", "Kind", "Fixture", "Run")
		for _, n := range notes {
			if err := table.Append(n.NotifiedAt.Format(time.DateTime), n.Kind, n.Fixture, n.RunID); err != nil {
				return err
			}
		}
		return table.Render()
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		db, teardown, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer teardown()

		runs, err := ledger.New(db).Runs(runsLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		table := tablewriter.NewTable(cmd.OutOrStdout())
		table.Header("Run", "Started", "Submissions", "Confirmed", "Games", "Events", "Notified", "Digest")
		for _, r := range runs {
			err := table.Append(r.ID, r.StartedAt.Format(time.DateTime), r.Submissions, r.Confirmed, r.Games, r.Events, r.Notified, r.Digest[:min(12, len(r.Digest))])
			if err != nil {
				return err
			}
		}
		return table.Render()
	},
}

func printResult(w io.Writer, res engine.Result) error {
	for _, t := range res.Tables {
		if err := report.RenderTable(w, t); err != nil {
			return err
		}
	}
	if err := report.RenderCorrectionIssues(w, res.CorrectionIssues); err != nil {
		return err
	}
	if err := report.RenderEvents(w, res.Events); err != nil {
		return err
	}
	log.Debug("Printed run result", "tables", len(res.Tables), "events", len(res.Events))
	return nil
}
