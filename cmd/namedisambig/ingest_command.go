package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"namedisambig/internal/ingest"
	"namedisambig/internal/logging"
	"namedisambig/internal/metrics"
	"namedisambig/internal/resolver"
	"namedisambig/internal/store"
	"namedisambig/internal/store/memory"
	"namedisambig/internal/textutil"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var dryRun bool
	var separator string

	cmd := &cobra.Command{
		Use:   "ingest FILE.csv",
		Short: "Resolve every author and recipient in a document index",
		Long: `Reads a CSV document index with a tid column and author/recipient
columns (au or au_person, rc or rc_person). Every name is resolved to a person
record and linked to its document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			parser, err := ctx.parser()
			if err != nil {
				return err
			}

			var st store.Store
			if dryRun {
				st = memory.New()
			} else {
				st, err = ctx.openStore(cmd.Context())
				if err != nil {
					return fmt.Errorf("open store: %w", err)
				}
			}
			defer st.Close()

			m := metrics.New()
			res, err := resolver.New(st, parser,
				resolver.WithLogger(logging.NewComponentLogger(logger, "resolver")),
				resolver.WithRecorder(m),
			)
			if err != nil {
				return err
			}

			sep := cfg.Ingest.NameSeparator
			if strings.TrimSpace(separator) != "" {
				sep = separator
			}
			in, err := ingest.New(res, st, ingest.Options{
				Separator: sep,
				LockPath:  cfg.Ingest.LockPath,
				Logger:    logging.NewComponentLogger(logger, "ingest"),
				Metrics:   m,
			})
			if err != nil {
				return err
			}

			summary, err := in.RunFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if cfg.Ingest.MetricsFile != "" && !dryRun {
				if err := m.WriteTextfile(cfg.Ingest.MetricsFile); err != nil {
					logging.WarnWithContext(logger, "metrics textfile not written", "metrics_export",
						logging.String("path", cfg.Ingest.MetricsFile),
						logging.Error(err),
						logging.String(logging.FieldImpact, "ingest results are stored but not exported"),
					)
				}
			}

			if asJSON {
				return writeJSON(cmd, summary)
			}
			printSummary(cmd, summary, dryRun)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the run summary as JSON")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve into an in-memory store and discard the result")
	cmd.Flags().StringVar(&separator, "separator", "", "Override ingest.name_separator")
	return cmd
}

func printSummary(cmd *cobra.Command, s ingest.Summary, dryRun bool) {
	rows := [][]string{
		{"Run", s.RunID},
		{"Rows", fmt.Sprintf("%d", s.Rows)},
		{"Documents", fmt.Sprintf("%d", s.Documents)},
		{"Names", fmt.Sprintf("%d", s.Names)},
		{"Created", fmt.Sprintf("%d", s.Created)},
		{"Matched", fmt.Sprintf("%d", s.Matched)},
		{"Ambiguous", fmt.Sprintf("%d", s.Ambiguous)},
		{"Skipped", fmt.Sprintf("%d", s.Skipped)},
		{"Duration", s.Duration.Round(time.Millisecond).String()},
		{"Dry run", textutil.Ternary(dryRun, "yes", "no")},
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
}
