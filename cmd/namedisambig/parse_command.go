package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"namedisambig/internal/counter"
	"namedisambig/internal/person"
	"namedisambig/internal/textutil"
)

type parsedName struct {
	Raw                string         `json:"raw"`
	First              string         `json:"first"`
	Middle             string         `json:"middle"`
	Last               string         `json:"last"`
	FullName           string         `json:"full_name"`
	Positions          map[string]int `json:"positions"`
	MostLikelyPosition string         `json:"most_likely_position"`
	Valid              bool           `json:"valid"`
}

func newParseCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var count int
	var noOrgs bool

	cmd := &cobra.Command{
		Use:   "parse NAME...",
		Short: "Parse raw names without touching the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			parser, err := ctx.parser()
			if err != nil {
				return err
			}
			table := parser.Table()

			results := make([]parsedName, 0, len(args))
			for _, raw := range args {
				res := parser.Parse(raw, count, !noOrgs)
				rec, err := person.New(person.Fields{
					Last:      res.Last,
					First:     res.First,
					Middle:    res.Middle,
					Positions: res.Positions,
					Count:     count,
				})
				if err != nil {
					return fmt.Errorf("parse %q: %w", raw, err)
				}
				results = append(results, parsedName{
					Raw:                raw,
					First:              res.First,
					Middle:             res.Middle,
					Last:               res.Last,
					FullName:           rec.FullName(),
					Positions:          res.Positions.Map(),
					MostLikelyPosition: rec.MostLikelyPosition(table),
					Valid:              res.Valid(),
				})
			}

			if asJSON {
				return writeJSON(cmd, results)
			}
			out := cmd.OutOrStdout()
			if !isTerminal(out) {
				for _, r := range results {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n", r.Raw, r.Last, r.First, r.Middle, r.MostLikelyPosition)
				}
				return nil
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{
					r.Raw,
					r.Last,
					r.First,
					r.Middle,
					formatPositions(counter.FromMap(r.Positions)),
					r.FullName,
					textutil.Ternary(r.Valid, "yes", "no"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Raw", "Last", "First", "Middle", "Positions", "Full Name", "Valid"},
				rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	cmd.Flags().IntVar(&count, "count", 1, "Observation weight applied to extracted positions")
	cmd.Flags().BoolVar(&noOrgs, "no-orgs", false, "Skip organization extraction")
	return cmd
}

func formatPositions(c counter.Counter) string {
	if c.Len() == 0 {
		return "-"
	}
	parts := make([]string, 0, c.Len())
	for _, e := range c.MostCommon() {
		parts = append(parts, fmt.Sprintf("%s (%d)", e.Key, e.Count))
	}
	return strings.Join(parts, ", ")
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
