package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"namedisambig/internal/counter"
	"namedisambig/internal/logging"
	"namedisambig/internal/metrics"
	"namedisambig/internal/orgtable"
	"namedisambig/internal/person"
	"namedisambig/internal/resolver"
	"namedisambig/internal/store"
)

type personView struct {
	ID                 int64          `json:"id"`
	FullName           string         `json:"full_name"`
	Last               string         `json:"last"`
	First              string         `json:"first"`
	Middle             string         `json:"middle"`
	Count              int            `json:"count"`
	MostLikelyPosition string         `json:"most_likely_position"`
	Positions          map[string]int `json:"positions"`
	Aliases            map[string]int `json:"aliases"`
	DocsAuthored       []string       `json:"docs_authored,omitempty"`
	DocsReceived       []string       `json:"docs_received,omitempty"`
}

func newPersonView(p *person.Person, table *orgtable.Table) personView {
	return personView{
		ID:                 p.ID,
		FullName:           p.FullName(),
		Last:               p.Last,
		First:              p.First,
		Middle:             p.Middle,
		Count:              p.Count,
		MostLikelyPosition: p.MostLikelyPosition(table),
		Positions:          p.Positions.Map(),
		Aliases:            p.Aliases.Map(),
		DocsAuthored:       p.DocsAuthored.Sorted(),
		DocsReceived:       p.DocsReceived.Sorted(),
	}
}

func newPeopleCommand(ctx *commandContext) *cobra.Command {
	peopleCmd := &cobra.Command{
		Use:   "people",
		Short: "Inspect and resolve person records",
	}
	peopleCmd.AddCommand(newPeopleListCommand(ctx))
	peopleCmd.AddCommand(newPeopleShowCommand(ctx))
	peopleCmd.AddCommand(newPeopleResolveCommand(ctx))
	return peopleCmd
}

func newPeopleListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List person records in id order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 || offset < 0 {
				return errors.New("--limit and --offset must not be negative")
			}
			table, err := ctx.ensureTable()
			if err != nil {
				return err
			}
			st, err := ctx.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			people, err := st.List(cmd.Context(), store.ListOptions{Limit: limit, Offset: offset})
			if err != nil {
				return err
			}
			total, err := st.Count(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				views := make([]personView, 0, len(people))
				for _, p := range people {
					views = append(views, newPersonView(p, table))
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(people) == 0 {
				fmt.Fprintln(out, "No people found")
				return nil
			}
			rows := make([][]string, 0, len(people))
			for _, p := range people {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10),
					p.FullName(),
					p.MostLikelyPosition(table),
					strconv.Itoa(p.Count),
					strconv.Itoa(p.Aliases.Len()),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Organization", "Count", "Aliases"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(out, "%d of %d people\n", len(people), total)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum records to show (0 for all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip")
	return cmd
}

func newPeopleShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one person with aliases, positions and documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid person id %q", args[0])
			}
			table, err := ctx.ensureTable()
			if err != nil {
				return err
			}
			st, err := ctx.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			p, err := st.Get(cmd.Context(), id)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("person %d not found", id)
			}
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, newPersonView(p, table))
			}

			authored, err := st.DocumentsFor(cmd.Context(), id, store.RoleAuthor)
			if err != nil {
				return err
			}
			received, err := st.DocumentsFor(cmd.Context(), id, store.RoleRecipient)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, [][]string{
				{"ID", strconv.FormatInt(p.ID, 10)},
				{"Name", p.FullName()},
				{"Last", p.Last},
				{"First", p.First},
				{"Middle", p.Middle},
				{"Count", strconv.Itoa(p.Count)},
				{"Organization", p.MostLikelyPosition(table)},
				{"Positions", formatPositions(p.Positions)},
				{"Aliases", formatPositions(p.Aliases)},
			}, nil))

			docs := make([][]string, 0, len(authored)+len(received))
			for _, d := range authored {
				docs = append(docs, documentRow(d, store.RoleAuthor))
			}
			for _, d := range received {
				docs = append(docs, documentRow(d, store.RoleRecipient))
			}
			if len(docs) > 0 {
				fmt.Fprintln(out, renderTable([]string{"TID", "Role", "Date", "Type", "Title"}, docs, nil))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func documentRow(d store.Document, role store.Role) []string {
	return []string{d.TID, string(role), d.Date, d.DocType, truncate(d.Title, 60)}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

func newPeopleResolveCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve NAME...",
		Short: "Find or create the person record for each raw name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			table, err := ctx.ensureTable()
			if err != nil {
				return err
			}
			parser, err := ctx.parser()
			if err != nil {
				return err
			}
			st, err := ctx.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			res, err := resolver.New(st, parser,
				resolver.WithLogger(logging.NewComponentLogger(logger, "resolver")),
				resolver.WithRecorder(metrics.New()),
			)
			if err != nil {
				return err
			}

			type resolved struct {
				Alias      string     `json:"alias"`
				Outcome    string     `json:"outcome"`
				Candidates int        `json:"candidates"`
				Person     personView `json:"person"`
			}
			results := make([]resolved, 0, len(args))
			for _, alias := range args {
				r, err := res.Resolve(cmd.Context(), alias)
				if err != nil {
					return fmt.Errorf("resolve %q: %w", alias, err)
				}
				results = append(results, resolved{
					Alias:      alias,
					Outcome:    r.Outcome,
					Candidates: r.Candidates,
					Person:     newPersonView(r.Person, table),
				})
			}

			if asJSON {
				return writeJSON(cmd, results)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{
					r.Alias,
					r.Outcome,
					strconv.FormatInt(r.Person.ID, 10),
					r.Person.FullName,
					formatPositions(counter.FromMap(r.Person.Positions)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Alias", "Outcome", "ID", "Name", "Positions"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}
