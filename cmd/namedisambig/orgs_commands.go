package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"namedisambig/internal/orgtable"
	"namedisambig/internal/textutil"
)

func newOrgsCommand(ctx *commandContext) *cobra.Command {
	orgsCmd := &cobra.Command{
		Use:   "orgs",
		Short: "Inspect the organization table",
	}
	orgsCmd.AddCommand(newOrgsListCommand(ctx))
	orgsCmd.AddCommand(newOrgsCheckCommand(ctx))
	orgsCmd.AddCommand(newOrgsDumpCommand())
	return orgsCmd
}

func newOrgsListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known raw spellings and their canonical names",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := ctx.ensureTable()
			if err != nil {
				return err
			}
			needle := textutil.Upper(strings.TrimSpace(filter))
			entries := make([]orgtable.Entry, 0, table.Len())
			for _, e := range table.Entries() {
				if needle != "" && !strings.Contains(textutil.Upper(e.Raw), needle) &&
					!strings.Contains(textutil.Upper(e.Clean), needle) {
					continue
				}
				entries = append(entries, e)
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Raw, textutil.Ternary(e.Skipped(), "(skipped)", e.Clean)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Raw", "Canonical"}, rows, nil))
			fmt.Fprintf(out, "%d of %d entries\n", len(entries), table.Len())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	cmd.Flags().StringVar(&filter, "filter", "", "Only show entries containing this text")
	return cmd
}

func newOrgsCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check TEXT...",
		Short: "Show how position text canonicalizes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := ctx.ensureTable()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(args))
			for _, raw := range args {
				value, keep := table.Canonicalize(raw)
				_, official := table.Official(raw)
				rows = append(rows, []string{
					raw,
					textutil.Ternary(keep, value, "(dropped)"),
					textutil.Ternary(official, "yes", "no"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Input", "Canonical", "Listed"}, rows, nil))
			return nil
		},
	}
}

func newOrgsDumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "dump",
		Short:       "Print the built-in table as YAML for customization",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(orgtable.DefaultYAML())
			return err
		},
	}
}
