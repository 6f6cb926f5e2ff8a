package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/berrythewa/pueue/pkg/format"
)

func newJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the messages this client sent to the daemon",
		Long: `Every request sent to the daemon is recorded locally together with the
daemon's answer. Without a subcommand the most recent entries are listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listJournal(cmd, cfg.Client.JournalEntries, false)
		},
	}

	cmd.AddCommand(newJournalListCmd())
	cmd.AddCommand(newJournalClearCmd())
	return cmd
}

func newJournalListCmd() *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded messages, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = cfg.Client.JournalEntries
			}
			return listJournal(cmd, limit, jsonOut)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show (0 for all)")
	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "print entries as JSON")
	return cmd
}

func newJournalClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := getJournal()
			if err != nil {
				return fmt.Errorf("failed to open journal: %w", err)
			}
			n, err := j.Count()
			if err != nil {
				return err
			}
			if err := j.Clear(); err != nil {
				return fmt.Errorf("failed to clear journal: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d journal entries\n", n)
			return nil
		},
	}
}

func listJournal(cmd *cobra.Command, limit int, jsonOut bool) error {
	j, err := getJournal()
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	entries, err := j.List(limit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	opts := format.DefaultOptions()
	opts.UseColors = cfg.Client.Colors
	_, err = fmt.Fprintln(out, format.New(opts).FormatJournal(entries))
	return err
}
