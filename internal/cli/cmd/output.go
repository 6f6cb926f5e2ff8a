package cmd

import (
	"github.com/spf13/cobra"

	"github.com/berrythewa/pueue/internal/command"
)

func newStatusCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Display the current state of all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, command.Status{JSON: jsonOut})
		},
	}

	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "print the raw state as JSON")
	return cmd
}

func newLogCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "log [flags] [task_id]...",
		Short: "Display the output of finished tasks",
		Long:  `Display the output of finished tasks. Without ids, all tasks are shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return run(cmd, command.Log{TaskIDs: ids, JSON: jsonOut})
		},
	}

	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "print the logs as JSON")
	return cmd
}

func newShowCmd() *cobra.Command {
	var (
		follow bool
		errOut bool
	)

	cmd := &cobra.Command{
		Use:   "show [flags] <task_id>",
		Short: "Show the output of a running task",
		Long: `Show the output of a running task. With --follow the output is
streamed until the task finishes or you interrupt it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(cmd, command.Show{TaskID: id, Follow: follow, Err: errOut})
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "follow the output as it is written")
	cmd.Flags().BoolVarP(&errOut, "err", "e", false, "show stderr instead of stdout")
	return cmd
}
