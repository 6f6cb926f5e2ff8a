package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/berrythewa/pueue/internal/command"
)

func newAddCmd() *cobra.Command {
	var (
		immediate bool
		stashed   bool
		delay     string
	)

	cmd := &cobra.Command{
		Use:   "add [flags] [--] <command>...",
		Short: "Enqueue a task for execution",
		Long: `Enqueue a task for execution. The task runs in the current working directory.

Everything after the flags is the command; use -- if the command has flags of its own.
The delay accepts durations (30m, 2h, 1d), times (15:04, 2025-03-14 18:00)
or phrases like "tomorrow 9am".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delayUntil, err := parseDelay(delay)
			if err != nil {
				return err
			}
			return run(cmd, command.Add{
				Command:          args,
				StartImmediately: immediate,
				Stashed:          stashed,
				DelayUntil:       delayUntil,
			})
		},
	}

	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVarP(&immediate, "immediate", "i", false, "start the task immediately")
	cmd.Flags().BoolVarP(&stashed, "stashed", "s", false, "create the task stashed; it won't start until enqueued")
	cmd.Flags().StringVarP(&delay, "delay", "d", "", "enqueue the task once this time is reached")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <task_id>...",
		Short: "Remove tasks from the list",
		Long:  `Remove tasks from the list. Running or paused tasks need to be killed first.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return run(cmd, command.Remove{TaskIDs: ids})
		},
	}
}

func newSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <task_id_1> <task_id_2>",
		Short: "Switch the queue position of two queued or stashed tasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return run(cmd, command.Switch{TaskID1: ids[0], TaskID2: ids[1]})
		},
	}
}

func newStashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stash <task_id>...",
		Short: "Stash queued tasks so they won't be started automatically",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return run(cmd, command.Stash{TaskIDs: ids})
		},
	}
}

func newEnqueueCmd() *cobra.Command {
	var delay string

	cmd := &cobra.Command{
		Use:   "enqueue [flags] <task_id>...",
		Short: "Enqueue stashed tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			delayUntil, err := parseDelay(delay)
			if err != nil {
				return err
			}
			return run(cmd, command.Enqueue{TaskIDs: ids, DelayUntil: delayUntil})
		},
	}

	cmd.Flags().StringVarP(&delay, "delay", "d", "", "delay enqueuing until this time is reached")
	return cmd
}

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start [task_id]...",
		Short: "Resume the daemon or start specific tasks",
		Long: `Without ids, resume the daemon and all paused tasks.
With ids, start or resume only those tasks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return run(cmd, command.Start{TaskIDs: ids})
		},
	}
}

func newRestartCmd() *cobra.Command {
	var (
		immediate bool
		stashed   bool
	)

	cmd := &cobra.Command{
		Use:   "restart [flags] <task_id>...",
		Short: "Enqueue finished tasks again",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return run(cmd, command.Restart{TaskIDs: ids, StartImmediately: immediate, Stashed: stashed})
		},
	}

	cmd.Flags().BoolVarP(&immediate, "immediate", "i", false, "start the new tasks immediately")
	cmd.Flags().BoolVarP(&stashed, "stashed", "s", false, "create the new tasks stashed")
	return cmd
}

func newPauseCmd() *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "pause [flags] [task_id]...",
		Short: "Pause the daemon or specific running tasks",
		Long: `Without ids, pause the daemon and all running tasks.
With ids, pause only those tasks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return run(cmd, command.Pause{Wait: wait, TaskIDs: ids})
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "let running tasks finish, only stop new ones from starting")
	return cmd
}

func newKillCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "kill [flags] [task_id]...",
		Short: "Kill running tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if all && len(ids) > 0 {
				return fmt.Errorf("--all can't be combined with task ids")
			}
			return run(cmd, command.Kill{All: all, TaskIDs: ids})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "kill all running tasks and pause the daemon")
	return cmd
}

func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <task_id> <input>",
		Short: "Send input to a running task's stdin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(cmd, command.Send{TaskID: id, Input: args[1]})
		},
	}
}

func newEditCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "edit [flags] <task_id>",
		Short: "Edit the command of a stashed or queued task",
		Long: `Edit the command of a stashed or queued task in your editor.
The editor is taken from the client.editor setting, then $EDITOR, then vi.
The command is written to a temporary file unless --path names one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(cmd, command.Edit{TaskID: id, Path: path})
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "file to use as the edit buffer")
	return cmd
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove all finished tasks from the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, command.Clean{})
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Kill all tasks and clean up afterwards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, command.Reset{})
		},
	}
}

func newShutdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shutdown",
		Short: "Shut the daemon down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, command.Shutdown{})
		},
	}
}

func newParallelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parallel <count>",
		Short: "Set the number of tasks allowed to run at once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid parallel count %q", args[0])
			}
			return run(cmd, command.Parallel{ParallelTasks: n})
		},
	}
}
