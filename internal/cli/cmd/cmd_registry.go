package cmd

import (
	"github.com/spf13/cobra"
)

// GetCommands returns all commands for registration
func GetCommands() []*cobra.Command {
	return []*cobra.Command{
		newAddCmd(),
		newRemoveCmd(),
		newSwitchCmd(),
		newStashCmd(),
		newEnqueueCmd(),
		newStartCmd(),
		newRestartCmd(),
		newPauseCmd(),
		newKillCmd(),
		newSendCmd(),
		newEditCmd(),
		newStatusCmd(),
		newLogCmd(),
		newShowCmd(),
		newCleanCmd(),
		newResetCmd(),
		newShutdownCmd(),
		newParallelCmd(),
		newCompletionsCmd(),
		newConfigCmd(),
		newJournalCmd(),
		newVersionCmd(),
	}
}
