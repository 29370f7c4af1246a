// Package cli implements the halocarectl operator commands.
package cli

import "github.com/spf13/cobra"

// NewRootCommand assembles every halocarectl command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "halocarectl",
		Short:         "Operator tool for the HaloCare admin dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newJobsCommand(),
		newListCommand(),
		newViewStateCommand(),
		newMigrateCommand(),
		newUsersCommand(),
	)
	return root
}
