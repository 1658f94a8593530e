package cmds

import (
	"github.com/spf13/cobra"

	"github.com/five82/pipedeck/internal/app"
)

// NewRootCmd builds the pipedeck command tree. Without a subcommand it runs
// the dashboard.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:          "pipedeck",
		Short:        "Terminal dashboard for the pipeline service",
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := getRootOptions(cmd)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	AddRootFlags(root)
	AddCommands(root)
	return root
}

// AddCommands registers every subcommand on root.
func AddCommands(root *cobra.Command) {
	root.AddCommand(newListCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newCreateCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newLogsCmd())
}
