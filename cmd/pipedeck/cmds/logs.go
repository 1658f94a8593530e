package cmds

import (
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/pipedeck/internal/app"
	"github.com/five82/pipedeck/internal/logtail"
)

func newLogsCmd() *cobra.Command {
	var lines int
	var raw bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the pipedeck log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := getRootOptions(cmd)
			if err != nil {
				return err
			}
			cfg, err := app.LoadConfig(opts)
			if err != nil {
				return err
			}
			tail, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if raw {
				for _, line := range tail {
					if _, err := out.Write([]byte(line + "\n")); err != nil {
						return err
					}
				}
				return nil
			}
			return logtail.Render(out, tail, isTerminal(out))
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 200, "Number of lines to show (0 for all)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print JSON lines unformatted")
	return cmd
}

type fdWriter interface {
	Fd() uintptr
}

func isTerminal(w any) bool {
	f, ok := w.(fdWriter)
	return ok && isatty.IsTerminal(f.Fd())
}
