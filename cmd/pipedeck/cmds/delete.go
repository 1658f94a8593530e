package cmds

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/pipedeck/internal/present"
)

func newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a pipeline after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			id := args[0]
			detail, err := s.client.GetPipeline(cmd.Context(), id)
			if err != nil {
				return remoteError("load pipeline", err)
			}
			name := present.Details(*detail).Name

			out := cmd.OutOrStdout()
			if !yes && !confirm(cmd.InOrStdin(), out, name) {
				_, err := fmt.Fprintln(out, "Cancelled.")
				return err
			}

			if err := s.client.DeletePipeline(cmd.Context(), id); err != nil {
				return remoteError("delete pipeline", err)
			}
			_, err = fmt.Fprintf(out, "Pipeline \"%s\" deleted successfully!\n", name)
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// confirm asks the delete question and accepts only y or yes.
func confirm(in io.Reader, out io.Writer, name string) bool {
	fmt.Fprintf(out, "Are you sure you want to delete \"%s\"? This action cannot be undone. [y/N] ", name)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
