package cmds

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/pipedeck/internal/present"
)

func newShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a pipeline's components and DDL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			detail, err := s.client.GetPipeline(cmd.Context(), args[0])
			if err != nil {
				return remoteError("load pipeline", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), detail)
			}
			return printDetails(cmd.OutOrStdout(), present.Details(*detail))
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON payload")
	return cmd
}

func printDetails(w io.Writer, d present.DetailsModel) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", d.Name, d.ID)
	fmt.Fprintf(&b, "Writes: %s\n\n", d.WriteCount)
	fmt.Fprintf(&b, "Description:\n  %s\n", d.Description)
	if len(d.Components) > 0 {
		b.WriteString("\nComponents:\n")
		for _, c := range d.Components {
			fmt.Fprintf(&b, "  %-18s %s\n", c.Kind, c.Name)
		}
	}
	for _, block := range d.DDL {
		fmt.Fprintf(&b, "\n-- %s\n%s\n", block.Title, strings.TrimRight(block.Content, "\n"))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
