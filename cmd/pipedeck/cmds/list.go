package cmds

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/five82/pipedeck/internal/pipelineapi"
	"github.com/five82/pipedeck/internal/present"
)

func newListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pipelines with their write counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			pipelines, err := pipelineapi.LoadSummaries(cmd.Context(), s.client, pipelineapi.DefaultFetchConcurrency)
			if err != nil {
				return remoteError("load pipelines", err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, pipelineapi.ListResponse{Pipelines: pipelines})
			}
			if len(pipelines) == 0 {
				_, err := fmt.Fprintln(out, present.EmptySidebar)
				return err
			}

			now := time.Now()
			t := table.New().
				Border(lipgloss.HiddenBorder()).
				Headers("ID", "NAME", "WRITES", "CREATED", "QUESTION")
			for i, e := range present.Sidebar(pipelines, "") {
				created := present.FormatCreated(pipelines[i].CreatedAt, now)
				t.Row(e.ID, e.Name, present.FormatCount(e.WriteCount), created, e.Preview)
			}
			_, err = fmt.Fprintln(out, t.Render())
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}
