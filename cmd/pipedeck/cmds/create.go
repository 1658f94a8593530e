package cmds

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <question...>",
		Short: "Create a pipeline from a plain-language question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return errors.New("Please fill in all required fields")
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			resp, err := s.client.CreatePipeline(cmd.Context(), question)
			if err != nil {
				return remoteError("create pipeline", err)
			}
			name := resp.Name
			if name == "" {
				name = question
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Pipeline \"%s\" created successfully! (id %s)\n", name, resp.ID)
			return err
		},
	}
}
