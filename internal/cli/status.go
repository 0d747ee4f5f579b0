package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/rosterd/pkg/model"
)

func newStatusCmd() *cobra.Command {
	var flagJSON bool

	cmd := &cobra.Command{
		Use:   "status <job_id>",
		Short: "Show the best-known schedule for a solve job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.Get("/schedules/" + args[0])
			if err != nil {
				return fmt.Errorf("get schedule: %w", err)
			}
			if flagJSON {
				fmt.Println(string(body))
				return nil
			}
			var schedule model.Schedule
			if err := json.Unmarshal(body, &schedule); err != nil {
				return fmt.Errorf("parse schedule: %w", err)
			}
			printSchedule(&schedule)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagJSON, "json", false, "Print the raw JSON response")
	return cmd
}
