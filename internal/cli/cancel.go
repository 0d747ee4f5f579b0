package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/rosterd/pkg/model"
)

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job_id>",
		Short: "Terminate a solve job early",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.Delete("/schedules/" + args[0])
			if err != nil {
				return fmt.Errorf("terminate job: %w", err)
			}
			var schedule model.Schedule
			if err := json.Unmarshal(body, &schedule); err != nil {
				return fmt.Errorf("parse schedule: %w", err)
			}
			fmt.Printf("Job %s: termination requested\n", args[0])
			printSchedule(&schedule)
			return nil
		},
	}
}
