package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/rosterd/internal/store"
)

func newJobsCmd() *cobra.Command {
	var flagJSON bool

	cmd := &cobra.Command{
		Use:   "jobs [job_id]",
		Short: "List archived solve jobs, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				body, err := client.Get("/jobs/" + args[0])
				if err != nil {
					return fmt.Errorf("get job: %w", err)
				}
				fmt.Println(string(body))
				return nil
			}

			body, err := client.Get("/jobs")
			if err != nil {
				return fmt.Errorf("list jobs: %w", err)
			}
			if flagJSON {
				fmt.Println(string(body))
				return nil
			}
			var records []*store.JobRecord
			if err := json.Unmarshal(body, &records); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}
			if len(records) == 0 {
				fmt.Println("no archived jobs")
				return nil
			}
			fmt.Printf("%-38s %-16s %-18s %-16s %s\n", "JOB", "ALGORITHM", "STATUS", "SCORE", "UPDATED")
			for _, rec := range records {
				score := "-"
				if rec.Score != nil {
					score = rec.Score.String()
				}
				fmt.Printf("%-38s %-16s %-18s %-16s %s\n",
					rec.ID, rec.Algorithm, rec.Status, score, rec.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagJSON, "json", false, "Print the raw JSON response")
	return cmd
}
