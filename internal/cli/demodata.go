package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/rosterd/pkg/model"
)

func newDemoDataCmd() *cobra.Command {
	var flagJSON bool

	cmd := &cobra.Command{
		Use:   "demo-data [size]",
		Short: "List demo data sets, or fetch one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				body, err := client.Get("/demo-data")
				if err != nil {
					return fmt.Errorf("list demo data: %w", err)
				}
				var sizes []string
				if err := json.Unmarshal(body, &sizes); err != nil {
					return fmt.Errorf("parse response: %w", err)
				}
				for _, s := range sizes {
					fmt.Println(s)
				}
				return nil
			}

			body, err := client.Get("/demo-data/" + args[0])
			if err != nil {
				return fmt.Errorf("fetch demo data: %w", err)
			}
			if flagJSON {
				fmt.Println(string(body))
				return nil
			}
			var schedule model.Schedule
			if err := json.Unmarshal(body, &schedule); err != nil {
				return fmt.Errorf("parse schedule: %w", err)
			}
			fmt.Printf("%s: %d employees, %d shifts\n", args[0], len(schedule.Employees), len(schedule.Shifts))
			for _, e := range schedule.Employees {
				fmt.Printf("  %-12s %-12s unavailable=%d holidays=%d\n",
					e.Name, e.Role, len(e.UnavailableDates), len(e.PreferredHolidays))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagJSON, "json", false, "Print the raw JSON response")
	return cmd
}
