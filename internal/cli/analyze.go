package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/rosterd/pkg/model"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		flagFile        string
		flagDemo        string
		flagFetchPolicy string
		flagJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a schedule rule by rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, err := loadProblem(flagFile, flagDemo)
			if err != nil {
				return err
			}

			path := "/schedules/analyze"
			if flagFetchPolicy != "" {
				path += "?fetchPolicy=" + flagFetchPolicy
			}
			body, err := client.Put(path, schedule)
			if err != nil {
				return fmt.Errorf("analyze schedule: %w", err)
			}
			if flagJSON {
				fmt.Println(string(body))
				return nil
			}

			var analysis model.ScoreAnalysis
			if err := json.Unmarshal(body, &analysis); err != nil {
				return fmt.Errorf("parse analysis: %w", err)
			}
			fmt.Printf("Score: %s\n", analysis.Score)
			for _, c := range analysis.Constraints {
				fmt.Printf("  %-45s %12s  (%d matches)\n", c.Name, c.Score.String(), c.MatchCount)
				for _, m := range c.Matches {
					fmt.Printf("    %s  %s\n", m.Score.String(), m.Justification)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flagFile, "file", "f", "", "Schedule JSON file (use - for stdin)")
	cmd.Flags().StringVar(&flagDemo, "demo", "", "Analyze a generated demo schedule (SMALL, MEDIUM, LARGE, HUGE)")
	cmd.Flags().StringVar(&flagFetchPolicy, "fetch-policy", "", "Analysis detail (FETCH_ALL, FETCH_MATCH_COUNT, FETCH_SHALLOW)")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "Print the raw JSON response")

	return cmd
}
