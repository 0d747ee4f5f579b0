package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/rosterd/pkg/model"
)

func newSolveCmd() *cobra.Command {
	var (
		flagFile      string
		flagDemo      string
		flagAlgorithm string
		flagWait      bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Submit a scheduling problem and print the job id",
		RunE: func(cmd *cobra.Command, args []string) error {
			problem, err := loadProblem(flagFile, flagDemo)
			if err != nil {
				return err
			}

			path := "/schedules"
			if flagAlgorithm != "" {
				path += "?algorithm=" + flagAlgorithm
			}
			body, err := client.Post(path, problem)
			if err != nil {
				return fmt.Errorf("submit problem: %w", err)
			}
			jobID := string(body)
			fmt.Println(jobID)

			if !flagWait {
				return nil
			}
			final, err := pollUntilTerminated(jobID)
			if err != nil {
				return err
			}
			printSchedule(final)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flagFile, "file", "f", "", "Problem JSON file (use - for stdin)")
	cmd.Flags().StringVar(&flagDemo, "demo", "", "Generate a demo problem instead of reading a file (SMALL, MEDIUM, LARGE, HUGE)")
	cmd.Flags().StringVarP(&flagAlgorithm, "algorithm", "a", "", "Search algorithm (HILL_CLIMBING, TABU_SEARCH, LATE_ACCEPTANCE)")
	cmd.Flags().BoolVarP(&flagWait, "wait", "w", false, "Poll until solving terminates and print the result")

	return cmd
}

// loadProblem reads the problem from a file, stdin, or the server's demo
// data generator. Exactly one source must be given.
func loadProblem(file, demo string) (*model.Schedule, error) {
	switch {
	case file != "" && demo != "":
		return nil, fmt.Errorf("--file and --demo are mutually exclusive")
	case file == "" && demo == "":
		return nil, fmt.Errorf("either --file or --demo is required")
	case demo != "":
		body, err := client.Get("/demo-data/" + demo)
		if err != nil {
			return nil, fmt.Errorf("fetch demo data: %w", err)
		}
		var problem model.Schedule
		if err := json.Unmarshal(body, &problem); err != nil {
			return nil, fmt.Errorf("parse demo data: %w", err)
		}
		return &problem, nil
	}

	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read problem: %w", err)
	}
	var problem model.Schedule
	if err := json.Unmarshal(data, &problem); err != nil {
		return nil, fmt.Errorf("parse problem: %w", err)
	}
	return &problem, nil
}

func pollUntilTerminated(jobID string) (*model.Schedule, error) {
	for {
		body, err := client.Get("/schedules/" + jobID)
		if err != nil {
			return nil, fmt.Errorf("poll job: %w", err)
		}
		var schedule model.Schedule
		if err := json.Unmarshal(body, &schedule); err != nil {
			return nil, fmt.Errorf("parse schedule: %w", err)
		}
		if schedule.SolverStatus.IsTerminal() {
			return &schedule, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func printSchedule(s *model.Schedule) {
	fmt.Printf("Status: %s\n", s.SolverStatus)
	if s.Score != nil {
		fmt.Printf("Score:  %s\n", s.Score)
	}
	assigned := 0
	for _, sh := range s.Shifts {
		if sh.Assigned() {
			assigned++
		}
	}
	fmt.Printf("Shifts: %d/%d assigned\n", assigned, len(s.Shifts))
	for _, sh := range s.Shifts {
		who := "(unassigned)"
		if sh.Assigned() {
			who = sh.Employee.Name
		}
		fmt.Printf("  %-4s %s - %s  %-12s %s\n",
			sh.ID, sh.Start.Format("2006-01-02 15:04"), sh.End.Format("15:04"), sh.RequiredRole, who)
	}
}
