package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
	"github.com/JavierSanzSaez/zama-technical-test/internal/usage"
)

var statsInput string

var statsCmd = &cobra.Command{
	Use:   "stats [period]",
	Short: "Show usage aggregates for a dashboard period",
	Long: `Stats prints the aggregates of the bundled dataset (or a dataset file
given with --input) for one period: oneDay, oneWeek or thirtyDays.
Without an argument all three periods are shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadService()
		if err != nil {
			return err
		}

		periods := usage.Periods()
		if len(args) == 1 {
			period, err := usage.ParsePeriod(args[0])
			if err != nil {
				return err
			}
			periods = []usage.Period{period}
		}

		for _, period := range periods {
			stats := svc.Stats(period)
			fmt.Printf("%s (%s)\n", period.Description(), period.Label())
			fmt.Printf("  Requests:     %d (avg %d per sample)\n", stats.TotalRequests, stats.AverageRequests)
			fmt.Printf("  Errors:       %d (%s%%)\n", stats.TotalErrors, stats.ErrorRate)
			fmt.Printf("  Avg latency:  %dms\n", stats.AverageLatency)
			fmt.Println()
		}

		return nil
	},
}

func loadService() (*usage.Service, error) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	if statsInput == "" {
		return usage.NewService(logger)
	}

	raw, err := os.ReadFile(statsInput)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var data models.UsageDataset
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	return usage.NewServiceWithDataset(&data, logger), nil
}

func init() {
	statsCmd.Flags().StringVarP(&statsInput, "input", "i", "", "dataset file (defaults to the bundled data)")
	rootCmd.AddCommand(statsCmd)
}
