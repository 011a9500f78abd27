package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JavierSanzSaez/zama-technical-test/internal/usage"
)

var (
	generateOutput string
	generateSeed   int64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a fresh simulated usage dataset",
	Long: `Generate produces a randomized usage dataset anchored at the current
time, in the same JSON shape the service embeds. Write the output over
internal/usage/data/usage.json and rebuild to refresh the bundled data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := generateSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		data := usage.Generate(time.Now(), rand.New(rand.NewSource(seed)))

		encoded, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding dataset: %w", err)
		}
		encoded = append(encoded, '\n')

		if generateOutput == "-" {
			_, err = os.Stdout.Write(encoded)
			return err
		}

		if err := os.WriteFile(generateOutput, encoded, 0o644); err != nil {
			return fmt.Errorf("writing dataset: %w", err)
		}

		fmt.Printf("Wrote %d daily, %d hourly and %d response-time samples to %s\n",
			len(data.DailyRequests), len(data.HourlyRequests), len(data.ResponseTimes), generateOutput)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "usage.json", "output file, or - for stdout")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "random seed (0 picks one from the clock)")
	rootCmd.AddCommand(generateCmd)
}
