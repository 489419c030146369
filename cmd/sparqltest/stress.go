package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	harness "github.com/dice-group/sparql-transactional-test"
)

var duration string

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Measure read throughput for a fixed duration",
	Long: `stress launches --readers reader workers against --query-endpoint and
measures queries-per-second for --duration, with no writers and no
state verification.`,
	RunE: runStress,
}

func init() {
	stressCmd.Flags().StringVar(&duration, "duration", "30s", "Wall-clock duration of the run")
}

func runStress(cmd *cobra.Command, args []string) error {
	if readers <= 0 {
		return fmt.Errorf("--readers must be positive for stress mode")
	}
	d, err := time.ParseDuration(duration)
	if err != nil {
		return fmt.Errorf("--duration: %w", err)
	}

	behavior, err := parseBehavior()
	if err != nil {
		return err
	}
	grace, err := parseShutdownGrace()
	if err != nil {
		return err
	}
	durability, err := loadDurability()
	if err != nil {
		return err
	}

	cfg := harness.Config{
		Endpoints:       buildEndpoints(),
		Readers:         readers,
		ReaderQueryFile: readerQueries,
		Behavior:        behavior,
		Duration:        d,
		Durability:      durability,
		Verbose:         verbose,
		ShutdownGrace:   grace,
	}

	sup := harness.NewSupervisor(cfg, newLogger())
	result, err := sup.Run(context.Background())
	if err != nil {
		return err
	}
	return report(result)
}
