package main

import (
	"fmt"
	"os"
	"time"

	harness "github.com/dice-group/sparql-transactional-test"
)

func parseBehavior() (harness.WorkerBehavior, error) {
	switch behaviorFlag {
	case "ignore":
		return harness.IgnoreConnectionError, nil
	case "report":
		return harness.ReportConnectionError, nil
	default:
		return 0, fmt.Errorf("unknown --on-connection-error value: %s (want ignore or report)", behaviorFlag)
	}
}

func buildEndpoints() harness.Endpoints {
	return harness.Endpoints{
		QueryEndpoint:  queryEndpoint,
		UpdateEndpoint: updateEndpoint,
		GSPEndpoint:    gspEndpoint,
	}
}

func parseShutdownGrace() (time.Duration, error) {
	if shutdownGrace == "" {
		return 0, nil
	}
	return time.ParseDuration(shutdownGrace)
}

func loadDurability() (*harness.DurabilityConfig, error) {
	if durabilityFile == "" {
		return nil, nil
	}
	return loadDurabilityFile(durabilityFile)
}

// report logs the run's outcome and, if --output-csv was given, writes
// the per-reader per-query QPS breakdown there.
func report(result harness.Result) error {
	if result.Err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", result.Err)
	}
	fmt.Printf("run %s: readers: %d  average qps: %.2f  sample-averaged average qps: %.2f\n",
		result.RunID, len(result.Readers), result.AverageQPS, result.SampleAveragedAverageQPS)

	if outputCSV != "" {
		f, err := os.Create(outputCSV)
		if err != nil {
			return fmt.Errorf("create csv output: %w", err)
		}
		defer f.Close()
		if err := harness.WriteCSV(f, result); err != nil {
			return fmt.Errorf("write csv output: %w", err)
		}
	}

	if result.Err != nil {
		return result.Err
	}
	return nil
}
