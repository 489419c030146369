// Command sparqltest drives a SPARQL Protocol endpoint through the
// stress and verify workloads implemented by the harness package.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	queryEndpoint  string
	updateEndpoint string
	gspEndpoint    string
	behaviorFlag   string
	verbose        bool
	shutdownGrace  string
	durabilityFile string
	outputCSV      string
	readers        int
	readerQueries  string
)

var rootCmd = &cobra.Command{
	Use:   "sparqltest",
	Short: "Concurrent correctness and throughput harness for a SPARQL endpoint",
	Long: `sparqltest replays scripted updates against a SPARQL store while
verifying its post-mutation state, and measures read throughput under
concurrent load.

Examples:
  sparqltest verify --scripts ./scripts --query-endpoint http://localhost:3030/ds/query \
    --update-endpoint http://localhost:3030/ds/update
  sparqltest stress --readers 8 --duration 30s --query-endpoint http://localhost:3030/ds/query`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&queryEndpoint, "query-endpoint", "", "SPARQL query endpoint URL (required)")
	rootCmd.PersistentFlags().StringVar(&updateEndpoint, "update-endpoint", "", "SPARQL update endpoint URL")
	rootCmd.PersistentFlags().StringVar(&gspEndpoint, "gsp-endpoint", "", "Graph Store Protocol endpoint URL")
	rootCmd.PersistentFlags().StringVar(&behaviorFlag, "on-connection-error", "ignore", "ignore|report: how workers react to a transport-level failure")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Attach diffs and request bodies to terminal errors")
	rootCmd.PersistentFlags().StringVar(&shutdownGrace, "shutdown-grace", "10s", "Time to wait for readers/fault injector to stop after the run ends")
	rootCmd.PersistentFlags().StringVar(&durabilityFile, "durability-config", "", "Path to a TOML file configuring the fault injector")
	rootCmd.PersistentFlags().StringVar(&outputCSV, "output-csv", "", "Write per-reader, per-query QPS as CSV to this path")
	rootCmd.PersistentFlags().IntVar(&readers, "readers", 0, "Number of reader workers")
	rootCmd.PersistentFlags().StringVar(&readerQueries, "reader-queries", "", "Path to a newline-delimited query catalog for readers; synthetic queries if unset")

	rootCmd.AddCommand(stressCmd)
	rootCmd.AddCommand(verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
