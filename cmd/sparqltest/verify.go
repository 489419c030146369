package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	harness "github.com/dice-group/sparql-transactional-test"
	"github.com/dice-group/sparql-transactional-test/script"
)

var scriptsDir string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Replay scripted updates and verify post-mutation state",
	Long: `verify replays each writer's operation script in order, issuing its
mutation and then confirming the store's state matches the recorded
expectation, for every writer in --scripts simultaneously.

--scripts must contain one subdirectory per writer, each holding a
contiguous run of op_0.json, op_1.json, ... files.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&scriptsDir, "scripts", "", "Directory containing one subdirectory per writer script (required)")
}

func loadWriterScripts(root string) ([]script.OperationScript, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read scripts directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scripts := make([]script.OperationScript, 0, len(names))
	for _, name := range names {
		s, err := script.Load(filepath.Join(root, name))
		if err != nil {
			return nil, fmt.Errorf("load writer script %s: %w", name, err)
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	if scriptsDir == "" {
		return fmt.Errorf("--scripts is required")
	}
	writers, err := loadWriterScripts(scriptsDir)
	if err != nil {
		return err
	}
	if len(writers) == 0 {
		return fmt.Errorf("no writer scripts found under %s", scriptsDir)
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
		Writers:         writers,
		Readers:         readers,
		ReaderQueryFile: readerQueries,
		Behavior:        behavior,
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
