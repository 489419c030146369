package main

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	harness "github.com/dice-group/sparql-transactional-test"
)

// durabilityFileConfig mirrors harness.DurabilityConfig with TOML tags
// and a human-readable duration string for KillDelay, the same
// pattern beads uses for its recipe and formula TOML files.
type durabilityFileConfig struct {
	StartScript   string `toml:"start_script"`
	KillScript    string `toml:"kill_script"`
	RestartScript string `toml:"restart_script"`
	KillDelay     string `toml:"kill_delay"`
}

func loadDurabilityFile(path string) (*harness.DurabilityConfig, error) {
	var fc durabilityFileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return nil, fmt.Errorf("parse durability config: %w", err)
	}
	if fc.KillScript == "" {
		return nil, fmt.Errorf("durability config %s: kill_script is required", path)
	}
	delay := 30 * time.Second
	if fc.KillDelay != "" {
		parsed, err := time.ParseDuration(fc.KillDelay)
		if err != nil {
			return nil, fmt.Errorf("durability config %s: kill_delay: %w", path, err)
		}
		delay = parsed
	}
	return &harness.DurabilityConfig{
		StartScript:   fc.StartScript,
		KillScript:    fc.KillScript,
		RestartScript: fc.RestartScript,
		KillDelay:     delay,
	}, nil
}
