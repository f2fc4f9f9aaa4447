package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParseConfig reads and parses a deployment configuration file
func ParseConfig(configFile string) (*DeployOptions, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var opts DeployOptions
	if err := json.NewDecoder(file).Decode(&opts); err != nil {
		return nil, fmt.Errorf("failed to parse config file (make sure it is valid JSON): %w", err)
	}

	return &opts, nil
}
