package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// BaseConfigName is the default configuration file, looked up in the working directory.
// Mode specific files are named BaseConfigName + "." + mode (e.g. .fastdeploy.prod).
const BaseConfigName = ".fastdeploy"

var ErrConfigNotFound = errors.New("configuration file not found")

// ResolvePath determines which configuration file to load.
// Priority: 1) explicit path, 2) .fastdeploy.<mode> if it exists, 3) .fastdeploy
func ResolvePath(cwd, explicit, mode string, logger zerolog.Logger) (string, error) {
	var configPath string

	switch {
	case explicit != "":
		configPath = explicit
		if !filepath.IsAbs(configPath) {
			configPath = filepath.Join(cwd, configPath)
		}
	case mode != "":
		modeConfig := BaseConfigName + "." + mode
		modePath := filepath.Join(cwd, modeConfig)
		if fileExists(modePath) {
			configPath = modePath
		} else {
			logger.Warn().
				Str("mode", mode).
				Msgf("configuration file %s not found, falling back to default %s", modeConfig, BaseConfigName)
			configPath = filepath.Join(cwd, BaseConfigName)
		}
	default:
		configPath = filepath.Join(cwd, BaseConfigName)
	}

	if !fileExists(configPath) {
		return "", fmt.Errorf("%w at %s", ErrConfigNotFound, configPath)
	}

	return configPath, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
