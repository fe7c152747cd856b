package config

import (
	log "github.com/sirupsen/logrus"
)

// SetupLogger configures the global logger from the run configuration.
func SetupLogger(level string) error {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if level == "" {
		level = "info"
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(parsed)
	return nil
}
