// Package config manages application settings.
//
// Settings are persisted as JSON and loaded with sensible defaults when no
// config file exists:
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The matcher thresholds (duration tolerance/cutoff, minimum score) live
// here rather than as constants so they can be tuned per deployment.
package config
