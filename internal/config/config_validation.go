// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// LoggingFormats lists the request log formats understood by the logging
// stage. The empty string selects the default ("dev").
var LoggingFormats = []string{"dev", "combined", "common", "short", "tiny"}

// validate checks that the final merged [StructuredConfig] satisfies all
// invariants before it is used at startup. Zero values are always valid:
// consumers apply their own defaults.
func (cfg *StructuredConfig) validate() error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Port)
	}

	if cfg.Logging.Format != "" && !knownFormat(cfg.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLoggingFormat, cfg.Logging.Format)
	}

	if cfg.HTTP.Rate.Max < 0 || cfg.HTTP.Rate.Window < 0 {
		return ErrInvalidRateLimit
	}

	if cfg.HTTP.BodyLimit < 0 {
		return ErrInvalidBodyLimit
	}

	return nil
}

func knownFormat(format string) bool {
	for _, f := range LoggingFormats {
		if f == format {
			return true
		}
	}
	return false
}
