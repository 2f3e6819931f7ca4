package config

import (
	"fmt"
	"os"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Player.LogLevel] {
		errs = append(errs, fmt.Sprintf("player.log_level: must be one of debug, info, warn, error; got %q", c.Player.LogLevel))
	}
	if c.Player.Speed != 0 && (c.Player.Speed < 0.5 || c.Player.Speed > 5.0) {
		errs = append(errs, fmt.Sprintf("player.speed: must be between 0.5 and 5.0, got %g", c.Player.Speed))
	}
	if c.Player.LoopDelay < 0 {
		errs = append(errs, fmt.Sprintf("player.loop_delay: must not be negative, got %s", c.Player.LoopDelay))
	}

	if c.Scan.MaxDirReads < 0 {
		errs = append(errs, fmt.Sprintf("scan.max_dir_reads: must not be negative, got %d", c.Scan.MaxDirReads))
	}

	if c.Accelerator.Enabled && c.Accelerator.Vendor == "" {
		errs = append(errs, "accelerator.vendor: required when accelerator is enabled")
	}

	// Filter parameters are range-checked per stage; they must fail
	// here, before any pipeline is constructed.
	if err := c.Filters.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			errs = append(errs, "filters."+line)
		}
	}

	// Root path warnings (non-fatal at validation; the scan itself
	// decides whether any usable root remains).
	for _, root := range c.Scan.Roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("scan.roots: warning: directory %q does not exist", root))
		}
	}

	return errs
}
