package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment variables that override the config file.
const (
	EnvConfig      = "ECOQUEST_CONFIG"
	EnvDB          = "ECOQUEST_DB"
	EnvAddr        = "ECOQUEST_ADDR"
	EnvLogLevel    = "ECOQUEST_LOG_LEVEL"
	EnvLogFormat   = "ECOQUEST_LOG_FORMAT"
	EnvDailyTarget = "ECOQUEST_DAILY_TARGET"
	EnvUser        = "ECOQUEST_USER"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays environment overrides onto c.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvDB); ok {
		c.Store.Path = v
	}
	if v, ok := get(EnvAddr); ok {
		c.Server.Addr = v
	}
	if v, ok := get(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := get(EnvLogFormat); ok {
		c.Logging.Format = v
	}
	if v, ok := get(EnvUser); ok {
		c.Profile.UserID = v
	}
	if v, ok := get(EnvDailyTarget); ok {
		kg, err := strconv.ParseFloat(v, 64)
		if err != nil || !validTarget(kg) {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, EnvDailyTarget, v)
		}
		c.Scoring.DailyTargetKg = kg
	}
	return nil
}
