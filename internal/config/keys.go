package config

import (
	"fmt"
	"strconv"
	"time"
)

// Dotted keys accepted by Get and Set.
const (
	KeyProfileUserID      = "profile.user_id"
	KeyProfileUsername    = "profile.username"
	KeyProfileEmail       = "profile.email"
	KeyProfileAdmin       = "profile.admin"
	KeyStorePath          = "store.path"
	KeyServerAddr         = "server.addr"
	KeyServerReadTimeout  = "server.read_timeout"
	KeyServerWriteTimeout = "server.write_timeout"
	KeyDailyTarget        = "scoring.daily_target_kg"
	KeyOutputFormat       = "output.default_format"
	KeyOutputPrecision    = "output.precision"
	KeyLogLevel           = "logging.level"
	KeyLogFormat          = "logging.format"
	KeyLogFile            = "logging.file"
	KeyAuditEnabled       = "logging.audit.enabled"
	KeyAuditFile          = "logging.audit.file"
)

// Keys lists every settable key in display order.
func Keys() []string {
	return []string{
		KeyProfileUserID, KeyProfileUsername, KeyProfileEmail, KeyProfileAdmin,
		KeyStorePath,
		KeyServerAddr, KeyServerReadTimeout, KeyServerWriteTimeout,
		KeyDailyTarget,
		KeyOutputFormat, KeyOutputPrecision,
		KeyLogLevel, KeyLogFormat, KeyLogFile, KeyAuditEnabled, KeyAuditFile,
	}
}

// Get returns the value of key formatted as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case KeyProfileUserID:
		return c.Profile.UserID, nil
	case KeyProfileUsername:
		return c.Profile.Username, nil
	case KeyProfileEmail:
		return c.Profile.Email, nil
	case KeyProfileAdmin:
		return strconv.FormatBool(c.Profile.Admin), nil
	case KeyStorePath:
		return c.Store.Path, nil
	case KeyServerAddr:
		return c.Server.Addr, nil
	case KeyServerReadTimeout:
		return c.Server.ReadTimeout.String(), nil
	case KeyServerWriteTimeout:
		return c.Server.WriteTimeout.String(), nil
	case KeyDailyTarget:
		return strconv.FormatFloat(c.Scoring.DailyTargetKg, 'f', -1, 64), nil
	case KeyOutputFormat:
		return c.Output.DefaultFormat, nil
	case KeyOutputPrecision:
		return strconv.Itoa(c.Output.Precision), nil
	case KeyLogLevel:
		return c.Logging.Level, nil
	case KeyLogFormat:
		return c.Logging.Format, nil
	case KeyLogFile:
		return c.Logging.File, nil
	case KeyAuditEnabled:
		return strconv.FormatBool(c.Logging.Audit.Enabled), nil
	case KeyAuditFile:
		return c.Logging.Audit.File, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set parses value and assigns it to key. The config is not validated or
// saved.
func (c *Config) Set(key, value string) error {
	switch key {
	case KeyProfileUserID:
		c.Profile.UserID = value
	case KeyProfileUsername:
		c.Profile.Username = value
	case KeyProfileEmail:
		c.Profile.Email = value
	case KeyProfileAdmin:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
		}
		c.Profile.Admin = b
	case KeyStorePath:
		c.Store.Path = value
	case KeyServerAddr:
		c.Server.Addr = value
	case KeyServerReadTimeout, KeyServerWriteTimeout:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidValue, key, err)
		}
		if key == KeyServerReadTimeout {
			c.Server.ReadTimeout = d
		} else {
			c.Server.WriteTimeout = d
		}
	case KeyDailyTarget:
		kg, err := strconv.ParseFloat(value, 64)
		if err != nil || !validTarget(kg) {
			return fmt.Errorf("%w: %s must be a positive finite number", ErrInvalidValue, key)
		}
		c.Scoring.DailyTargetKg = kg
	case KeyOutputFormat:
		if !validFormat(value) {
			return fmt.Errorf("%w: %s must be table, json or ndjson", ErrInvalidValue, key)
		}
		c.Output.DefaultFormat = value
	case KeyOutputPrecision:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > maxPrecision {
			return fmt.Errorf("%w: %s must be between 0 and %d", ErrInvalidValue, key, maxPrecision)
		}
		c.Output.Precision = n
	case KeyLogLevel:
		c.Logging.Level = value
	case KeyLogFormat:
		c.Logging.Format = value
	case KeyLogFile:
		c.Logging.File = value
	case KeyAuditEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
		}
		c.Logging.Audit.Enabled = b
	case KeyAuditFile:
		c.Logging.Audit.File = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}
