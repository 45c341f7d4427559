package config

import (
	"fmt"
	"strings"
	"time"
)

type BreakerConfig struct {
	ConsecutiveFailures uint32        `koanf:"consecutivefailures"`
	ErrorRatePercent    int           `koanf:"errorratepercent"`
	OpenTimeout         time.Duration `koanf:"opentimeout"`
}

// String returns a string representation of the BreakerConfig.
func (c *BreakerConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Circuit Breaker ---\n")
	b.WriteString(fmt.Sprintf("  consecutivefailures: %d\n", c.ConsecutiveFailures))
	b.WriteString(fmt.Sprintf("  errorratepercent: %d\n", c.ErrorRatePercent))
	b.WriteString(fmt.Sprintf("  opentimeout: %v\n", c.OpenTimeout))
	return b.String()
}

func (c *BreakerConfig) Validate() error {
	if c.ConsecutiveFailures <= 0 {
		return fmt.Errorf("breaker.consecutive_failures must be greater than 0")
	}
	if c.ErrorRatePercent < 0 || c.ErrorRatePercent > 100 {
		return fmt.Errorf("breaker.error_rate_percent must be between 0 and 100")
	}
	if c.OpenTimeout <= 0 {
		return fmt.Errorf("breaker.open_timeout must be greater than 0")
	}
	return nil
}
