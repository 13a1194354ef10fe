package training

import (
	"fmt"
	"strings"
)

// ConfigError rejects a training request before the engine is invoked.
type ConfigError struct {
	Requested int
	Floor     int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: requested vocabulary size %d is below the minimum %d", e.Requested, e.Floor)
}

// ValidationError reports a trained model that missed one or more quality
// floors. The message enumerates every unmet floor, not just the first,
// so a single failed run is enough to see everything that went wrong.
type ValidationError struct {
	Outcome Outcome
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Outcome.Violations))
	for i, v := range e.Outcome.Violations {
		parts[i] = fmt.Sprintf("%s %.2f below required %.2f", v.Floor, v.Actual, v.Required)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
