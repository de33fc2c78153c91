package analytics

import "github.com/noah-isme/edu-signal-api/pkg/config"

// Thresholds holds every cut-off used by the engine. It is declared in
// pkg/config so configuration loading stays independent of the engine.
type Thresholds = config.Thresholds

// DefaultThresholds returns the reference cut-offs of the platform.
func DefaultThresholds() Thresholds {
	return config.DefaultThresholds()
}
