package config

import "fmt"

// ValidationError represents a configuration validation issue.
type ValidationError struct {
	Field    string
	Message  string
	Severity string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Field, e.Message)
}

// ValidateConfig checks the loaded configuration for nonsensical values
// that would otherwise only surface as confusing runtime behavior (a
// negative interval, an empty name list).
func ValidateConfig(cfg *Config) []ValidationError {
	var errs []ValidationError

	if cfg.ScanIntervalSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:    "scan_interval_seconds",
			Message:  "must be positive",
			Severity: "error",
		})
	}
	if cfg.LongCycleIntervalSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:    "long_cycle_interval_seconds",
			Message:  "must be positive",
			Severity: "error",
		})
	}
	if cfg.MaxCycles <= 0 {
		errs = append(errs, ValidationError{
			Field:    "max_cycles",
			Message:  "must be positive",
			Severity: "error",
		})
	}
	if cfg.CaptureHistoryDepth < 2 {
		errs = append(errs, ValidationError{
			Field:    "capture_history_depth",
			Message:  "must be at least 2 to support diffing",
			Severity: "error",
		})
	}
	if len(cfg.NameList) == 0 {
		errs = append(errs, ValidationError{
			Field:    "name_list",
			Message:  "no names configured; all non-active panes will fall back to worker<N>",
			Severity: "warning",
		})
	}

	return errs
}
