package model

import "fmt"

// ConfigurationError reports malformed input data detected before model
// construction completes. It is fatal to the run and never retried.
type ConfigurationError struct {
	Reason string
}

func (err *ConfigurationError) Error() string {
	return "invalid schedule input: " + err.Reason
}

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// InvariantError reports a post-solve consistency failure: the solved values
// do not round to a valid schedule. It indicates a model builder defect, not a
// data problem.
type InvariantError struct {
	Reason string
}

func (err *InvariantError) Error() string {
	return "schedule invariant violated: " + err.Reason
}

func invariantErrorf(format string, args ...any) *InvariantError {
	return &InvariantError{Reason: fmt.Sprintf(format, args...)}
}
