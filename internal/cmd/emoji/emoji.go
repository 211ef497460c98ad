// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols printed before command results.
const (
	// Success marks a completed operation or a valid configuration.
	Success = "✓"

	// Error marks a failed operation or a validation problem.
	Error = "✗"

	// Warning marks a non-fatal problem.
	Warning = "!"

	// Info marks informational lines such as server addresses.
	Info = "i"
)
