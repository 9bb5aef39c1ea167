package main

// Exit codes.
const (
	ExitSuccess     = 0 // Success, nothing flagged
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad thresholds, invalid paths)
	ExitDataError   = 3 // Data error (unreadable document, no reference section)
	ExitFindings    = 4 // Verification completed with flagged references
)
