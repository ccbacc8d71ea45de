package ports

import "io"

// Logger is the application-wide logging interface.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Info logs an informational message with optional key-value attributes.
	Info(msg string, args ...any)

	// Warn logs a warning message with optional key-value attributes.
	Warn(msg string, args ...any)

	// Error logs an error, unwrapping its cause chain for display.
	Error(err error)

	// SetOutput redirects log output. Nil restores stderr.
	SetOutput(w io.Writer)

	// SetJSON switches between JSON and pretty human-readable output.
	SetJSON(enable bool)
}
