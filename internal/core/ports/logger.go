// Package ports defines the core interfaces for the application.
package ports

// Logger is the logging abstraction used throughout the pipeline.
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
}
