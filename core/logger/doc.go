// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production).
//
// # Operation Correlation
//
// Lending operations (checkout, return, renew) emit several log entries each.
// The WithOpID helper attaches a generated operation id to the logger, ensuring
// that all logs belonging to one operation can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Engine started")
//
//	// In a service operation:
//	l := logger.WithOpID(log)
//	l.Error("Checkout failed", zap.Error(err))
package logger
