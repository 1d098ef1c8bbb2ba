// Package log builds the slog loggers of bookdiff.
//
// Loggers write text or JSON records at level Warn, or Debug in verbose
// mode. A PathHandler wraps the output handler and shortens file system
// paths under the user's home directory to "~/...", so logs of a run can be
// shared without the local account name.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Debug("listing pages", "source", "/home/alice/scans/v1")
//	// source=~/scans/v1
//
//	slog.SetDefault(logger)
package log
