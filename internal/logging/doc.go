// Package logging provides centralized zerolog-based structured logging for
// the player core.
//
// This package implements a unified logging layer using zerolog, providing
// zero-allocation structured JSON logging for production and human-readable
// console output for development.
//
// # Overview
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output format for production (machine-parseable)
//   - Console output format for development (human-readable)
//   - Global logger configuration through Init
//   - Context-aware logging with correlation ID and op ID propagation
//
// # Quick Start
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Caller: false,
//	})
//
//	// Log messages with structured fields
//	logging.Info().Str("path", path).Msg("track loaded")
//	logging.Error().Err(err).Str("plugin", name).Msg("decode failed")
//
//	// Context-aware logging
//	logging.Ctx(ctx).Info().Str("op_id", opID).Msg("control op handled")
//
// # Configuration
//
// The package reads no LOG_* environment variables; configuration goes
// through Init (cmd/waveterm passes its log level and format flags). The
// only variable read is FUZZ_MODE: when it is "1" at startup, the default
// level is fatal.
//
// Programmatic Configuration:
//
//	logging.Init(logging.Config{
//	    Level:     "debug",    // trace, debug, info, warn, error, fatal
//	    Format:    "console",  // json or console
//	    Caller:    true,       // Include caller info
//	    Timestamp: true,       // Include timestamps
//	    Output:    os.Stderr,  // Output writer
//	})
//
// # Log Levels
//
// Supported log levels (from most to least verbose):
//
//	trace  - Very detailed diagnostic information
//	debug  - Detailed diagnostic information
//	info   - General operational information (default)
//	warn   - Warning conditions that should be addressed
//	error  - Error conditions requiring attention
//	fatal  - Fatal errors that terminate the program
//	panic  - Panic conditions that crash the program
//
// # Structured Logging Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
//
// Use structured fields instead of string formatting:
//
//	// Good - structured, searchable, efficient
//	logging.Info().
//	    Str("path", path).
//	    Int("bitrate", bitrate).
//	    Dur("elapsed", duration).
//	    Msg("tags decoded")
//
//	// Avoid - unstructured, harder to parse
//	logging.Info().Msgf("decoded %s in %v", path, duration)
//
// # Component Loggers
//
// Create component-specific loggers with default fields:
//
//	// Create a logger for the cache component
//	cacheLogger := logging.With().Str("component", "cache").Logger()
//	cacheLogger.Info().Msg("refresh started")
//	cacheLogger.Error().Err(err).Msg("refresh failed")
//
// # Context-Aware Logging
//
// Propagate correlation and op IDs through logging:
//
//	logger := logging.Ctx(ctx)
//	logger.Info().Msg("control operation handled")
//
// # slog
//
// The package has no slog adapter. The supervisor package's sutureslog
// event hook takes a *slog.Logger, which cmd/waveterm builds separately
// with log/slog, so supervisor events do not pass through this logger.
//
// # Output Formats
//
// JSON Format (Production):
//
//	{"level":"info","time":"2026-07-29T10:30:00Z","message":"track loaded","path":"/music/a.flac"}
//
// Console Format (Development):
//
//	10:30:00 INF track loaded path=/music/a.flac
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
//
// # Testing
//
// Create test loggers that capture output:
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//	output := buf.String()
//
// # See Also
//
//   - github.com/rs/zerolog: Underlying logging library
package logging
