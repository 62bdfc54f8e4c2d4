// Package logging provides a minimal logging facade for the intercom runtime.
//
// The Logger interface wraps the part of log/slog the runtime needs. The
// default implementation is slog-backed; NewZerolog adapts a zerolog.Logger
// for applications that already log through zerolog.
//
//	// slog, default handler
//	logger := logging.New(nil)
//
//	// slog, JSON at debug level
//	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
//	logger = logging.New(slog.New(handler))
//
//	// zerolog console writer
//	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
//	logger = logging.NewZerolog(zl)
//
// The arena logs object creation and destruction at debug level with the
// object identity and class; string payloads are never logged, use Redacted
// to mark where one was left out.
package logging
