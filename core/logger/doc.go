// Package logger builds the zap logger used across holocron.
//
// Level "debug" selects zap's development config; any other level uses the
// production config at that level. Format "console" switches to the coloured
// console encoder for CLI use.
//
// WithRayID attaches the request's ray id (set by the rayid middleware) so all
// log lines of one HTTP request can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
