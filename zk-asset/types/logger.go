package types

import "github.com/rs/zerolog"

var logger = zerolog.Nop()

// SetLogger replaces the package logger. Logging is disabled by default.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("module", "zk-asset/types").Logger()
}
