// Package logging builds the process's structured logger from a literal
// zap.Config, returned rather than stashed in a package global so every
// component takes its logger as a constructor argument.
package logging

import (
	"encoding/json"

	"go.uber.org/zap"
)

// New builds a *zap.SugaredLogger. development enables human-readable
// stack traces and debug-level output via zap's "development" mode.
func New(development bool) (*zap.SugaredLogger, error) {
	rawJSON := []byte(`{
		"level": "info",
		"development": false,
		"encoding": "json",
		"outputPaths": ["stdout"],
		"errorOutputPaths": ["stderr"],
		"disableCaller": false,
		"disableStackTrace": false,
		"encoderConfig": {
			"messageKey": "message",
			"levelKey": "level",
			"levelEncoder": "lowercase",
			"callerKey": "caller",
			"timeKey": "ts",
			"timeEncoder": "ISO8601"
		}
	}`)

	var cfg zap.Config
	if err := json.Unmarshal(rawJSON, &cfg); err != nil {
		return nil, err
	}

	if development {
		cfg.Development = true
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
