package logger

import "go.uber.org/zap"

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &zapLogger{logger: zap.NewNop()}
}

// NewFromZap wraps an existing zap logger, mainly so tests can hand in an
// observer core.
func NewFromZap(z *zap.Logger) Logger {
	return &zapLogger{logger: z}
}
