// Package logger builds the process-wide zap logger.  The request
// path keeps using echo's logger; zap covers main, the notification
// consumer and the reminder scheduler, where structured fields matter.
package logger

import (
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

// New returns a logger tuned for the given environment.  Production
// gets JSON output; anything else gets a colored console encoder.
func New(env string) *zap.Logger {
    var config zap.Config

    if env == "prod" || env == "production" {
        config = zap.NewProductionConfig()
    } else {
        config = zap.NewDevelopmentConfig()
        config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
    }

    config.OutputPaths = []string{"stdout"}

    l, err := config.Build()
    if err != nil {
        panic("failed to create logger: " + err.Error())
    }
    return l
}
