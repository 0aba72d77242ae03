package obs

import (
	"time"

	"go.uber.org/zap"
)

// Time logs the duration of an operation when the surrounding function
// returns, including the error if the caller's named return carries one.
//
// Usage:
//
//	defer obs.Time(logger, "ors.directions")(&err)
func Time(logger *zap.Logger, op string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			logger.Warn("operation failed",
				zap.String("op", op),
				zap.Duration("dur", dur),
				zap.Error(*errp),
			)
			return
		}
		logger.Debug("operation completed",
			zap.String("op", op),
			zap.Duration("dur", dur),
		)
	}
}
