package app

import (
	"context"
	"time"

	pkgcron "github.com/bluelog/core/internal/pkg/cron"
	sessionpkg "github.com/bluelog/core/internal/pkg/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const purgeSessionsJob = "purge_sessions"

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	purgeEvery := time.Hour
	sched.Register(pkgcron.Job{
		Name:        purgeSessionsJob,
		Description: "Delete expired and revoked login sessions",
		Interval:    purgeEvery,
		Fn: func(ctx context.Context) error {
			n, err := sessionpkg.PurgeExpired(db.WithContext(ctx), time.Now())
			if err != nil {
				cronLogger.Warn("purge sessions failed", zap.Error(err))
				return err
			}
			if n > 0 {
				cronLogger.Info("purged sessions", zap.Int64("count", n))
			}
			return nil
		},
	})

	cronLogger.Debug("job registered",
		zap.String("name", purgeSessionsJob),
		zap.String("every", humanizeDuration(purgeEvery)),
	)
}
