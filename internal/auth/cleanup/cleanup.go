package cleanup

import (
	"context"
	"time"

	authrepo "github.com/nmoiseev/org-admin-backend/internal/auth/repository"
	"github.com/nmoiseev/org-admin-backend/internal/common/constants"
	"github.com/nmoiseev/org-admin-backend/internal/common/logger"
	"github.com/nmoiseev/org-admin-backend/internal/observability/metrics"
)

type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// StartRefreshTokenCleanup periodically removes expired refresh-token rows.
// Expired tokens are already unusable; this only keeps the table small.
func StartRefreshTokenCleanup(ctx context.Context, repo authrepo.RefreshTokenRepository, log *logger.Logger) {
	startCleanup(ctx, repo, log, constants.RefreshTokenCleanupInterval)
}

func startCleanup(ctx context.Context, repo ExpiredDeleter, log *logger.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Errorf("refresh token cleanup failed: %v", err)
				continue
			}
			if deleted > 0 {
				metrics.RefreshTokensCleanupDeleted.Add(float64(deleted))
				log.Infof("refresh token cleanup: deleted %d expired tokens", deleted)
			}
		}
	}
}
