package http

import (
	"net/http"
	"runtime/debug"

	commonerrors "github.com/nmoiseev/org-admin-backend/internal/common/errors"
	"github.com/nmoiseev/org-admin-backend/internal/common/logger"
)

func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Criticalf("panic recovered: %v\n%s", err, debug.Stack())
					WriteErrorCode(w, http.StatusInternalServerError, commonerrors.ErrInternalError.Code(), commonerrors.ErrInternalError.Message())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
