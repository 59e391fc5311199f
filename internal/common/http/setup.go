package http

import (
	"net/http"

	"github.com/nmoiseev/org-admin-backend/internal/common/constants"
	"github.com/nmoiseev/org-admin-backend/internal/common/httpmetrics"
	"github.com/nmoiseev/org-admin-backend/internal/common/logger"
)

// BuildBaseHandler wraps the application handler with the shared middleware
// stack, outermost first: security headers, panic recovery, trace id,
// request size cap, request metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metricsCollector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(metricsCollector.Wrap(handler)))))
}
