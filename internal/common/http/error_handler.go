package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/nmoiseev/org-admin-backend/internal/common/constants"
	commonerrors "github.com/nmoiseev/org-admin-backend/internal/common/errors"
	"github.com/nmoiseev/org-admin-backend/internal/common/logger"
	"github.com/nmoiseev/org-admin-backend/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

// HandleError is the single boundary where failures become responses.
// Domain errors keep their code and status; anything else is logged with
// context and flattened to a generic 500.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr)
		return
	}

	h.log.WithFields(r.Context(), logger.Fields{
		"error":  err.Error(),
		"method": r.Method,
		"path":   r.URL.Path,
		"action": "unhandled_error",
	}).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		r.URL.Path,
		r.Method,
	).Inc()

	WriteErrorCode(w, http.StatusInternalServerError, commonerrors.ErrInternalError.Code(), commonerrors.ErrInternalError.Message())
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError) {
	status := err.HTTPStatus()

	h.log.WithFields(r.Context(), logger.Fields{
		"error_code": err.Code(),
		"category":   string(err.Category()),
		"status":     status,
		"method":     r.Method,
		"path":       r.URL.Path,
		"action":     "domain_error",
	}).Warnf("request failed: %s", err.Error())

	metrics.DomainErrorsTotal.WithLabelValues(
		string(err.Category()),
		err.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		r.URL.Path,
		r.Method,
	).Inc()

	WriteErrorCode(w, status, err.Code(), err.Message())
}

func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, ok := ctx.Value(constants.TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
