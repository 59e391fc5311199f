package http

import (
	"net/http"

	commonerrors "github.com/nmoiseev/org-admin-backend/internal/common/errors"
	"github.com/nmoiseev/org-admin-backend/internal/common/logger"
)

func HealthHandler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			WriteErrorCode(w, http.StatusMethodNotAllowed, commonerrors.ErrMethodNotAllowed.Code(), commonerrors.ErrMethodNotAllowed.Message())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
