package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/gestoria/internal/observability/logger"
)

// errorResponse controla exactamente qué campos se serializan al cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe la respuesta HTTP del error. Las causas de errores 5xx
// quedan en el log, nunca en el body.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	if appErr.HTTPStatus >= http.StatusInternalServerError && appErr.Err != nil {
		logger.L().Error("internal error", logger.Err(appErr.Err))
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}
