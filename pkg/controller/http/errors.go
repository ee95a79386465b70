package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/secmon-lab/owasprisk/pkg/usecase"
	"github.com/secmon-lab/owasprisk/pkg/utils/errutil"
	"github.com/secmon-lab/owasprisk/pkg/utils/logging"
	"github.com/secmon-lab/owasprisk/pkg/utils/safe"
)

// errBadRequest marks malformed requests that never reached the use cases
var errBadRequest = errors.New("bad request")

// statusOf maps an error to the HTTP status it is reported with
func statusOf(err error) int {
	if errors.Is(err, errBadRequest) || usecase.IsValidationError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	errutil.HandleHTTP(ctx, w, err, statusOf(err))
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleAPIError is handleError with a JSON body
func handleAPIError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		_ = errutil.Handle(ctx, err, "API request failed")
	} else {
		logging.From(ctx).Warn("invalid API request", "error", err.Error())
	}

	writeJSON(ctx, w, status, errorResponse{Error: err.Error()})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}
