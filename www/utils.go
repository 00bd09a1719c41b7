package www

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nhaugen/kraftpris-go/types"
)

type errorBody struct {
	Error string `json:"error"`
}

func boolOrDefault(u *url.URL, key string, defaultValue bool) bool {
	if v := u.Query().Get(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func stringOrDefault(u *url.URL, key string, defaultValue string) string {
	if v := u.Query().Get(key); v != "" {
		return v
	}
	return defaultValue
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("failed to encode response", slog.Any("error", err))
	}
}

// writeError maps the error taxonomy to status codes: caller mistakes to
// 400, dead upstreams to 502, anything else to 500. Errors are never
// swallowed upstream of here, so no partial results can leak.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrInvalidDateFormat), errors.Is(err, types.ErrUnsupportedCurrency):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrUpstreamUnavailable):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", slog.Any("error", err))
	} else {
		logger.Warn("request failed", slog.Int("status", status), slog.Any("error", err))
	}

	writeJson(w, status, errorBody{Error: err.Error()})
}
