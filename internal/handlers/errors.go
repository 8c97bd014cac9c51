package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Werneck0live/cadastro-fundos/internal/funds"
	"github.com/Werneck0live/cadastro-fundos/internal/models"
	"github.com/Werneck0live/cadastro-fundos/internal/utils"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidArgument), errors.Is(err, models.ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, funds.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, funds.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError responde {"error", "request_id"}. Erros 500 não vazam detalhes internos.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request_failed",
			"method", r.Method, "path", r.URL.Path,
			"request_id", utils.RequestID(r.Context()), "err", err)
		msg = "internal error"
	}
	utils.WriteJSON(w, status, map[string]string{
		"error":      msg,
		"request_id": utils.RequestID(r.Context()),
	})
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	utils.WriteJSON(w, http.StatusBadRequest, map[string]string{
		"error":      msg,
		"request_id": utils.RequestID(r.Context()),
	})
}
