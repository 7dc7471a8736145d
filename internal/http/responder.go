package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/rest-planning/internal/application"
	"github.com/example/rest-planning/internal/interval"
)

var (
	errBadRequestBody  = errors.New("el formato de la solicitud no es válido")
	errMissingIdentity = errors.New("se requiere un token de autenticación")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Error: message})
}

// handleServiceError maps the application error taxonomy onto HTTP statuses.
// User-input failures carry a descriptive message; storage failures do not
// leak internals.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("error desconocido"))
		return
	}

	r.loggerFor(ctx).ErrorContext(ctx, "service call failed", "kind", application.ErrorKind(err), "error", err)

	switch {
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "se requiere autenticación"})
		return
	case errors.Is(err, application.ErrForbidden):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{Error: "no tiene permisos para realizar esta operación"})
		return
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: "el recurso solicitado no existe"})
		return
	case errors.Is(err, application.ErrCorruptRange):
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "el rango de la vigencia almacenada es inconsistente"})
		return
	case errors.Is(err, application.ErrStorage):
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "se produjo un error interno al guardar los datos"})
		return
	}

	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "los datos enviados contienen errores",
			Fields: vErr.FieldErrors,
		})
		return
	}

	var scopeErr *application.ScopeViolationError
	if errors.As(err, &scopeErr) {
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{Error: scopeErr.Error()})
		return
	}

	var (
		invalidErr  *interval.InvalidSegmentError
		invertedErr *interval.InvertedSegmentError
		overlapErr  *interval.OverlapError
		gapErr      *interval.CoverageGapError
		unitErr     *application.UnassignedUnitError
	)
	if errors.As(err, &invalidErr) || errors.As(err, &invertedErr) ||
		errors.As(err, &overlapErr) || errors.As(err, &gapErr) ||
		errors.As(err, &unitErr) {
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "se produjo un error interno"})
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "la solicitud no es válida"
	case http.StatusUnauthorized:
		return "se requiere autenticación"
	case http.StatusForbidden:
		return "no tiene permisos para realizar esta operación"
	case http.StatusNotFound:
		return "el recurso solicitado no existe"
	case http.StatusUnprocessableEntity:
		return "los datos enviados contienen errores"
	default:
		return "se produjo un error interno"
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
