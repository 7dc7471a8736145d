package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/rest-planning/internal/application"
)

// PeriodHandler serves the validity period catalog.
type PeriodHandler struct {
	service   *application.PeriodService
	responder responder
}

// NewPeriodHandler wires the period service into HTTP handlers.
func NewPeriodHandler(service *application.PeriodService, logger *slog.Logger) *PeriodHandler {
	return &PeriodHandler{
		service:   service,
		responder: newResponder(logger),
	}
}

type createPeriodRequest struct {
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

type periodResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	From      string `json:"from"`
	To        string `json:"to"`
	CreatedBy string `json:"created_by"`
}

type listPeriodsResponse struct {
	Items []periodResponse `json:"items"`
}

// Create handles POST /rest-planning/periods.
func (h *PeriodHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.handleServiceError(ctx, w, application.ErrUnauthorized)
		return
	}

	var req createPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	period, err := h.service.CreatePeriod(ctx, principal, application.PeriodInput{
		Name: req.Name,
		From: req.From,
		To:   req.To,
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusCreated, toPeriodResponse(period))
}

// List handles GET /rest-planning/periods.
func (h *PeriodHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := PrincipalFromContext(ctx); !ok {
		h.responder.handleServiceError(ctx, w, application.ErrUnauthorized)
		return
	}

	periods, err := h.service.ListPeriods(ctx)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	items := make([]periodResponse, 0, len(periods))
	for _, period := range periods {
		items = append(items, toPeriodResponse(period))
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, listPeriodsResponse{Items: items})
}

func toPeriodResponse(period application.Period) periodResponse {
	return periodResponse{
		ID:        period.ID,
		Name:      period.Name,
		From:      period.From.String(),
		To:        period.To.String(),
		CreatedBy: period.CreatedBy,
	}
}
