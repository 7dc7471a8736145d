package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/rest-planning/internal/application"
	"github.com/example/rest-planning/internal/interval"
)

// PlanHandler serves bulk plan submissions and plan queries.
type PlanHandler struct {
	service   *application.PlanService
	responder responder
}

// NewPlanHandler wires the plan service into HTTP handlers.
func NewPlanHandler(service *application.PlanService, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{
		service:   service,
		responder: newResponder(logger),
	}
}

type segmentRequest struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	State       string  `json:"state"`
	DestGroupID *string `json:"dest_group_id,omitempty"`
	DestUnitID  *string `json:"dest_unit_id,omitempty"`
}

type bulkItemRequest struct {
	AgentID  string           `json:"agent_id"`
	Segments []segmentRequest `json:"segments"`
}

type bulkRequest struct {
	PeriodID string            `json:"vigencia_id,omitempty"`
	From     string            `json:"from,omitempty"`
	To       string            `json:"to,omitempty"`
	Items    []bulkItemRequest `json:"items"`
}

type bulkResponse struct {
	OK       bool    `json:"ok"`
	PeriodID *string `json:"vigencia_id,omitempty"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Agents   int     `json:"agents"`
	Rows     int     `json:"rows"`
}

type planRowResponse struct {
	ID            string  `json:"id"`
	AgentID       string  `json:"agent_id"`
	AgentCode     string  `json:"agent_code"`
	AgentNickname string  `json:"agent_nickname"`
	UnitID        string  `json:"unit_id"`
	UnitName      string  `json:"unit_name"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	State         string  `json:"state"`
	DestGroupID   *string `json:"dest_group_id,omitempty"`
	DestGroupName *string `json:"dest_group_name,omitempty"`
	DestUnitID    *string `json:"dest_unit_id,omitempty"`
	DestUnitName  *string `json:"dest_unit_name,omitempty"`
	PeriodID      *string `json:"vigencia_id,omitempty"`
	CreatedBy     string  `json:"created_by"`
}

type listPlansResponse struct {
	Items []planRowResponse `json:"items"`
}

// ApplyBulk handles POST /rest-planning/bulk.
func (h *PlanHandler) ApplyBulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.handleServiceError(ctx, w, application.ErrUnauthorized)
		return
	}

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input := application.BulkInput{
		Selector: application.RangeSelector{
			PeriodID: req.PeriodID,
			From:     req.From,
			To:       req.To,
		},
		Items: make([]application.BulkItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		segments := make([]interval.RawSegment, 0, len(item.Segments))
		for _, seg := range item.Segments {
			segments = append(segments, interval.RawSegment{
				From:        seg.From,
				To:          seg.To,
				State:       seg.State,
				DestGroupID: seg.DestGroupID,
				DestUnitID:  seg.DestUnitID,
			})
		}
		input.Items = append(input.Items, application.BulkItem{
			AgentID:  item.AgentID,
			Segments: segments,
		})
	}

	result, err := h.service.ApplyBulk(ctx, principal, input)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, bulkResponse{
		OK:       true,
		PeriodID: result.PeriodID,
		From:     result.Range.From.String(),
		To:       result.Range.To.String(),
		Agents:   result.Agents,
		Rows:     result.Rows,
	})
}

// Query handles GET /rest-planning.
func (h *PlanHandler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.handleServiceError(ctx, w, application.ErrUnauthorized)
		return
	}

	query := r.URL.Query()
	params := application.QueryParams{
		Selector: application.RangeSelector{
			PeriodID: query.Get("vigencia_id"),
			From:     query.Get("from"),
			To:       query.Get("to"),
		},
		UnitID:  query.Get("unit_id"),
		AgentID: query.Get("agent_id"),
	}

	views, err := h.service.Query(ctx, principal, params)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	items := make([]planRowResponse, 0, len(views))
	for _, view := range views {
		items = append(items, planRowResponse{
			ID:            view.ID,
			AgentID:       view.AgentID,
			AgentCode:     view.AgentCode,
			AgentNickname: view.AgentNickname,
			UnitID:        view.UnitID,
			UnitName:      view.UnitName,
			From:          view.From.String(),
			To:            view.To.String(),
			State:         view.State,
			DestGroupID:   view.DestGroupID,
			DestGroupName: view.DestGroupName,
			DestUnitID:    view.DestUnitID,
			DestUnitName:  view.DestUnitName,
			PeriodID:      view.PeriodID,
			CreatedBy:     view.CreatedBy,
		})
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, listPlansResponse{Items: items})
}
