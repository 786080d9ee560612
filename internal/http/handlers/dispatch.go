package handlers

import (
	"errors"
	"net/http"

	"github.com/Emmanuel3dev/market-server/internal/apperr"
	"github.com/Emmanuel3dev/market-server/internal/logx"
	"github.com/Emmanuel3dev/market-server/internal/service/dispatch"
)

type assignedCounter interface {
	Inc()
}

// DispatchHandler handles HTTP requests for delivery assignment.
type DispatchHandler struct {
	usecase  dispatchUsecase
	logger   logx.Logger
	assigned assignedCounter
	failures assignedCounter
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(logger logx.Logger, uc dispatchUsecase, assigned, failures assignedCounter) *DispatchHandler {
	return &DispatchHandler{usecase: uc, logger: logger, assigned: assigned, failures: failures}
}

// Assign handles POST /assign-delivery.
func (h *DispatchHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignDeliveryRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.BoutiquePosition == nil || req.ClientPosition == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
		return
	}

	res, err := h.usecase.Assign(r.Context(), req.toModel())

	var noCourier *dispatch.NoCourierError
	switch {
	case err == nil:
		if h.assigned != nil {
			h.assigned.Inc()
		}
		writeJSON(h.logger, w, r, http.StatusOK, assignResultToResponse(res))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.As(err, &noCourier):
		if h.failures != nil {
			h.failures.Inc()
		}
		writeJSON(h.logger, w, r, http.StatusNotFound, noCourierResponse{
			Error:    "no courier available",
			Distance: noCourier.DistanceKm,
		})
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
