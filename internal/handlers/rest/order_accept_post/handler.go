package order_accept_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"orderflow/internal/entities"
	"orderflow/internal/handlers/rest/dto"
	"orderflow/internal/pkg/auth"
	"orderflow/internal/service/order"
	"orderflow/pkg/logger"
)

const reasonNotReady = "order is not ready for pickup"

// Handler курьер принимает предложение. Проигравшие гонку получают 409 с причиной.
type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With(logger.NewField("handler", "order_accept_post"))

	return &Handler{
		service: service,
		log:     handlerLog,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if identity.Role != entities.RoleRider {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := h.service.AcceptOrder(r.Context(), id, identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, order.ErrInvalidTransition):
			h.writeJSON(w, http.StatusConflict, dto.AcceptResponse{Success: false, Reason: reasonNotReady})
		default:
			h.log.With(
				logger.NewField("order", id),
				logger.NewField("rider", identity.UserID),
				logger.NewField("error", err),
			).Error("accept order")
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	if !result.Success {
		h.log.With(
			logger.NewField("order", id),
			logger.NewField("rider", identity.UserID),
		).Info("accept lost the race")
		h.writeJSON(w, http.StatusConflict, dto.AcceptResponse{Success: false, Reason: result.Reason})
		return
	}

	h.writeJSON(w, http.StatusOK, dto.AcceptResponse{Success: true, RiderID: result.RiderID})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
