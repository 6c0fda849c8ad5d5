package order_ready_post

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

// Handler ресторан отмечает заказ готовым к выдаче.
type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With(logger.NewField("handler", "order_ready_post"))

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
	if identity.Role != entities.RoleRestaurant {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	ready, err := h.service.MarkReady(r.Context(), identity, id)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrForbidden):
			h.writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Forbidden"})
		case errors.Is(err, order.ErrOrderNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, order.ErrInvalidTransition),
			errors.Is(err, order.ErrOrderPastReady):
			h.writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		default:
			h.log.With(
				logger.NewField("order", id),
				logger.NewField("error", err),
			).Error("mark order ready")
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, dto.OrderFromDomain(ready))
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
