package order_status_post

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

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With(logger.NewField("handler", "order_status_post"))

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

	id := mux.Vars(r)["id"]

	var req dto.StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || id == "" || req.Status == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	updated, err := h.service.ChangeStatus(r.Context(), identity, id, entities.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, order.ErrUnknownStatus),
			errors.Is(err, order.ErrUnsupportedTarget):
			h.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, order.ErrForbidden):
			h.writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Forbidden"})
		case errors.Is(err, order.ErrOrderNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, order.ErrInvalidTransition):
			h.writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		default:
			h.log.With(
				logger.NewField("order", id),
				logger.NewField("status", req.Status),
				logger.NewField("error", err),
			).Error("change order status")
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, dto.OrderFromDomain(updated))
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
