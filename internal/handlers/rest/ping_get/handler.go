package ping_get

import (
	"encoding/json"
	"net/http"

	"orderflow/internal/handlers/rest/dto"
	"orderflow/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service string
}

func New(log handlerLogger, service string) *Handler {
	handlerLog := log.With(logger.NewField("handler", "ping_get"))

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	message := "pong"
	res := dto.PingResponse{
		Message: &message,
		Service: h.service,
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(res)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
