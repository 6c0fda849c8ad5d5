package internal_emit_post

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"orderflow/internal/entities"
	"orderflow/internal/handlers/rest/dto"
	"orderflow/pkg/logger"
)

const internalKeyHeader = "x-internal-key"

// Handler доверенный эндпоинт, через который сервисы пушат сообщения в комнаты.
type Handler struct {
	log         handlerLogger
	emitter     Emitter
	internalKey []byte
}

func New(log handlerLogger, emitter Emitter, internalKey string) *Handler {
	handlerLog := log.With(logger.NewField("handler", "internal_emit_post"))

	return &Handler{
		log:         handlerLog,
		emitter:     emitter,
		internalKey: []byte(internalKey),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get(internalKeyHeader)
	if len(h.internalKey) == 0 || subtle.ConstantTimeCompare([]byte(key), h.internalKey) != 1 {
		h.log.With(
			logger.NewField("remote_addr", r.RemoteAddr),
		).Warn("internal emit with missing or wrong key")
		h.writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Forbidden"})
		return
	}

	var req dto.EmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid body"})
		return
	}
	if req.Event == "" || req.Room == "" {
		h.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "event and room are required"})
		return
	}

	room, err := entities.ParseRoom(req.Room)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	var payload any
	if len(req.Payload) > 0 {
		payload = req.Payload
	}

	if err := h.emitter.Emit(r.Context(), room, req.Event, payload); err != nil {
		h.log.With(
			logger.NewField("room", req.Room),
			logger.NewField("event", req.Event),
			logger.NewField("error", err),
		).Error("internal emit failed")
		h.writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{Error: "emit failed"})
		return
	}

	h.writeJSON(w, http.StatusOK, dto.EmitResponse{Success: true})
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
