package connect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"orderflow/internal/entities"
	"orderflow/internal/pkg/auth"
	"orderflow/internal/realtime"
	"orderflow/pkg/logger"
)

// StatusUnauthorized закрытие соединения без валидного токена.
const StatusUnauthorized websocket.StatusCode = 4401

const readLimit = 4096

var errNotJoinable = errors.New("only order rooms can be joined")

const replyForbidden = "forbidden"

type Config struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	SendBuffer       int
	OriginPatterns   []string
}

type Handler struct {
	log      handlerLogger
	hub      Hub
	verifier TokenVerifier
	access   OrderAccess
	cfg      Config
}

func New(log handlerLogger, hub Hub, verifier TokenVerifier, access OrderAccess, cfg Config) *Handler {
	return &Handler{
		log:      log.With(logger.NewField("handler", "ws_connect")),
		hub:      hub,
		verifier: verifier,
		access:   access,
		cfg:      cfg,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.cfg.OriginPatterns,
	})
	if err != nil {
		h.log.With(
			logger.NewField("remote_addr", r.RemoteAddr),
			logger.NewField("error", err),
		).Warn("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(readLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	identity, token, err := h.handshake(ctx, conn)
	if err != nil {
		h.log.With(
			logger.NewField("remote_addr", r.RemoteAddr),
			logger.NewField("error", err),
		).Warn("websocket handshake rejected")
		_ = conn.Close(StatusUnauthorized, "unauthorized")
		return
	}

	session := realtime.NewSession(uuid.NewString(), identity, h.cfg.SendBuffer)
	sessionLog := h.log.With(
		logger.NewField("session_id", session.ID()),
		logger.NewField("user_id", identity.UserID),
	)

	h.hub.Register(session)
	defer h.hub.Remove(session)

	rooms := make([]string, 0, 2)
	for _, room := range identity.Rooms() {
		rooms = append(rooms, room.String())
	}
	session.Reply(eventConnected, connectedPayload{
		SessionID: session.ID(),
		UserID:    identity.UserID,
		Rooms:     rooms,
	})

	sessionLog.Info("websocket session opened")

	go h.writeLoop(ctx, cancel, conn, session)
	err = h.readLoop(ctx, conn, session, token, sessionLog)

	status := websocket.CloseStatus(err)
	if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
		sessionLog.Info("websocket session closed")
		return
	}
	sessionLog.With(logger.NewField("error", err)).Warn("websocket session closed with error")
}

// handshake первый кадр обязан содержать токен и прийти вовремя.
func (h *Handler) handshake(ctx context.Context, conn *websocket.Conn) (entities.Identity, string, error) {
	if h.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.HandshakeTimeout)
		defer cancel()
	}

	var msg handshakeMessage
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		return entities.Identity{}, "", fmt.Errorf("%w: read handshake: %w", auth.ErrUnauthorized, err)
	}
	if msg.Auth == nil || msg.Auth.Token == "" {
		return entities.Identity{}, "", fmt.Errorf("%w: handshake has no token", auth.ErrUnauthorized)
	}

	identity, err := h.verifier.Verify(msg.Auth.Token)
	if err != nil {
		return entities.Identity{}, "", err
	}
	return identity, msg.Auth.Token, nil
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, session *realtime.Session, token string, log logger.Logger) error {
	for {
		_, raw, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var cmd clientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			session.Reply(eventError, errorPayload{Error: "invalid command"})
			continue
		}

		room, err := joinableRoom(cmd.Room)
		if err != nil {
			session.Reply(eventError, errorPayload{Error: err.Error()})
			continue
		}

		switch cmd.Action {
		case actionJoin:
			if !h.canJoin(ctx, token, room, log) {
				session.Reply(eventError, errorPayload{Error: replyForbidden})
				continue
			}
			h.hub.Join(session, room)
			session.Reply(eventJoined, roomPayload{Room: room.String()})
		case actionLeave:
			h.hub.Leave(session, room)
			session.Reply(eventLeft, roomPayload{Room: room.String()})
		default:
			session.Reply(eventError, errorPayload{Error: fmt.Sprintf("unknown action %q", cmd.Action)})
		}
	}
}

// canJoin ошибка проверки трактуется как отказ.
func (h *Handler) canJoin(ctx context.Context, token string, room entities.Room, log logger.Logger) bool {
	allowed, err := h.access.CanView(ctx, token, room.ID())
	if err != nil {
		log.With(
			logger.NewField("room", room.String()),
			logger.NewField("error", err),
		).Warn("order access check failed")
		return false
	}
	return allowed
}

func (h *Handler) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, session *realtime.Session) {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case <-session.Done():
			return
		case frame := <-session.Outbound():
			if err := h.write(ctx, conn, frame); err != nil {
				return
			}
		}
	}
}

func (h *Handler) write(ctx context.Context, conn *websocket.Conn, frame []byte) error {
	if h.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.WriteTimeout)
		defer cancel()
	}
	return conn.Write(ctx, websocket.MessageText, frame)
}

// Комнаты user и restaurant выдаются только по токену.
func joinableRoom(raw string) (entities.Room, error) {
	room, err := entities.ParseRoom(raw)
	if err != nil {
		return "", err
	}
	if room.Kind() != entities.RoomOrder {
		return "", errNotJoinable
	}
	return room, nil
}
