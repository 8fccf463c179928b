package events

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	defaultPingPeriod = 30 * time.Second
	checkTimeout      = 5 * time.Second
)

// AccessCheck decides whether userID may keep receiving events. It runs
// on every ping so a revoked subscriber is disconnected.
type AccessCheck func(ctx context.Context, userID string) error

type WSHandler struct {
	hub        *Hub
	log        *zap.Logger
	check      AccessCheck
	pingPeriod time.Duration
	upgrader   websocket.Upgrader
}

// NewWSHandler accepts upgrades from the allowed origins; an empty list or
// "*" admits any origin. A nil check never disconnects.
func NewWSHandler(hub *Hub, log *zap.Logger, allowedOrigins []string, check AccessCheck) *WSHandler {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	return &WSHandler{
		hub:        hub,
		log:        log,
		check:      check,
		pingPeriod: defaultPingPeriod,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Serve streams audit events to an authenticated administrator until the
// client goes away or loses access. Incoming messages are ignored.
func (h *WSHandler) Serve(c *gin.Context) {
	userID := c.GetString("user_id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := h.hub.Register(userID, conn)
	h.log.Info("audit subscriber connected", zap.String("user_id", userID))
	defer func() {
		h.hub.Unregister(sub)
		h.log.Info("audit subscriber disconnected", zap.String("user_id", userID))
	}()

	go h.writeLoop(sub)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read", zap.Error(err))
			}
			return
		}
	}
}

// writeLoop is the only writer of the connection. It closes the
// connection when the queue is closed, a write fails or access is lost,
// which in turn ends the read loop in Serve.
func (h *WSHandler) writeLoop(s *Subscriber) {
	ticker := time.NewTicker(h.pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			if !h.allowed(s.UserID) {
				msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "access revoked")
				_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
				return
			}
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) allowed(userID string) bool {
	if h.check == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	if err := h.check(ctx, userID); err != nil {
		h.log.Info("audit subscriber lost access", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return true
}
