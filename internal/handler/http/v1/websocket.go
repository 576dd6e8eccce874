package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Клиенты - мобильные приложения, Origin не проверяем
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Subscribe to incoming SOS
// @Description Websocket stream of ActiveSOSResponse messages. The current state is sent first, then every change.
// @Tags Incoming
// @Security SessionAuth
// @Param access_token query string false "Session token for clients that cannot set headers"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/incoming/ws [get]
func (h *Handler) subscribeIncoming(c *gin.Context) {
	session, _ := sessionFrom(c)
	log := h.logger.WithField("method", "subscribeIncoming").WithField("user_id", session.UserID)

	// Отменяется при закрытии соединения клиентом или остановке сервера
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	stream, err := h.inboxService.Subscribe(ctx, session.UserID)
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to upgrade websocket connection")
		return
	}
	defer conn.Close()
	log.Info("Incoming SOS subscriber connected")

	// Читаем только control-фреймы, чтобы заметить закрытие
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Incoming SOS subscriber disconnected")
			return
		case event, ok := <-stream:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "subscription ended"),
					time.Now().Add(wsWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ActiveSOSResponse{Event: ModelToSOSEventResponse(event)}); err != nil {
				log.WithError(err).Warn("Failed to write to websocket subscriber")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
