package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/response"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
	wsPongWait   = wsPingPeriod + 10*time.Second
)

// EventsHandler 认证事件推送(WebSocket)
// 客户端订阅后收到SIGNED_IN、SIGNED_OUT、PASSWORD_RECOVERY，据此刷新或清空本地会话
type EventsHandler struct {
	bus      user.AuthEventBus
	upgrader websocket.Upgrader
}

// NewEventsHandler 创建事件处理器
func NewEventsHandler(bus user.AuthEventBus) *EventsHandler {
	return &EventsHandler{
		bus: bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 认证已由Token完成，Token不会被跨站页面自动携带
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream 订阅当前用户的认证事件
// @Summary      认证事件流
// @Description  WebSocket，浏览器可用access_token查询参数传递Token
// @Tags         用户
// @Security     BearerAuth
// @Router       /api/v1/auth/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	ctx, stop := context.WithCancel(c.Request.Context())
	defer stop()

	// 先订阅再升级：订阅失败时还能返回普通JSON错误
	events, unsubscribe, err := h.bus.Subscribe(ctx, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Ctx(ctx).WithError(err).Warn("WebSocket升级失败")
		return
	}
	defer conn.Close()

	go readPump(conn, stop)

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

// readPump 只处理pong和关闭帧，连接断开时取消订阅
func readPump(conn *websocket.Conn, stop context.CancelFunc) {
	defer stop()

	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
