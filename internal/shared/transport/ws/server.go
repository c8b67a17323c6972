package ws

import (
	"net/http"
	"time"

	"Imperial/modules/kit/logx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server 把 HTTP 请求升级为 websocket；URL 带 game_id 时连接建立即订阅该局。
type Server struct {
	router   *Router
	hub      *Hub
	upgrader websocket.Upgrader
	log      logx.Logger
}

func NewServer(hub *Hub, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	r := NewRouter(l)
	hub.Routes(r)
	return &Server{
		router: r,
		hub:    hub,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			// 允许所有CORS跨域请求
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: l,
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	c := NewConn(wsConn, s.router, s.log)
	if gameID := req.URL.Query().Get("game_id"); gameID != "" {
		s.hub.Join(gameID, c)
	}
	c.Run()
	go func() {
		<-c.Done()
		s.hub.LeaveAll(c)
	}()
}
