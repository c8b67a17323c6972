package ws

import (
	"context"
	"sync"

	"Imperial/internal/shared/transport"
)

// Hub 按 topic（游戏 id）维护订阅连接。
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[WSConn]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[WSConn]struct{})}
}

func (h *Hub) Join(topic string, c WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.topics[topic]
	if conns == nil {
		conns = make(map[WSConn]struct{})
		h.topics[topic] = conns
	}
	conns[c] = struct{}{}
}

func (h *Hub) Leave(topic string, c WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(topic, c)
}

// LeaveAll 连接关闭时调用。
func (h *Hub) LeaveAll(c WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic := range h.topics {
		h.leaveLocked(topic, c)
	}
}

func (h *Hub) leaveLocked(topic string, c WSConn) {
	conns := h.topics[topic]
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.topics, topic)
	}
}

// Broadcast 推送给 topic 的全部订阅者，返回推送的连接数。
func (h *Hub) Broadcast(topic, name string, payload any) int {
	h.mu.RLock()
	targets := make([]WSConn, 0, len(h.topics[topic]))
	for c := range h.topics[topic] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.Push(name, payload)
	}
	return len(targets)
}

func (h *Hub) Count(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Routes 注册 feed.subscribe / feed.unsubscribe。
func (h *Hub) Routes(r *Router) {
	g := r.Group("feed")
	g.Handle("subscribe", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		sub, ok := bindSubscribe(req, resp)
		if !ok {
			return
		}
		h.Join(sub.GameID, req.Conn)
		resp.Body.Code = int(transport.OK)
		resp.Body.Msg = sub
	})
	g.Handle("unsubscribe", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		sub, ok := bindSubscribe(req, resp)
		if !ok {
			return
		}
		h.Leave(sub.GameID, req.Conn)
		resp.Body.Code = int(transport.OK)
		resp.Body.Msg = sub
	})
}

func bindSubscribe(req *WsMsgReq, resp *WsMsgResp) (Subscribe, bool) {
	var sub Subscribe
	if err := BindJSON(req, &sub); err != nil || sub.GameID == "" {
		resp.Body.Code = int(transport.InvalidParam)
		resp.Body.Msg = "game_id 不能为空"
		return sub, false
	}
	return sub, true
}
