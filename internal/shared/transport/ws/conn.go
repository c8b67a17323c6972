package ws

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"Imperial/modules/kit/logx"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const outQueueSize = 256

// Conn 一个 websocket 连接：读循环处理心跳和订阅请求，写循环推送事件。
type Conn struct {
	conn     *websocket.Conn
	router   *Router
	outChan  chan *RespBody
	property map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func NewConn(wsConn *websocket.Conn, router *Router, l logx.Logger) *Conn {
	if l == nil {
		l = logx.Nop()
	}
	return &Conn{
		conn:     wsConn,
		router:   router,
		outChan:  make(chan *RespBody, outQueueSize),
		property: make(map[string]any),
		done:     make(chan struct{}),
		log:      l,
	}
}

func (c *Conn) SetProperty(key string, value any) {
	c.Lock()
	defer c.Unlock()
	c.property[key] = value
}

func (c *Conn) GetProperty(key string) any {
	c.RLock()
	defer c.RUnlock()
	return c.property[key]
}

func (c *Conn) Addr() string {
	return c.conn.RemoteAddr().String()
}

// Push 非阻塞入队；慢消费者的队列满了直接丢弃，不拖慢发布方。
func (c *Conn) Push(name string, data any) {
	c.push(&RespBody{Name: name, Msg: data})
}

func (c *Conn) push(body *RespBody) {
	select {
	case <-c.done:
	case c.outChan <- body:
	default:
		c.log.Warn("ws push dropped, queue full", zap.String("addr", c.Addr()), zap.String("name", body.Name))
	}
}

const writeWait = 10 * time.Second

func (c *Conn) Run() {
	go c.readMsgLoop()
	go c.writeMsgLoop()
}

func (c *Conn) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			c.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		c.Close()
	}()
	// http.Server 的 ReadTimeout 会残留在被接管的连接上
	_ = c.conn.SetReadDeadline(time.Time{})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.log.Debug("ws read closed", zap.Error(err))
			return
		}

		reqBody := ReqBody{}
		if err := json.Unmarshal(data, &reqBody); err != nil {
			c.log.Warn("ws unmarshal request error", zap.Error(err))
			continue
		}

		// req 和 resp 的 Seq 必须一致
		resp := WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
		if reqBody.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = mapstructure.Decode(reqBody.Msg, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else {
			c.router.Dispatch(&WsMsgReq{Body: &reqBody, Conn: c}, &resp)
		}
		c.push(resp.Body)
	}
}

func (c *Conn) writeMsgLoop() {
	for {
		select {
		case msg := <-c.outChan:
			raw, err := json.Marshal(msg)
			if err != nil {
				c.log.Error("ws marshal push error", zap.Error(err))
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				c.log.Debug("ws write error", zap.Error(err))
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
		close(c.done)
	})
}

func (c *Conn) Done() <-chan struct{} {
	return c.done
}
