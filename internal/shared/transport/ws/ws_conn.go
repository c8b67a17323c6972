package ws

type ReqBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Msg  any    `json:"msg"`
}

type RespBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Code int    `json:"code"`
	Msg  any    `json:"msg"`
}

type WsMsgReq struct {
	Body *ReqBody
	Conn WSConn
}

type WsMsgResp struct {
	Body *RespBody
}

// WSConn 路由处理器看到的连接。
type WSConn interface {
	SetProperty(key string, value any)
	GetProperty(key string) any
	Addr() string
	Push(name string, data any)
	Close()
	// Done 用于感知连接生命周期结束（连接关闭时该 channel 会被关闭）
	Done() <-chan struct{}
}

type Heartbeat struct {
	CTime int64 `json:"ctime"`
	STime int64 `json:"stime"`
}

// Subscribe feed.subscribe / feed.unsubscribe 的参数。
type Subscribe struct {
	GameID string `json:"game_id"`
}

const (
	HeartbeatMsg   = "heartbeat"
	SubscribeMsg   = "feed.subscribe"
	UnsubscribeMsg = "feed.unsubscribe"
)
