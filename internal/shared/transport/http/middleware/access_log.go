package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"Imperial/internal/shared/transport"
	"Imperial/modules/kit/logx"
	"Imperial/modules/kit/tracex"
)

// TraceHeader 上游透传的 trace_id 请求头，响应里回写同名头。
const TraceHeader = "X-Trace-Id"

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	_, _ = w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	_, _ = w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 统一写访问日志，并尽量从响应体中的 `code` 字段提取业务码。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		action := c.Request.Method + " " + route

		parent := c.Request.Context()
		if id := c.GetHeader(TraceHeader); id != "" {
			parent = tracex.WithTraceID(parent, id)
		}
		ctx := transport.NewContextWithParent(parent, action)
		c.Request = c.Request.WithContext(ctx)
		if id, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(TraceHeader, id)
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		switch code, ok := parseBizCode(bw.body.Bytes()); {
		case ok:
			transport.SetBizCode(ctx, transport.BizCode(code))
		case c.Writer.Status() >= http.StatusBadRequest:
			transport.SetBizCode(ctx, transport.SystemError)
		default:
			transport.SetBizCode(ctx, transport.OK)
		}
		if len(c.Errors) > 0 {
			transport.SetErrorReason(ctx, c.Errors.Last().Error())
		}

		transport.WriteAccessLog(ctx, log)
	}
}

func parseBizCode(body []byte) (int, bool) {
	if len(body) == 0 {
		return 0, false
	}
	// {"code":123, ...}
	var payload struct {
		Code *int `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == nil {
		return 0, false
	}
	return *payload.Code, true
}
