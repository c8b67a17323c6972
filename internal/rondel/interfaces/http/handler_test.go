package http

import (
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Imperial/internal/rondel/app"
	"Imperial/internal/rondel/domain"
	"Imperial/internal/rondel/infra/messaging/memory"
	memstore "Imperial/internal/rondel/infra/persistence/memory"
	"Imperial/internal/shared/security"
	"Imperial/internal/shared/transport"
	"Imperial/internal/shared/transport/http/middleware"
	"Imperial/modules/kit/errx"
)

const billing = "0b5c7c55-63a3-4b53-9d0e-6f1f7d1c2a01"

type serviceSender struct{ svc *app.Service }

func (s serviceSender) Send(ctx context.Context, msg domain.Message) error {
	return s.svc.Handle(ctx, msg)
}

type commandLog struct{ cmds []domain.OutboundCommand }

func (l *commandLog) Dispatch(_ context.Context, cmd domain.OutboundCommand) error {
	l.cmds = append(l.cmds, cmd)
	return nil
}

type errSender struct{ err error }

func (s errSender) Send(context.Context, domain.Message) error { return s.err }

type fixture struct {
	engine *gin.Engine
	bus    *memory.Bus
	cmds   *commandLog
	token  string
}

func newFixture(t *testing.T, sender Sender) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bus := memory.NewBus()
	cmds := &commandLog{}
	svc := app.NewService(memstore.NewGameStore(), bus, cmds, nil, nil, func() domain.BillingID { return billing })
	if sender == nil {
		sender = serviceSender{svc: svc}
	}
	signer, err := security.NewSigner("secret", time.Hour)
	require.NoError(t, err)
	token, err := signer.Award("referee")
	require.NoError(t, err)

	r := gin.New()
	NewHandler(sender, svc).RegisterRoutes(r.Group(""), middleware.Auth(signer))
	return &fixture{engine: r, bus: bus, cmds: cmds, token: token}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (int, Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if method == nethttp.MethodPost {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func TestHandler_开局移动与查询(t *testing.T) {
	f := newFixture(t, nil)

	code, resp := f.do(t, nethttp.MethodPost, "/games/g-1/start", StartReq{Nations: []string{"France", "Italy"}})
	require.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, transport.OK, resp.Code)

	code, _ = f.do(t, nethttp.MethodPost, "/games/g-1/moves", MoveReq{Nation: "France", Space: "investor"})
	require.Equal(t, nethttp.StatusOK, code)
	code, _ = f.do(t, nethttp.MethodPost, "/games/g-1/moves", MoveReq{Nation: "France", Space: "Taxation"})
	require.Equal(t, nethttp.StatusOK, code)
	require.Len(t, f.cmds.cmds, 1, "Investor 到 Taxation 走 4 格，需要扣费")

	code, resp = f.do(t, nethttp.MethodGet, "/games/g-1/positions", nil)
	require.Equal(t, nethttp.StatusOK, code)
	raw, _ := json.Marshal(resp.Data)
	var view PositionsDTO
	require.NoError(t, json.Unmarshal(raw, &view))
	require.Len(t, view.Nations, 2)
	assert.Equal(t, NationDTO{Nation: "France", Position: "Investor", Pending: &PendingDTO{Space: "Taxation", BillingID: billing}}, view.Nations[0])
	assert.Equal(t, NationDTO{Nation: "Italy", Position: "Start"}, view.Nations[1])

	code, _ = f.do(t, nethttp.MethodPost, "/games/g-1/invoices/"+billing+"/paid", nil)
	require.Equal(t, nethttp.StatusOK, code)

	code, resp = f.do(t, nethttp.MethodGet, "/games/g-1", nil)
	require.Equal(t, nethttp.StatusOK, code)
	raw, _ = json.Marshal(resp.Data)
	var ov OverviewDTO
	require.NoError(t, json.Unmarshal(raw, &ov))
	assert.True(t, ov.Initialized)
	assert.Equal(t, []string{"France", "Italy"}, ov.Nations)
	assert.Zero(t, ov.PendingCount)

	events := f.bus.Events("g-1")
	require.NotEmpty(t, events)
	last, ok := events[len(events)-1].(domain.ActionDetermined)
	require.True(t, ok, "确认支付后发布 ActionDetermined, got=%T", events[len(events)-1])
	assert.Equal(t, domain.ActionTaxation, last.Action)
}

func TestHandler_参数错误(t *testing.T) {
	f := newFixture(t, nil)

	code, resp := f.do(t, nethttp.MethodPost, "/games/g-1/start", StartReq{})
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.Equal(t, transport.InvalidParam, resp.Code)

	code, resp = f.do(t, nethttp.MethodPost, "/games/g-1/moves", MoveReq{Nation: "France", Space: "Moon"})
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.Equal(t, transport.InvalidParam, resp.Code)

	code, resp = f.do(t, nethttp.MethodPost, "/games/g-1/invoices/not-a-uuid/paid", nil)
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.Equal(t, transport.InvalidParam, resp.Code)
}

func TestHandler_游戏不存在(t *testing.T) {
	f := newFixture(t, nil)

	code, resp := f.do(t, nethttp.MethodGet, "/games/missing/positions", nil)
	assert.Equal(t, nethttp.StatusNotFound, code)
	assert.Equal(t, transport.NotFound, resp.Code)

	code, resp = f.do(t, nethttp.MethodGet, "/games/missing", nil)
	assert.Equal(t, nethttp.StatusOK, code, "overview 对不存在的游戏返回 initialized=false")
	assert.Equal(t, transport.OK, resp.Code)
}

func TestHandler_系统错误映射(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want transport.BizCode
	}{
		{"不可用", errx.ErrUnavailable.WithCause(assert.AnError), transport.Unavailable},
		{"超时", errx.ErrTimeout, transport.Timeout},
		{"一致性", domain.ErrGameNotInitialized, transport.ConsistencyErr},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, errSender{err: tc.err})
			_, resp := f.do(t, nethttp.MethodPost, "/games/g-1/invoices/"+billing+"/failed", nil)
			assert.Equal(t, tc.want, resp.Code)
			assert.Equal(t, "系统繁忙，请稍后重试", resp.Msg)
		})
	}
}

func TestHandler_命令接口需要令牌(t *testing.T) {
	f := newFixture(t, nil)
	req := httptest.NewRequest(nethttp.MethodPost, "/games/g-1/start", bytes.NewBufferString(`{"nations":["France"]}`))
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	assert.Equal(t, nethttp.StatusUnauthorized, w.Code)
}
