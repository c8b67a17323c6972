package http

import (
	"context"
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"Imperial/internal/rondel/app"
	"Imperial/internal/rondel/domain"
	"Imperial/internal/shared/transport"
	"Imperial/modules/kit/errx"
)

func init() {
	transport.RegisterNotFound(app.CodeGameNotFound)
}

// Sender 命令入口（actor runtime），同一局串行执行。
type Sender interface {
	Send(ctx context.Context, msg domain.Message) error
}

// Reader 查询入口，直接读存储。
type Reader interface {
	Positions(ctx context.Context, id domain.GameID) (app.PositionsView, error)
	Overview(ctx context.Context, id domain.GameID) (app.OverviewView, error)
}

type Handler struct {
	sender Sender
	reader Reader
}

func NewHandler(sender Sender, reader Reader) *Handler {
	return &Handler{sender: sender, reader: reader}
}

// RegisterRoutes 命令接口挂 guard（可为 nil），查询接口公开。
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, guard gin.HandlerFunc) {
	games := group.Group("/games/:gameId")
	games.GET("", h.Overview)
	games.GET("/positions", h.Positions)

	cmds := games.Group("")
	if guard != nil {
		cmds.Use(guard)
	}
	cmds.POST("/start", h.Start)
	cmds.POST("/moves", h.Move)
	cmds.POST("/invoices/:billingId/paid", h.InvoicePaid)
	cmds.POST("/invoices/:billingId/failed", h.InvoiceFailed)
}

func (h *Handler) Start(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	var req StartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误", err)
		return
	}
	nations := make([]domain.Nation, 0, len(req.Nations))
	for _, n := range req.Nations {
		nations = append(nations, domain.Nation(n))
	}
	h.send(c, domain.SetToStartingPositions{GameID: id, Nations: nations})
}

func (h *Handler) Move(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	var req MoveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误", err)
		return
	}
	space, err := domain.ParseSpace(req.Space)
	if err != nil {
		h.error(c, err)
		return
	}
	h.send(c, domain.Move{GameID: id, Nation: domain.Nation(req.Nation), Space: space})
}

func (h *Handler) InvoicePaid(c *gin.Context) {
	id, billing, ok := h.invoiceParams(c)
	if !ok {
		return
	}
	h.send(c, domain.InvoicePaid{GameID: id, BillingID: billing})
}

func (h *Handler) InvoiceFailed(c *gin.Context) {
	id, billing, ok := h.invoiceParams(c)
	if !ok {
		return
	}
	h.send(c, domain.InvoicePaymentFailed{GameID: id, BillingID: billing})
}

func (h *Handler) Positions(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	view, err := h.reader.Positions(c.Request.Context(), id)
	if err != nil {
		h.error(c, err)
		return
	}
	out := PositionsDTO{GameID: string(view.GameID), Nations: make([]NationDTO, 0, len(view.Nations))}
	for _, n := range view.Nations {
		item := NationDTO{Nation: string(n.Nation), Position: n.Position.String()}
		if n.Pending != nil {
			item.Pending = &PendingDTO{Space: n.Pending.TargetSpace.String(), BillingID: string(n.Pending.BillingID)}
		}
		out.Nations = append(out.Nations, item)
	}
	h.ok(c, out)
}

func (h *Handler) Overview(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	view, err := h.reader.Overview(c.Request.Context(), id)
	if err != nil {
		h.error(c, err)
		return
	}
	out := OverviewDTO{
		GameID:       string(view.GameID),
		Initialized:  view.Initialized,
		Nations:      make([]string, 0, len(view.Nations)),
		PendingCount: view.PendingCount,
	}
	for _, n := range view.Nations {
		out.Nations = append(out.Nations, string(n))
	}
	h.ok(c, out)
}

func (h *Handler) send(c *gin.Context, msg domain.Message) {
	if err := h.sender.Send(c.Request.Context(), msg); err != nil {
		h.error(c, err)
		return
	}
	h.ok(c, nil)
}

func (h *Handler) gameID(c *gin.Context) (domain.GameID, bool) {
	id, err := domain.NewGameID(c.Param("gameId"))
	if err != nil {
		h.error(c, err)
		return "", false
	}
	return id, true
}

func (h *Handler) invoiceParams(c *gin.Context) (domain.GameID, domain.BillingID, bool) {
	id, ok := h.gameID(c)
	if !ok {
		return "", "", false
	}
	billing, err := domain.ParseBillingID(c.Param("billingId"))
	if err != nil {
		h.error(c, err)
		return "", "", false
	}
	return id, billing, true
}

func (h *Handler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, Response{Code: transport.OK, Msg: "ok", Data: data})
}

func (h *Handler) fail(c *gin.Context, code transport.BizCode, msg string, cause error) {
	if cause != nil {
		_ = c.Error(cause)
	}
	c.JSON(code.HTTPStatus(), Response{Code: code, Msg: msg})
}

// error 业务错误把 msg 回给调用方；系统错误只回通用提示，细节已由 Service 记日志。
func (h *Handler) error(c *gin.Context, err error) {
	code := transport.CodeFromError(err)
	var e *errx.Error
	if errors.As(err, &e) {
		reason := e.Reason()
		if reason == "" {
			reason = e.CodeText()
		}
		transport.SetErrorReason(c.Request.Context(), reason)
	}
	msg := "系统繁忙，请稍后重试"
	if errx.IsBiz(err) && e != nil {
		msg = e.Msg()
	}
	c.JSON(code.HTTPStatus(), Response{Code: code, Msg: msg})
}
