package app

import (
	"context"
	"fmt"
	"time"

	"Imperial/internal/rondel/app/port"
	"Imperial/internal/rondel/domain"
	"Imperial/modules/kit/errx"
	"Imperial/modules/kit/logx"
	"Imperial/modules/kit/tracex"

	"go.uber.org/zap"
)

// Service 是轮盘的命令/事件流水线：
// load -> decide -> materialize -> save -> publish -> dispatch。
//
// 同一个 GameID 的调用必须串行（由 actor 保证），Service 本身不加锁。
type Service struct {
	store   port.GameStore
	events  port.EventPublisher
	charges port.CommandDispatcher
	log     logx.Logger
	metrics port.Metrics
	newID   domain.BillingIDGenerator
}

// NewService metrics、newID 可以为 nil：分别退化为空实现和 UUID v4。
func NewService(store port.GameStore, events port.EventPublisher, charges port.CommandDispatcher, log logx.Logger, metrics port.Metrics, newID domain.BillingIDGenerator) *Service {
	if log == nil {
		log = logx.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if newID == nil {
		newID = domain.NewBillingID
	}
	return &Service{
		store:   store,
		events:  events,
		charges: charges,
		log:     log,
		metrics: metrics,
		newID:   newID,
	}
}

// Validate 在进入 actor 之前同步校验消息，失败时不触碰任何状态。
func Validate(msg domain.Message) error {
	if msg == nil {
		return errx.ErrReqParamERR.WithData("reason", "nil message")
	}
	if msg.AggregateID() == "" {
		return domain.ErrInvalidGameID
	}
	switch m := msg.(type) {
	case domain.SetToStartingPositions:
		_, err := m.Roster()
		return err
	case domain.Move:
		if m.Nation == "" {
			return domain.ErrInvalidNation.WithData("nation", "")
		}
		if !m.Space.Valid() {
			return domain.ErrInvalidSpace.WithData("space", int(m.Space))
		}
	case domain.InvoicePaid:
		if m.BillingID == "" {
			return domain.ErrInvalidBillingID
		}
	case domain.InvoicePaymentFailed:
		if m.BillingID == "" {
			return domain.ErrInvalidBillingID
		}
	}
	return nil
}

// Handle 执行一条消息的完整流水线。规则拒绝不是错误：返回 nil 并发布拒绝事件。
func (s *Service) Handle(ctx context.Context, msg domain.Message) (err error) {
	if err = Validate(msg); err != nil {
		return err
	}
	ctx = tracex.WithGameID(ctx, string(msg.AggregateID()))
	name := MessageName(msg)
	start := time.Now()
	defer func() {
		code := "OK"
		if err != nil {
			code = string(errx.CodeOf(err))
		}
		s.metrics.ObserveMessage(name, code, time.Since(start).Seconds())
		if err != nil && !errx.IsBiz(err) {
			logx.ReportSysError(ctx, s.log, logx.NewSysLog("rondel."+name, err))
		}
	}()

	switch m := msg.(type) {
	case domain.SetToStartingPositions:
		return s.start(ctx, m)
	case domain.Move:
		return s.move(ctx, m)
	case domain.InvoicePaid:
		return s.invoicePaid(ctx, m)
	case domain.InvoicePaymentFailed:
		return s.invoiceFailed(ctx, m)
	default:
		return ErrUnknownMessage.WithData("message", fmt.Sprintf("%T", msg))
	}
}

func (s *Service) start(ctx context.Context, cmd domain.SetToStartingPositions) error {
	roster, err := cmd.Roster()
	if err != nil {
		return err
	}
	state, err := s.load(ctx, cmd.GameID)
	if err != nil {
		return err
	}
	eff := domain.StartGame(state, cmd, roster)
	if eff.Empty() {
		s.log.WithContext(ctx).Debug("game already initialized", zap.Int("nations", len(state.NationPositions)))
		return nil
	}
	return s.apply(ctx, eff)
}

func (s *Service) move(ctx context.Context, cmd domain.Move) error {
	state, err := s.load(ctx, cmd.GameID)
	if err != nil {
		return err
	}
	outcome := domain.Decide(state, cmd)
	s.metrics.ObserveOutcome(outcome.Kind().String())
	if r, ok := outcome.(domain.Rejected); ok {
		logx.ReportBiz(ctx, s.log, logx.NewBizLog("rondel.move", r.Reason.ReasonCode(), ""),
			zap.String("nation", string(cmd.Nation)),
			zap.String("space", cmd.Space.String()),
		)
	}
	return s.apply(ctx, domain.Materialize(state, outcome, s.newID))
}

func (s *Service) invoicePaid(ctx context.Context, ev domain.InvoicePaid) error {
	ctx = tracex.WithBillingID(ctx, string(ev.BillingID))
	state, err := s.load(ctx, ev.GameID)
	if err != nil {
		return err
	}
	eff, err := domain.ConfirmPayment(state, ev)
	if err != nil {
		return err
	}
	return s.reconcile(ctx, eff)
}

func (s *Service) invoiceFailed(ctx context.Context, ev domain.InvoicePaymentFailed) error {
	ctx = tracex.WithBillingID(ctx, string(ev.BillingID))
	state, err := s.load(ctx, ev.GameID)
	if err != nil {
		return err
	}
	eff, err := domain.FailPayment(state, ev)
	if err != nil {
		return err
	}
	return s.reconcile(ctx, eff)
}

func (s *Service) reconcile(ctx context.Context, eff domain.Effects) error {
	if eff.Empty() {
		s.log.WithContext(ctx).Debug("invoice ignored", zap.String("reason", ReasonInvoiceNotPending.Code))
		return nil
	}
	return s.apply(ctx, eff)
}

func (s *Service) load(ctx context.Context, id domain.GameID) (*domain.GameState, error) {
	state, err := s.store.Load(ctx, id)
	if err == nil {
		if err = state.Validate(); err != nil {
			return nil, err
		}
		return state, nil
	}
	if errx.IsFatal(err) {
		return nil, err
	}
	return nil, ErrUnavailable.WithReason(ReasonStoreLoadFail).WithCause(err)
}

// apply 严格按 保存 -> 事件 -> 命令 的顺序执行，第一个失败即中止，之前已完成的步骤不回滚。
func (s *Service) apply(ctx context.Context, eff domain.Effects) error {
	if eff.State != nil {
		if err := s.store.Save(ctx, *eff.State); err != nil {
			return ErrUnavailable.WithReason(ReasonStoreSaveFail).WithCause(err)
		}
	}
	for i, ev := range eff.Events {
		if err := s.events.Publish(ctx, ev); err != nil {
			return ErrUnavailable.WithReason(ReasonEventPublishFail).
				WithDataMap(map[string]any{"event": ev.EventName(), "index": i}).
				WithCause(err)
		}
	}
	for i, cmd := range eff.Commands {
		if err := s.charges.Dispatch(ctx, cmd); err != nil {
			return ErrUnavailable.WithReason(ReasonCommandDispatchFail).
				WithDataMap(map[string]any{"command": cmd.CommandName(), "index": i}).
				WithCause(err)
		}
	}
	return nil
}

// MessageName 消息类型名，用于日志 action 和指标标签。
func MessageName(msg domain.Message) string {
	switch msg.(type) {
	case domain.SetToStartingPositions:
		return "set_to_starting_positions"
	case domain.Move:
		return "move"
	case domain.InvoicePaid:
		return "invoice_paid"
	case domain.InvoicePaymentFailed:
		return "invoice_payment_failed"
	default:
		return "unknown"
	}
}

type nopMetrics struct{}

func (nopMetrics) ObserveMessage(string, string, float64) {}
func (nopMetrics) ObserveOutcome(string)                  {}
