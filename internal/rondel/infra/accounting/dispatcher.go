package accounting

import (
	"context"
	"fmt"
	"time"

	"Imperial/internal/accounting"
	"Imperial/internal/rondel/contract"
	"Imperial/internal/rondel/domain"
	"Imperial/modules/kit/logx"

	"go.uber.org/zap"
)

// Ledger 记账上下文的入口（accounting.Ledger 实现）。
type Ledger interface {
	Charge(ctx context.Context, c accounting.Charge) error
	Void(ctx context.Context, v accounting.Void) error
}

// Dispatcher 把轮盘的出站命令翻译成记账请求，只负责投递。
type Dispatcher struct {
	ledger Ledger
}

func NewDispatcher(ledger Ledger) *Dispatcher {
	return &Dispatcher{ledger: ledger}
}

// Dispatch 先转成 contract.CommandEnvelope，再按信封类型投递给记账。
func (d *Dispatcher) Dispatch(ctx context.Context, cmd domain.OutboundCommand) error {
	env, err := contract.FromCommand(cmd)
	if err != nil {
		return err
	}
	switch env.Type {
	case contract.CommandChargeMovement:
		return d.ledger.Charge(ctx, accounting.Charge{
			GameID:    env.GameID,
			Nation:    env.Nation,
			Amount:    env.Amount,
			BillingID: env.BillingID,
		})
	case contract.CommandVoidCharge:
		return d.ledger.Void(ctx, accounting.Void{
			GameID:    env.GameID,
			BillingID: env.BillingID,
		})
	default:
		return fmt.Errorf("accounting: unsupported command %q", env.Type)
	}
}

// Sender 把支付结果送回轮盘（actor.Runtime 实现）。
type Sender interface {
	Send(ctx context.Context, msg domain.Message) error
}

// SettlementHandler 结算回调 -> InvoicePaid / InvoicePaymentFailed。
// 回调在记账的写协程里执行，timeout 限制单次回送的等待时间。
func SettlementHandler(sender Sender, timeout time.Duration, log logx.Logger) accounting.SettleFunc {
	if log == nil {
		log = logx.Nop()
	}
	return func(ctx context.Context, s accounting.Settlement) {
		var msg domain.Message = domain.InvoicePaid{GameID: domain.GameID(s.GameID), BillingID: domain.BillingID(s.BillingID)}
		if !s.Paid {
			msg = domain.InvoicePaymentFailed{GameID: domain.GameID(s.GameID), BillingID: domain.BillingID(s.BillingID)}
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if err := sender.Send(ctx, msg); err != nil {
			logx.ReportSysError(ctx, log, logx.NewSysLog("rondel.settlement", err),
				zap.String("billing_id", s.BillingID),
				zap.Bool("paid", s.Paid),
			)
		}
	}
}
