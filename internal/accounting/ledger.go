package accounting

import (
	"context"
	"errors"
	"sync"

	"Imperial/modules/kit/logx"
	"Imperial/modules/kit/tracex"

	"go.uber.org/zap"
)

// 进程内记账上下文：每个 (游戏, 国家) 一个国库，扣费异步结算，结果通过 SettleFunc 回调。
// 扣费请求进入无界队列，Charge/Void 从不阻塞调用方，
// 结算回调里再次发起 Charge（回调 -> 轮盘 -> 派发）也不会死锁。

var ErrClosed = errors.New("accounting: ledger closed")

// Charge 扣费请求。
type Charge struct {
	GameID    string
	Nation    string
	Amount    int
	BillingID string
}

// Void 作废请求。
type Void struct {
	GameID    string
	BillingID string
}

// Settlement 结算结果：Paid=false 表示余额不足。
type Settlement struct {
	GameID    string
	BillingID string
	Paid      bool
}

type SettleFunc func(ctx context.Context, s Settlement)

type InvoiceStatus int

const (
	StatusOpen InvoiceStatus = iota
	StatusPaid
	StatusFailed
	StatusVoided
	StatusRefunded
)

var statusNames = [...]string{"open", "paid", "failed", "voided", "refunded"}

func (s InvoiceStatus) String() string {
	if s < StatusOpen || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

type account struct {
	game   string
	nation string
}

type invoice struct {
	charge  Charge
	status  InvoiceStatus
	traceID string
}

type Ledger struct {
	startingTreasury int
	log              logx.Logger

	mu         sync.Mutex
	treasuries map[account]int
	invoices   map[string]*invoice
	queue      []string // 待结算的 billing id，FIFO
	settle     SettleFunc
	closed     bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewLedger(startingTreasury int, log logx.Logger) *Ledger {
	if log == nil {
		log = logx.Nop()
	}
	l := &Ledger{
		startingTreasury: startingTreasury,
		log:              log,
		treasuries:       make(map[account]int),
		invoices:         make(map[string]*invoice),
		wake:             make(chan struct{}, 1),
		stop:             make(chan struct{}),
		done:             make(chan struct{}),
	}
	go l.writerLoop()
	return l
}

// OnSettled 注册结算回调。组合根在 actor 运行时创建之后调用。
func (l *Ledger) OnSettled(fn SettleFunc) {
	l.mu.Lock()
	l.settle = fn
	l.mu.Unlock()
}

// Charge 登记发票并排队结算。同一个 billing id 重复提交只登记一次。
func (l *Ledger) Charge(ctx context.Context, c Charge) error {
	traceID, _ := tracex.TraceIDFrom(ctx)
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if _, dup := l.invoices[c.BillingID]; dup {
		l.mu.Unlock()
		return nil
	}
	l.invoices[c.BillingID] = &invoice{charge: c, status: StatusOpen, traceID: traceID}
	l.queue = append(l.queue, c.BillingID)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Void 未结算的发票直接作废，不再回调；已扣款的退款；其它状态忽略。
func (l *Ledger) Void(ctx context.Context, v Void) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	inv, ok := l.invoices[v.BillingID]
	if !ok {
		// 作废可能先于扣费到达：登记一张已作废的发票，之后的 Charge 被当作重复忽略
		l.invoices[v.BillingID] = &invoice{charge: Charge{GameID: v.GameID, BillingID: v.BillingID}, status: StatusVoided}
		return nil
	}
	switch inv.status {
	case StatusOpen:
		inv.status = StatusVoided
	case StatusPaid:
		acc := account{game: inv.charge.GameID, nation: inv.charge.Nation}
		l.treasuries[acc] = l.balanceLocked(acc) + inv.charge.Amount
		inv.status = StatusRefunded
	}
	return nil
}

// Balance 国库余额；没有发生过扣费的国家返回初始金额。
func (l *Ledger) Balance(game, nation string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceLocked(account{game: game, nation: nation})
}

func (l *Ledger) Status(billingID string) (InvoiceStatus, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	inv, ok := l.invoices[billingID]
	if !ok {
		return 0, false
	}
	return inv.status, true
}

func (l *Ledger) balanceLocked(acc account) int {
	if b, ok := l.treasuries[acc]; ok {
		return b
	}
	return l.startingTreasury
}

// Close 结算完已排队的发票后停止。
func (l *Ledger) Close(ctx context.Context) error {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.stop)
	}
	l.mu.Unlock()

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Ledger) writerLoop() {
	defer close(l.done)

	for {
		select {
		case <-l.wake:
			l.consumeQueue()
		case <-l.stop:
			l.consumeQueue()
			return
		}
	}
}

func (l *Ledger) consumeQueue() {
	for {
		s, fn, traceID, ok := l.settleNext()
		if !ok {
			return
		}
		if s == nil || fn == nil {
			continue
		}
		ctx := tracex.WithTraceID(context.Background(), traceID)
		ctx = tracex.WithBillingID(ctx, s.BillingID)
		l.log.WithContext(ctx).Debug("invoice settled", zap.Bool("paid", s.Paid))
		fn(ctx, *s)
	}
}

// settleNext 取出队首发票并结算。ok=false 表示队列已空；s=nil 表示发票已被作废。
func (l *Ledger) settleNext() (s *Settlement, fn SettleFunc, traceID string, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, nil, "", false
	}
	id := l.queue[0]
	l.queue[0] = ""
	l.queue = l.queue[1:]

	inv := l.invoices[id]
	if inv == nil || inv.status != StatusOpen {
		return nil, nil, "", true
	}
	acc := account{game: inv.charge.GameID, nation: inv.charge.Nation}
	balance := l.balanceLocked(acc)
	if balance >= inv.charge.Amount {
		l.treasuries[acc] = balance - inv.charge.Amount
		inv.status = StatusPaid
	} else {
		inv.status = StatusFailed
	}
	return &Settlement{
		GameID:    inv.charge.GameID,
		BillingID: id,
		Paid:      inv.status == StatusPaid,
	}, l.settle, inv.traceID, true
}
