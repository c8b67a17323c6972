package domain

import "strings"

// Message 是进入流水线的封闭联合类型：两个命令 + 两个来自记账上下文的事件。
// 新增类型只能扩展这里，Service.Handle 的 type switch 必须同步处理。
type Message interface {
	AggregateID() GameID
	message()
}

// SetToStartingPositions 用名单创建一局游戏。
type SetToStartingPositions struct {
	GameID  GameID
	Nations []Nation
}

// Move 把国家移动到目标格子。
type Move struct {
	GameID GameID
	Nation Nation
	Space  Space
}

// InvoicePaid 记账上下文确认扣费成功。
type InvoicePaid struct {
	GameID    GameID
	BillingID BillingID
}

// InvoicePaymentFailed 记账上下文扣费失败。
type InvoicePaymentFailed struct {
	GameID    GameID
	BillingID BillingID
}

func (c SetToStartingPositions) AggregateID() GameID { return c.GameID }
func (c Move) AggregateID() GameID                   { return c.GameID }
func (e InvoicePaid) AggregateID() GameID            { return e.GameID }
func (e InvoicePaymentFailed) AggregateID() GameID   { return e.GameID }

func (SetToStartingPositions) message() {}
func (Move) message()                   {}
func (InvoicePaid) message()            {}
func (InvoicePaymentFailed) message()   {}

// Roster 去空白、去重后的名单，保持原顺序；空名单返回 ErrEmptyRoster。
func (c SetToStartingPositions) Roster() ([]Nation, error) {
	if len(c.Nations) == 0 {
		return nil, ErrEmptyRoster
	}
	seen := make(map[Nation]struct{}, len(c.Nations))
	out := make([]Nation, 0, len(c.Nations))
	for _, raw := range c.Nations {
		n := Nation(strings.TrimSpace(string(raw)))
		if n == "" {
			return nil, ErrInvalidNation.WithData("nation", string(raw))
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

// Event 是对外发布的领域事件。
type Event interface {
	AggregateID() GameID
	EventName() string
	event()
}

type PositionedAtStart struct {
	GameID GameID
}

type ActionDetermined struct {
	GameID GameID
	Nation Nation
	Action Action
}

type MoveToActionSpaceRejected struct {
	GameID GameID
	Nation Nation
	Space  Space
}

func (e PositionedAtStart) AggregateID() GameID         { return e.GameID }
func (e ActionDetermined) AggregateID() GameID          { return e.GameID }
func (e MoveToActionSpaceRejected) AggregateID() GameID { return e.GameID }

func (PositionedAtStart) EventName() string         { return "PositionedAtStart" }
func (ActionDetermined) EventName() string          { return "ActionDetermined" }
func (MoveToActionSpaceRejected) EventName() string { return "MoveToActionSpaceRejected" }

func (PositionedAtStart) event()         {}
func (ActionDetermined) event()          {}
func (MoveToActionSpaceRejected) event() {}

// OutboundCommand 派发给记账上下文的命令。
type OutboundCommand interface {
	AggregateID() GameID
	CommandName() string
	outbound()
}

type ChargeMovement struct {
	GameID    GameID
	Nation    Nation
	Amount    Amount
	BillingID BillingID
}

type VoidCharge struct {
	GameID    GameID
	BillingID BillingID
}

func (c ChargeMovement) AggregateID() GameID { return c.GameID }
func (c VoidCharge) AggregateID() GameID     { return c.GameID }

func (ChargeMovement) CommandName() string { return "ChargeMovement" }
func (VoidCharge) CommandName() string     { return "VoidCharge" }

func (ChargeMovement) outbound() {}
func (VoidCharge) outbound()     {}
