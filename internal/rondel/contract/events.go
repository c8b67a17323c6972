package contract

import (
	"encoding/json"
	"fmt"
	"time"

	"Imperial/internal/rondel/domain"
)

// EventEnvelope 对外发布的事件格式（redis、websocket 共用）。
type EventEnvelope struct {
	Type       string    `json:"type"`
	GameID     string    `json:"game_id"`
	Nation     string    `json:"nation,omitempty"`
	Space      string    `json:"space,omitempty"`
	Action     string    `json:"action,omitempty"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func FromEvent(ev domain.Event, traceID string, at time.Time) (EventEnvelope, error) {
	env := EventEnvelope{
		Type:       ev.EventName(),
		GameID:     string(ev.AggregateID()),
		TraceID:    traceID,
		OccurredAt: at.UTC(),
	}
	switch e := ev.(type) {
	case domain.PositionedAtStart:
	case domain.ActionDetermined:
		env.Nation = string(e.Nation)
		env.Action = e.Action.String()
	case domain.MoveToActionSpaceRejected:
		env.Nation = string(e.Nation)
		env.Space = e.Space.String()
	default:
		return EventEnvelope{}, fmt.Errorf("contract: unsupported event %T", ev)
	}
	return env, nil
}

func (e EventEnvelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// 命令信封的 Type 取值。
const (
	CommandChargeMovement = "ChargeMovement"
	CommandVoidCharge     = "VoidCharge"
)

// CommandEnvelope 派发给记账上下文的命令格式。
type CommandEnvelope struct {
	Type      string `json:"type"`
	GameID    string `json:"game_id"`
	Nation    string `json:"nation,omitempty"`
	Amount    int    `json:"amount,omitempty"`
	BillingID string `json:"billing_id"`
}

func FromCommand(cmd domain.OutboundCommand) (CommandEnvelope, error) {
	switch c := cmd.(type) {
	case domain.ChargeMovement:
		return CommandEnvelope{
			Type:      c.CommandName(),
			GameID:    string(c.GameID),
			Nation:    string(c.Nation),
			Amount:    c.Amount.Value(),
			BillingID: string(c.BillingID),
		}, nil
	case domain.VoidCharge:
		return CommandEnvelope{
			Type:      c.CommandName(),
			GameID:    string(c.GameID),
			BillingID: string(c.BillingID),
		}, nil
	default:
		return CommandEnvelope{}, fmt.Errorf("contract: unsupported command %T", cmd)
	}
}
