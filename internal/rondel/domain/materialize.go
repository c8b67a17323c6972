package domain

import "fmt"

// Effects 一次决策的全部副作用。State 为 nil 表示不需要保存。
// 执行顺序固定：保存 -> 按序发布 Events -> 按序派发 Commands。
type Effects struct {
	State    *GameState
	Events   []Event
	Commands []OutboundCommand
}

// Empty 没有任何 I/O 需要执行（重复投递、已存在等幂等分支）。
func (e Effects) Empty() bool {
	return e.State == nil && len(e.Events) == 0 && len(e.Commands) == 0
}

// Materialize 把决策结果映射为 (新状态, 事件, 出站命令)。
// 除了 newID 生成扣费单号之外没有副作用，不修改入参 state。
func Materialize(state *GameState, o Outcome, newID BillingIDGenerator) Effects {
	switch o := o.(type) {
	case Rejected:
		return Effects{
			Events: []Event{MoveToActionSpaceRejected{GameID: o.Command.GameID, Nation: o.Command.Nation, Space: o.Command.Space}},
		}

	case Free:
		next := state.Clone()
		next.moveTo(o.Nation, o.Space)
		return Effects{
			State:  next,
			Events: []Event{actionDetermined(next.GameID, o.Nation, o.Space)},
		}

	case FreeWithSupersedingUnpaidMovement:
		next := state.Clone()
		next.moveTo(o.Nation, o.Space)
		next.clearPending(o.Nation)
		return Effects{
			State: next,
			Events: []Event{
				actionDetermined(next.GameID, o.Nation, o.Space),
				rejectedPending(next.GameID, o.Superseded),
			},
			Commands: []OutboundCommand{VoidCharge{GameID: next.GameID, BillingID: o.Superseded.BillingID}},
		}

	case Paid:
		next := state.Clone()
		pm := PendingMovement{Nation: o.Nation, TargetSpace: o.Space, BillingID: newID()}
		next.replacePending(pm)
		return Effects{
			State:    next,
			Commands: []OutboundCommand{charge(next.GameID, pm, o.Distance)},
		}

	case PaidWithSupersedingUnpaidMovement:
		next := state.Clone()
		pm := PendingMovement{Nation: o.Nation, TargetSpace: o.Space, BillingID: newID()}
		next.replacePending(pm)
		return Effects{
			State:  next,
			Events: []Event{rejectedPending(next.GameID, o.Superseded)},
			Commands: []OutboundCommand{
				VoidCharge{GameID: next.GameID, BillingID: o.Superseded.BillingID},
				charge(next.GameID, pm, o.Distance),
			},
		}

	default:
		panic(fmt.Sprintf("rondel: unhandled outcome %T", o))
	}
}

func actionDetermined(id GameID, n Nation, s Space) ActionDetermined {
	return ActionDetermined{GameID: id, Nation: n, Action: ToAction(s)}
}

func rejectedPending(id GameID, pm PendingMovement) MoveToActionSpaceRejected {
	return MoveToActionSpaceRejected{GameID: id, Nation: pm.Nation, Space: pm.TargetSpace}
}

func charge(id GameID, pm PendingMovement, distance int) ChargeMovement {
	return ChargeMovement{
		GameID:    id,
		Nation:    pm.Nation,
		Amount:    movementCharge(distance),
		BillingID: pm.BillingID,
	}
}
