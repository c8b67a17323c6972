package domain

// 支付结果对账：先按扣费单号查找待支付移动，再修改状态。
// 不重新校验距离，创建待支付移动时已经校验过。
// 找不到单号是正常情况（重复投递、已被取代或作废），返回空 Effects。

// ConfirmPayment 处理 InvoicePaid。
func ConfirmPayment(state *GameState, ev InvoicePaid) (Effects, error) {
	if state == nil {
		return Effects{}, ErrGameNotInitialized.WithDataMap(map[string]any{
			"game_id":    string(ev.GameID),
			"billing_id": string(ev.BillingID),
		})
	}
	pm, ok := state.FindPending(ev.BillingID)
	if !ok {
		return Effects{}, nil
	}
	if err := checkTarget(pm); err != nil {
		return Effects{}, err
	}
	next := state.Clone()
	next.moveTo(pm.Nation, pm.TargetSpace)
	next.clearPending(pm.Nation)
	return Effects{
		State:  next,
		Events: []Event{actionDetermined(next.GameID, pm.Nation, pm.TargetSpace)},
	}, nil
}

// FailPayment 处理 InvoicePaymentFailed：删除待支付移动，当前位置不变，
// 对原目标格发布拒绝事件。
func FailPayment(state *GameState, ev InvoicePaymentFailed) (Effects, error) {
	if state == nil {
		return Effects{}, ErrGameNotInitialized.WithDataMap(map[string]any{
			"game_id":    string(ev.GameID),
			"billing_id": string(ev.BillingID),
		})
	}
	pm, ok := state.FindPending(ev.BillingID)
	if !ok {
		return Effects{}, nil
	}
	if err := checkTarget(pm); err != nil {
		return Effects{}, err
	}
	next := state.Clone()
	next.clearPending(pm.Nation)
	return Effects{
		State:  next,
		Events: []Event{rejectedPending(next.GameID, pm)},
	}, nil
}

// checkTarget 目标格解码失败说明存储已损坏，不能静默丢掉这条支付结果。
func checkTarget(pm PendingMovement) error {
	if pm.TargetSpace.Valid() {
		return nil
	}
	return ErrCorruptState.WithDataMap(map[string]any{
		"reason":     "pending target space cannot be decoded",
		"nation":     string(pm.Nation),
		"billing_id": string(pm.BillingID),
	})
}
