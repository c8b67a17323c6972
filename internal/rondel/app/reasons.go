package app

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var (
	// 技术错误 reason，用于日志与排障；流水线在第一个失败处中止，不回滚。
	ReasonStoreLoadFail       = NewReason("STORE_LOAD_FAIL", "游戏状态读取失败")
	ReasonStoreSaveFail       = NewReason("STORE_SAVE_FAIL", "游戏状态保存失败")
	ReasonEventPublishFail    = NewReason("EVENT_PUBLISH_FAIL", "领域事件发布失败")
	ReasonCommandDispatchFail = NewReason("COMMAND_DISPATCH_FAIL", "记账命令派发失败")
)

// ReasonInvoiceNotPending 支付结果对账的空操作原因，只打 debug 日志。
var ReasonInvoiceNotPending = NewReason("INVOICE_NOT_PENDING", "扣费单不在待支付列表中（重复投递、已被取代或已作废）")
