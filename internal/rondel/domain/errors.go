package domain

import "Imperial/modules/kit/errx"

// Code 领域错误码。
//
// 约定：
// - 参数类错误（空名单、无法解析的格子/id）在触碰状态之前同步返回
// - 规则拒绝不是错误，见 Rejected
// - 一致性错误是致命的，必须大声失败
type Code = errx.Code

const (
	CodeEmptyRoster        Code = "RONDEL_EMPTY_ROSTER"
	CodeInvalidNation      Code = "RONDEL_INVALID_NATION"
	CodeInvalidSpace       Code = "RONDEL_INVALID_SPACE"
	CodeInvalidGameID      Code = "RONDEL_INVALID_GAME_ID"
	CodeInvalidBillingID   Code = "RONDEL_INVALID_BILLING_ID"
	CodeNegativeAmount     Code = "RONDEL_NEGATIVE_AMOUNT"
	CodeGameNotInitialized Code = "RONDEL_GAME_NOT_INITIALIZED"
	CodeCorruptState       Code = "RONDEL_CORRUPT_STATE"
)

type Error = errx.Error

var (
	ErrEmptyRoster      = errx.NewBiz(CodeEmptyRoster, "国家名单不能为空")
	ErrInvalidNation    = errx.NewBiz(CodeInvalidNation, "国家名不合法")
	ErrInvalidSpace     = errx.NewBiz(CodeInvalidSpace, "无法识别的格子")
	ErrInvalidGameID    = errx.NewBiz(CodeInvalidGameID, "游戏 id 不能为空")
	ErrInvalidBillingID = errx.NewBiz(CodeInvalidBillingID, "扣费单号不合法")
	ErrNegativeAmount   = errx.NewBiz(CodeNegativeAmount, "金额不能为负")

	// ErrGameNotInitialized 支付结果到达时游戏不存在：说明别处有 bug。
	ErrGameNotInitialized = errx.NewFatal(CodeGameNotInitialized, "游戏未初始化")
	// ErrCorruptState 存储里的状态违反不变量（待支付目标格无法解码等）。
	ErrCorruptState = errx.NewFatal(CodeCorruptState, "游戏状态已损坏")
)
