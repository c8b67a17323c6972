package app

import "Imperial/modules/kit/errx"

type Code = errx.Code

const (
	CodeGameNotFound Code = "RONDEL_GAME_NOT_FOUND"
	// CodeUnavailable 复用 kit 的统一系统码（存储/消息总线/记账不可用）。
	CodeUnavailable Code = errx.CodeUnavailable
)

type Error = errx.Error

var (
	// ErrGameNotFound 查询一局不存在的游戏。命令路径上不存在的游戏是规则拒绝，不走这个错误。
	ErrGameNotFound = errx.NewBiz(CodeGameNotFound, "游戏不存在")
	ErrUnavailable  = errx.ErrUnavailable
	// ErrUnknownMessage 流水线收到封闭联合类型之外的消息，属于编程错误。
	ErrUnknownMessage = errx.ErrInternal.WithData("reason", "unknown message type")
)
