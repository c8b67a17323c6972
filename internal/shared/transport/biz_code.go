package transport

import (
	"errors"
	nethttp "net/http"

	"Imperial/modules/kit/errx"
)

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
// 取值沿用 HTTP 状态码的分段：0 成功，4xx 调用方问题，5xx 服务端问题。
type BizCode int

const (
	OK             BizCode = 0
	InvalidParam   BizCode = 400
	Unauthorized   BizCode = 401
	NotFound       BizCode = 404
	Canceled       BizCode = 499
	SystemError    BizCode = 500
	Unavailable    BizCode = 503
	Timeout        BizCode = 504
	ConsistencyErr BizCode = 520
)

// notFoundCodes 业务层"不存在"类错误码，由各模块注册。
var notFoundCodes = map[errx.Code]struct{}{}

// RegisterNotFound 把某个业务错误码映射为 NotFound。只在 init 阶段调用。
func RegisterNotFound(codes ...errx.Code) {
	for _, c := range codes {
		notFoundCodes[c] = struct{}{}
	}
}

// CodeFromError 把错误链归一化为业务码。
func CodeFromError(err error) BizCode {
	if err == nil {
		return OK
	}
	if errx.IsFatal(err) {
		return ConsistencyErr
	}
	code := errx.CodeOf(err)
	if _, ok := notFoundCodes[code]; ok {
		return NotFound
	}
	switch {
	case errx.IsBiz(err):
		return InvalidParam
	case errors.Is(err, errx.ErrCanceled):
		return Canceled
	case errors.Is(err, errx.ErrTimeout):
		return Timeout
	case errors.Is(err, errx.ErrUnavailable):
		return Unavailable
	default:
		return SystemError
	}
}

// HTTPStatus 业务码对应的 HTTP 状态码。
func (c BizCode) HTTPStatus() int {
	switch {
	case c == OK:
		return nethttp.StatusOK
	case c == Canceled:
		return nethttp.StatusRequestTimeout
	case c == ConsistencyErr:
		return nethttp.StatusInternalServerError
	case c >= 400 && c < 600:
		return int(c)
	default:
		return nethttp.StatusInternalServerError
	}
}
