package errx

// 跨服务统一的系统类错误码。
//
// 约束：
// - 这些错误码只用于“系统/技术类错误”归一化（告警、观测、排障）
// - 业务域错误码（例如 RONDEL_UNKNOWN_NATION）由各业务自行定义

const (
	// CodeInternal 表示服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示依赖不可用（存储/消息总线/下游上下文等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 表示请求/依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeCanceled 表示请求在开始执行之前已被调用方取消。
	CodeCanceled Code = "CANCELED"
	// CodeReqParamError 请求参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

// 统一哨兵错误（通过 WithData/WithCause 派生新对象，不要直接修改）。
var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrCanceled    = NewSys(CodeCanceled, "请求已取消")
	ErrReqParamERR = NewBiz(CodeReqParamError, "请求参数错误")
)
