package actor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"Imperial/internal/rondel/actors"
	"Imperial/internal/rondel/app"
	"Imperial/internal/rondel/domain"
	"Imperial/modules/kit/errx"
	"Imperial/modules/kit/logx"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const (
	defaultAskTimeout = 3 * time.Second
	defaultIOTimeout  = 5 * time.Second
	// replyGrace 覆盖 actor 回包本身的耗时。
	replyGrace = 100 * time.Millisecond
)

// Config 运行时参数，对应配置里的 rondel 段。
type Config struct {
	// AskTimeout 消息必须在这之前开始执行，否则以 ErrCanceled 丢弃。
	AskTimeout time.Duration
	// IOTimeout 开始执行后单条流水线的时限，<=0 使用默认值。
	IOTimeout   time.Duration
	IdleTimeout time.Duration
}

// Runtime 是进入 actor 系统的唯一入口：校验 -> 投递给 manager -> 等待 game actor 应答。
type Runtime struct {
	system    *protoactor.ActorSystem
	root      *protoactor.RootContext
	manager   *protoactor.PID
	timeout   atomic.Int64
	ioTimeout time.Duration
}

func NewRuntime(handler actors.Handler, cfg Config, log logx.Logger) *Runtime {
	if cfg.AskTimeout <= 0 {
		cfg.AskTimeout = defaultAskTimeout
	}
	if cfg.IOTimeout <= 0 {
		cfg.IOTimeout = defaultIOTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	gameCfg := actors.GameConfig{IOTimeout: cfg.IOTimeout, IdleTimeout: cfg.IdleTimeout}
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(handler, gameCfg, log)
	})
	// manager 只做路由和维护子 actor 表，不执行流水线
	manager := root.Spawn(managerProps)

	r := &Runtime{
		system:    system,
		root:      root,
		manager:   manager,
		ioTimeout: cfg.IOTimeout,
	}
	r.timeout.Store(int64(cfg.AskTimeout))
	return r
}

// SetAskTimeout 热更新开始执行的期限，<=0 忽略。已在排队的消息不受影响。
func (r *Runtime) SetAskTimeout(d time.Duration) {
	if r == nil || d <= 0 {
		return
	}
	r.timeout.Store(int64(d))
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

// Send 把一条命令或支付结果交给对应 GameID 的 actor 执行，等待执行结果。
//
// 参数错误同步返回。ctx 的 deadline（不超过 AskTimeout）只约束开始执行：
// 在此之前没轮到的消息不会执行，返回 errx.ErrCanceled。已经开始的流水线受 IOTimeout 约束，
// Send 会一直等到它的结果，所以 nil 表示已生效，ErrCanceled 表示没有执行。
// errx.ErrTimeout 只在 handler 超出 IOTimeout 仍不返回时出现。
func (r *Runtime) Send(ctx context.Context, msg domain.Message) error {
	if err := app.Validate(msg); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return errx.ErrCanceled.WithCause(err)
	}
	timeout := r.timeoutFromContext(ctx)
	env := actors.NewEnvelope(ctx, msg, time.Now().Add(timeout))

	res, err := r.request(r.manager, env, timeout+r.ioTimeout+replyGrace)
	if err != nil {
		return err
	}
	reply, ok := res.(*actors.Reply)
	if !ok || reply == nil {
		return errx.ErrInternal.WithData("reason", "unexpected actor reply")
	}
	return reply.Err
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, errx.ErrUnavailable.WithData("reason", "actor runtime 未初始化")
	}
	if pid == nil {
		return nil, errx.ErrInternal.WithData("reason", "actor pid 为空")
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		if errors.Is(err, protoactor.ErrTimeout) {
			return nil, errx.ErrTimeout.WithCause(err)
		}
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil {
		return defaultAskTimeout
	}
	timeout := time.Duration(r.timeout.Load())
	if timeout <= 0 {
		timeout = defaultAskTimeout
	}
	if ctx == nil {
		return timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	return min(remain, timeout)
}
