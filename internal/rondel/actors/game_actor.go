package actors

import (
	"context"
	"time"

	"Imperial/internal/rondel/domain"
	"Imperial/modules/kit/errx"
	"Imperial/modules/kit/logx"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// GameConfig game actor 的运行参数。
type GameConfig struct {
	// IOTimeout 单次流水线（load/save/publish/dispatch）的总时限。
	IOTimeout time.Duration
	// IdleTimeout 空闲多久后钝化；<=0 表示常驻。
	IdleTimeout time.Duration
}

// GameActor 一局游戏的单写者：同一个 GameID 的消息在这里排队，一次只跑一条流水线。
type GameActor struct {
	gameID  domain.GameID
	handler Handler
	cfg     GameConfig
	log     logx.Logger
}

func NewGameActor(gameID domain.GameID, handler Handler, cfg GameConfig, log logx.Logger) *GameActor {
	return &GameActor{
		gameID:  gameID,
		handler: handler,
		cfg:     cfg,
		log:     log,
	}
}

func (g *GameActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		if g.cfg.IdleTimeout > 0 {
			ctx.SetReceiveTimeout(g.cfg.IdleTimeout)
		}
	case *actor.ReceiveTimeout:
		ctx.CancelReceiveTimeout()
		g.log.Debug("game actor idle, passivating", zap.String("game_id", string(g.gameID)))
		ctx.Request(ctx.Parent(), &passivate{gameID: g.gameID})
	case *Envelope:
		if msg == nil || msg.Message == nil {
			ctx.Respond(&Reply{Err: errEmptyEnvelope})
			return
		}
		ctx.Respond(&Reply{Err: g.run(msg)})
	}
}

// run 一旦开始执行就跑完，I/O 只受 IOTimeout 约束。
func (g *GameActor) run(env *Envelope) error {
	if env.expired(time.Now()) {
		return errx.ErrCanceled.WithData("game_id", string(g.gameID))
	}
	ctx := env.context()
	if g.cfg.IOTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.IOTimeout)
		defer cancel()
	}
	return g.handler.Handle(ctx, env.Message)
}
