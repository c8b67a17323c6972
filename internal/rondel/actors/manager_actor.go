package actors

import (
	"Imperial/internal/rondel/domain"
	"Imperial/modules/kit/logx"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type stashed struct {
	env    *Envelope
	sender *actor.PID
}

// ManagerActor 按 GameID 路由到子 actor，只做查表和转发。
//
// 钝化中的子 actor 在真正停止前仍会处理邮箱里已有的消息；
// 这期间新到的消息先暂存，收到 Terminated 之后再交给新的子 actor，
// 保证同一个 GameID 任何时刻最多只有一个 actor 在跑。
type ManagerActor struct {
	handler    Handler
	cfg        GameConfig
	log        logx.Logger
	gameActors map[domain.GameID]*actor.PID
	stopping   map[string]domain.GameID // pid.Id -> game
	stash      map[domain.GameID][]stashed
}

func NewManagerActor(handler Handler, cfg GameConfig, log logx.Logger) *ManagerActor {
	if log == nil {
		log = logx.Nop()
	}
	return &ManagerActor{
		handler:    handler,
		cfg:        cfg,
		log:        log,
		gameActors: make(map[domain.GameID]*actor.PID),
		stopping:   make(map[string]domain.GameID),
		stash:      make(map[domain.GameID][]stashed),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *Envelope:
		if msg == nil || msg.Message == nil {
			ctx.Respond(&Reply{Err: errEmptyEnvelope})
			return
		}
		id := msg.Message.AggregateID()
		if queue, passivating := m.stash[id]; passivating {
			m.stash[id] = append(queue, stashed{env: msg, sender: ctx.Sender()})
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, id))
	case *passivate:
		m.passivate(ctx, msg.gameID)
	case *actor.Terminated:
		m.terminated(ctx, msg.Who)
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, gameID domain.GameID) *actor.PID {
	if pid, ok := m.gameActors[gameID]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGameActor(gameID, m.handler, m.cfg, m.log)
	})
	pid := ctx.Spawn(props)
	m.gameActors[gameID] = pid
	return pid
}

func (m *ManagerActor) passivate(ctx actor.Context, gameID domain.GameID) {
	pid, ok := m.gameActors[gameID]
	if !ok || !pid.Equal(ctx.Sender()) {
		return
	}
	delete(m.gameActors, gameID)
	m.stopping[pid.Id] = gameID
	m.stash[gameID] = []stashed{}
	// Poison 排在已转发的消息之后，邮箱里的请求都会被处理完
	ctx.Poison(pid)
}

func (m *ManagerActor) terminated(ctx actor.Context, who *actor.PID) {
	if who == nil {
		return
	}
	gameID, ok := m.stopping[who.Id]
	if !ok {
		// 非钝化导致的停止：忘掉它，下一条消息重新拉起
		for id, pid := range m.gameActors {
			if pid.Equal(who) {
				delete(m.gameActors, id)
				m.log.Warn("game actor terminated unexpectedly", zap.String("game_id", string(id)))
			}
		}
		return
	}
	delete(m.stopping, who.Id)
	queue := m.stash[gameID]
	delete(m.stash, gameID)
	if len(queue) == 0 {
		return
	}
	pid := m.getOrSpawn(ctx, gameID)
	for _, s := range queue {
		ctx.RequestWithCustomSender(pid, s.env, s.sender)
	}
}
