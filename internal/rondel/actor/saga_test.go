package actor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Imperial/internal/accounting"
	"Imperial/internal/rondel/actor"
	"Imperial/internal/rondel/app"
	"Imperial/internal/rondel/domain"
	infraacc "Imperial/internal/rondel/infra/accounting"
	"Imperial/internal/rondel/infra/messaging/memory"
	memstore "Imperial/internal/rondel/infra/persistence/memory"
)

const game domain.GameID = "saga-1"

type saga struct {
	rt     *actor.Runtime
	svc    *app.Service
	ledger *accounting.Ledger
	bus    *memory.Bus
}

// newSaga 组装和 main 一样的闭环：runtime -> service -> 记账 -> 结算回调 -> runtime。
func newSaga(t *testing.T, treasury int) *saga {
	t.Helper()
	ledger := accounting.NewLedger(treasury, nil)
	bus := memory.NewBus()
	svc := app.NewService(memstore.NewGameStore(), bus, infraacc.NewDispatcher(ledger), nil, nil, nil)
	rt := actor.NewRuntime(svc, actor.Config{AskTimeout: 2 * time.Second, IOTimeout: time.Second}, nil)
	ledger.OnSettled(infraacc.SettlementHandler(rt, time.Second, nil))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = ledger.Close(ctx)
		rt.Shutdown()
	})
	return &saga{rt: rt, svc: svc, ledger: ledger, bus: bus}
}

// slowStore 每次 Save 都比 AskTimeout 慢。
type slowStore struct {
	*memstore.GameStore
	delay time.Duration
}

func (s slowStore) Save(ctx context.Context, g domain.GameState) error {
	time.Sleep(s.delay)
	return s.GameStore.Save(ctx, g)
}

func TestRuntime_已开始的移动慢于AskTimeout仍返回成功(t *testing.T) {
	bus := memory.NewBus()
	store := slowStore{GameStore: memstore.NewGameStore(), delay: 100 * time.Millisecond}
	ledger := accounting.NewLedger(20, nil)
	svc := app.NewService(store, bus, infraacc.NewDispatcher(ledger), nil, nil, nil)
	rt := actor.NewRuntime(svc, actor.Config{AskTimeout: 30 * time.Millisecond, IOTimeout: 500 * time.Millisecond}, nil)
	ctx := context.Background()
	defer func() {
		_ = ledger.Close(ctx)
		rt.Shutdown()
	}()

	require.NoError(t, rt.Send(ctx, domain.SetToStartingPositions{GameID: game, Nations: []domain.Nation{"France"}}))
	require.NoError(t, rt.Send(ctx, domain.Move{GameID: game, Nation: "France", Space: domain.Factory}),
		"保存已完成，调用方不能收到超时")

	view, err := svc.Positions(ctx, game)
	require.NoError(t, err)
	assert.Equal(t, domain.At(domain.Factory), view.Nations[0].Position)
	assert.Len(t, bus.Events(game), 2)
}

func (s *saga) france(t *testing.T) app.NationView {
	t.Helper()
	view, err := s.svc.Positions(context.Background(), game)
	require.NoError(t, err)
	for _, n := range view.Nations {
		if n.Nation == "France" {
			return n
		}
	}
	t.Fatalf("名单里没有 France")
	return app.NationView{}
}

func TestSaga_付费移动经记账确认后落位(t *testing.T) {
	s := newSaga(t, 20)
	ctx := context.Background()

	require.NoError(t, s.rt.Send(ctx, domain.SetToStartingPositions{GameID: game, Nations: []domain.Nation{"France", "Italy"}}))
	require.NoError(t, s.rt.Send(ctx, domain.Move{GameID: game, Nation: "France", Space: domain.Investor}))
	require.NoError(t, s.rt.Send(ctx, domain.Move{GameID: game, Nation: "France", Space: domain.Taxation}))

	require.Eventually(t, func() bool {
		n := s.france(t)
		return n.Pending == nil && n.Position == domain.At(domain.Taxation)
	}, 2*time.Second, 10*time.Millisecond, "期望扣费成功后移动到 Taxation")

	assert.Equal(t, 18, s.ledger.Balance(string(game), "France"), "4 格扣 2")

	var actions []domain.Action
	for _, ev := range s.bus.Events(game) {
		if ad, ok := ev.(domain.ActionDetermined); ok {
			actions = append(actions, ad.Action)
		}
	}
	assert.Equal(t, []domain.Action{domain.ActionInvestor, domain.ActionTaxation}, actions)
}

func TestSaga_余额不足时移动作废(t *testing.T) {
	s := newSaga(t, 2)
	ctx := context.Background()

	require.NoError(t, s.rt.Send(ctx, domain.SetToStartingPositions{GameID: game, Nations: []domain.Nation{"France"}}))
	require.NoError(t, s.rt.Send(ctx, domain.Move{GameID: game, Nation: "France", Space: domain.Investor}))
	require.NoError(t, s.rt.Send(ctx, domain.Move{GameID: game, Nation: "France", Space: domain.Taxation}))
	require.Eventually(t, func() bool {
		return s.france(t).Position == domain.At(domain.Taxation)
	}, 2*time.Second, 10*time.Millisecond)
	require.Zero(t, s.ledger.Balance(string(game), "France"))

	// Taxation -> Import 走 5 格需要 4，国库已空
	require.NoError(t, s.rt.Send(ctx, domain.Move{GameID: game, Nation: "France", Space: domain.Import}))
	require.Eventually(t, func() bool {
		return s.france(t).Pending == nil
	}, 2*time.Second, 10*time.Millisecond, "期望扣费失败后清除待支付移动")

	n := s.france(t)
	assert.Equal(t, domain.At(domain.Taxation), n.Position, "扣费失败不移动")

	events := s.bus.Events(game)
	require.NotEmpty(t, events)
	_, rejected := events[len(events)-1].(domain.MoveToActionSpaceRejected)
	assert.True(t, rejected, "最后一条事件应为拒绝, got=%T", events[len(events)-1])
}
