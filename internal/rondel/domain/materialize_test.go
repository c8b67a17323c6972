package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs(ids ...BillingID) BillingIDGenerator {
	i := 0
	return func() BillingID {
		id := ids[i]
		i++
		return id
	}
}

func noIDs(t *testing.T) BillingIDGenerator {
	return func() BillingID {
		t.Fatalf("不应生成扣费单号")
		return ""
	}
}

func TestMaterialize_Rejected不保存只发拒绝事件(t *testing.T) {
	s := gameWith(map[Nation]Position{france: At(Factory)})
	eff := Materialize(s, Decide(s, move(france, Factory)), noIDs(t))

	assert.Nil(t, eff.State)
	assert.Empty(t, eff.Commands)
	assert.Equal(t, []Event{MoveToActionSpaceRejected{GameID: testGame, Nation: france, Space: Factory}}, eff.Events)
}

func TestMaterialize_Rejected可重复且无副作用(t *testing.T) {
	s := gameWith(map[Nation]Position{france: At(Factory)})
	first := Materialize(s, Decide(s, move(france, Factory)), noIDs(t))
	second := Materialize(s, Decide(s, move(france, Factory)), noIDs(t))
	assert.Equal(t, first, second)
}

func TestMaterialize_Free更新位置并确定行动(t *testing.T) {
	s := startedGame()
	eff := Materialize(s, Decide(s, move(france, Factory)), noIDs(t))

	require.NotNil(t, eff.State)
	pos, _ := eff.State.Position(france)
	assert.Equal(t, At(Factory), pos)
	assert.Equal(t, []Event{ActionDetermined{GameID: testGame, Nation: france, Action: ActionFactory}}, eff.Events)
	assert.Empty(t, eff.Commands)

	// 输入状态不变
	orig, _ := s.Position(france)
	assert.Equal(t, StartingPosition(), orig)
}

func TestMaterialize_Paid费用为距离减三乘二(t *testing.T) {
	from := Investor
	for _, c := range []struct {
		target Space
		amount int
	}{
		{Taxation, 2},      // 4 格
		{Factory, 4},       // 5 格
		{ProductionTwo, 6}, // 6 格
	} {
		s := gameWith(map[Nation]Position{france: At(from)})
		eff := Materialize(s, Decide(s, move(france, c.target)), seqIDs("b-1"))

		assert.Empty(t, eff.Events, "付费移动在确认前不发 ActionDetermined")
		require.Len(t, eff.Commands, 1)
		cmd := eff.Commands[0].(ChargeMovement)
		assert.Equal(t, c.amount, cmd.Amount.Value())
		assert.Equal(t, BillingID("b-1"), cmd.BillingID)
		assert.Equal(t, france, cmd.Nation)

		pm, ok := eff.State.Pending(france)
		require.True(t, ok)
		assert.Equal(t, PendingMovement{Nation: france, TargetSpace: c.target, BillingID: "b-1"}, pm)
		pos, _ := eff.State.Position(france)
		assert.Equal(t, At(from), pos, "确认前位置不变")
	}
}

func TestMaterialize_免费移动取代待支付(t *testing.T) {
	old := PendingMovement{Nation: france, TargetSpace: ProductionTwo, BillingID: "b-old"}
	s := gameWith(map[Nation]Position{france: At(ProductionOne)}, old)

	eff := Materialize(s, Decide(s, move(france, Taxation)), noIDs(t))

	pos, _ := eff.State.Position(france)
	assert.Equal(t, At(Taxation), pos)
	_, pending := eff.State.Pending(france)
	assert.False(t, pending)
	assert.Equal(t, []Event{
		ActionDetermined{GameID: testGame, Nation: france, Action: ActionTaxation},
		MoveToActionSpaceRejected{GameID: testGame, Nation: france, Space: ProductionTwo},
	}, eff.Events)
	assert.Equal(t, []OutboundCommand{VoidCharge{GameID: testGame, BillingID: "b-old"}}, eff.Commands)
}

func TestMaterialize_付费移动取代待支付(t *testing.T) {
	old := PendingMovement{Nation: france, TargetSpace: ProductionTwo, BillingID: "b-old"}
	s := gameWith(map[Nation]Position{france: At(ProductionOne)}, old)

	eff := Materialize(s, Decide(s, move(france, ManeuverTwo)), seqIDs("b-new"))

	assert.Equal(t, []Event{MoveToActionSpaceRejected{GameID: testGame, Nation: france, Space: ProductionTwo}}, eff.Events)
	require.Len(t, eff.Commands, 2)
	assert.Equal(t, VoidCharge{GameID: testGame, BillingID: "b-old"}, eff.Commands[0])
	charge := eff.Commands[1].(ChargeMovement)
	assert.Equal(t, 4, charge.Amount.Value())
	assert.Equal(t, BillingID("b-new"), charge.BillingID)

	assert.Len(t, eff.State.PendingMovements, 1)
	pm, _ := eff.State.Pending(france)
	assert.Equal(t, PendingMovement{Nation: france, TargetSpace: ManeuverTwo, BillingID: "b-new"}, pm)
	require.NoError(t, eff.State.Validate())

	// 原状态仍保留旧的待支付移动
	stillOld, _ := s.Pending(france)
	assert.Equal(t, old, stillOld)
}

func TestMaterialize_可达状态满足不变量(t *testing.T) {
	ids := 0
	gen := func() BillingID {
		ids++
		return BillingID(string(rune('a'+ids%26)) + "-" + string(rune('0'+ids%10)))
	}
	s := startedGame()
	targets := []Space{Factory, Investor, Taxation, ManeuverTwo, Import, ProductionTwo, ManeuverOne, Investor}
	for i, target := range targets {
		n := france
		if i%2 == 1 {
			n = germany
		}
		eff := Materialize(s, Decide(s, move(n, target)), gen)
		if eff.State != nil {
			s = eff.State
		}
		require.NoError(t, s.Validate())
		for nation := range s.PendingMovements {
			_, known := s.NationPositions[nation]
			require.True(t, known)
		}
	}
}
