package memory

import (
	"context"
	"testing"

	"Imperial/internal/rondel/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameStore_不存在返回nil(t *testing.T) {
	s := NewGameStore()
	g, err := s.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestGameStore_读写互不共享引用(t *testing.T) {
	s := NewGameStore()
	ctx := context.Background()
	g := domain.NewGameState("g-1", []domain.Nation{"France"})
	require.NoError(t, s.Save(ctx, *g))

	g.NationPositions["France"] = domain.At(domain.Factory)
	loaded, err := s.Load(ctx, "g-1")
	require.NoError(t, err)
	pos, _ := loaded.Position("France")
	assert.Equal(t, domain.StartingPosition(), pos, "保存后修改调用方对象不应影响存储")

	loaded.NationPositions["France"] = domain.At(domain.Import)
	again, _ := s.Load(ctx, "g-1")
	pos, _ = again.Position("France")
	assert.Equal(t, domain.StartingPosition(), pos, "修改读出的对象不应影响存储")
}

func TestGameStore_ctx已取消(t *testing.T) {
	s := NewGameStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Load(ctx, "g-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGameStore_加载时校验不变量(t *testing.T) {
	s := NewGameStore()
	ctx := context.Background()
	g := domain.NewGameState("g-1", []domain.Nation{"France"})
	g.PendingMovements["France"] = domain.PendingMovement{Nation: "France", TargetSpace: domain.InvalidSpace, BillingID: "b-1"}
	require.NoError(t, s.Save(ctx, *g))

	loaded, err := s.Load(ctx, "g-1")
	assert.ErrorIs(t, err, domain.ErrCorruptState)
	assert.Nil(t, loaded)
}
