package app

import (
	"context"

	"Imperial/internal/rondel/domain"
)

// 查询直接读存储，不经过 actor，可能读到上一次保存之前的状态。

// NationView 一个国家的当前位置和待支付移动。
type NationView struct {
	Nation   domain.Nation
	Position domain.Position
	Pending  *domain.PendingMovement
}

type PositionsView struct {
	GameID  domain.GameID
	Nations []NationView
}

type OverviewView struct {
	GameID       domain.GameID
	Initialized  bool
	Nations      []domain.Nation
	PendingCount int
}

// Positions 按国家名排序返回每个国家的位置；游戏不存在返回 ErrGameNotFound。
func (s *Service) Positions(ctx context.Context, id domain.GameID) (PositionsView, error) {
	if id == "" {
		return PositionsView{}, domain.ErrInvalidGameID
	}
	state, err := s.load(ctx, id)
	if err != nil {
		return PositionsView{}, err
	}
	if state == nil {
		return PositionsView{}, ErrGameNotFound.WithData("game_id", string(id))
	}
	out := PositionsView{GameID: state.GameID}
	for _, n := range state.Nations() {
		v := NationView{Nation: n}
		v.Position, _ = state.Position(n)
		if pm, ok := state.Pending(n); ok {
			v.Pending = &pm
		}
		out.Nations = append(out.Nations, v)
	}
	return out, nil
}

// Overview 名单和是否已初始化；不存在的游戏不是错误。
func (s *Service) Overview(ctx context.Context, id domain.GameID) (OverviewView, error) {
	if id == "" {
		return OverviewView{}, domain.ErrInvalidGameID
	}
	state, err := s.load(ctx, id)
	if err != nil {
		return OverviewView{}, err
	}
	if state == nil {
		return OverviewView{GameID: id}, nil
	}
	return OverviewView{
		GameID:       state.GameID,
		Initialized:  true,
		Nations:      state.Nations(),
		PendingCount: len(state.PendingMovements),
	}, nil
}
