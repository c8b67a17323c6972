package memory

import (
	"context"
	"sync"

	"Imperial/internal/rondel/domain"
)

// GameStore 进程内存储，rondel.storage=memory 和测试使用。读写都复制，调用方拿不到内部引用。
type GameStore struct {
	mu    sync.RWMutex
	games map[domain.GameID]domain.GameState
}

func NewGameStore() *GameStore {
	return &GameStore{games: make(map[domain.GameID]domain.GameState)}
}

func (r *GameStore) Load(ctx context.Context, id domain.GameID) (*domain.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	g, ok := r.games[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	c := g.Clone()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *GameStore) Save(ctx context.Context, s domain.GameState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c := s.Clone()
	r.mu.Lock()
	r.games[s.GameID] = *c
	r.mu.Unlock()
	return nil
}
