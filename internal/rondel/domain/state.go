package domain

import "sort"

// Position 国家在轮盘上的位置；未放置表示仍在起始位置、从未移动过。
type Position struct {
	space  Space
	placed bool
}

// StartingPosition 起始位置（None）。
func StartingPosition() Position {
	return Position{}
}

func At(s Space) Position {
	return Position{space: s, placed: true}
}

// Space 返回当前格子；第二个返回值为 false 表示从未移动过。
func (p Position) Space() (Space, bool) {
	return p.space, p.placed
}

func (p Position) String() string {
	if !p.placed {
		return "Start"
	}
	return p.space.String()
}

// PendingMovement 等待支付确认的付费移动。
type PendingMovement struct {
	Nation      Nation
	TargetSpace Space
	BillingID   BillingID
}

// GameState 聚合根。
//
// 不变量：
// - PendingMovements 的 key 必须都在 NationPositions 里
// - 每个国家最多一条待支付移动（取代时先删旧再加新）
type GameState struct {
	GameID           GameID
	NationPositions  map[Nation]Position
	PendingMovements map[Nation]PendingMovement
}

func NewGameState(id GameID, nations []Nation) *GameState {
	s := &GameState{
		GameID:           id,
		NationPositions:  make(map[Nation]Position, len(nations)),
		PendingMovements: make(map[Nation]PendingMovement),
	}
	for _, n := range nations {
		s.NationPositions[n] = StartingPosition()
	}
	return s
}

// Clone 深拷贝；决策与物化都是纯函数，不能改动调用方持有的状态。
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := &GameState{
		GameID:           s.GameID,
		NationPositions:  make(map[Nation]Position, len(s.NationPositions)),
		PendingMovements: make(map[Nation]PendingMovement, len(s.PendingMovements)),
	}
	for n, p := range s.NationPositions {
		out.NationPositions[n] = p
	}
	for n, pm := range s.PendingMovements {
		out.PendingMovements[n] = pm
	}
	return out
}

func (s *GameState) Position(n Nation) (Position, bool) {
	p, ok := s.NationPositions[n]
	return p, ok
}

func (s *GameState) Pending(n Nation) (PendingMovement, bool) {
	pm, ok := s.PendingMovements[n]
	return pm, ok
}

// FindPending 按扣费单号查找待支付移动。
func (s *GameState) FindPending(id BillingID) (PendingMovement, bool) {
	for _, pm := range s.PendingMovements {
		if pm.BillingID == id {
			return pm, true
		}
	}
	return PendingMovement{}, false
}

// Nations 按名字排序返回名单，保证查询输出稳定。
func (s *GameState) Nations() []Nation {
	out := make([]Nation, 0, len(s.NationPositions))
	for n := range s.NationPositions {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *GameState) moveTo(n Nation, target Space) {
	s.NationPositions[n] = At(target)
}

// replacePending 先删后加，保证一个国家最多一条。
func (s *GameState) replacePending(pm PendingMovement) {
	delete(s.PendingMovements, pm.Nation)
	s.PendingMovements[pm.Nation] = pm
}

func (s *GameState) clearPending(n Nation) {
	delete(s.PendingMovements, n)
}

// Validate 检查聚合不变量，存储适配器加载后和流水线读出状态后都会调用。
func (s *GameState) Validate() error {
	if s == nil {
		return nil
	}
	if s.GameID == "" {
		return ErrCorruptState.WithData("reason", "empty game id")
	}
	seen := make(map[BillingID]Nation, len(s.PendingMovements))
	for n, pm := range s.PendingMovements {
		if _, ok := s.NationPositions[n]; !ok {
			return ErrCorruptState.WithDataMap(map[string]any{
				"reason": "pending movement for unknown nation",
				"nation": string(n),
			})
		}
		if pm.Nation != n {
			return ErrCorruptState.WithDataMap(map[string]any{
				"reason": "pending movement keyed under another nation",
				"nation": string(n),
			})
		}
		if pm.BillingID == "" {
			return ErrCorruptState.WithDataMap(map[string]any{
				"reason": "pending movement without billing id",
				"nation": string(n),
			})
		}
		if !pm.TargetSpace.Valid() {
			return ErrCorruptState.WithDataMap(map[string]any{
				"reason":     "pending target space cannot be decoded",
				"nation":     string(n),
				"billing_id": string(pm.BillingID),
			})
		}
		if other, dup := seen[pm.BillingID]; dup {
			return ErrCorruptState.WithDataMap(map[string]any{
				"reason":     "billing id shared by two pending movements",
				"billing_id": string(pm.BillingID),
				"nations":    []string{string(other), string(n)},
			})
		}
		seen[pm.BillingID] = n
	}
	for n, p := range s.NationPositions {
		if sp, placed := p.Space(); placed && !sp.Valid() {
			return ErrCorruptState.WithDataMap(map[string]any{
				"reason": "position cannot be decoded",
				"nation": string(n),
			})
		}
	}
	return nil
}
