package model

import (
	"sort"
	"time"

	"Imperial/internal/rondel/domain"
)

// 存储层只认字符串格子名；无法识别的名字解码为 domain.InvalidSpace，
// 由 GameState.Validate 或支付对账时报告为损坏数据。

// GameDoc mongodb 文档，一局游戏一条。
type GameDoc struct {
	GameID    string       `bson:"_id"`
	Nations   []NationDoc  `bson:"nations"`
	Pending   []PendingDoc `bson:"pending"`
	UpdatedAt time.Time    `bson:"updated_at"`
}

type NationDoc struct {
	Nation string `bson:"nation"`
	// Space 为空表示仍在起始位置
	Space string `bson:"space,omitempty"`
}

type PendingDoc struct {
	Nation    string `bson:"nation"`
	Target    string `bson:"target"`
	BillingID string `bson:"billing_id"`
}

func StateToDoc(s domain.GameState, now time.Time) GameDoc {
	doc := GameDoc{GameID: string(s.GameID), UpdatedAt: now}
	for _, n := range s.Nations() {
		pos, _ := s.Position(n)
		doc.Nations = append(doc.Nations, NationDoc{Nation: string(n), Space: encodePosition(pos)})
		if pm, ok := s.Pending(n); ok {
			doc.Pending = append(doc.Pending, PendingDoc{
				Nation:    string(pm.Nation),
				Target:    pm.TargetSpace.String(),
				BillingID: string(pm.BillingID),
			})
		}
	}
	return doc
}

func DocToState(doc GameDoc) *domain.GameState {
	s := domain.NewGameState(domain.GameID(doc.GameID), nil)
	for _, n := range doc.Nations {
		s.NationPositions[domain.Nation(n.Nation)] = decodePosition(n.Space)
	}
	for _, p := range doc.Pending {
		s.PendingMovements[domain.Nation(p.Nation)] = domain.PendingMovement{
			Nation:      domain.Nation(p.Nation),
			TargetSpace: decodeSpace(p.Target),
			BillingID:   domain.BillingID(p.BillingID),
		}
	}
	return s
}

// RondelGame gorm 模型：游戏头。
type RondelGame struct {
	GameID    string    `gorm:"column:game_id;type:varchar(64);primaryKey;not null;"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;"`
}

func (m *RondelGame) TableName() string {
	return "rondel_game"
}

// RondelNation gorm 模型：每个国家一行，待支付移动内联在同一行。
type RondelNation struct {
	GameID        string `gorm:"column:game_id;type:varchar(64);primaryKey;not null;"`
	Nation        string `gorm:"column:nation;type:varchar(64);primaryKey;not null;"`
	Space         string `gorm:"column:space;type:varchar(32);comment:空表示起始位置;not null;default:'';"`
	PendingTarget string `gorm:"column:pending_target;type:varchar(32);comment:待支付目标格;not null;default:'';"`
	BillingID     string `gorm:"column:billing_id;type:varchar(64);comment:扣费单号;not null;default:'';index;"`
}

func (m *RondelNation) TableName() string {
	return "rondel_nation"
}

func StateToRows(s domain.GameState) []RondelNation {
	rows := make([]RondelNation, 0, len(s.NationPositions))
	for _, n := range s.Nations() {
		pos, _ := s.Position(n)
		row := RondelNation{GameID: string(s.GameID), Nation: string(n), Space: encodePosition(pos)}
		if pm, ok := s.Pending(n); ok {
			row.PendingTarget = pm.TargetSpace.String()
			row.BillingID = string(pm.BillingID)
		}
		rows = append(rows, row)
	}
	return rows
}

func RowsToState(game RondelGame, rows []RondelNation) *domain.GameState {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Nation < rows[j].Nation })
	s := domain.NewGameState(domain.GameID(game.GameID), nil)
	for _, r := range rows {
		n := domain.Nation(r.Nation)
		s.NationPositions[n] = decodePosition(r.Space)
		if r.BillingID != "" {
			s.PendingMovements[n] = domain.PendingMovement{
				Nation:      n,
				TargetSpace: decodeSpace(r.PendingTarget),
				BillingID:   domain.BillingID(r.BillingID),
			}
		}
	}
	return s
}

func encodePosition(p domain.Position) string {
	sp, placed := p.Space()
	if !placed {
		return ""
	}
	return sp.String()
}

func decodePosition(raw string) domain.Position {
	if raw == "" {
		return domain.StartingPosition()
	}
	return domain.At(decodeSpace(raw))
}

func decodeSpace(raw string) domain.Space {
	sp, err := domain.ParseSpace(raw)
	if err != nil {
		return domain.InvalidSpace
	}
	return sp
}
