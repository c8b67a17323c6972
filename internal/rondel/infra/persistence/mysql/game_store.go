package mysql

import (
	"context"
	"errors"

	"Imperial/internal/rondel/domain"
	"Imperial/internal/rondel/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GameStore struct {
	db *gorm.DB
}

func NewGameStore(db *gorm.DB) *GameStore {
	return &GameStore{db: db}
}

// AutoMigrate 建表，启动时调用一次。
func (r *GameStore) AutoMigrate() error {
	return r.db.AutoMigrate(&model.RondelGame{}, &model.RondelNation{})
}

func (r *GameStore) Load(ctx context.Context, id domain.GameID) (*domain.GameState, error) {
	var game model.RondelGame
	err := r.db.WithContext(ctx).Where("game_id = ?", string(id)).First(&game).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, err
	}

	var rows []model.RondelNation
	if err := r.db.WithContext(ctx).Where("game_id = ?", string(id)).Find(&rows).Error; err != nil {
		return nil, err
	}
	s := model.RowsToState(game, rows)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save 整局覆盖写：游戏头 upsert，国家行 upsert。名单在初始化后不再变化，不需要删行。
func (r *GameStore) Save(ctx context.Context, s domain.GameState) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game := &model.RondelGame{GameID: string(s.GameID)}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).Create(game).Error; err != nil {
			return err
		}
		rows := model.StateToRows(s)
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}, {Name: "nation"}},
			DoUpdates: clause.AssignmentColumns([]string{"space", "pending_target", "billing_id"}),
		}).Create(&rows).Error
	})
}
