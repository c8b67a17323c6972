package domain

import (
	"strings"

	"github.com/google/uuid"
)

// GameID 聚合根 id，不透明、非空。
type GameID string

func NewGameID(raw string) (GameID, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrInvalidGameID
	}
	return GameID(id), nil
}

// Nation 国家名，在一局游戏内唯一。
type Nation string

// BillingID 每次扣费尝试新生成的关联 id，永不复用。
type BillingID string

// BillingIDGenerator 生成新的 BillingID；测试里替换成确定序列。
type BillingIDGenerator func() BillingID

func NewBillingID() BillingID {
	return BillingID(uuid.NewString())
}

func ParseBillingID(raw string) (BillingID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidBillingID.WithData("billing_id", raw).WithCause(err)
	}
	return BillingID(id.String()), nil
}
