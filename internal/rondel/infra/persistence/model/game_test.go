package model

import (
	"testing"
	"time"

	"Imperial/internal/rondel/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() domain.GameState {
	s := domain.NewGameState("g-1", []domain.Nation{"France", "Germany"})
	s.NationPositions["France"] = domain.At(domain.ProductionOne)
	s.PendingMovements["France"] = domain.PendingMovement{Nation: "France", TargetSpace: domain.ProductionTwo, BillingID: "b-1"}
	return *s
}

func TestDoc_起始位置编码为空字符串(t *testing.T) {
	doc := StateToDoc(sample(), time.Unix(0, 0))
	require.Len(t, doc.Nations, 2)
	assert.Equal(t, NationDoc{Nation: "France", Space: "ProductionOne"}, doc.Nations[0])
	assert.Equal(t, NationDoc{Nation: "Germany"}, doc.Nations[1])
	assert.Equal(t, []PendingDoc{{Nation: "France", Target: "ProductionTwo", BillingID: "b-1"}}, doc.Pending)

	back := DocToState(doc)
	assert.Equal(t, sample(), *back)
}

func TestDoc_无法识别的格子解码为InvalidSpace(t *testing.T) {
	doc := GameDoc{
		GameID:  "g-1",
		Nations: []NationDoc{{Nation: "France", Space: "ProductionOne"}},
		Pending: []PendingDoc{{Nation: "France", Target: "Atlantis", BillingID: "b-1"}},
	}
	s := DocToState(doc)
	assert.ErrorIs(t, s.Validate(), domain.ErrCorruptState, "目标格损坏在加载时即被发现")
	pm, _ := s.Pending("France")
	assert.Equal(t, domain.InvalidSpace, pm.TargetSpace)

	_, err := domain.ConfirmPayment(s, domain.InvoicePaid{GameID: "g-1", BillingID: "b-1"})
	assert.ErrorIs(t, err, domain.ErrCorruptState)

	doc.Nations[0].Space = "Atlantis"
	assert.ErrorIs(t, DocToState(doc).Validate(), domain.ErrCorruptState)
}

func TestRows_待支付移动内联在国家行(t *testing.T) {
	rows := StateToRows(sample())
	require.Len(t, rows, 2)
	assert.Equal(t, RondelNation{GameID: "g-1", Nation: "France", Space: "ProductionOne", PendingTarget: "ProductionTwo", BillingID: "b-1"}, rows[0])
	assert.Equal(t, RondelNation{GameID: "g-1", Nation: "Germany"}, rows[1])

	back := RowsToState(RondelGame{GameID: "g-1"}, rows)
	assert.Equal(t, sample(), *back)
}
