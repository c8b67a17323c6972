package domain

import (
	"testing"

	"Imperial/modules/kit/errx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_顺时针且回绕(t *testing.T) {
	cases := []struct {
		from, to Space
		want     int
	}{
		{Investor, Investor, 0},
		{Investor, Import, 1},
		{ProductionOne, ProductionTwo, 4},
		{ProductionOne, ManeuverTwo, 5},
		{ManeuverTwo, Investor, 1},
		{Import, Investor, 7},
		{Factory, ProductionOne, 5},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Distance(c.from, c.to), "%s -> %s", c.from, c.to)
	}
	for _, from := range Spaces() {
		for _, to := range Spaces() {
			d := Distance(from, to)
			require.GreaterOrEqual(t, d, 0)
			require.LessOrEqual(t, d, 7)
		}
	}
}

func TestToAction_两对格子共享行动(t *testing.T) {
	assert.Equal(t, ActionProduction, ToAction(ProductionOne))
	assert.Equal(t, ActionProduction, ToAction(ProductionTwo))
	assert.Equal(t, ActionManeuver, ToAction(ManeuverOne))
	assert.Equal(t, ActionManeuver, ToAction(ManeuverTwo))
	assert.Equal(t, ActionInvestor, ToAction(Investor))
	assert.Equal(t, ActionImport, ToAction(Import))
	assert.Equal(t, ActionTaxation, ToAction(Taxation))
	assert.Equal(t, ActionFactory, ToAction(Factory))
}

func TestParseSpace(t *testing.T) {
	s, err := ParseSpace(" productiontwo ")
	require.NoError(t, err)
	assert.Equal(t, ProductionTwo, s)

	for _, sp := range Spaces() {
		got, err := ParseSpace(sp.String())
		require.NoError(t, err)
		assert.Equal(t, sp, got)
	}

	_, err = ParseSpace("Harbour")
	require.ErrorIs(t, err, ErrInvalidSpace)
	assert.True(t, errx.IsBiz(err))
}

func TestNewAmount_拒绝负数(t *testing.T) {
	a, err := NewAmount(4)
	require.NoError(t, err)
	assert.Equal(t, 4, a.Value())
	assert.Equal(t, "4M", a.String())

	_, err = NewAmount(-1)
	require.ErrorIs(t, err, ErrNegativeAmount)
}

func TestIDs(t *testing.T) {
	_, err := NewGameID("   ")
	require.ErrorIs(t, err, ErrInvalidGameID)

	id := NewBillingID()
	parsed, err := ParseBillingID(string(id))
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
	assert.NotEqual(t, id, NewBillingID())

	_, err = ParseBillingID("not-a-uuid")
	require.ErrorIs(t, err, ErrInvalidBillingID)
}
