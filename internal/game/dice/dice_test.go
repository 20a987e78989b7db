package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/duality-rp/duality/internal/game/dice"
)

// scriptedSource returns queued values in order, then repeats the last.
type scriptedSource struct {
	values []int
	idx    int
}

func (s *scriptedSource) Intn(n int) int {
	v := s.values[s.idx]
	if s.idx < len(s.values)-1 {
		s.idx++
	}
	if v >= n {
		v = n - 1
	}
	return v
}

func TestParse(t *testing.T) {
	tests := []struct {
		expr    string
		count   int
		sides   int
		mod     int
		wantErr bool
	}{
		{"d20", 1, 20, 0, false},
		{"2d6", 2, 6, 0, false},
		{"2d6+3", 2, 6, 3, false},
		{"4d8-2", 4, 8, -2, false},
		{"7", 0, 0, 7, false}, // flat amount
		{"", 0, 0, 0, true},
		{"2x6", 0, 0, 0, true},
		{"0d6", 0, 0, 0, true},
		{"2d1", 0, 0, 0, true},
	}
	for _, tc := range tests {
		e, err := dice.Parse(tc.expr)
		if tc.wantErr {
			assert.Error(t, err, "expr=%q", tc.expr)
			continue
		}
		require.NoError(t, err, "expr=%q", tc.expr)
		assert.Equal(t, tc.count, e.Count, "expr=%q", tc.expr)
		assert.Equal(t, tc.sides, e.Sides, "expr=%q", tc.expr)
		assert.Equal(t, tc.mod, e.Modifier, "expr=%q", tc.expr)
	}
}

func TestRoll_Scripted(t *testing.T) {
	src := &scriptedSource{values: []int{3, 4}} // dice land on 4 and 5
	res, err := dice.RollExpr("2d6+3", src)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, res.Dice)
	assert.Equal(t, 12, res.Total())
	assert.Equal(t, "2d6+3 → [4 5] +3 = 12", res.String())
}

func TestRollExpr_FlatAmount(t *testing.T) {
	res, err := dice.RollExpr("7", dice.NewCryptoSource())
	require.NoError(t, err)
	assert.Empty(t, res.Dice)
	assert.Equal(t, 7, res.Total())
}

func TestD20_Bounds(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 200; i++ {
		v := dice.D20(src)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 20)
	}
}

func TestRoll_Property_TotalMatchesDiceSum(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		e := dice.Expression{Raw: "x", Count: count, Sides: sides, Modifier: rapid.IntRange(-5, 5).Draw(rt, "mod")}
		res := dice.Roll(e, dice.NewCryptoSource())
		sum := res.Modifier
		for _, d := range res.Dice {
			sum += d
			assert.GreaterOrEqual(rt, d, 1)
			assert.LessOrEqual(rt, d, sides)
		}
		assert.Equal(rt, sum, res.Total())
	})
}

func TestCryptoSource_PanicsOnNonPositive(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
}
