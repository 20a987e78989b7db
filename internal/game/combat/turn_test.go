package combat_test

import (
	"testing"

	"github.com/duality-rp/duality/internal/game/character"
	"github.com/duality-rp/duality/internal/game/combat"
	"github.com/duality-rp/duality/internal/game/effect"
	"github.com/duality-rp/duality/internal/game/stats"
	"github.com/duality-rp/duality/internal/game/universe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickTurnDecrementsAndExpires(t *testing.T) {
	uni, _ := universe.Get("arkana")
	c := &character.Character{
		Stats: stats.Block{"mental": 3}, Health: 20, MaxHealth: 20,
		ActiveEffects: []effect.Active{
			{EffectID: "buff", Name: "Focus", Kind: effect.KindStatModifier, Stat: "mental", Modifier: 2, TurnsRemaining: 2},
			{EffectID: "stun", Name: "Stunned", Kind: effect.KindControl, Control: "stun", TurnsRemaining: 1},
		},
	}

	res := combat.TickTurn(c, uni.StatNames)

	require.Len(t, c.ActiveEffects, 1)
	assert.Equal(t, "buff", c.ActiveEffects[0].EffectID)
	assert.Equal(t, 1, c.ActiveEffects[0].TurnsRemaining)
	assert.Equal(t, []string{"stun"}, res.Expired)
	assert.Equal(t, 5, res.Live.Get("mental"), "surviving buff still projects")
	_, controlled := res.Live.Controlled()
	assert.False(t, controlled, "expired stun no longer projects")
}

func TestTickTurnAppliesPeriodicDamage(t *testing.T) {
	uni, _ := universe.Get("gor")
	c := &character.Character{
		Health: 10, MaxHealth: 30,
		ActiveEffects: []effect.Active{
			{EffectID: "burn", Name: "Burning", Kind: effect.KindDamage, PerTurn: -3, TurnsRemaining: 3},
			{EffectID: "regen", Name: "Regeneration", Kind: effect.KindHeal, PerTurn: 1, TurnsRemaining: 2},
		},
	}

	res := combat.TickTurn(c, uni.StatNames)
	assert.Equal(t, -2, res.HealthDelta)
	assert.Equal(t, 8, c.Health)
}

func TestTickTurnClampsHealthAtZero(t *testing.T) {
	uni, _ := universe.Get("gor")
	c := &character.Character{
		Health: 2, MaxHealth: 30,
		ActiveEffects: []effect.Active{
			{EffectID: "burn", Name: "Burning", Kind: effect.KindDamage, PerTurn: -5, TurnsRemaining: 2},
		},
	}

	res := combat.TickTurn(c, uni.StatNames)
	assert.Equal(t, 0, c.Health)
	assert.Equal(t, -2, res.HealthDelta, "delta reports the clamped change")
}

func TestTickTurnNoZeroDurationSurvives(t *testing.T) {
	uni, _ := universe.Get("arkana")
	c := &character.Character{
		Health: 10, MaxHealth: 10,
		ActiveEffects: []effect.Active{
			{EffectID: "a", Kind: effect.KindStatModifier, Stat: "mental", Modifier: 1, TurnsRemaining: 1},
			{EffectID: "b", Kind: effect.KindStatModifier, Stat: "mental", Modifier: 1, TurnsRemaining: 0},
			{EffectID: "c", Kind: effect.KindStatModifier, Stat: "mental", Modifier: 1, TurnsRemaining: 5},
		},
	}

	combat.TickTurn(c, uni.StatNames)
	for _, ac := range c.ActiveEffects {
		assert.Greater(t, ac.TurnsRemaining, 0)
	}
}
