package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/duality-rp/duality/internal/game/effect"
	"github.com/duality-rp/duality/internal/game/stats"
	"github.com/duality-rp/duality/internal/game/universe"
)

var gorStats = []string{"strength", "agility", "intellect", "perception", "charisma"}

func baseBlock() stats.Block {
	return stats.Block{"strength": 3, "agility": 2, "intellect": 4, "perception": 1, "charisma": 2}
}

func TestProject_NoEffectsEqualsBase(t *testing.T) {
	live := stats.Project(baseBlock(), gorStats, nil)
	assert.Equal(t, stats.Block(baseBlock()), live.Stats)
	assert.Empty(t, live.Controls)
}

func TestProject_SingleStatModifier(t *testing.T) {
	actives := []effect.Active{
		{EffectID: "weaken", Kind: effect.KindStatModifier, Stat: "strength", Modifier: -2, TurnsRemaining: 3},
	}
	live := stats.Project(baseBlock(), gorStats, actives)
	assert.Equal(t, 1, live.Get("strength"))
	assert.Equal(t, 2, live.Get("agility"))
}

func TestProject_AllStatsModifierShiftsEveryStat(t *testing.T) {
	actives := []effect.Active{
		{EffectID: "bless", Kind: effect.KindStatModifier, Stat: effect.AllStats, Modifier: 2, TurnsRemaining: 3},
	}
	base := baseBlock()
	live := stats.Project(base, gorStats, actives)
	for _, name := range gorStats {
		assert.Equal(t, base[name]+2, live.Get(name), "stat %s", name)
	}
}

func TestProject_UnknownStatIgnored(t *testing.T) {
	actives := []effect.Active{
		{EffectID: "oddity", Kind: effect.KindStatModifier, Stat: "luck", Modifier: 5, TurnsRemaining: 2},
	}
	live := stats.Project(baseBlock(), gorStats, actives)
	assert.Equal(t, stats.Block(baseBlock()), live.Stats)
}

func TestProject_ControlFlags(t *testing.T) {
	actives := []effect.Active{
		{EffectID: "stun", Name: "Stunned", Kind: effect.KindControl, Control: "stun", TurnsRemaining: 1},
		{EffectID: "nap", Kind: effect.KindControl, Control: "sleep", TurnsRemaining: 2},
	}
	live := stats.Project(baseBlock(), gorStats, actives)
	require.Len(t, live.Controls, 2)
	assert.Equal(t, stats.ControlFlag{Type: "stun", Label: "Stunned"}, live.Controls[0])
	// Label falls back to the control tag when no display name is set.
	assert.Equal(t, stats.ControlFlag{Type: "sleep", Label: "sleep"}, live.Controls[1])

	flag, ok := live.Controlled()
	require.True(t, ok)
	assert.Equal(t, "stun", flag.Type)
}

func TestProject_PeriodicEffectsDoNotTouchStats(t *testing.T) {
	actives := []effect.Active{
		{EffectID: "bleed", Kind: effect.KindDamage, PerTurn: -3, TurnsRemaining: 2},
		{EffectID: "regen", Kind: effect.KindHeal, PerTurn: 4, TurnsRemaining: 2},
	}
	live := stats.Project(baseBlock(), gorStats, actives)
	assert.Equal(t, stats.Block(baseBlock()), live.Stats)
	assert.Empty(t, live.Controls)
}

func TestProject_Pure_RepeatedProjectionIdentical(t *testing.T) {
	actives := []effect.Active{
		{EffectID: "bless", Kind: effect.KindStatModifier, Stat: effect.AllStats, Modifier: 1, TurnsRemaining: 4},
		{EffectID: "stun", Name: "Stunned", Kind: effect.KindControl, Control: "stun", TurnsRemaining: 1},
	}
	base := baseBlock()
	first := stats.Project(base, gorStats, actives)
	second := stats.Project(base, gorStats, actives)
	assert.Equal(t, first, second)
	// Inputs unchanged.
	assert.Equal(t, baseBlock(), base)
}

func TestProject_Property_AllModifierShiftsUniformly(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mod := rapid.IntRange(-10, 10).Draw(rt, "mod")
		u, ok := universe.Get(rapid.SampledFrom([]string{"arkana", "gor"}).Draw(rt, "universe"))
		require.True(rt, ok)

		base := make(stats.Block, len(u.StatNames))
		for _, name := range u.StatNames {
			base[name] = rapid.IntRange(0, 20).Draw(rt, "base_"+name)
		}
		live := stats.Project(base, u.StatNames, []effect.Active{
			{EffectID: "shift", Kind: effect.KindStatModifier, Stat: effect.AllStats, Modifier: mod, TurnsRemaining: 1},
		})
		for _, name := range u.StatNames {
			assert.Equal(rt, base[name]+mod, live.Get(name))
		}
	})
}
