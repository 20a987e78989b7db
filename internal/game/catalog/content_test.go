package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duality-rp/duality/internal/game/catalog"
	"github.com/duality-rp/duality/internal/game/universe"
	"github.com/duality-rp/duality/internal/scripting"
)

// TestShippedContentLoads guards the repository's content/ directory: every
// definition must load, and every scripted amount must evaluate against a
// sample caster/target for each universe the ability is available in. This
// keeps content files from drifting away from the evaluator's entity shape.
func TestShippedContentLoads(t *testing.T) {
	reg, err := catalog.LoadDirectories("../../../content/abilities", "../../../content/effects")
	require.NoError(t, err)

	eval := &scripting.AmountEvaluator{}
	for _, uni := range universe.All() {
		sampleStats := make(map[string]int, len(uni.StatNames))
		for _, name := range uni.StatNames {
			sampleStats[name] = 3
		}
		caster := scripting.Entity{Stats: sampleStats, Health: 50, MaxHealth: 100}
		target := scripting.Entity{Stats: sampleStats, Health: 40, MaxHealth: 40}

		for _, ability := range reg.Abilities(uni.ID) {
			for _, mode := range []catalog.InvocationMode{catalog.ModeAttack, catalog.ModeAbility} {
				for _, effectID := range ability.EffectsFor(mode) {
					def, ok := reg.EffectByID(effectID)
					require.True(t, ok, "ability %s effect %s", ability.ID, effectID)
					if def.Script == "" {
						continue
					}
					_, err := eval.Eval(def.Script, caster, target)
					require.NoError(t, err,
						"ability %s effect %s script in universe %s", ability.ID, effectID, uni.ID)
				}
			}
		}
	}
}
