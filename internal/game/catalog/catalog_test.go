package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duality-rp/duality/internal/game/catalog"
)

func TestEffectDef_Validate(t *testing.T) {
	tests := []struct {
		name    string
		def     catalog.EffectDef
		wantErr string
	}{
		{
			name: "valid contested check",
			def:  catalog.EffectDef{ID: "c", Name: "C", Kind: catalog.KindCheck, Stat: "charisma", Versus: "charisma"},
		},
		{
			name: "valid tn check",
			def:  catalog.EffectDef{ID: "c", Name: "C", Kind: catalog.KindCheck, Stat: "mental", TargetNumber: 14},
		},
		{
			name:    "check without stat",
			def:     catalog.EffectDef{ID: "c", Name: "C", Kind: catalog.KindCheck},
			wantErr: "requires a stat",
		},
		{
			name: "valid stat modifier",
			def:  catalog.EffectDef{ID: "m", Name: "M", Kind: catalog.KindStatModifier, Target: catalog.TargetEnemy, Stat: "strength", Modifier: -2, DurationTurns: 3},
		},
		{
			name:    "stat modifier with zero modifier",
			def:     catalog.EffectDef{ID: "m", Name: "M", Kind: catalog.KindStatModifier, Target: catalog.TargetEnemy, Stat: "strength", DurationTurns: 3},
			wantErr: "non-zero modifier",
		},
		{
			name:    "stat modifier without duration",
			def:     catalog.EffectDef{ID: "m", Name: "M", Kind: catalog.KindStatModifier, Target: catalog.TargetEnemy, Stat: "strength", Modifier: 1},
			wantErr: "duration_turns",
		},
		{
			name: "valid control",
			def:  catalog.EffectDef{ID: "s", Name: "S", Kind: catalog.KindControl, Target: catalog.TargetEnemy, Control: "stun", DurationTurns: 2},
		},
		{
			name: "valid damage with dice amount",
			def:  catalog.EffectDef{ID: "d", Name: "D", Kind: catalog.KindDamage, Target: catalog.TargetEnemy, Amount: "2d6+1"},
		},
		{
			name: "valid heal with percent",
			def:  catalog.EffectDef{ID: "h", Name: "H", Kind: catalog.KindHeal, Target: catalog.TargetSelf, PercentOfMax: 10},
		},
		{
			name:    "damage with two amount sources",
			def:     catalog.EffectDef{ID: "d", Name: "D", Kind: catalog.KindDamage, Target: catalog.TargetEnemy, Amount: "2d6", PercentOfMax: 5},
			wantErr: "exactly one of",
		},
		{
			name:    "damage with no amount source",
			def:     catalog.EffectDef{ID: "d", Name: "D", Kind: catalog.KindDamage, Target: catalog.TargetEnemy},
			wantErr: "exactly one of",
		},
		{
			name:    "unknown kind",
			def:     catalog.EffectDef{ID: "x", Name: "X", Kind: "banana", Target: catalog.TargetSelf},
			wantErr: "unknown kind",
		},
		{
			name:    "unknown target",
			def:     catalog.EffectDef{ID: "d", Name: "D", Kind: catalog.KindDamage, Target: "nearest", Amount: "1d4"},
			wantErr: "unknown target",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.def.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestAbilityDef_EffectsFor(t *testing.T) {
	a := catalog.AbilityDef{
		ID:             "mind-spike",
		Name:           "Mind Spike",
		AttackEffects:  []string{"spike-check", "spike-damage"},
		AbilityEffects: []string{"focus"},
	}
	assert.Equal(t, []string{"spike-check", "spike-damage"}, a.EffectsFor(catalog.ModeAttack))
	assert.Equal(t, []string{"focus"}, a.EffectsFor(catalog.ModeAbility))
}

func TestAbilityDef_AvailableIn(t *testing.T) {
	both := catalog.AbilityDef{ID: "a", Name: "A"}
	gorOnly := catalog.AbilityDef{ID: "b", Name: "B", Universe: "gor"}
	assert.True(t, both.AvailableIn("arkana"))
	assert.True(t, both.AvailableIn("gor"))
	assert.False(t, gorOnly.AvailableIn("arkana"))
	assert.True(t, gorOnly.AvailableIn("Gor"))
}

func writeContent(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestLoadDirectories(t *testing.T) {
	abilities := t.TempDir()
	effects := t.TempDir()

	writeContent(t, effects, "spike-check.yaml", `
id: spike-check
name: Mind Spike Check
kind: check
stat: mental
versus: mental
`)
	writeContent(t, effects, "spike-damage.yaml", `
id: spike-damage
name: Mind Spike Damage
kind: damage
target: enemy
amount: 2d6
`)
	writeContent(t, abilities, "mind-spike.yaml", `
id: mind-spike
name: Mind Spike
universe: arkana
cooldown_seconds: 1800
attack_effects: [spike-check, spike-damage]
`)

	reg, err := catalog.LoadDirectories(abilities, effects)
	require.NoError(t, err)

	a, ok := reg.AbilityByID("mind-spike")
	require.True(t, ok)
	assert.Equal(t, 1800, a.CooldownSeconds)

	byName, ok := reg.AbilityByName("mind spike")
	require.True(t, ok)
	assert.Same(t, a, byName)

	e, ok := reg.EffectByID("spike-damage")
	require.True(t, ok)
	assert.Equal(t, catalog.KindDamage, e.Kind)

	assert.Len(t, reg.Abilities("arkana"), 1)
	assert.Empty(t, reg.Abilities("gor"))
}

func TestLoadDirectories_UnknownField(t *testing.T) {
	abilities := t.TempDir()
	effects := t.TempDir()
	writeContent(t, effects, "bad.yaml", `
id: bad
name: Bad
kind: damage
target: enemy
amount: 1d4
surprise: true
`)
	_, err := catalog.LoadDirectories(abilities, effects)
	assert.Error(t, err)
}

func TestLoadDirectories_CheckMustLead(t *testing.T) {
	abilities := t.TempDir()
	effects := t.TempDir()
	writeContent(t, effects, "gate.yaml", `
id: gate
name: Gate
kind: check
stat: mental
`)
	writeContent(t, effects, "burn.yaml", `
id: burn
name: Burn
kind: damage
target: enemy
amount: 1d6
`)
	writeContent(t, abilities, "a.yaml", `
id: a
name: A
attack_effects: [burn, gate]
`)
	_, err := catalog.LoadDirectories(abilities, effects)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must precede")
}

func TestLoadDirectories_DanglingEffectRef(t *testing.T) {
	abilities := t.TempDir()
	effects := t.TempDir()
	writeContent(t, abilities, "a.yaml", `
id: a
name: A
attack_effects: [missing]
`)
	_, err := catalog.LoadDirectories(abilities, effects)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown effect")
}
