// Package catalog holds the static ability and effect definitions loaded
// from YAML content directories. Definitions are immutable at request time;
// the combat engine only reads them.
package catalog

import (
	"fmt"
	"strings"
)

// Kind is the closed set of effect categories.
type Kind string

const (
	// KindCheck is a contested or target-number roll gating later effects.
	KindCheck Kind = "check"
	// KindStatModifier applies a timed signed shift to a stat (or all stats).
	KindStatModifier Kind = "stat_modifier"
	// KindControl applies a timed action-blocking condition (stun, sleep, ...).
	KindControl Kind = "control"
	// KindDamage deals damage, immediately or per-turn when a duration is set.
	KindDamage Kind = "damage"
	// KindHeal restores health, immediately or per-turn when a duration is set.
	KindHeal Kind = "heal"
)

// TargetType declares which characters an effect reaches.
type TargetType string

const (
	TargetSelf              TargetType = "self"
	TargetEnemy             TargetType = "enemy"
	TargetAlly              TargetType = "ally"
	TargetAllEnemies        TargetType = "all_enemies"
	TargetAllAllies         TargetType = "all_allies"
	TargetAllEnemiesAndSelf TargetType = "all_enemies_and_self"
	TargetAllAlliesAndSelf  TargetType = "all_allies_and_self"
	TargetArea              TargetType = "area"
)

// AllStats is the Stat value meaning "every base stat" on a stat_modifier.
const AllStats = "all"

// EffectDef is one immutable effect definition.
// Which fields are meaningful depends on Kind; Validate enforces the
// per-kind shape so the engine can dispatch exhaustively on Kind.
type EffectDef struct {
	ID     string     `yaml:"id"`
	Name   string     `yaml:"name"`
	Kind   Kind       `yaml:"kind"`
	Target TargetType `yaml:"target"`

	// Check fields.
	Stat         string `yaml:"stat"`          // stat rolled (check) or shifted (stat_modifier)
	Versus       string `yaml:"versus"`        // opposing stat for contested checks; empty = Stat
	TargetNumber int    `yaml:"target_number"` // fixed TN; 0 = contested

	// Stat modifier fields.
	Modifier int `yaml:"modifier"`

	// Control fields.
	Control string `yaml:"control"` // control-type tag, e.g. "stun"
	Label   string `yaml:"label"`   // display label, e.g. "Stunned"

	// Damage/heal amount; exactly one source should be set.
	Amount       string `yaml:"amount"`         // dice expression ("2d6+3") or flat integer
	PercentOfMax int    `yaml:"percent_of_max"` // percent of the target's max health
	Script       string `yaml:"script"`         // sandboxed Lua expression over caster/target

	// DurationTurns makes stat_modifier/control effects timed and turns
	// damage/heal into a per-turn periodic effect.
	DurationTurns int `yaml:"duration_turns"`
}

// Contested reports whether a check effect is rolled against the defender's
// stat rather than a fixed target number.
func (d *EffectDef) Contested() bool {
	return d.TargetNumber == 0
}

// VersusStat returns the defender stat a contested check rolls against.
func (d *EffectDef) VersusStat() string {
	if d.Versus != "" {
		return d.Versus
	}
	return d.Stat
}

// Validate checks the per-kind shape of the definition.
//
// Postcondition: Returns nil only if the engine can execute this definition.
func (d *EffectDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("effect: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("effect %q: name must not be empty", d.ID)
	}
	switch d.Kind {
	case KindCheck:
		if d.Stat == "" {
			return fmt.Errorf("effect %q: check requires a stat", d.ID)
		}
		if d.TargetNumber < 0 {
			return fmt.Errorf("effect %q: target_number must be >= 0", d.ID)
		}
	case KindStatModifier:
		if d.Stat == "" {
			return fmt.Errorf("effect %q: stat_modifier requires a stat", d.ID)
		}
		if d.Modifier == 0 {
			return fmt.Errorf("effect %q: stat_modifier requires a non-zero modifier", d.ID)
		}
		if d.DurationTurns <= 0 {
			return fmt.Errorf("effect %q: stat_modifier requires duration_turns >= 1", d.ID)
		}
	case KindControl:
		if d.Control == "" {
			return fmt.Errorf("effect %q: control requires a control type", d.ID)
		}
		if d.DurationTurns <= 0 {
			return fmt.Errorf("effect %q: control requires duration_turns >= 1", d.ID)
		}
	case KindDamage, KindHeal:
		sources := 0
		if d.Amount != "" {
			sources++
		}
		if d.PercentOfMax > 0 {
			sources++
		}
		if d.Script != "" {
			sources++
		}
		if sources != 1 {
			return fmt.Errorf("effect %q: %s requires exactly one of amount, percent_of_max, script", d.ID, d.Kind)
		}
		if d.DurationTurns < 0 {
			return fmt.Errorf("effect %q: duration_turns must be >= 0", d.ID)
		}
	default:
		return fmt.Errorf("effect %q: unknown kind %q", d.ID, d.Kind)
	}
	switch d.Target {
	case TargetSelf, TargetEnemy, TargetAlly, TargetAllEnemies, TargetAllAllies,
		TargetAllEnemiesAndSelf, TargetAllAlliesAndSelf, TargetArea:
	case "":
		// Checks default to the explicit target; others must declare one.
		if d.Kind != KindCheck {
			return fmt.Errorf("effect %q: target must be set", d.ID)
		}
	default:
		return fmt.Errorf("effect %q: unknown target %q", d.ID, d.Target)
	}
	return nil
}

// AbilityDef is one immutable ability definition.
type AbilityDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// Universe restricts the ability to one setting; empty = both.
	Universe string `yaml:"universe"`
	// CooldownSeconds is the minimum wait between uses; 0 = no cooldown.
	CooldownSeconds int `yaml:"cooldown_seconds"`
	// AttackEffects fire when the ability is invoked in "attack" mode.
	AttackEffects []string `yaml:"attack_effects"`
	// AbilityEffects fire when the ability is invoked in "ability" mode.
	AbilityEffects []string `yaml:"ability_effects"`
}

// InvocationMode selects which effect list an ability use fires.
type InvocationMode string

const (
	ModeAttack  InvocationMode = "attack"
	ModeAbility InvocationMode = "ability"
)

// EffectsFor returns the ordered effect ids for the given invocation mode.
// An empty list is an execution error for the caller, not a listing error.
func (a *AbilityDef) EffectsFor(mode InvocationMode) []string {
	switch mode {
	case ModeAbility:
		return a.AbilityEffects
	default:
		return a.AttackEffects
	}
}

// Validate checks ability invariants.
func (a *AbilityDef) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("ability: id must not be empty")
	}
	if a.Name == "" {
		return fmt.Errorf("ability %q: name must not be empty", a.ID)
	}
	if a.CooldownSeconds < 0 {
		return fmt.Errorf("ability %q: cooldown_seconds must be >= 0", a.ID)
	}
	switch strings.ToLower(a.Universe) {
	case "", "arkana", "gor":
	default:
		return fmt.Errorf("ability %q: unknown universe %q", a.ID, a.Universe)
	}
	return nil
}

// AvailableIn reports whether the ability may be used in the given universe.
func (a *AbilityDef) AvailableIn(universeID string) bool {
	return a.Universe == "" || strings.EqualFold(a.Universe, universeID)
}
