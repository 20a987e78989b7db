package combat

import (
	"fmt"
	"strings"

	"github.com/duality-rp/duality/internal/game/catalog"
	"github.com/duality-rp/duality/internal/game/character"
	"github.com/duality-rp/duality/internal/game/dice"
	"github.com/duality-rp/duality/internal/game/effect"
	"github.com/duality-rp/duality/internal/game/stats"
	"github.com/duality-rp/duality/internal/scripting"
)

// Affected is the in-memory working record for one target during an ability
// invocation. Nothing is persisted until every effect of the ability has
// been processed for every target.
type Affected struct {
	UUID string
	Name string
	// Damage and Healing accumulate over all effects of this invocation.
	Damage  int
	Healing int
	// NewEffects are appended to the target's active-effect list on commit.
	NewEffects []effect.Active
	// Descriptions are the human-readable deltas, e.g. "-7 HP", "Charisma +2".
	Descriptions []string
}

// AmountEvaluator evaluates a script amount expression for one caster/target
// pair. *scripting.AmountEvaluator satisfies it.
type AmountEvaluator interface {
	Eval(expr string, caster, target scripting.Entity) (int, error)
}

// Applicator executes non-check effects against one target at a time,
// mutating the target's Affected record in memory.
type Applicator struct {
	Dice    dice.Source
	Scripts AmountEvaluator
}

// Apply executes def against target and records the outcome on rec.
// source attributes the new active effects to the ability and caster.
//
// Precondition: def.Kind != catalog.KindCheck; rec must be non-nil.
func (ap *Applicator) Apply(def *catalog.EffectDef, caster, target *character.Character, casterLive, targetLive stats.Live, sourceAbility string, rec *Affected) error {
	switch def.Kind {
	case catalog.KindDamage, catalog.KindHeal:
		return ap.applyHealthEffect(def, caster, target, casterLive, targetLive, sourceAbility, rec)
	case catalog.KindStatModifier:
		rec.NewEffects = append(rec.NewEffects, effect.Active{
			EffectID:       def.ID,
			Name:           def.Name,
			Kind:           effect.KindStatModifier,
			Stat:           def.Stat,
			Modifier:       def.Modifier,
			TurnsRemaining: def.DurationTurns,
			SourceAbility:  sourceAbility,
			SourceName:     caster.Name,
		})
		rec.Descriptions = append(rec.Descriptions, modifierDescription(def.Stat, def.Modifier))
		return nil
	case catalog.KindControl:
		label := def.Label
		if label == "" {
			label = def.Name
		}
		rec.NewEffects = append(rec.NewEffects, effect.Active{
			EffectID:       def.ID,
			Name:           label,
			Kind:           effect.KindControl,
			Control:        def.Control,
			TurnsRemaining: def.DurationTurns,
			SourceAbility:  sourceAbility,
			SourceName:     caster.Name,
		})
		rec.Descriptions = append(rec.Descriptions, label)
		return nil
	default:
		return fmt.Errorf("combat: cannot apply effect %q of kind %q", def.ID, def.Kind)
	}
}

// applyHealthEffect resolves the effect's amount and either accumulates it
// immediately or, when the definition carries a duration, attaches it as a
// periodic per-turn effect.
func (ap *Applicator) applyHealthEffect(def *catalog.EffectDef, caster, target *character.Character, casterLive, targetLive stats.Live, sourceAbility string, rec *Affected) error {
	amount, err := ap.resolveAmount(def, caster, target, casterLive, targetLive)
	if err != nil {
		return err
	}
	if amount < 0 {
		amount = 0
	}

	if def.DurationTurns > 0 {
		perTurn := amount
		kind := effect.KindHeal
		if def.Kind == catalog.KindDamage {
			perTurn = -amount
			kind = effect.KindDamage
		}
		rec.NewEffects = append(rec.NewEffects, effect.Active{
			EffectID:       def.ID,
			Name:           def.Name,
			Kind:           kind,
			PerTurn:        perTurn,
			TurnsRemaining: def.DurationTurns,
			SourceAbility:  sourceAbility,
			SourceName:     caster.Name,
		})
		rec.Descriptions = append(rec.Descriptions,
			fmt.Sprintf("%+d HP/turn (%d turns)", perTurn, def.DurationTurns))
		return nil
	}

	if def.Kind == catalog.KindDamage {
		rec.Damage += amount
		rec.Descriptions = append(rec.Descriptions, fmt.Sprintf("-%d HP", amount))
	} else {
		rec.Healing += amount
		rec.Descriptions = append(rec.Descriptions, fmt.Sprintf("+%d HP", amount))
	}
	return nil
}

// resolveAmount computes the numeric outcome of a damage/heal definition
// from its single declared source: a script expression, a percentage of the
// target's max health, or a dice expression / flat value.
func (ap *Applicator) resolveAmount(def *catalog.EffectDef, caster, target *character.Character, casterLive, targetLive stats.Live) (int, error) {
	switch {
	case def.Script != "":
		return ap.Scripts.Eval(def.Script, snapshot(caster, casterLive), snapshot(target, targetLive))
	case def.PercentOfMax > 0:
		return target.MaxHealth * def.PercentOfMax / 100, nil
	default:
		result, err := dice.RollExpr(def.Amount, ap.Dice)
		if err != nil {
			return 0, fmt.Errorf("combat: effect %q amount: %w", def.ID, err)
		}
		return result.Total(), nil
	}
}

// snapshot exposes a character to amount scripts as a plain value.
func snapshot(c *character.Character, live stats.Live) scripting.Entity {
	return scripting.Entity{
		Stats:     live.Stats,
		Health:    c.Health,
		MaxHealth: c.MaxHealth,
	}
}

// modifierDescription renders a stat_modifier delta, e.g. "Charisma +2" or
// "All stats -1".
func modifierDescription(stat string, modifier int) string {
	if stat == catalog.AllStats {
		return fmt.Sprintf("All stats %+d", modifier)
	}
	return fmt.Sprintf("%s %+d", capitalize(stat), modifier)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
