// Package effect defines active timed effects attached to characters and
// their turn-based decay. Static effect definitions live in the catalog
// package; this package only models applied instances.
package effect

// Kind classifies an applied effect instance.
type Kind string

const (
	// KindStatModifier shifts one stat (or all stats) by a signed amount.
	KindStatModifier Kind = "stat_modifier"
	// KindControl blocks the character from acting (stun, sleep, ...).
	KindControl Kind = "control"
	// KindDamage is periodic damage applied on the owner's turn.
	KindDamage Kind = "damage"
	// KindHeal is periodic healing applied on the owner's turn.
	KindHeal Kind = "heal"
)

// AllStats is the Stat value meaning "every base stat".
const AllStats = "all"

// Active is one effect instance currently attached to a character.
//
// Invariant: TurnsRemaining > 0 for every stored instance; Tick removes
// instances that reach zero, they are never persisted at zero.
type Active struct {
	EffectID       string `json:"effect_id"`
	Name           string `json:"name"`
	Kind           Kind   `json:"kind"`
	Stat           string `json:"stat,omitempty"`     // stat_modifier: stat name or AllStats
	Modifier       int    `json:"modifier,omitempty"` // stat_modifier: signed shift
	Control        string `json:"control,omitempty"`  // control: control-type tag
	PerTurn        int    `json:"per_turn,omitempty"` // damage/heal: signed HP per tick (damage negative)
	TurnsRemaining int    `json:"turns_remaining"`
	SourceAbility  string `json:"source_ability,omitempty"`
	SourceName     string `json:"source_name,omitempty"` // caster attribution
}

// Tick advances a character's effect list by one turn.
// Every instance has TurnsRemaining decremented by 1; instances reaching
// zero (or that arrived non-positive) are dropped. The periodic HP delta of
// all surviving damage/heal instances is summed into turnDelta.
//
// Postcondition: every returned instance has TurnsRemaining > 0;
// turnDelta == sum of PerTurn over the returned instances.
func Tick(list []Active) (kept []Active, turnDelta int, expired []string) {
	for _, ac := range list {
		ac.TurnsRemaining--
		if ac.TurnsRemaining <= 0 {
			expired = append(expired, ac.EffectID)
			continue
		}
		turnDelta += ac.PerTurn
		kept = append(kept, ac)
	}
	return kept, turnDelta, expired
}
