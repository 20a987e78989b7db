// Package stats holds character stat blocks and the live-stats projection:
// the pure fold of active timed effects over base stats.
package stats

import "github.com/duality-rp/duality/internal/game/effect"

// Block maps stat name to value for one character.
type Block map[string]int

// Clone returns an independent copy of the block.
func (b Block) Clone() Block {
	out := make(Block, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Get returns the value for stat, or 0 if absent.
func (b Block) Get(stat string) int {
	return b[stat]
}

// ControlFlag is an active control condition surfaced by the projection.
type ControlFlag struct {
	// Type is the control tag, e.g. "stun" or "sleep".
	Type string `json:"type"`
	// Label is the display label, e.g. "Stunned".
	Label string `json:"label"`
}

// Live is the derived, non-authoritative stat projection for one moment.
// It is recomputed from the active-effect list on every read and never
// persisted as a source of truth.
type Live struct {
	Stats    Block         `json:"stats"`
	Controls []ControlFlag `json:"controls,omitempty"`
}

// Get returns the effective value for stat, or 0 if absent.
func (l Live) Get(stat string) int {
	return l.Stats[stat]
}

// Controlled returns the first active control flag, if any.
// The orchestrator uses it to block ability use while stunned/asleep.
func (l Live) Controlled() (ControlFlag, bool) {
	if len(l.Controls) == 0 {
		return ControlFlag{}, false
	}
	return l.Controls[0], true
}

// Project computes effective stats from base values and active effects.
// Each stat_modifier effect adds its signed modifier to the named stat, or
// to every stat in statNames when it targets effect.AllStats. Control
// effects are surfaced as flags. Values are not clamped here; health
// clamping happens when damage/healing is applied, never at the stat level.
//
// Project is pure: it never mutates base or actives, and projecting the
// same inputs twice yields equal results.
func Project(base Block, statNames []string, actives []effect.Active) Live {
	eff := make(Block, len(statNames))
	for _, name := range statNames {
		eff[name] = base[name]
	}

	var controls []ControlFlag
	for _, ac := range actives {
		switch ac.Kind {
		case effect.KindStatModifier:
			if ac.Stat == effect.AllStats {
				for _, name := range statNames {
					eff[name] += ac.Modifier
				}
				continue
			}
			if _, ok := eff[ac.Stat]; ok {
				eff[ac.Stat] += ac.Modifier
			}
		case effect.KindControl:
			label := ac.Name
			if label == "" {
				label = ac.Control
			}
			controls = append(controls, ControlFlag{Type: ac.Control, Label: label})
		}
	}

	return Live{Stats: eff, Controls: controls}
}
