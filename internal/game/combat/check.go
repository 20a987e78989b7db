// Package combat implements the ability-resolution engine: contested and
// target-number checks, target resolution, effect application, turn-based
// effect decay, and the request-level orchestrator that sequences them.
package combat

import (
	"fmt"

	"github.com/duality-rp/duality/internal/game/catalog"
	"github.com/duality-rp/duality/internal/game/dice"
	"github.com/duality-rp/duality/internal/game/stats"
)

// CheckResult holds the outcome of a single check effect.
type CheckResult struct {
	// Success reports whether the caster passed the check.
	Success bool
	// Summary is the human-readable roll breakdown, surfacing both operands.
	Summary string
	// VersusStat is the defender stat rolled against; empty for
	// target-number checks.
	VersusStat string
}

// ResolveCheck executes one check effect: d20 + the caster's live stat,
// compared against either the definition's fixed target number or the
// defender's corresponding live stat plus their own d20 (contested).
//
// Contested ties go to the attacker. When override is non-nil it replaces
// the defender's stat value; when the check is contested but no defender is
// present and no override is supplied, the check succeeds automatically
// (there is nothing to oppose it).
//
// Precondition: def.Kind == catalog.KindCheck; src must be non-nil.
func ResolveCheck(def *catalog.EffectDef, caster stats.Live, defender *stats.Live, override *int, src dice.Source) CheckResult {
	atkRoll := dice.D20(src)
	atkStat := caster.Get(def.Stat)
	atkTotal := atkRoll + atkStat

	if !def.Contested() {
		return CheckResult{
			Success: atkTotal >= def.TargetNumber,
			Summary: fmt.Sprintf("%s check: rolled %d%+d vs TN %d",
				def.Stat, atkRoll, atkStat, def.TargetNumber),
		}
	}

	versus := def.VersusStat()
	var defStat int
	switch {
	case override != nil:
		defStat = *override
	case defender != nil:
		defStat = defender.Get(versus)
	default:
		return CheckResult{
			Success:    true,
			Summary:    fmt.Sprintf("%s check: rolled %d%+d unopposed", def.Stat, atkRoll, atkStat),
			VersusStat: versus,
		}
	}

	defRoll := dice.D20(src)
	defTotal := defRoll + defStat

	return CheckResult{
		Success: atkTotal >= defTotal,
		Summary: fmt.Sprintf("%s vs %s: rolled %d%+d vs rolled %d%+d",
			def.Stat, versus, atkRoll, atkStat, defRoll, defStat),
		VersusStat: versus,
	}
}
