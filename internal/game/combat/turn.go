package combat

import (
	"github.com/duality-rp/duality/internal/game/character"
	"github.com/duality-rp/duality/internal/game/effect"
	"github.com/duality-rp/duality/internal/game/stats"
)

// TurnResult reports one turn advancement for a character.
type TurnResult struct {
	// HealthDelta is the net periodic damage/healing applied this turn,
	// after clamping to [0, MaxHealth].
	HealthDelta int
	// Expired lists the effect IDs that ran out this turn.
	Expired []string
	// Live is the projection recomputed from the pruned effect list.
	Live stats.Live
}

// TickTurn advances c's active effects by one turn: durations decrement,
// exhausted effects are removed, and the net per-turn damage/healing of the
// survivors is folded into c's health. It runs exactly once per ability use
// and only for the caster; targets decay on their own turns.
//
// Postcondition: no effect on c has TurnsRemaining <= 0; c.Health is within
// [0, c.MaxHealth].
func TickTurn(c *character.Character, universeStats []string) TurnResult {
	kept, delta, expired := effect.Tick(c.ActiveEffects)
	c.ActiveEffects = kept
	applied := c.AdjustHealth(delta)
	return TurnResult{
		HealthDelta: applied,
		Expired:     expired,
		Live:        c.Live(universeStats),
	}
}
