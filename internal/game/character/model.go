// Package character defines the character domain model shared by the combat
// engine and the persistence layer.
package character

import (
	"strings"
	"time"

	"github.com/duality-rp/duality/internal/game/effect"
	"github.com/duality-rp/duality/internal/game/stats"
)

// Character represents a player character's persistent state in one universe.
//
// ID and AccountID are set by the persistence layer; zero values indicate an
// unsaved character. UUID is the stable external identifier used by the HTTP
// surface and by ability targeting.
type Character struct {
	ID        int64
	UUID      string
	AccountID int64

	Universe string // universe ID, e.g. "arkana" or "gor"
	Name     string

	Stats     stats.Block
	Health    int
	MaxHealth int
	Mode      string // current play mode, e.g. "ic", "ooc", "combat"

	KnownAbilities []string
	ActiveEffects  []effect.Active

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Knows reports whether the character has learned the given ability ID.
func (c *Character) Knows(abilityID string) bool {
	for _, id := range c.KnownAbilities {
		if id == abilityID {
			return true
		}
	}
	return false
}

// Conscious reports whether the character can act. A character at zero or
// negative health is unconscious.
func (c *Character) Conscious() bool {
	return c.Health > 0
}

// Live projects the character's effective state: base stats folded with all
// active effects.
func (c *Character) Live(universeStats []string) stats.Live {
	return stats.Project(c.Stats, universeStats, c.ActiveEffects)
}

// ModeIs reports whether the character's current mode matches, ignoring case.
func (c *Character) ModeIs(mode string) bool {
	return strings.EqualFold(c.Mode, mode)
}

// AdjustHealth applies a signed health delta and clamps the result to
// [0, MaxHealth]. Returns the actual change after clamping.
func (c *Character) AdjustHealth(delta int) int {
	before := c.Health
	after := before + delta
	if after > c.MaxHealth {
		after = c.MaxHealth
	}
	if after < 0 {
		after = 0
	}
	c.Health = after
	return after - before
}
