// Package universe defines the game settings ("universes") supported by the
// platform and their per-setting rules: stat names, allowed game modes, and
// display labels.
package universe

import "strings"

// Universe describes one game setting.
type Universe struct {
	// ID is the URL-safe identifier, e.g. "arkana" or "gor".
	ID string
	// Name is the display name.
	Name string
	// StatNames is the ordered list of the five base attributes for this setting.
	StatNames []string
	// AllowedModes lists the character game modes in which abilities may be used.
	AllowedModes []string
}

// ModeAllowed reports whether abilities may be used while in the given mode.
// Comparison is case-insensitive.
func (u *Universe) ModeAllowed(mode string) bool {
	for _, m := range u.AllowedModes {
		if strings.EqualFold(m, mode) {
			return true
		}
	}
	return false
}

// HasStat reports whether name is one of this universe's base stats.
func (u *Universe) HasStat(name string) bool {
	for _, s := range u.StatNames {
		if s == name {
			return true
		}
	}
	return false
}

var registry = map[string]*Universe{
	"arkana": {
		ID:           "arkana",
		Name:         "Arkana",
		StatNames:    []string{"physical", "dexterity", "mental", "perception", "arcane"},
		AllowedModes: []string{"ic", "combat"},
	},
	"gor": {
		ID:           "gor",
		Name:         "Gor",
		StatNames:    []string{"strength", "agility", "intellect", "perception", "charisma"},
		AllowedModes: []string{"ic", "combat"},
	},
}

// Get returns the Universe for id, or (nil, false) if unknown.
// Lookup is case-insensitive.
func Get(id string) (*Universe, bool) {
	u, ok := registry[strings.ToLower(id)]
	return u, ok
}

// All returns the supported universes in a stable order.
func All() []*Universe {
	return []*Universe{registry["arkana"], registry["gor"]}
}
