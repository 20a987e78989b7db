// Package social models per-account social groups: named sets of character
// IDs consulted during group-based ability target resolution.
package social

import "errors"

// Protected default group names. They exist for every account and survive
// being emptied or "deleted".
const (
	GroupAllies  = "Allies"
	GroupEnemies = "Enemies"
)

// ErrProtectedGroup is returned when a caller attempts to delete one of the
// default groups.
var ErrProtectedGroup = errors.New("social: default groups cannot be deleted")

// Groups maps group name to the member character IDs for one account.
type Groups map[string][]int64

// Defaults returns a fresh Groups value containing the two protected groups,
// both empty.
func Defaults() Groups {
	return Groups{
		GroupAllies:  {},
		GroupEnemies: {},
	}
}

// Normalize ensures the protected default groups are present. It is applied
// after every load so older rows written before a default was introduced
// still expose it.
func (g Groups) Normalize() Groups {
	if g == nil {
		return Defaults()
	}
	for _, name := range []string{GroupAllies, GroupEnemies} {
		if _, ok := g[name]; !ok {
			g[name] = []int64{}
		}
	}
	return g
}

// MembersOf returns the member IDs of the named group, or nil when the group
// does not exist.
func (g Groups) MembersOf(name string) []int64 {
	return g[name]
}

// Contains reports whether characterID is a member of the named group.
func (g Groups) Contains(name string, characterID int64) bool {
	for _, id := range g[name] {
		if id == characterID {
			return true
		}
	}
	return false
}

// AddMember adds characterID to the named group, creating the group when it
// does not exist. Adding an existing member is a no-op.
func (g Groups) AddMember(name string, characterID int64) {
	if g.Contains(name, characterID) {
		return
	}
	g[name] = append(g[name], characterID)
}

// RemoveMember removes characterID from the named group. Removing the last
// member keeps the (now empty) group in place.
func (g Groups) RemoveMember(name string, characterID int64) {
	members, ok := g[name]
	if !ok {
		return
	}
	kept := members[:0]
	for _, id := range members {
		if id != characterID {
			kept = append(kept, id)
		}
	}
	g[name] = kept
}

// Delete removes a whole group. Protected default groups cannot be deleted;
// attempting to do so returns ErrProtectedGroup and leaves the group intact.
func (g Groups) Delete(name string) error {
	if name == GroupAllies || name == GroupEnemies {
		return ErrProtectedGroup
	}
	delete(g, name)
	return nil
}
