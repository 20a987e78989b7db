package combat

import (
	"github.com/duality-rp/duality/internal/game/catalog"
	"github.com/duality-rp/duality/internal/game/social"
)

// TargetContext carries everything target resolution needs for one
// invocation. Nearby is the caller-supplied candidate pool; the orchestrator
// guarantees the caster is present in it before resolution runs.
type TargetContext struct {
	CasterUUID   string
	ExplicitUUID string
	// Nearby is the candidate pool, caster included.
	Nearby []string
	// Groups is the caster's social groups; nil means group data was
	// unavailable and group-based types fall back to the whole pool.
	Groups social.Groups
	// NearbyIDs maps nearby characters' numeric IDs to their UUIDs, for
	// intersecting group membership with the candidate pool.
	NearbyIDs map[int64]string
}

// ResolveTargets expands a declared target type into an ordered,
// duplicate-free set of character UUIDs:
//
//	self                   -> {caster}
//	enemy / ally           -> {explicit target} if provided, else empty
//	all_enemies            -> "Enemies" group members that are nearby;
//	                          all nearby except caster when no group data
//	all_allies             -> symmetric with "Allies"
//	*_and_self             -> the above plus caster
//	area                   -> all nearby, caster included
//	anything else          -> empty
func ResolveTargets(tt catalog.TargetType, ctx TargetContext) []string {
	switch tt {
	case catalog.TargetSelf:
		return []string{ctx.CasterUUID}
	case catalog.TargetEnemy, catalog.TargetAlly:
		if ctx.ExplicitUUID == "" {
			return nil
		}
		return []string{ctx.ExplicitUUID}
	case catalog.TargetAllEnemies:
		return ctx.groupMembers(social.GroupEnemies)
	case catalog.TargetAllAllies:
		return ctx.groupMembers(social.GroupAllies)
	case catalog.TargetAllEnemiesAndSelf:
		return appendUnique(ctx.groupMembers(social.GroupEnemies), ctx.CasterUUID)
	case catalog.TargetAllAlliesAndSelf:
		return appendUnique(ctx.groupMembers(social.GroupAllies), ctx.CasterUUID)
	case catalog.TargetArea:
		return dedupe(ctx.Nearby)
	default:
		return nil
	}
}

// groupMembers resolves a group-based target type: the named group's members
// intersected with the nearby pool, or everyone nearby except the caster
// when group data is unavailable.
func (ctx TargetContext) groupMembers(groupName string) []string {
	if ctx.Groups == nil {
		var out []string
		for _, uuid := range dedupe(ctx.Nearby) {
			if uuid != ctx.CasterUUID {
				out = append(out, uuid)
			}
		}
		return out
	}
	var out []string
	for _, id := range ctx.Groups.MembersOf(groupName) {
		if uuid, ok := ctx.NearbyIDs[id]; ok {
			out = appendUnique(out, uuid)
		}
	}
	return out
}

func dedupe(uuids []string) []string {
	var out []string
	for _, u := range uuids {
		out = appendUnique(out, u)
	}
	return out
}

func appendUnique(list []string, uuid string) []string {
	for _, u := range list {
		if u == uuid {
			return list
		}
	}
	return append(list, uuid)
}
