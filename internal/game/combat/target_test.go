package combat_test

import (
	"testing"

	"github.com/duality-rp/duality/internal/game/catalog"
	"github.com/duality-rp/duality/internal/game/combat"
	"github.com/duality-rp/duality/internal/game/social"
	"github.com/stretchr/testify/assert"
)

func baseContext() combat.TargetContext {
	return combat.TargetContext{
		CasterUUID:   "uuid-caster",
		ExplicitUUID: "uuid-target",
		Nearby:       []string{"uuid-caster", "uuid-target", "uuid-c"},
	}
}

func TestResolveTargetsSelf(t *testing.T) {
	got := combat.ResolveTargets(catalog.TargetSelf, baseContext())
	assert.Equal(t, []string{"uuid-caster"}, got)
}

func TestResolveTargetsEnemyAndAlly(t *testing.T) {
	ctx := baseContext()
	assert.Equal(t, []string{"uuid-target"}, combat.ResolveTargets(catalog.TargetEnemy, ctx))
	assert.Equal(t, []string{"uuid-target"}, combat.ResolveTargets(catalog.TargetAlly, ctx))

	ctx.ExplicitUUID = ""
	assert.Empty(t, combat.ResolveTargets(catalog.TargetEnemy, ctx))
	assert.Empty(t, combat.ResolveTargets(catalog.TargetAlly, ctx))
}

func TestResolveTargetsAllEnemiesFromGroups(t *testing.T) {
	// Group members 5 and 9 are nearby; member 12 is not in the pool.
	ctx := combat.TargetContext{
		CasterUUID: "uuid-caster",
		Nearby:     []string{"uuid-caster", "uuid-a", "uuid-b", "uuid-c"},
		Groups:     social.Groups{social.GroupEnemies: {5, 9}},
		// 12 is mapped but not an Enemies member, so only a and b resolve.
		NearbyIDs: map[int64]string{
			5:  "uuid-a",
			9:  "uuid-b",
			12: "uuid-c",
		},
	}
	got := combat.ResolveTargets(catalog.TargetAllEnemies, ctx)
	assert.Equal(t, []string{"uuid-a", "uuid-b"}, got)
}

func TestResolveTargetsGroupMemberNotNearby(t *testing.T) {
	ctx := combat.TargetContext{
		CasterUUID: "uuid-caster",
		Nearby:     []string{"uuid-caster", "uuid-a"},
		Groups:     social.Groups{social.GroupEnemies: {5, 9}},
		NearbyIDs:  map[int64]string{5: "uuid-a"},
	}
	got := combat.ResolveTargets(catalog.TargetAllEnemies, ctx)
	assert.Equal(t, []string{"uuid-a"}, got, "member 9 is not nearby")
}

func TestResolveTargetsAllEnemiesWithoutGroupData(t *testing.T) {
	ctx := baseContext()
	ctx.Groups = nil
	got := combat.ResolveTargets(catalog.TargetAllEnemies, ctx)
	assert.Equal(t, []string{"uuid-target", "uuid-c"}, got, "fallback: all nearby except caster")
}

func TestResolveTargetsAllAlliesAndSelf(t *testing.T) {
	ctx := combat.TargetContext{
		CasterUUID: "uuid-caster",
		Nearby:     []string{"uuid-caster", "uuid-a"},
		Groups:     social.Groups{social.GroupAllies: {7}},
		NearbyIDs:  map[int64]string{7: "uuid-a"},
	}
	got := combat.ResolveTargets(catalog.TargetAllAlliesAndSelf, ctx)
	assert.Equal(t, []string{"uuid-a", "uuid-caster"}, got)
}

func TestResolveTargetsAllEnemiesAndSelfDeduplicates(t *testing.T) {
	ctx := baseContext()
	ctx.Groups = social.Groups{social.GroupEnemies: {1}}
	ctx.NearbyIDs = map[int64]string{1: "uuid-caster"}
	got := combat.ResolveTargets(catalog.TargetAllEnemiesAndSelf, ctx)
	assert.Equal(t, []string{"uuid-caster"}, got, "caster must not be double-processed")
}

func TestResolveTargetsArea(t *testing.T) {
	ctx := baseContext()
	ctx.Nearby = []string{"uuid-caster", "uuid-target", "uuid-target", "uuid-c"}
	got := combat.ResolveTargets(catalog.TargetArea, ctx)
	assert.Equal(t, []string{"uuid-caster", "uuid-target", "uuid-c"}, got)
}

func TestResolveTargetsUnknownType(t *testing.T) {
	assert.Empty(t, combat.ResolveTargets(catalog.TargetType("everyone"), baseContext()))
	assert.Empty(t, combat.ResolveTargets(catalog.TargetType(""), baseContext()))
}
