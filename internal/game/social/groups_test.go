package social_test

import (
	"testing"

	"github.com/duality-rp/duality/internal/game/social"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsHasProtectedGroups(t *testing.T) {
	g := social.Defaults()
	assert.NotNil(t, g.MembersOf(social.GroupAllies))
	assert.NotNil(t, g.MembersOf(social.GroupEnemies))
	assert.Empty(t, g.MembersOf(social.GroupAllies))
}

func TestNormalizeRestoresMissingDefaults(t *testing.T) {
	g := social.Groups{"Crew": {1, 2}}
	g = g.Normalize()
	assert.NotNil(t, g.MembersOf(social.GroupAllies))
	assert.NotNil(t, g.MembersOf(social.GroupEnemies))
	assert.Equal(t, []int64{1, 2}, g.MembersOf("Crew"))

	var nilGroups social.Groups
	assert.NotNil(t, nilGroups.Normalize().MembersOf(social.GroupAllies))
}

func TestAddMemberIsIdempotent(t *testing.T) {
	g := social.Defaults()
	g.AddMember(social.GroupEnemies, 5)
	g.AddMember(social.GroupEnemies, 5)
	g.AddMember(social.GroupEnemies, 9)
	assert.Equal(t, []int64{5, 9}, g.MembersOf(social.GroupEnemies))
}

func TestRemoveMemberKeepsEmptyGroup(t *testing.T) {
	g := social.Defaults()
	g.AddMember(social.GroupAllies, 7)
	g.RemoveMember(social.GroupAllies, 7)

	members := g.MembersOf(social.GroupAllies)
	assert.NotNil(t, members, "emptied default group must persist")
	assert.Empty(t, members)
}

func TestRemoveMemberMissingGroup(t *testing.T) {
	g := social.Defaults()
	g.RemoveMember("Crew", 3)
	assert.Nil(t, g.MembersOf("Crew"))
}

func TestDeleteProtectedGroup(t *testing.T) {
	g := social.Defaults()
	g.AddMember(social.GroupEnemies, 5)

	err := g.Delete(social.GroupEnemies)
	require.ErrorIs(t, err, social.ErrProtectedGroup)
	assert.Equal(t, []int64{5}, g.MembersOf(social.GroupEnemies))
}

func TestDeleteCustomGroup(t *testing.T) {
	g := social.Defaults()
	g.AddMember("Crew", 1)
	require.NoError(t, g.Delete("Crew"))
	assert.Nil(t, g.MembersOf("Crew"))
}

func TestContains(t *testing.T) {
	g := social.Groups{"Crew": {1, 2, 3}}
	assert.True(t, g.Contains("Crew", 2))
	assert.False(t, g.Contains("Crew", 4))
	assert.False(t, g.Contains("Missing", 1))
}
