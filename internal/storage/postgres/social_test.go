package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duality-rp/duality/internal/game/social"
)

func TestSocialGroupRepository_DefaultsAlwaysPresent(t *testing.T) {
	f := newRepoFixture(t)
	groups, err := f.groups.ForAccount(context.Background(), f.account.ID)
	require.NoError(t, err)
	assert.NotNil(t, groups.MembersOf(social.GroupAllies))
	assert.NotNil(t, groups.MembersOf(social.GroupEnemies))
}

func TestSocialGroupRepository_AddRemoveMember(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	require.NoError(t, f.groups.AddMember(ctx, f.account.ID, social.GroupEnemies, 5))
	require.NoError(t, f.groups.AddMember(ctx, f.account.ID, social.GroupEnemies, 9))
	require.NoError(t, f.groups.AddMember(ctx, f.account.ID, social.GroupEnemies, 5), "re-adding is a no-op")

	groups, err := f.groups.ForAccount(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 9}, groups.MembersOf(social.GroupEnemies))

	require.NoError(t, f.groups.RemoveMember(ctx, f.account.ID, social.GroupEnemies, 5))
	require.NoError(t, f.groups.RemoveMember(ctx, f.account.ID, social.GroupEnemies, 9))

	groups, err = f.groups.ForAccount(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Empty(t, groups.MembersOf(social.GroupEnemies))
	assert.NotNil(t, groups.MembersOf(social.GroupEnemies), "emptied default group survives")
}

func TestSocialGroupRepository_CustomGroupLifecycle(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	require.NoError(t, f.groups.AddMember(ctx, f.account.ID, "Crew", 7))
	groups, err := f.groups.ForAccount(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, groups.MembersOf("Crew"))

	require.NoError(t, f.groups.DeleteGroup(ctx, f.account.ID, "Crew"))
	groups, err = f.groups.ForAccount(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Nil(t, groups.MembersOf("Crew"))
}

func TestSocialGroupRepository_ProtectedGroupsNotDeletable(t *testing.T) {
	f := newRepoFixture(t)
	err := f.groups.DeleteGroup(context.Background(), f.account.ID, social.GroupAllies)
	assert.ErrorIs(t, err, social.ErrProtectedGroup)
}
