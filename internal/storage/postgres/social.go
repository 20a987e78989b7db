package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duality-rp/duality/internal/game/social"
)

// SocialGroupRepository persists per-account social groups, one row per
// (account, group name) with the member character IDs as an array.
type SocialGroupRepository struct {
	db *pgxpool.Pool
}

// NewSocialGroupRepository creates a SocialGroupRepository backed by the
// given pool.
func NewSocialGroupRepository(db *pgxpool.Pool) *SocialGroupRepository {
	return &SocialGroupRepository{db: db}
}

// ForAccount loads all groups for the account. The protected default groups
// are always present in the result, even when never written.
func (r *SocialGroupRepository) ForAccount(ctx context.Context, accountID int64) (social.Groups, error) {
	rows, err := r.db.Query(ctx,
		`SELECT group_name, member_ids FROM social_groups WHERE account_id = $1`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying social groups: %w", err)
	}
	defer rows.Close()

	groups := social.Groups{}
	for rows.Next() {
		var (
			name    string
			members []int64
		)
		if err := rows.Scan(&name, &members); err != nil {
			return nil, fmt.Errorf("scanning social group row: %w", err)
		}
		if members == nil {
			members = []int64{}
		}
		groups[name] = members
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groups.Normalize(), nil
}

// AddMember adds characterID to the named group, creating the group row when
// needed. Adding an existing member is a no-op.
func (r *SocialGroupRepository) AddMember(ctx context.Context, accountID int64, groupName string, characterID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO social_groups (account_id, group_name, member_ids)
		VALUES ($1, $2, ARRAY[$3]::bigint[])
		ON CONFLICT (account_id, group_name) DO UPDATE
		SET member_ids = social_groups.member_ids || $3
		WHERE NOT social_groups.member_ids @> ARRAY[$3]::bigint[]`,
		accountID, groupName, characterID,
	)
	if err != nil {
		return fmt.Errorf("adding group member: %w", err)
	}
	return nil
}

// RemoveMember removes characterID from the named group. The group row
// persists even when emptied, preserving the protected-defaults invariant.
func (r *SocialGroupRepository) RemoveMember(ctx context.Context, accountID int64, groupName string, characterID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE social_groups
		SET member_ids = array_remove(member_ids, $3)
		WHERE account_id = $1 AND group_name = $2`,
		accountID, groupName, characterID,
	)
	if err != nil {
		return fmt.Errorf("removing group member: %w", err)
	}
	return nil
}

// DeleteGroup removes a custom group row. Protected default groups are
// rejected with social.ErrProtectedGroup.
func (r *SocialGroupRepository) DeleteGroup(ctx context.Context, accountID int64, groupName string) error {
	if groupName == social.GroupAllies || groupName == social.GroupEnemies {
		return social.ErrProtectedGroup
	}
	_, err := r.db.Exec(ctx,
		`DELETE FROM social_groups WHERE account_id = $1 AND group_name = $2`,
		accountID, groupName,
	)
	if err != nil {
		return fmt.Errorf("deleting social group: %w", err)
	}
	return nil
}
