package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duality-rp/duality/internal/game/combat"
)

// AuditEventRepository persists the append-only ability-use audit log.
// Cooldowns are derived from it: the most recent successful use of an
// ability inside its window blocks the next one.
type AuditEventRepository struct {
	db *pgxpool.Pool
}

// NewAuditEventRepository creates an AuditEventRepository backed by the
// given pool.
func NewAuditEventRepository(db *pgxpool.Pool) *AuditEventRepository {
	return &AuditEventRepository{db: db}
}

// LastAbilityUse returns the timestamp of the most recent successful
// ability-use event for (character, ability). ok is false when the
// character has never successfully used the ability.
//
// Note the success filter: the event log also records failed activations,
// but those deliberately do not anchor the cooldown clock, so the query is
// narrower than "most recent ability-use event".
func (r *AuditEventRepository) LastAbilityUse(ctx context.Context, characterUUID, abilityID string) (time.Time, bool, error) {
	var at time.Time
	err := r.db.QueryRow(ctx, `
		SELECT created_at FROM audit_events
		WHERE character_uuid = $1 AND event_type = $2 AND ability_id = $3
		  AND success
		ORDER BY created_at DESC
		LIMIT 1`,
		characterUUID, combat.EventAbilityUse, abilityID,
	).Scan(&at)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("querying last ability use: %w", err)
	}
	return at, true, nil
}

// ListRecent returns a character's newest events, newest first.
func (r *AuditEventRepository) ListRecent(ctx context.Context, characterUUID string, limit int) ([]*combat.AuditEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT character_uuid, event_type, ability_id, ability_name,
		       success, target_uuid, affected_count, roll_info, created_at
		FROM audit_events
		WHERE character_uuid = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		characterUUID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing audit events: %w", err)
	}
	defer rows.Close()

	var events []*combat.AuditEvent
	for rows.Next() {
		var ev combat.AuditEvent
		if err := rows.Scan(
			&ev.CharacterUUID, &ev.Type, &ev.AbilityID, &ev.AbilityName,
			&ev.Success, &ev.TargetUUID, &ev.AffectedCount, &ev.RollSummary,
			&ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit event row: %w", err)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}
