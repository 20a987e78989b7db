package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/duality-rp/duality/internal/game/character"
	"github.com/duality-rp/duality/internal/game/combat"
	"github.com/duality-rp/duality/internal/game/effect"
)

// SaveAbilityOutcome writes every character touched by one ability use plus
// its audit event inside a single transaction, so a half-applied outcome
// (caster healed but target not debuffed) can never be observed.
//
// Health is clamped to [0, MaxHealth] at write time as a final guard.
//
// Precondition: every update must have a non-zero ID (already persisted).
// Postcondition: either all rows and the event are written, or none are.
func (r *CharacterRepository) SaveAbilityOutcome(ctx context.Context, universeID string, updates []*character.Character, event *combat.AuditEvent) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range updates {
		health := c.Health
		if health < 0 {
			health = 0
		}
		if health > c.MaxHealth {
			health = c.MaxHealth
		}
		statsJSON, err := json.Marshal(c.Stats)
		if err != nil {
			return fmt.Errorf("encoding stats for %s: %w", c.UUID, err)
		}
		effectsJSON, err := effect.EncodeList(c.ActiveEffects)
		if err != nil {
			return fmt.Errorf("encoding active effects for %s: %w", c.UUID, err)
		}
		tag, err := tx.Exec(ctx, `
			UPDATE characters
			SET stats = $3, health = $4, active_effects = $5, updated_at = NOW()
			WHERE universe = $1 AND id = $2`,
			universeID, c.ID, statsJSON, health, effectsJSON,
		)
		if err != nil {
			return fmt.Errorf("updating character %s: %w", c.UUID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("character %s vanished during update", c.UUID)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO audit_events
			(character_uuid, universe, event_type, ability_id, ability_name,
			 success, target_uuid, affected_count, roll_info, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		event.CharacterUUID, universeID, event.Type, event.AbilityID,
		event.AbilityName, event.Success, event.TargetUUID,
		event.AffectedCount, event.RollSummary, event.CreatedAt,
	); err != nil {
		return fmt.Errorf("inserting audit event: %w", err)
	}

	return tx.Commit(ctx)
}
