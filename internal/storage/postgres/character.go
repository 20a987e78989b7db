package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/duality-rp/duality/internal/game/character"
	"github.com/duality-rp/duality/internal/game/effect"
	"github.com/duality-rp/duality/internal/game/stats"
)

// ErrCharacterNameTaken is returned when creating a character with a name
// already used in that universe by the account.
var ErrCharacterNameTaken = errors.New("character name already taken")

const characterColumns = `id, uuid, account_id, universe, name, stats,
	health, max_health, mode, known_abilities, active_effects,
	created_at, updated_at`

// CharacterRepository provides character persistence operations.
//
// Active effects and stats are stored as JSONB; corrupt active-effect data
// degrades to an empty list (logged) rather than failing the read, so one
// bad row never takes a character out of play.
type CharacterRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db and logger must be non-nil.
func NewCharacterRepository(db *pgxpool.Pool, logger *zap.Logger) *CharacterRepository {
	return &CharacterRepository{db: db, logger: logger}
}

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: c.AccountID must reference an existing account; c.UUID,
// c.Universe, and c.Name must be non-empty.
// Postcondition: Returns the created character, or ErrCharacterNameTaken on
// a duplicate (universe, name) pair.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	statsJSON, err := json.Marshal(c.Stats)
	if err != nil {
		return nil, fmt.Errorf("encoding stats: %w", err)
	}
	effectsJSON, err := effect.EncodeList(c.ActiveEffects)
	if err != nil {
		return nil, fmt.Errorf("encoding active effects: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO characters
			(uuid, account_id, universe, name, stats, health, max_health,
			 mode, known_abilities, active_effects)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+characterColumns,
		c.UUID, c.AccountID, c.Universe, c.Name, statsJSON,
		c.Health, c.MaxHealth, c.Mode, c.KnownAbilities, effectsJSON,
	)
	out, err := r.scanCharacter(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// GetByUUID retrieves a character by UUID within one universe.
//
// Postcondition: Returns (nil, nil) when no character matches; a not-found
// is not an error at this layer.
func (r *CharacterRepository) GetByUUID(ctx context.Context, universeID, uuid string) (*character.Character, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+characterColumns+`
		FROM characters WHERE universe = $1 AND uuid = $2`,
		universeID, uuid,
	)
	c, err := r.scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// GetManyByUUID retrieves the characters matching the given UUIDs in one
// universe, keyed by UUID. Missing UUIDs are silently absent from the map.
func (r *CharacterRepository) GetManyByUUID(ctx context.Context, universeID string, uuids []string) (map[string]*character.Character, error) {
	out := make(map[string]*character.Character, len(uuids))
	if len(uuids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+characterColumns+`
		FROM characters WHERE universe = $1 AND uuid = ANY($2)`,
		universeID, uuids,
	)
	if err != nil {
		return nil, fmt.Errorf("querying characters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := r.scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		out[c.UUID] = c
	}
	return out, rows.Err()
}

// ListByAccount returns all of an account's characters in one universe,
// ordered by creation time.
func (r *CharacterRepository) ListByAccount(ctx context.Context, universeID string, accountID int64) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+characterColumns+`
		FROM characters WHERE universe = $1 AND account_id = $2
		ORDER BY created_at ASC`,
		universeID, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := r.scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// scanCharacter reads one character row, decoding the JSONB columns.
func (r *CharacterRepository) scanCharacter(row pgx.Row) (*character.Character, error) {
	var (
		c           character.Character
		statsJSON   []byte
		effectsJSON []byte
	)
	err := row.Scan(
		&c.ID, &c.UUID, &c.AccountID, &c.Universe, &c.Name, &statsJSON,
		&c.Health, &c.MaxHealth, &c.Mode, &c.KnownAbilities, &effectsJSON,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Stats = stats.Block{}
	if len(statsJSON) > 0 {
		if err := json.Unmarshal(statsJSON, &c.Stats); err != nil {
			return nil, fmt.Errorf("decoding stats for character %s: %w", c.UUID, err)
		}
	}

	actives, err := effect.DecodeList(effectsJSON)
	if err != nil {
		if !errors.Is(err, effect.ErrCorruptList) {
			return nil, fmt.Errorf("decoding active effects for character %s: %w", c.UUID, err)
		}
		// Corrupt effect data degrades to an empty list.
		r.logger.Warn("corrupt active effects, treating as empty",
			zap.String("character", c.UUID), zap.Error(err))
		actives = nil
	}
	c.ActiveEffects = actives

	return &c, nil
}
