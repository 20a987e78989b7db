package combat

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/duality-rp/duality/internal/game/catalog"
	"github.com/duality-rp/duality/internal/game/character"
	"github.com/duality-rp/duality/internal/game/dice"
	"github.com/duality-rp/duality/internal/game/social"
	"github.com/duality-rp/duality/internal/game/stats"
	"github.com/duality-rp/duality/internal/game/universe"
)

// EventAbilityUse is the audit event type recorded for every ability use.
const EventAbilityUse = "ability_use"

// AuditEvent is the append-only record of one ability use. The cooldown
// check is derived from these events rather than a dedicated field.
type AuditEvent struct {
	CharacterUUID string
	Type          string
	AbilityID     string
	AbilityName   string
	Success       bool
	TargetUUID    string
	AffectedCount int
	RollSummary   string
	CreatedAt     time.Time
}

// CharacterStore loads character records. Implementations return (nil, nil)
// when no character matches, never a not-found error.
type CharacterStore interface {
	GetByUUID(ctx context.Context, universeID, uuid string) (*character.Character, error)
	// GetManyByUUID returns the found characters keyed by UUID; missing
	// UUIDs are silently absent from the map.
	GetManyByUUID(ctx context.Context, universeID string, uuids []string) (map[string]*character.Character, error)
}

// GroupStore loads an account's social groups.
type GroupStore interface {
	ForAccount(ctx context.Context, accountID int64) (social.Groups, error)
}

// EventStore answers the cooldown query: the most recent successful use of
// an ability by a character.
type EventStore interface {
	LastAbilityUse(ctx context.Context, characterUUID, abilityID string) (time.Time, bool, error)
}

// OutcomeStore persists the result of one ability use: every touched
// character plus the audit event, in a single atomic write.
type OutcomeStore interface {
	SaveAbilityOutcome(ctx context.Context, universeID string, updates []*character.Character, event *AuditEvent) error
}

// UseAbilityRequest is the orchestrator's input, already past structural
// validation and authentication.
type UseAbilityRequest struct {
	Universe    string
	CasterUUID  string
	TargetUUID  string
	NearbyUUIDs []string
	AbilityID   string
	AbilityName string
	Invocation  catalog.InvocationMode
	// VersusOverride replaces the defender's stat value in contested
	// checks when the caller supplies one.
	VersusOverride *int
}

// AffectedSummary is one target's visible outcome.
type AffectedSummary struct {
	UUID    string   `json:"uuid"`
	Name    string   `json:"name"`
	Effects []string `json:"effects"`
}

// CasterSummary is the caster's state after the use, turn tick included.
type CasterSummary struct {
	UUID           string   `json:"uuid"`
	Name           string   `json:"name"`
	Health         int      `json:"health"`
	MaxHealth      int      `json:"maxHealth"`
	HealingApplied int      `json:"healingApplied"`
	EffectsDisplay []string `json:"effectsDisplay"`
}

// UseAbilityResult is the success-path response body. A failed contested
// check is a normal game outcome, reported here with ActivationSuccess
// false, never as an error.
type UseAbilityResult struct {
	ActivationSuccess bool              `json:"activationSuccess"`
	AbilityUsed       string            `json:"abilityUsed"`
	RollInfo          string            `json:"rollInfo"`
	Affected          []AffectedSummary `json:"affected"`
	Caster            CasterSummary     `json:"caster"`
	Message           string            `json:"message"`
}

// Service is the ability-use orchestrator. Each request is handled
// independently; all cross-invocation coordination happens through the
// persisted character rows.
type Service struct {
	Catalog    *catalog.Registry
	Characters CharacterStore
	Groups     GroupStore
	Events     EventStore
	Outcomes   OutcomeStore
	Dice       dice.Source
	Scripts    AmountEvaluator
	Logger     *zap.Logger
	// Now is the clock used for cooldown math; nil means time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// UseAbility runs the full resolution sequence: preconditions, per-effect
// target resolution and application, the caster's turn tick, and one atomic
// persistence of every touched character plus the audit event.
//
// Precondition failures return a sentinel or typed error from errors.go
// before any effect processing; no partial state is ever persisted.
func (s *Service) UseAbility(ctx context.Context, req UseAbilityRequest) (*UseAbilityResult, error) {
	uni, ok := universe.Get(req.Universe)
	if !ok {
		return nil, ErrUnknownUniverse
	}

	caster, err := s.Characters.GetByUUID(ctx, uni.ID, req.CasterUUID)
	if err != nil {
		return nil, fmt.Errorf("loading caster: %w", err)
	}
	if caster == nil {
		return nil, ErrCasterNotFound
	}
	if !caster.Conscious() {
		return nil, ErrCasterUnconscious
	}
	if !uni.ModeAllowed(caster.Mode) {
		return nil, ErrWrongMode
	}

	ability := s.lookupAbility(req)
	if ability == nil || !ability.AvailableIn(uni.ID) {
		return nil, ErrAbilityNotFound
	}
	if !caster.Knows(ability.ID) {
		return nil, ErrAbilityNotKnown
	}

	if err := s.checkCooldown(ctx, caster.UUID, ability); err != nil {
		return nil, err
	}

	casterLive := caster.Live(uni.StatNames)
	if flag, controlled := casterLive.Controlled(); controlled {
		return nil, &ControlledError{Label: flag.Label}
	}

	target, err := s.loadTarget(ctx, uni.ID, caster, req.TargetUUID)
	if err != nil {
		return nil, err
	}

	invocation := req.Invocation
	if invocation == "" {
		invocation = catalog.ModeAttack
	}
	effectIDs := ability.EffectsFor(invocation)
	if len(effectIDs) == 0 {
		return nil, ErrNoEffects
	}

	// Candidate pool: the caller-supplied nearby list with the caster (and
	// explicit target) guaranteed present before resolution runs.
	pool := appendUnique(dedupe(req.NearbyUUIDs), caster.UUID)
	if target != nil {
		pool = appendUnique(pool, target.UUID)
	}
	chars, err := s.Characters.GetManyByUUID(ctx, uni.ID, pool)
	if err != nil {
		return nil, fmt.Errorf("loading nearby characters: %w", err)
	}
	if chars == nil {
		chars = map[string]*character.Character{}
	}
	chars[caster.UUID] = caster
	if target != nil {
		chars[target.UUID] = target
	}

	tctx := s.targetContext(ctx, caster, target, pool, chars)
	applicator := &Applicator{Dice: s.Dice, Scripts: s.Scripts}

	activation := true
	rollInfo := ""
	affected := map[string]*Affected{}
	var order []string

	for _, effectID := range effectIDs {
		def, found := s.Catalog.EffectByID(effectID)
		if !found {
			return nil, fmt.Errorf("ability %q references unknown effect %q", ability.ID, effectID)
		}

		if def.Kind == catalog.KindCheck {
			var defenderLive *stats.Live
			if target != nil && target.UUID != caster.UUID {
				lv := target.Live(uni.StatNames)
				defenderLive = &lv
			}
			res := ResolveCheck(def, casterLive, defenderLive, req.VersusOverride, s.Dice)
			rollInfo = res.Summary
			if !res.Success {
				// A failed check stops the invocation. Catalog loading
				// requires check effects to lead the list, so nothing
				// has been applied at this point.
				activation = false
				break
			}
			continue
		}

		for _, uuid := range ResolveTargets(def.Target, tctx) {
			tc, loaded := chars[uuid]
			if !loaded {
				continue
			}
			rec := affected[uuid]
			if rec == nil {
				rec = &Affected{UUID: uuid, Name: tc.Name}
				affected[uuid] = rec
				order = append(order, uuid)
			}
			if err := applicator.Apply(def, caster, tc, casterLive, tc.Live(uni.StatNames), ability.Name, rec); err != nil {
				return nil, err
			}
		}
	}

	// Commit the accumulated outcomes onto the working records. On a failed
	// check no target is touched; only the caster's own turn still advances.
	if activation {
		for _, uuid := range order {
			rec := affected[uuid]
			c := chars[uuid]
			c.ActiveEffects = append(c.ActiveEffects, rec.NewEffects...)
			c.AdjustHealth(rec.Healing - rec.Damage)
		}
	}
	turn := TickTurn(caster, uni.StatNames)

	updates := []*character.Character{caster}
	if activation {
		for _, uuid := range order {
			if uuid != caster.UUID {
				updates = append(updates, chars[uuid])
			}
		}
	}

	summaries := affectedSummaries(order, affected, activation)
	event := &AuditEvent{
		CharacterUUID: caster.UUID,
		Type:          EventAbilityUse,
		AbilityID:     ability.ID,
		AbilityName:   ability.Name,
		Success:       activation,
		TargetUUID:    req.TargetUUID,
		AffectedCount: len(summaries),
		RollSummary:   rollInfo,
		CreatedAt:     s.now(),
	}
	if err := s.Outcomes.SaveAbilityOutcome(ctx, uni.ID, updates, event); err != nil {
		return nil, fmt.Errorf("persisting ability outcome: %w", err)
	}

	s.Logger.Info("ability used",
		zap.String("universe", uni.ID),
		zap.String("caster", caster.UUID),
		zap.String("ability", ability.ID),
		zap.Bool("success", activation),
		zap.Int("affected", len(summaries)),
	)

	return &UseAbilityResult{
		ActivationSuccess: activation,
		AbilityUsed:       ability.Name,
		RollInfo:          rollInfo,
		Affected:          summaries,
		Caster: CasterSummary{
			UUID:           caster.UUID,
			Name:           caster.Name,
			Health:         caster.Health,
			MaxHealth:      caster.MaxHealth,
			HealingApplied: turn.HealthDelta,
			EffectsDisplay: effectsDisplay(caster),
		},
		Message: narrative(caster.Name, ability.Name, activation, len(summaries)),
	}, nil
}

// lookupAbility resolves the ability by ID first, then by display name.
func (s *Service) lookupAbility(req UseAbilityRequest) *catalog.AbilityDef {
	if req.AbilityID != "" {
		if a, ok := s.Catalog.AbilityByID(req.AbilityID); ok {
			return a
		}
	}
	if req.AbilityName != "" {
		if a, ok := s.Catalog.AbilityByName(req.AbilityName); ok {
			return a
		}
	}
	return nil
}

// checkCooldown rejects the use when the most recent successful use of the
// ability is still inside its cooldown window. Failed activations do not
// restart the cooldown.
func (s *Service) checkCooldown(ctx context.Context, casterUUID string, ability *catalog.AbilityDef) error {
	if ability.CooldownSeconds <= 0 {
		return nil
	}
	last, used, err := s.Events.LastAbilityUse(ctx, casterUUID, ability.ID)
	if err != nil {
		return fmt.Errorf("checking cooldown: %w", err)
	}
	if !used {
		return nil
	}
	cooldown := time.Duration(ability.CooldownSeconds) * time.Second
	elapsed := s.now().Sub(last)
	if elapsed < cooldown {
		return &CooldownError{Remaining: cooldown - elapsed}
	}
	return nil
}

// loadTarget loads and gates the explicit target, when one is supplied.
func (s *Service) loadTarget(ctx context.Context, universeID string, caster *character.Character, targetUUID string) (*character.Character, error) {
	if targetUUID == "" {
		return nil, nil
	}
	if targetUUID == caster.UUID {
		return caster, nil
	}
	target, err := s.Characters.GetByUUID(ctx, universeID, targetUUID)
	if err != nil {
		return nil, fmt.Errorf("loading target: %w", err)
	}
	if target == nil {
		return nil, ErrTargetNotFound
	}
	if !target.Conscious() {
		return nil, ErrTargetUnconscious
	}
	return target, nil
}

// targetContext assembles the resolution inputs. A group-store failure is
// not fatal: resolution falls back to the whole nearby pool, which is the
// documented behavior when group data is unavailable.
func (s *Service) targetContext(ctx context.Context, caster, target *character.Character, pool []string, chars map[string]*character.Character) TargetContext {
	groups, err := s.Groups.ForAccount(ctx, caster.AccountID)
	if err != nil {
		s.Logger.Warn("social groups unavailable, falling back to nearby pool",
			zap.String("caster", caster.UUID), zap.Error(err))
		groups = nil
	}
	nearbyIDs := make(map[int64]string, len(chars))
	for uuid, c := range chars {
		nearbyIDs[c.ID] = uuid
	}
	tctx := TargetContext{
		CasterUUID: caster.UUID,
		Nearby:     pool,
		Groups:     groups,
		NearbyIDs:  nearbyIDs,
	}
	if target != nil {
		tctx.ExplicitUUID = target.UUID
	}
	return tctx
}

// affectedSummaries keeps only targets with at least one visible effect.
func affectedSummaries(order []string, affected map[string]*Affected, activation bool) []AffectedSummary {
	if !activation {
		return nil
	}
	var out []AffectedSummary
	for _, uuid := range order {
		rec := affected[uuid]
		if len(rec.Descriptions) == 0 {
			continue
		}
		out = append(out, AffectedSummary{UUID: rec.UUID, Name: rec.Name, Effects: rec.Descriptions})
	}
	return out
}

// effectsDisplay renders the caster's surviving active effects for the
// response, e.g. "Regeneration (2 turns)".
func effectsDisplay(c *character.Character) []string {
	var out []string
	for _, ac := range c.ActiveEffects {
		if ac.TurnsRemaining == 1 {
			out = append(out, fmt.Sprintf("%s (1 turn)", ac.Name))
			continue
		}
		out = append(out, fmt.Sprintf("%s (%d turns)", ac.Name, ac.TurnsRemaining))
	}
	return out
}

func narrative(casterName, abilityName string, activation bool, affectedCount int) string {
	if !activation {
		return fmt.Sprintf("%s fails to use %s.", casterName, abilityName)
	}
	switch affectedCount {
	case 0:
		return fmt.Sprintf("%s uses %s.", casterName, abilityName)
	case 1:
		return fmt.Sprintf("%s uses %s, affecting 1 character.", casterName, abilityName)
	default:
		return fmt.Sprintf("%s uses %s, affecting %d characters.", casterName, abilityName, affectedCount)
	}
}
