package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duality-rp/duality/internal/game/catalog"
	"github.com/duality-rp/duality/internal/game/combat"
	"github.com/duality-rp/duality/internal/game/effect"
	"github.com/duality-rp/duality/internal/game/stats"
	"github.com/duality-rp/duality/internal/game/universe"
)

// useAbilityBody is the wire form of an ability-use request. The universe
// comes from the route, the auth pair is consumed by the middleware.
type useAbilityBody struct {
	CasterUUID     string   `json:"caster_uuid"`
	TargetUUID     string   `json:"target_uuid"`
	NearbyUUIDs    []string `json:"nearby_uuids"`
	AbilityID      string   `json:"ability_id"`
	AbilityName    string   `json:"ability_name"`
	Invocation     string   `json:"invocation"`
	VersusOverride *int     `json:"versus_override"`
	Timestamp      string   `json:"timestamp"`
	Signature      string   `json:"signature"`
}

func (s *Server) handleUseAbility(uni *universe.Universe) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body useAbilityBody
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, "malformed request body")
			return
		}
		if body.CasterUUID == "" {
			fail(c, http.StatusBadRequest, "caster_uuid is required")
			return
		}
		if _, err := uuid.Parse(body.CasterUUID); err != nil {
			fail(c, http.StatusBadRequest, "caster_uuid must be a valid UUID")
			return
		}
		if body.TargetUUID != "" {
			if _, err := uuid.Parse(body.TargetUUID); err != nil {
				fail(c, http.StatusBadRequest, "target_uuid must be a valid UUID")
				return
			}
		}
		for _, id := range body.NearbyUUIDs {
			if _, err := uuid.Parse(id); err != nil {
				fail(c, http.StatusBadRequest, "nearby_uuids must all be valid UUIDs")
				return
			}
		}
		if body.AbilityID == "" && body.AbilityName == "" {
			fail(c, http.StatusBadRequest, "ability_id or ability_name is required")
			return
		}

		result, err := s.combat.UseAbility(c.Request.Context(), combat.UseAbilityRequest{
			Universe:       uni.ID,
			CasterUUID:     body.CasterUUID,
			TargetUUID:     body.TargetUUID,
			NearbyUUIDs:    body.NearbyUUIDs,
			AbilityID:      body.AbilityID,
			AbilityName:    body.AbilityName,
			Invocation:     catalog.InvocationMode(body.Invocation),
			VersusOverride: body.VersusOverride,
		})
		if err != nil {
			s.respondError(c, err)
			return
		}
		ok(c, result)
	}
}

// characterView is the read model for GET /characters/:uuid. Live stats are
// recomputed from the active-effect list on every read.
type characterView struct {
	UUID           string              `json:"uuid"`
	Name           string              `json:"name"`
	Universe       string              `json:"universe"`
	Health         int                 `json:"health"`
	MaxHealth      int                 `json:"maxHealth"`
	Mode           string              `json:"mode"`
	BaseStats      stats.Block         `json:"baseStats"`
	LiveStats      stats.Block         `json:"liveStats"`
	Controls       []stats.ControlFlag `json:"controls,omitempty"`
	KnownAbilities []string            `json:"knownAbilities"`
	ActiveEffects  []effect.Active     `json:"activeEffects"`
}

func (s *Server) handleGetCharacter(uni *universe.Universe) gin.HandlerFunc {
	return func(c *gin.Context) {
		ch, err := s.characters.GetByUUID(c.Request.Context(), uni.ID, c.Param("uuid"))
		if err != nil {
			s.respondError(c, err)
			return
		}
		if ch == nil {
			fail(c, http.StatusNotFound, "character not found")
			return
		}

		live := ch.Live(uni.StatNames)
		ok(c, characterView{
			UUID:           ch.UUID,
			Name:           ch.Name,
			Universe:       ch.Universe,
			Health:         ch.Health,
			MaxHealth:      ch.MaxHealth,
			Mode:           ch.Mode,
			BaseStats:      ch.Stats,
			LiveStats:      live.Stats,
			Controls:       live.Controls,
			KnownAbilities: ch.KnownAbilities,
			ActiveEffects:  ch.ActiveEffects,
		})
	}
}

type abilityView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CooldownSeconds int    `json:"cooldownSeconds"`
	HasAttack       bool   `json:"hasAttack"`
	HasAbility      bool   `json:"hasAbility"`
}

func (s *Server) handleListAbilities(uni *universe.Universe) gin.HandlerFunc {
	return func(c *gin.Context) {
		defs := s.catalog.Abilities(uni.ID)
		views := make([]abilityView, 0, len(defs))
		for _, d := range defs {
			views = append(views, abilityView{
				ID:              d.ID,
				Name:            d.Name,
				CooldownSeconds: d.CooldownSeconds,
				HasAttack:       len(d.AttackEffects) > 0,
				HasAbility:      len(d.AbilityEffects) > 0,
			})
		}
		ok(c, views)
	}
}

// accountID resolves the acting account: token claims for web callers,
// the account_id query parameter for signature-authenticated object calls.
func accountID(c *gin.Context) (int64, bool) {
	if claims := sessionClaims(c); claims != nil {
		return claims.AccountID, true
	}
	id, err := strconv.ParseInt(c.Query("account_id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *Server) handleListGroups(c *gin.Context) {
	id, found := accountID(c)
	if !found {
		fail(c, http.StatusBadRequest, "account_id is required")
		return
	}
	groups, err := s.groups.ForAccount(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	ok(c, groups)
}

type groupMemberBody struct {
	CharacterID int64  `json:"character_id"`
	Timestamp   string `json:"timestamp"`
	Signature   string `json:"signature"`
}

func (s *Server) handleAddGroupMember(c *gin.Context) {
	id, found := accountID(c)
	if !found {
		fail(c, http.StatusBadRequest, "account_id is required")
		return
	}
	var body groupMemberBody
	if err := c.ShouldBindJSON(&body); err != nil || body.CharacterID == 0 {
		fail(c, http.StatusBadRequest, "character_id is required")
		return
	}
	if err := s.groups.AddMember(c.Request.Context(), id, c.Param("name"), body.CharacterID); err != nil {
		s.respondError(c, err)
		return
	}
	ok(c, gin.H{"group": c.Param("name"), "characterId": body.CharacterID})
}

func (s *Server) handleRemoveGroupMember(c *gin.Context) {
	id, found := accountID(c)
	if !found {
		fail(c, http.StatusBadRequest, "account_id is required")
		return
	}
	memberID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "member id must be an integer")
		return
	}
	if err := s.groups.RemoveMember(c.Request.Context(), id, c.Param("name"), memberID); err != nil {
		s.respondError(c, err)
		return
	}
	ok(c, gin.H{"group": c.Param("name"), "characterId": memberID})
}

func (s *Server) handleDeleteGroup(c *gin.Context) {
	id, found := accountID(c)
	if !found {
		fail(c, http.StatusBadRequest, "account_id is required")
		return
	}
	if err := s.groups.DeleteGroup(c.Request.Context(), id, c.Param("name")); err != nil {
		s.respondError(c, err)
		return
	}
	ok(c, gin.H{"group": c.Param("name"), "deleted": true})
}

type tokenBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleToken(c *gin.Context) {
	var body tokenBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Username == "" || body.Password == "" {
		fail(c, http.StatusBadRequest, "username and password are required")
		return
	}

	account, err := s.accounts.Authenticate(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		// No distinction between unknown account and bad password.
		fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.tokens.Issue(account.ID, account.Username)
	if err != nil {
		s.respondError(c, err)
		return
	}
	ok(c, gin.H{"token": token, "username": account.Username})
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.health.Health(c.Request.Context(), 2*time.Second); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
