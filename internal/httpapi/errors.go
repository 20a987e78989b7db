package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duality-rp/duality/internal/game/combat"
	"github.com/duality-rp/duality/internal/game/social"
	"github.com/duality-rp/duality/internal/storage/postgres"
)

// respondError maps a domain error to an HTTP status and the standard
// failure envelope. Unrecognized errors are logged and reported as a
// generic 500; their messages never reach the client.
func (s *Server) respondError(c *gin.Context, err error) {
	var cooldownErr *combat.CooldownError
	var controlledErr *combat.ControlledError

	switch {
	case errors.Is(err, combat.ErrUnknownUniverse),
		errors.Is(err, combat.ErrCasterNotFound),
		errors.Is(err, combat.ErrAbilityNotFound),
		errors.Is(err, combat.ErrTargetNotFound),
		errors.Is(err, postgres.ErrAccountNotFound):
		fail(c, http.StatusNotFound, err.Error())

	case errors.Is(err, combat.ErrCasterUnconscious),
		errors.Is(err, combat.ErrWrongMode),
		errors.Is(err, combat.ErrAbilityNotKnown),
		errors.Is(err, combat.ErrTargetUnconscious),
		errors.Is(err, combat.ErrNoEffects),
		errors.Is(err, social.ErrProtectedGroup),
		errors.As(err, &cooldownErr),
		errors.As(err, &controlledErr):
		fail(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, postgres.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error())

	default:
		s.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		fail(c, http.StatusInternalServerError, "internal server error")
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
