// Package httpapi exposes the platform over HTTP: the ability-use endpoint,
// supporting reads, social group management, and session token issuance.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duality-rp/duality/internal/auth"
	"github.com/duality-rp/duality/internal/config"
	"github.com/duality-rp/duality/internal/game/catalog"
	"github.com/duality-rp/duality/internal/game/combat"
	"github.com/duality-rp/duality/internal/game/social"
	"github.com/duality-rp/duality/internal/game/universe"
	"github.com/duality-rp/duality/internal/storage/postgres"
)

// GroupManager is the social-group surface the HTTP layer needs.
// *postgres.SocialGroupRepository satisfies it.
type GroupManager interface {
	ForAccount(ctx context.Context, accountID int64) (social.Groups, error)
	AddMember(ctx context.Context, accountID int64, groupName string, characterID int64) error
	RemoveMember(ctx context.Context, accountID int64, groupName string, characterID int64) error
	DeleteGroup(ctx context.Context, accountID int64, groupName string) error
}

// Authenticator verifies account credentials for token issuance.
// *postgres.AccountRepository satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (postgres.Account, error)
}

// HealthChecker reports backend reachability. *postgres.Pool satisfies it.
type HealthChecker interface {
	Health(ctx context.Context, timeout time.Duration) error
}

// Server is the HTTP front end. It implements the lifecycle Service
// interface: Start blocks serving requests, Stop drains them.
type Server struct {
	cfg        config.HTTPConfig
	logger     *zap.Logger
	combat     *combat.Service
	catalog    *catalog.Registry
	characters combat.CharacterStore
	groups     GroupManager
	accounts   Authenticator
	signatures *auth.SignatureValidator
	tokens     *auth.TokenIssuer
	health     HealthChecker

	httpSrv *http.Server
}

// New assembles the Server and its routes.
//
// Precondition: all collaborators must be non-nil.
func New(
	cfg config.HTTPConfig,
	logger *zap.Logger,
	combatSvc *combat.Service,
	registry *catalog.Registry,
	characters combat.CharacterStore,
	groups GroupManager,
	accounts Authenticator,
	signatures *auth.SignatureValidator,
	tokens *auth.TokenIssuer,
	health HealthChecker,
) *Server {
	s := &Server{
		cfg:        cfg,
		logger:     logger,
		combat:     combatSvc,
		catalog:    registry,
		characters: characters,
		groups:     groups,
		accounts:   accounts,
		signatures: signatures,
		tokens:     tokens,
		health:     health,
	}
	s.httpSrv = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.buildRouter(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	if len(s.cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     s.cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", s.handleHealth)
	router.POST("/api/auth/token", s.handleToken)

	// One explicit group per universe keeps the tree free of wildcard
	// conflicts with /api/auth.
	for _, uni := range universe.All() {
		grp := router.Group("/api/"+uni.ID, s.authenticate())
		grp.POST("/combat/use-ability", s.handleUseAbility(uni))
		grp.GET("/characters/:uuid", s.handleGetCharacter(uni))
		grp.GET("/abilities", s.handleListAbilities(uni))
		grp.GET("/groups", s.handleListGroups)
		grp.POST("/groups/:name/members", s.handleAddGroupMember)
		grp.DELETE("/groups/:name/members/:id", s.handleRemoveGroupMember)
		grp.DELETE("/groups/:name", s.handleDeleteGroup)
	}

	return router
}

// Start serves HTTP until Stop is called. It blocks, satisfying the
// lifecycle Service contract.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr()))
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests within the configured grace period.
func (s *Server) Stop() {
	grace := s.cfg.ShutdownGrace
	if grace <= 0 {
		grace = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.logger.Warn("http shutdown incomplete", zap.Error(err))
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
