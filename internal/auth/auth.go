package auth

import (
	"fmt"

	authhttp "artdash/internal/auth/adapter/http"
	"artdash/internal/auth/adapter/persistence/mongodb"
	"artdash/internal/auth/adapter/ratelimit"
	"artdash/internal/auth/adapter/security"
	"artdash/internal/auth/config"
	"artdash/internal/auth/domain/repository"
	"artdash/internal/auth/usecase"
	"artdash/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuthModule bundles the session core: credential store, token service,
// login throttle, usecase and HTTP handlers.
type AuthModule struct {
	repository  repository.UserRepository
	tokenSvc    repository.TokenService
	usecase     *usecase.AuthUsecase
	authHandler *authhttp.AuthHTTPHandler
	userHandler *authhttp.UserHTTPHandler
	middleware  *authhttp.AuthMiddleware
	config      *config.Config
}

// NewAuthModule creates a new authentication module instance. redisClient may
// be nil, in which case the login throttle fails open.
func NewAuthModule(db *mongo.Database, redisClient *redis.Client, cfg *config.Config, log logger.Logger) (*AuthModule, error) {
	userRepo, err := mongodb.NewMongoUserRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, tokenSvc, cfg)

	limiter := ratelimit.NewLoginLimiter(redisClient, cfg.LoginMaxAttempts, cfg.LoginWindow)

	middleware := authhttp.NewAuthMiddleware(authUsecase, cfg)
	authHandler := authhttp.NewAuthHTTPHandler(authUsecase, cfg, limiter, log)
	userHandler := authhttp.NewUserHTTPHandler(authUsecase, cfg, log)

	return &AuthModule{
		repository:  userRepo,
		tokenSvc:    tokenSvc,
		usecase:     authUsecase,
		authHandler: authHandler,
		userHandler: userHandler,
		middleware:  middleware,
		config:      cfg,
	}, nil
}

// RegisterRoutes registers the /auth and /users endpoints on router.
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	am.authHandler.SetupAuthRoutes(router, am.middleware)
	am.userHandler.SetupUserRoutes(router, am.middleware)
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware for other modules to guard their
// routes with.
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return am.middleware
}

// SetCollaborators wires the optional cross-module hooks: data purge on
// account deletion, activity logging, and per-user analytics for the admin
// detail view.
func (am *AuthModule) SetCollaborators(purger usecase.DataPurger, recorder usecase.ActivityRecorder, insights authhttp.UserInsights) {
	am.usecase.SetCollaborators(purger, recorder)
	if insights != nil {
		am.userHandler.SetInsights(insights)
	}
}

// Stop performs cleanup when the module is shut down
func (am *AuthModule) Stop() error {
	return nil
}
