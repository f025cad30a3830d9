package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authusecases "campus/internal/application/auth/usecases"
	"campus/internal/application/report"
	appstudent "campus/internal/application/student"
	"campus/internal/infrastructure/auth"
	"campus/internal/infrastructure/cache"
	"campus/internal/infrastructure/config"
	"campus/internal/infrastructure/permission"
	"campus/internal/infrastructure/ratelimit"
	"campus/internal/infrastructure/repository"
	"campus/internal/interfaces/http/handlers"
	"campus/internal/interfaces/http/middleware"
	"campus/internal/shared/constants"
	"campus/internal/shared/db"
	"campus/internal/shared/logger"
)

// Router wires the HTTP surface: handlers, the auth/tenant/rate-limit
// admission chain, and the cross-tenant admin routes.
type Router struct {
	engine               *gin.Engine
	healthHandler        *handlers.HealthHandler
	authHandler          *handlers.AuthHandler
	studentHandler       *handlers.StudentHandler
	dashboardHandler     *handlers.DashboardHandler
	universityHandler    *handlers.UniversityHandler
	userHandler          *handlers.UserHandler
	authMiddleware       *middleware.AuthMiddleware
	admission            *middleware.Admission
	loginThrottle        *middleware.LoginThrottle
	permissionMiddleware *middleware.PermissionMiddleware
	allowedOrigins       []string
}

// NewRouter builds the full dependency graph. The database handle, Redis
// client, limiter and enforcer are constructed by the server command so their
// lifecycles outlive the router.
func NewRouter(
	database *gorm.DB,
	redisClient *redis.Client,
	limiter ratelimit.Limiter,
	enforcer *permission.Enforcer,
	cfg *config.Config,
	log logger.Interface,
) *Router {
	engine := gin.New()

	dataRouter := db.NewRouter(database, cfg.Database.RoutingEnabled && cfg.Database.HasReplica())

	userRepo := repository.NewUserRepository(dataRouter)
	universityRepo := repository.NewUniversityRepository(dataRouter)
	studentRepo := repository.NewStudentRepository(dataRouter)

	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpDays, cfg.Auth.JWT.RefreshExpDays)

	var dashCache *cache.DashboardCache
	if redisClient != nil {
		dashCache = cache.NewDashboardCache(redisClient, time.Duration(cfg.Cache.DashboardTTLSeconds)*time.Second)
	}

	loginUC := authusecases.NewLoginUseCase(userRepo, universityRepo, hasher, jwtSvc, log)
	refreshTokenUC := authusecases.NewRefreshTokenUseCase(userRepo, jwtSvc, jwtSvc, log)
	currentUserUC := authusecases.NewGetCurrentUserUseCase(userRepo)

	studentService := appstudent.NewService(studentRepo, dataRouter, dashCache, log)
	dashboardUC := report.NewDashboardUseCase(studentRepo, dataRouter, dashCache, log)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, log)
	admission := middleware.NewAdmission(limiter, cfg.RateLimit.Enabled, []string{"/health"}, log)
	loginThrottle := middleware.NewLoginThrottle(cfg.Auth.Throttle.AttemptsPerMinute)
	permissionMiddleware := middleware.NewPermissionMiddleware(enforcer, log)

	return &Router{
		engine:               engine,
		healthHandler:        handlers.NewHealthHandler(),
		authHandler:          handlers.NewAuthHandler(loginUC, refreshTokenUC, currentUserUC, log),
		studentHandler:       handlers.NewStudentHandler(studentService, log),
		dashboardHandler:     handlers.NewDashboardHandler(dashboardUC, log),
		universityHandler:    handlers.NewUniversityHandler(universityRepo, log),
		userHandler:          handlers.NewUserHandler(userRepo, hasher, log),
		authMiddleware:       authMiddleware,
		admission:            admission,
		loginThrottle:        loginThrottle,
		permissionMiddleware: permissionMiddleware,
		allowedOrigins:       cfg.Server.AllowedOrigins,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes(log logger.Interface) {
	registerCustomValidators()

	r.engine.Use(middleware.Logger(log))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.allowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/health", r.healthHandler.Check)

	v1 := r.engine.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/login", r.loginThrottle.Limit(), r.authHandler.Login)
		authRoutes.POST("/refresh", r.authHandler.RefreshToken)
		authRoutes.POST("/logout", r.authMiddleware.RequireAuth(), r.authHandler.Logout)
		authRoutes.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.GetCurrentUser)
	}

	// Tenant-scoped routes run the full admission chain in order: token
	// verification, tenant access, then rate limiting keyed on the verified
	// tenant.
	tenantRoutes := v1.Group("/universities/:tenantID")
	tenantRoutes.Use(
		r.authMiddleware.RequireAuth(),
		r.authMiddleware.RequireTenantAccess("tenantID"),
		r.admission.Limit(),
	)
	{
		tenantRoutes.GET("/dashboard", r.dashboardHandler.Get)

		students := tenantRoutes.Group("/students")
		{
			students.GET("", r.studentHandler.List)
			students.POST("", r.studentHandler.Create)
			students.GET("/:sid", r.studentHandler.Get)
			students.PUT("/:sid", r.studentHandler.Update)
			students.DELETE("/:sid", r.studentHandler.Delete)
		}
	}

	// Cross-tenant administration requires the admin role plus an explicit
	// casbin grant on the universities resource.
	adminRoutes := v1.Group("/admin")
	adminRoutes.Use(
		r.authMiddleware.RequireAuth(),
		r.admission.Limit(),
		r.permissionMiddleware.RequireRole(constants.RoleAdmin, constants.RoleSystem),
	)
	{
		universities := adminRoutes.Group("/universities")
		{
			universities.GET("", r.permissionMiddleware.RequirePermission(constants.ResourceUniversities, constants.ActionRead), r.universityHandler.List)
			universities.POST("", r.permissionMiddleware.RequirePermission(constants.ResourceUniversities, constants.ActionWrite), r.universityHandler.Create)
			universities.GET("/:tenantID", r.permissionMiddleware.RequirePermission(constants.ResourceUniversities, constants.ActionRead), r.universityHandler.Get)
			universities.PUT("/:tenantID", r.permissionMiddleware.RequirePermission(constants.ResourceUniversities, constants.ActionWrite), r.universityHandler.Update)
		}

		adminRoutes.POST("/users", r.permissionMiddleware.RequirePermission(constants.ResourceUsers, constants.ActionWrite), r.userHandler.Create)
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
