// Package server assembles the HTTP router from the stores, services and
// middleware.
package server

import (
	"context"
	"net/http"
	"time"

	"dancestudio/internal/authz"
	"dancestudio/internal/events"
	"dancestudio/internal/middleware"
	"dancestudio/internal/modules/auth"
	"dancestudio/internal/modules/bookings"
	"dancestudio/internal/modules/classes"
	"dancestudio/internal/modules/health"
	"dancestudio/internal/modules/permissions"
	"dancestudio/internal/modules/roles"
	"dancestudio/internal/modules/rooms"
	"dancestudio/internal/modules/studios"
	"dancestudio/internal/modules/users"
	"dancestudio/internal/mutation"
	"dancestudio/internal/pkg/jwt"
	"dancestudio/internal/pkg/response"
	"dancestudio/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	DB  *gorm.DB
	JWT *jwt.Service
	Log *zap.Logger
	// Publisher receives committed events besides the websocket hub. Nil
	// publishes to the hub only.
	Publisher events.Publisher
	// Redis backs the auth rate limit; nil disables it.
	Redis      *redis.Client
	RateLimit  middleware.RateLimitConfig
	Origins    []string
	BcryptCost int
	// Now overrides the clock of every store.
	Now func() time.Time
}

type Server struct {
	Router *gin.Engine
	Repos  *repository.Repositories
	Engine *authz.Engine
	Hub    *events.Hub
}

func New(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	repos := repository.NewRepositories(opts.DB, opts.Now)
	coord := mutation.New(opts.DB, repos)
	engine := authz.NewEngine(repos.Roles, nil).WithUsers(repos.Users)

	hub := events.NewHub()
	var pub events.Publisher = hub
	if opts.Publisher != nil {
		pub = events.Multi{opts.Publisher, hub}
	}
	bus := events.NewBus(pub, log)

	authHandler := auth.NewHandler(auth.NewService(repos, coord, opts.JWT, bus, opts.BcryptCost))
	roleHandler := roles.NewHandler(roles.NewService(repos, coord, bus), engine)
	permissionHandler := permissions.NewHandler(permissions.NewService(repos, coord, bus), engine)
	studioHandler := studios.NewHandler(studios.NewService(repos, coord, engine, bus), engine)
	roomHandler := rooms.NewHandler(rooms.NewService(repos, coord, bus), engine)
	classHandler := classes.NewHandler(classes.NewService(repos, coord, bus), engine)
	userHandler := users.NewHandler(users.NewService(repos, coord, bus, opts.BcryptCost), engine)
	bookingHandler := bookings.NewHandler(bookings.NewService(repos, coord, engine, bus), engine)
	healthHandler := health.NewHandler(opts.DB, log)
	wsHandler := events.NewWSHandler(hub, log, opts.Origins, func(ctx context.Context, userID string) error {
		return engine.Authorize(ctx, authz.AuditRead, authz.Subject{UserID: userID})
	})

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.CORS(opts.Origins),
	)

	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")
	healthHandler.RegisterRoutes(api)

	limit := middleware.RateLimit(opts.Redis, opts.RateLimit, log)
	authHandler.RegisterPublicRoutes(api, limit)

	public := api.Group("")
	public.Use(middleware.OptionalJWTAuth(opts.JWT))

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(opts.JWT))
	{
		authHandler.RegisterProtectedRoutes(protected)
		studioHandler.RegisterRoutes(public, protected)
		roleHandler.RegisterRoutes(protected)
		permissionHandler.RegisterRoutes(protected)
		roomHandler.RegisterRoutes(protected)
		classHandler.RegisterRoutes(protected)
		userHandler.RegisterRoutes(protected)
		bookingHandler.RegisterRoutes(protected)

		protected.GET("/admin/audit/ws", middleware.Require(engine, authz.AuditRead), wsHandler.Serve)
	}

	return &Server{Router: r, Repos: repos, Engine: engine, Hub: hub}
}
