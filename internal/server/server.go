// Package server assembles repositories, services and HTTP routes into one
// gin engine. It does not open the database or read the environment.
package server

import (
	"net/http"
	"time"

	"hotel/internal/domain"
	"hotel/internal/middleware"
	"hotel/internal/modules/auth"
	"hotel/internal/modules/booking"
	"hotel/internal/modules/catalog"
	"hotel/internal/modules/roomstatus"
	"hotel/internal/modules/users"
	"hotel/internal/pkg/jwt"
	"hotel/internal/pkg/response"
	"hotel/internal/pkg/storage"
	"hotel/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Options struct {
	JWT         *jwt.Service
	Files       *storage.Local
	AvatarMaxPx int
	CORSOrigins []string
	// ExposeErrors adds error text to 500 responses. Never set it in production.
	ExposeErrors bool
	// Now overrides the booking clock.
	Now func() time.Time
}

type Server struct {
	Engine  *gin.Engine
	Hub     *roomstatus.Hub
	Sweeper *booking.Sweeper
}

func New(db *gorm.DB, opts Options) *Server {
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	permissions := repository.NewStore[domain.Permission](db)

	hub := roomstatus.NewHub()
	bookingOpts := []booking.Option{booking.WithPublisher(hub)}
	if opts.Now != nil {
		bookingOpts = append(bookingOpts, booking.WithClock(opts.Now))
	}
	bookingStore := booking.NewStore(bookingRepo)
	bookingService := booking.NewService(bookingStore, bookingOpts...)

	avatars := users.NewAvatarService(userRepo, opts.Files, opts.AvatarMaxPx)
	userService := users.NewService(userRepo, avatars)
	userHandler := users.NewHandler(userService, users.NewGroupService(groupRepo), avatars, permissions)

	authService := auth.NewService(userRepo, opts.JWT)
	authHandler := auth.NewHandler(authService, userService, userHandler)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(opts.ExposeErrors),
		middleware.CORS(opts.CORSOrigins),
	)
	r.Static(opts.Files.URLBase(), opts.Files.BaseDir())

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/", apiRoot)
	authHandler.RegisterPublicRoutes(api)

	ws := api.Group("/ws", middleware.JWTAuth(opts.JWT, authService, middleware.AllowQueryToken()))
	roomstatus.NewHandler(hub, opts.CORSOrigins).RegisterRoutes(ws)

	protected := api.Group("", middleware.JWTAuth(opts.JWT, authService))
	authHandler.RegisterProtectedRoutes(protected)
	userHandler.RegisterRoutes(protected)
	catalog.NewHandler(db, bookingRepo).RegisterRoutes(protected)
	booking.NewHandler(bookingService).RegisterRoutes(protected)

	return &Server{
		Engine:  r,
		Hub:     hub,
		Sweeper: booking.NewSweeper(bookingStore, bookingOpts...),
	}
}

func (s *Server) Handler() http.Handler {
	return s.Engine
}

var resourceLinks = []string{
	"users", "groups", "permissions", "hotels", "staff", "guests",
	"room-types", "rooms", "bookings", "payments",
}

func apiRoot(c *gin.Context) {
	base := "/api/"
	links := make(gin.H, len(resourceLinks))
	for _, name := range resourceLinks {
		links[name] = base + name
	}
	response.Success(c, http.StatusOK, links)
}
