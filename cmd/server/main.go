// Package main runs the club booking platform HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clubcourt/backend/config"
	"github.com/clubcourt/backend/internal/access"
	"github.com/clubcourt/backend/internal/auth"
	"github.com/clubcourt/backend/internal/bookings"
	"github.com/clubcourt/backend/internal/clubs"
	"github.com/clubcourt/backend/internal/coaches"
	"github.com/clubcourt/backend/internal/courts"
	"github.com/clubcourt/backend/internal/invites"
	"github.com/clubcourt/backend/internal/middleware"
	"github.com/clubcourt/backend/internal/organizations"
	"github.com/clubcourt/backend/internal/realtime"
	"github.com/clubcourt/backend/internal/stats"
	"github.com/clubcourt/backend/pkg/database"
	"github.com/clubcourt/backend/pkg/redis"
	"github.com/clubcourt/backend/pkg/response"
	"github.com/clubcourt/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			GalleryBucket:        cfg.AWS.GalleryBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	// Access control
	directory := access.NewPGDirectory(pool)
	resolver := access.NewResolver(directory)
	authorizer := access.NewAuthorizer(directory)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Organizations
	orgRepo := organizations.NewRepository(pool)
	orgHandler := organizations.NewHandler(orgRepo, logger)

	// Clubs (incl. opening hours, payment keys, gallery)
	clubRepo := clubs.NewRepository(pool)
	clubHandler := clubs.NewHandler(clubRepo, authorizer, cfg.Booking.DefaultTimezone, logger)
	galleryHandler := clubs.NewGalleryHandler(clubRepo, s3Client, logger)

	// Courts and coaches
	courtRepo := courts.NewRepository(pool)
	courtHandler := courts.NewHandler(courtRepo, logger)
	coachRepo := coaches.NewRepository(pool)
	coachHandler := coaches.NewHandler(coachRepo, logger)

	// Bookings
	bookingRepo := bookings.NewRepository(pool)
	bookingHandler := bookings.NewHandler(bookingRepo, clubRepo, courtRepo, hub,
		resolver, authorizer, cfg.Booking, logger)

	// Invites
	inviteRepo := invites.NewRepository(pool)
	inviteHandler := invites.NewHandler(inviteRepo, cfg.Booking.InviteExpireHours, logger)

	// Stats
	statsRepo := stats.NewRepository(pool)
	statsHandler := stats.NewHandler(statsRepo, clubRepo, cfg.Booking.DefaultTimezone, logger)

	orgExists := access.ExistsFunc(orgRepo.Exists)

	wsAuthorize := func(ctx context.Context, token string, clubID uuid.UUID) (uuid.UUID, error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return uuid.Nil, err
		}
		scope, err := resolver.Resolve(ctx, claims.UserID, claims.IsRoot)
		if err != nil {
			return uuid.Nil, err
		}
		allowed, err := authorizer.CanAccessClub(ctx, scope, claims.UserID, clubID)
		if err != nil {
			return uuid.Nil, err
		}
		if !allowed {
			return uuid.Nil, auth.ErrInvalidToken
		}
		return claims.UserID, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/me", authHandler.Me(middleware.ContextUserID))

		// Users (root only)
		api.GET("/users", access.RequireRoot(resolver), authHandler.List)
		api.PATCH("/users/:id/blocked", access.RequireRoot(resolver), authHandler.SetBlocked)

		// Organizations
		api.GET("/organizations", orgHandler.ListMine)
		api.POST("/organizations", access.RequireRoot(resolver), orgHandler.Create)

		orgAccess := access.RequireOrgAccess(resolver, authorizer, orgExists)
		orgManage := access.RequireOrgManage(resolver, authorizer, orgExists)
		api.GET("/organizations/:id", orgAccess, orgHandler.Get)
		api.PATCH("/organizations/:id", orgManage, orgHandler.Update)
		api.DELETE("/organizations/:id", access.RequireRoot(resolver), orgHandler.Delete)
		api.GET("/organizations/:id/members", orgAccess, orgHandler.ListMembers)
		api.PUT("/organizations/:id/members/:userId", orgManage, orgHandler.SetMemberRole)
		api.DELETE("/organizations/:id/members/:userId", orgManage, orgHandler.RemoveMember)
		api.GET("/organizations/:id/clubs", orgAccess, clubHandler.ListByOrganization)
		api.POST("/organizations/:id/clubs", orgManage, clubHandler.Create)
		api.GET("/organizations/:id/invites", orgManage, inviteHandler.ListByTarget)
		api.POST("/organizations/:id/invites", orgManage, inviteHandler.CreateOrgAdmin)
		api.DELETE("/organizations/:id/invites/:inviteId", orgManage, inviteHandler.Revoke)

		// Clubs
		clubAccess := access.RequireClubAccess(resolver, authorizer)
		clubManage := access.RequireClubManage(resolver, authorizer)
		paymentKeys := access.RequirePaymentKeys(resolver, authorizer)
		adminAssign := access.RequireClubAdminAssign(resolver, authorizer)

		api.GET("/clubs/:id", clubAccess, clubHandler.Get)
		api.PATCH("/clubs/:id", clubManage, clubHandler.Update)
		api.DELETE("/clubs/:id", clubManage, clubHandler.Delete)
		api.PUT("/clubs/:id/members/:userId", clubManage, clubHandler.SetMemberRole)
		api.DELETE("/clubs/:id/members/:userId", clubManage, clubHandler.RemoveMember)
		api.GET("/clubs/:id/hours", clubAccess, clubHandler.GetHours)
		api.PUT("/clubs/:id/hours", clubManage, clubHandler.SetHours)
		api.GET("/clubs/:id/payment-keys", paymentKeys, clubHandler.GetPaymentKeys)
		api.PUT("/clubs/:id/payment-keys", paymentKeys, clubHandler.SetPaymentKeys)
		api.GET("/clubs/:id/gallery", clubAccess, galleryHandler.List)
		api.POST("/clubs/:id/gallery", clubManage, galleryHandler.Upload)
		api.DELETE("/clubs/:id/gallery/:imageId", clubManage, galleryHandler.Delete)
		api.GET("/clubs/:id/invites", clubManage, inviteHandler.ListByTarget)
		api.POST("/clubs/:id/invites", adminAssign, inviteHandler.CreateClub)
		api.DELETE("/clubs/:id/invites/:inviteId", adminAssign, inviteHandler.Revoke)
		api.GET("/clubs/:id/stats/daily", clubManage, statsHandler.Daily)

		// Courts
		api.GET("/clubs/:id/courts", clubAccess, courtHandler.List)
		api.POST("/clubs/:id/courts", clubManage, courtHandler.Create)
		api.GET("/clubs/:id/courts/:courtId", clubAccess, courtHandler.Get)
		api.PATCH("/clubs/:id/courts/:courtId", clubManage, courtHandler.Update)
		api.DELETE("/clubs/:id/courts/:courtId", clubManage, courtHandler.Delete)

		// Coaches
		api.GET("/clubs/:id/coaches", clubAccess, coachHandler.List)
		api.POST("/clubs/:id/coaches", clubManage, coachHandler.Create)
		api.PATCH("/clubs/:id/coaches/:coachId", clubManage, coachHandler.Update)
		api.DELETE("/clubs/:id/coaches/:coachId", clubManage, coachHandler.Delete)

		// Bookings
		api.GET("/clubs/:id/courts/:courtId/availability", clubAccess, bookingHandler.Availability)
		api.GET("/clubs/:id/courts/:courtId/bookings", clubAccess, bookingHandler.ListByCourtDay)
		api.POST("/clubs/:id/courts/:courtId/bookings", clubAccess, bookingHandler.Create)
		api.GET("/bookings/mine", bookingHandler.ListMine)
		api.POST("/bookings/:id/cancel", bookingHandler.Cancel)

		// Invites
		api.POST("/invites/accept", inviteHandler.Accept)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, wsAuthorize))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
