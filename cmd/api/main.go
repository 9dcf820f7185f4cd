package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/ortoclub/platform-api/internal/access"
	"github.com/ortoclub/platform-api/internal/bunny"
	"github.com/ortoclub/platform-api/internal/cache"
	"github.com/ortoclub/platform-api/internal/config"
	"github.com/ortoclub/platform-api/internal/database"
	"github.com/ortoclub/platform-api/internal/handlers"
	"github.com/ortoclub/platform-api/internal/handlers/admin"
	"github.com/ortoclub/platform-api/internal/logger"
	"github.com/ortoclub/platform-api/internal/middleware"
	"github.com/ortoclub/platform-api/internal/playback"
	"github.com/ortoclub/platform-api/internal/repository"
	"github.com/ortoclub/platform-api/internal/storage"
	"github.com/ortoclub/platform-api/internal/tenant"
)

func main() {
	// .env is optional; real deployments inject environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(&cfg.App)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()

	pool, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	redisClient, err := cache.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	// Repositories
	tenantRepo := repository.NewTenantRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	membershipRepo := repository.NewMembershipRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	waitlistRepo := repository.NewWaitlistRepository(pool)
	videoRepo := repository.NewVideoRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)

	// Playback and CDN
	signer, err := playback.NewSigner(cfg.Bunny.TokenSecret, cfg.Bunny.LibraryID, cfg.Bunny.EmbedBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create playback signer")
	}
	watermarker, err := playback.NewWatermarker(cfg.Watermark.Secret)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create watermarker")
	}
	bunnyClient, err := bunny.NewClient(&cfg.Bunny)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bunny client")
	}

	storageDriver, err := storage.NewDriver(&storage.Config{
		Driver:             cfg.Storage.Driver,
		UploadsPath:        cfg.Storage.UploadsPath,
		AWSAccessKeyID:     cfg.Storage.AWSAccessKeyID,
		AWSSecretAccessKey: cfg.Storage.AWSSecretAccessKey,
		AWSRegion:          cfg.Storage.AWSRegion,
		AWSBucket:          cfg.Storage.AWSBucket,
		R2AccessKeyID:      cfg.Storage.R2AccessKeyID,
		R2SecretAccessKey:  cfg.Storage.R2SecretAccessKey,
		R2AccountID:        cfg.Storage.R2AccountID,
		R2Bucket:           cfg.Storage.R2Bucket,
		R2PublicURL:        cfg.Storage.R2PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create storage driver")
	}

	resolver := tenant.NewResolver(cfg.Tenancy.DefaultSlug)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, cfg)
	tenantHandler := handlers.NewTenantHandler(couponRepo)
	waitlistHandler := handlers.NewWaitlistHandler(waitlistRepo)
	contentHandler := handlers.NewContentHandler(courseRepo)
	playbackHandler := handlers.NewPlaybackHandler(
		courseRepo, videoRepo, signer, watermarker,
		time.Duration(cfg.Bunny.TokenTTL)*time.Second,
	)

	adminUserHandler := admin.NewUserHandler(userRepo, membershipRepo)
	adminCouponHandler := admin.NewCouponHandler(couponRepo)
	adminWaitlistHandler := admin.NewWaitlistHandler(waitlistRepo)
	adminVideoHandler := admin.NewVideoHandler(videoRepo, bunnyClient, redisClient)
	adminCourseHandler := admin.NewCourseHandler(courseRepo, videoRepo)
	adminBrandingHandler := admin.NewBrandingHandler(tenantRepo, storageDriver)

	router := setupRouter(
		cfg, redisClient, resolver, tenantRepo, userRepo, membershipRepo,
		authHandler, tenantHandler, waitlistHandler, contentHandler, playbackHandler,
		adminUserHandler, adminCouponHandler, adminWaitlistHandler,
		adminVideoHandler, adminCourseHandler, adminBrandingHandler,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	pool.Close()
	redisClient.Close()

	log.Info().Msg("server exited")
}

func setupRouter(
	cfg *config.Config,
	redisClient *cache.Client,
	resolver *tenant.Resolver,
	tenantRepo *repository.TenantRepository,
	userRepo *repository.UserRepository,
	membershipRepo *repository.MembershipRepository,
	authHandler *handlers.AuthHandler,
	tenantHandler *handlers.TenantHandler,
	waitlistHandler *handlers.WaitlistHandler,
	contentHandler *handlers.ContentHandler,
	playbackHandler *handlers.PlaybackHandler,
	adminUserHandler *admin.UserHandler,
	adminCouponHandler *admin.CouponHandler,
	adminWaitlistHandler *admin.WaitlistHandler,
	adminVideoHandler *admin.VideoHandler,
	adminCourseHandler *admin.CourseHandler,
	adminBrandingHandler *admin.BrandingHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes: tenant resolution only, no authentication. Rate limits
	// protect the endpoints that write or inspect.
	public := router.Group("/api/v1")
	public.Use(middleware.TenantMiddleware(resolver, tenantRepo, cfg))
	{
		public.POST("/auth/session",
			middleware.RateLimit(redisClient, "session", 30, time.Minute),
			authHandler.ExchangeSession)
		public.GET("/tenant/config", tenantHandler.GetConfig)
		public.POST("/waitlist",
			middleware.RateLimit(redisClient, "waitlist", 10, time.Minute),
			waitlistHandler.Join)
		public.POST("/coupons/validate",
			middleware.RateLimit(redisClient, "coupon", 20, time.Minute),
			tenantHandler.ValidateCoupon)
	}

	// Member routes: authenticated, tenant-resolved, gated. Playback applies
	// the paid entitlement itself so free previews stay reachable.
	member := router.Group("/api/v1")
	member.Use(middleware.AuthMiddleware(cfg))
	member.Use(middleware.TenantMiddleware(resolver, tenantRepo, cfg))
	member.Use(middleware.RequireAccess(userRepo, membershipRepo, access.RouteClassMember))
	{
		member.GET("/me", authHandler.GetMe)
		member.GET("/courses", contentHandler.ListCourses)
		member.GET("/courses/:id/lessons", contentHandler.ListLessons)
		member.POST("/lessons/:id/playback", playbackHandler.GetPlayback)
	}

	// Admin routes: same chain with the admin route class.
	adm := router.Group("/api/v1/admin")
	adm.Use(middleware.AuthMiddleware(cfg))
	adm.Use(middleware.TenantMiddleware(resolver, tenantRepo, cfg))
	adm.Use(middleware.RequireAccess(userRepo, membershipRepo, access.RouteClassAdmin))
	{
		adm.GET("/users", adminUserHandler.List)
		adm.GET("/users/:id", adminUserHandler.Get)
		adm.PATCH("/users/:id", adminUserHandler.Update)
		adm.PUT("/users/:id/role", adminUserHandler.SetMembershipRole)

		adm.POST("/coupons", adminCouponHandler.Create)
		adm.GET("/coupons", adminCouponHandler.List)
		adm.PATCH("/coupons/:id", adminCouponHandler.Update)
		adm.DELETE("/coupons/:id", adminCouponHandler.Delete)

		adm.GET("/waitlist", adminWaitlistHandler.List)
		adm.GET("/waitlist/export", adminWaitlistHandler.Export)

		adm.POST("/videos", adminVideoHandler.Create)
		adm.GET("/videos", adminVideoHandler.List)
		adm.POST("/videos/:id/refresh", adminVideoHandler.RefreshStatus)
		adm.DELETE("/videos/:id", adminVideoHandler.Delete)

		adm.POST("/courses", adminCourseHandler.CreateCourse)
		adm.GET("/courses", adminCourseHandler.ListCourses)
		adm.POST("/courses/:id/lessons", adminCourseHandler.CreateLesson)
		adm.GET("/courses/:id/lessons", adminCourseHandler.ListLessons)

		adm.PATCH("/branding", adminBrandingHandler.Update)
		adm.POST("/branding/logo", adminBrandingHandler.UploadLogo)
	}

	return router
}
