package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/config"
	s3infra "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/infra/s3"
	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
	redrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/redis"
	adminsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/admin"
	authsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/auth"
	chatsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/chat"
	connsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/connections"
	discoverysvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/discovery"
	likessvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/likes"
	mediasvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/media"
	profilesvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/profiles"
	ratesvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/rate"
	swipesvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/swipes"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)

	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	photoRepo := pgrepo.NewPhotoRepo(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	quotaRepo := pgrepo.NewQuotaRepo(pool)
	connectionRepo := pgrepo.NewConnectionRepo(pool)
	conversationRepo := pgrepo.NewConversationRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)
	invitationRepo := pgrepo.NewInvitationRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, userRepo, invitationRepo, cfg.Auth.RefreshTTL)

	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Match.LikesPerMinute, cfg.Match.LikesPer10Sec)
	likeService := likessvc.NewService(swipeRepo, likessvc.Config{
		DailyLikeLimit:  cfg.Match.DailyLikeLimit,
		DefaultTimezone: cfg.Match.DefaultTimezone,
	})
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Pool:          pool,
		SwipeStore:    swipeRepo,
		QuotaStore:    quotaRepo,
		Connections:   connectionRepo,
		Conversations: conversationRepo,
		RateLimiter:   rateLimiter,
		QuotaView:     likeService,
	}, swipesvc.Config{
		DailyLikeLimit:  cfg.Match.DailyLikeLimit,
		DefaultTimezone: cfg.Match.DefaultTimezone,
	})

	discoveryService := discoverysvc.NewService(discoverysvc.Dependencies{
		Profiles:    profileRepo,
		Swipes:      swipeRepo,
		Connections: connectionRepo,
	})
	connectionService := connsvc.NewService(connectionRepo)
	chatService := chatsvc.NewService(chatsvc.Dependencies{
		Conversations: conversationRepo,
		Messages:      messageRepo,
		Members:       connectionRepo,
	})
	profileService := profilesvc.NewService(profileRepo)
	adminService := adminsvc.NewService(profileRepo, invitationRepo, adminsvc.Config{
		InvitationTTL: cfg.Admin.InvitationTTL,
	})

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(ctx, s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Bucket:    cfg.S3.Bucket,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket, cfg.Media.LinkTTL)
	mediaService := mediasvc.NewService(photoRepo, mediaStorage)

	RegisterRoutes(r, Dependencies{
		AuthService:       authService,
		SwipeService:      swipeService,
		LikeService:       likeService,
		DiscoveryService:  discoveryService,
		ConnectionService: connectionService,
		ChatService:       chatService,
		ProfileService:    profileService,
		MediaService:      mediaService,
		AdminService:      adminService,
		Logger:            log,
		Config:            cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
