package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/devconnector/config"
	"github.com/yoockh/devconnector/internal/api/handlers"
	"github.com/yoockh/devconnector/internal/api/routes"
	"github.com/yoockh/devconnector/internal/auth"
	"github.com/yoockh/devconnector/internal/cache"
	"github.com/yoockh/devconnector/internal/logger"
	"github.com/yoockh/devconnector/internal/providers/github"
	mongorepo "github.com/yoockh/devconnector/internal/repositories/mongo"
	pgrepo "github.com/yoockh/devconnector/internal/repositories/postgres"
	"github.com/yoockh/devconnector/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger config is not known yet
		logger.New("info").WithError(err).Fatal("config load failed")
	}

	log := logger.New(cfg.Log.Level)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Init MongoDB
	if err := config.InitMongo(cfg); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	log.Info("MongoDB connected")

	// Init PostgreSQL
	if err := config.InitPostgres(cfg); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := config.MigratePostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL migrate error")
	}
	log.Info("PostgreSQL connected")

	// Redis is optional; owner lookups go straight to Postgres without it
	var ownerCache cache.Cache = cache.Nop{}
	if err := config.InitRedis(cfg); err != nil {
		log.WithError(err).Warn("Redis unavailable, owner cache disabled")
	} else {
		ownerCache = cache.NewRedisCache(config.RedisClient, "devconnector:")
		log.Info("Redis connected")
	}

	codec, err := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	if err != nil {
		log.WithError(err).Fatal("token codec init error")
	}

	profileRepo := mongorepo.NewProfileRepo(config.MongoDB)
	postRepo := mongorepo.NewPostRepo(config.MongoDB)
	userRepo := pgrepo.NewUserRepo(config.PostgresDB)

	userSvc := services.NewUserService(userRepo, ownerCache, cfg.Redis.OwnerCacheTTL)
	profileSvc := services.NewProfileService(profileRepo, userSvc)
	accountSvc := services.NewAccountService(postRepo, profileRepo, userSvc)
	authSvc := services.NewAuthService(userRepo, codec)

	r := routes.NewRouter(routes.Deps{
		Profile: handlers.NewProfileHandler(profileSvc, accountSvc),
		Auth:    handlers.NewAuthHandler(authSvc, userSvc),
		Github:  handlers.NewGithubHandler(github.NewClient(cfg.Github.APIURL, cfg.Github.ClientID, cfg.Github.ClientSecret)),
		Tokens:  codec,
		Logger:  log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown error")
	}
	if err := config.MongoClient.Disconnect(ctx); err != nil {
		log.WithError(err).Error("MongoDB disconnect error")
	}
	if config.RedisClient != nil {
		_ = config.RedisClient.Close()
	}
	log.Info("server stopped")
}
