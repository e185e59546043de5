package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fadecraft/barbershop-api/internal/config"
	dbpkg "github.com/fadecraft/barbershop-api/internal/db"
	"github.com/fadecraft/barbershop-api/internal/logging"
	"github.com/fadecraft/barbershop-api/internal/middleware"
	"github.com/fadecraft/barbershop-api/internal/routes"
	"github.com/fadecraft/barbershop-api/internal/validators"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := logging.New(cfg.LogPath, cfg.LogDebug)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	db := dbpkg.NewDB(cfg)
	if err := dbpkg.Seed(db); err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		rdb = redis.NewClient(opts)
	}

	if err := validators.RegisterBindingValidations(); err != nil {
		logger.Fatal("failed to register validations", zap.Error(err))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg, logger)

	logger.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
