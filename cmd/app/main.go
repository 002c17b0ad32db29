package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	v1 "allgecare/internal/controller/http/v1"
	"allgecare/internal/domain/entity"
	"allgecare/internal/domain/usecase"
	"allgecare/internal/repository/influx"
	"allgecare/internal/repository/monitoring"
	psqlRepo "allgecare/internal/repository/psql"
	"allgecare/internal/repository/rabbitmq"
	"allgecare/internal/repository/redis"
	"allgecare/internal/repository/s3"
	"allgecare/pkg/client/psql"
	redisGo "allgecare/pkg/client/redis"
	s3ClientGo "allgecare/pkg/client/s3"
	"allgecare/pkg/client/upstream"
	"allgecare/pkg/logger"
	"allgecare/pkg/middleware"
)

type Config struct {
	HTTPAddr string
	LogLevel string

	UpstreamBaseURL string
	UpstreamTimeout time.Duration

	MeasurementsSource string
	InfluxURL          string
	InfluxOrg          string
	InfluxToken        string
	InfluxBucket       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
	Cooldown      time.Duration
	RateLimit     int

	PSQLHost     string
	PSQLPort     int
	PSQLUser     string
	PSQLPassword string
	PSQLDBName   string
	PSQLSSLMode  string

	S3Host      string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool

	RabbitMQURL string
	Exchange    string
}

func main() {
	cfg := loadConfig()
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redisGo.NewRedisClient(ctx, redisGo.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	redisRepo := redis.NewRedisRepo(redisClient, cfg.CacheTTL, cfg.Cooldown)

	db, err := psql.NewPostgresDB(psql.Config{
		Host:     cfg.PSQLHost,
		User:     cfg.PSQLUser,
		Password: cfg.PSQLPassword,
		DBName:   cfg.PSQLDBName,
		Port:     cfg.PSQLPort,
		SslMode:  cfg.PSQLSSLMode,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	if err := db.AutoMigrate(&entity.Session{}, &entity.ThresholdChange{}); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	sessionRepo := psqlRepo.NewGormSessionRepo(db)
	thresholdRepo := psqlRepo.NewGormThresholdRepo(db)

	s3Client, err := s3ClientGo.NewS3Client(ctx, s3ClientGo.Config{
		Endpoint:  cfg.S3Host,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		UseSSL:    cfg.S3UseSSL,
	})
	if err != nil {
		log.Fatalf("failed to init s3 client: %v", err)
	}
	s3Repo := s3.NewS3Repo(s3Client)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()

	configPublisher, err := rabbitmq.NewRabbitPublisher(conn, cfg.Exchange, "config.updated")
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer configPublisher.Close()

	upstreamClient, err := upstream.NewClient(upstream.Config{
		BaseURL: cfg.UpstreamBaseURL,
		Timeout: cfg.UpstreamTimeout,
	})
	if err != nil {
		log.Fatalf("failed to init upstream client: %v", err)
	}
	monitoringRepo := monitoring.NewRepo(upstreamClient)

	var source usecase.MeasurementsSource = monitoringRepo
	if cfg.MeasurementsSource == "influx" {
		influxRepo := influx.NewRepo(influx.Config{
			URL:    cfg.InfluxURL,
			Org:    cfg.InfluxOrg,
			Token:  cfg.InfluxToken,
			Bucket: cfg.InfluxBucket,
		})
		defer influxRepo.Close()
		source = influxRepo
	}

	dashboardUC := usecase.NewDashboardUseCase(source, redisRepo, redisRepo, monitoringRepo, s3Repo)
	configUC := usecase.NewConfigUseCase(monitoringRepo, thresholdRepo, configPublisher)
	authUC := usecase.NewAuthUseCase(monitoringRepo, sessionRepo)

	r := gin.Default()
	r.Use(
		middleware.BearerAuth(authUC, false, usecase.ErrSessionNotFound),
		middleware.Caller(),
		middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RedisClient: redisClient,
			Limit:       cfg.RateLimit,
			Window:      time.Second,
			KeyPrefix:   "rl:",
		}),
	)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	v1.Register(r.Group("/api/v1"),
		v1.NewDashboardHandler(dashboardUC),
		v1.NewConfigHandler(configUC),
		v1.NewAuthHandler(authUC),
		middleware.BearerAuth(authUC, true, usecase.ErrSessionNotFound),
	)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		logger.Infof("allgecare api listening on %s (measurements from %s)", cfg.HTTPAddr, cfg.MeasurementsSource)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down allgecare api...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
	configUC.Wait()
}

func loadConfig() Config {
	if err := godotenv.Load("./.env.local"); err != nil {
		log.Println("No .env file found. Falling back to OS environment variables.")
	}
	mustGetEnv := func(key string) string {
		val := os.Getenv(key)
		if val == "" {
			log.Fatalf("Environment variable %s is not set", key)
		}
		return val
	}
	getEnv := func(key, def string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return def
	}
	getInt := func(key string, def int) int {
		val, err := strconv.Atoi(getEnv(key, strconv.Itoa(def)))
		if err != nil {
			log.Fatalf("Invalid %s value: %v", key, err)
		}
		return val
	}
	getDuration := func(key string, def time.Duration) time.Duration {
		val, err := time.ParseDuration(getEnv(key, def.String()))
		if err != nil {
			log.Fatalf("Invalid %s value: %v", key, err)
		}
		return val
	}

	// MEASUREMENTS
	source := getEnv("MEASUREMENTS_SOURCE", "upstream")
	var influxURL, influxOrg, influxToken, influxBucket string
	switch source {
	case "upstream":
	case "influx":
		influxURL = mustGetEnv("INFLUX_DB_URL")
		influxOrg = mustGetEnv("INFLUX_DB_ORG")
		influxToken = mustGetEnv("INFLUX_DB_TOKEN")
		influxBucket = mustGetEnv("INFLUX_DB_BUCKET")
	default:
		log.Fatalf("Invalid MEASUREMENTS_SOURCE value: %q", source)
	}

	// RABBITMQ
	rmqUser := mustGetEnv("RABBITMQ_USER")
	rmqPassword := mustGetEnv("RABBITMQ_PASSWORD")
	rmqHost := mustGetEnv("RABBITMQ_HOST")
	rmqPort := mustGetEnv("RABBITMQ_PORT")
	rabbitMQURL := "amqp://" + rmqUser + ":" + rmqPassword + "@" + rmqHost + ":" + rmqPort + "/"

	return Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		UpstreamBaseURL: mustGetEnv("UPSTREAM_BASE_URL"),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 15*time.Second),

		MeasurementsSource: source,
		InfluxURL:          influxURL,
		InfluxOrg:          influxOrg,
		InfluxToken:        influxToken,
		InfluxBucket:       influxBucket,

		RedisAddr:     mustGetEnv("REDIS_HOST") + ":" + mustGetEnv("REDIS_PORT"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),
		CacheTTL:      getDuration("MEASUREMENTS_CACHE_TTL", 30*time.Second),
		Cooldown:      getDuration("REFRESH_COOLDOWN", time.Second),
		RateLimit:     getInt("RATE_LIMIT", 20),

		PSQLHost:     mustGetEnv("PSQL_HOST"),
		PSQLPort:     getInt("PSQL_PORT", 5432),
		PSQLUser:     mustGetEnv("PSQL_USER"),
		PSQLPassword: mustGetEnv("PSQL_PASSWORD"),
		PSQLDBName:   mustGetEnv("PSQL_DB"),
		PSQLSSLMode:  getEnv("PSQL_SSLMODE", "disable"),

		S3Host:      mustGetEnv("S3_HOST") + ":" + mustGetEnv("S3_PORT"),
		S3Bucket:    mustGetEnv("S3_BUCKET"),
		S3AccessKey: mustGetEnv("S3_ACCESS_KEY"),
		S3SecretKey: mustGetEnv("S3_SECRET_KEY"),
		S3UseSSL:    getEnv("S3_USE_SSL", "false") == "true",

		RabbitMQURL: rabbitMQURL,
		Exchange:    getEnv("RABBITMQ_EXCHANGE", "allgecare.events"),
	}
}
