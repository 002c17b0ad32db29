package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"allgecare/internal/domain/usecase"
	"allgecare/internal/repository/influx"
	"allgecare/internal/repository/monitoring"
	"allgecare/internal/repository/rabbitmq"
	"allgecare/internal/repository/redis"
	"allgecare/internal/repository/s3"
	redisGo "allgecare/pkg/client/redis"
	s3ClientGo "allgecare/pkg/client/s3"
	"allgecare/pkg/client/upstream"
	"allgecare/pkg/logger"
)

type Config struct {
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

	S3Host      string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool

	RabbitMQURL string
	Exchange    string
	Queue       string

	WarmupInterval time.Duration
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
	getDuration := func(key string, def time.Duration) time.Duration {
		val, err := time.ParseDuration(getEnv(key, def.String()))
		if err != nil {
			log.Fatalf("Invalid %s value: %v", key, err)
		}
		return val
	}

	// REDIS
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		log.Fatalf("Invalid REDIS_DB value: %v", err)
	}

	// MEASUREMENTS
	source := getEnv("MEASUREMENTS_SOURCE", "upstream")
	var influxURL, influxOrg, influxToken, influxBucket, upstreamURL string
	switch source {
	case "upstream":
		upstreamURL = mustGetEnv("UPSTREAM_BASE_URL")
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
		LogLevel: getEnv("LOG_LEVEL", "info"),

		UpstreamBaseURL: upstreamURL,
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 15*time.Second),

		MeasurementsSource: source,
		InfluxURL:          influxURL,
		InfluxOrg:          influxOrg,
		InfluxToken:        influxToken,
		InfluxBucket:       influxBucket,

		RedisAddr:     mustGetEnv("REDIS_HOST") + ":" + mustGetEnv("REDIS_PORT"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		CacheTTL:      getDuration("MEASUREMENTS_CACHE_TTL", 30*time.Second),

		S3Host:      mustGetEnv("S3_HOST") + ":" + mustGetEnv("S3_PORT"),
		S3Bucket:    mustGetEnv("S3_BUCKET"),
		S3AccessKey: mustGetEnv("S3_ACCESS_KEY"),
		S3SecretKey: mustGetEnv("S3_SECRET_KEY"),
		S3UseSSL:    getEnv("S3_USE_SSL", "false") == "true",

		RabbitMQURL: rabbitMQURL,
		Exchange:    getEnv("RABBITMQ_EXCHANGE", "allgecare.events"),
		Queue:       getEnv("RABBITMQ_INGEST_QUEUE", "allgecare.measurements.ingested.q"),

		WarmupInterval: getDuration("WARMUP_MIN_INTERVAL", 10*time.Second),
	}
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
	cache := redis.NewRedisRepo(redisClient, cfg.CacheTTL, 0)

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

	var source usecase.MeasurementsSource
	if cfg.MeasurementsSource == "influx" {
		influxRepo := influx.NewRepo(influx.Config{
			URL:    cfg.InfluxURL,
			Org:    cfg.InfluxOrg,
			Token:  cfg.InfluxToken,
			Bucket: cfg.InfluxBucket,
		})
		defer influxRepo.Close()
		source = influxRepo
	} else {
		client, err := upstream.NewClient(upstream.Config{BaseURL: cfg.UpstreamBaseURL, Timeout: cfg.UpstreamTimeout})
		if err != nil {
			log.Fatalf("failed to init upstream client: %v", err)
		}
		source = monitoring.NewRepo(client)
	}

	dashboardUC := usecase.NewDashboardUseCase(source, cache, nil, nil, s3.NewS3Repo(s3Client))
	warmupUC := usecase.NewWarmupUseCase(dashboardUC, dashboardUC, cfg.WarmupInterval)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()

	consumer, err := rabbitmq.NewIngestConsumer(conn, cfg.Exchange, "measurements.ingested", cfg.Queue, warmupUC)
	if err != nil {
		log.Fatalf("failed to init consumer: %v", err)
	}
	defer consumer.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(ctx); err != nil {
			logger.Errorf("consumer stopped with error: %v", err)
			stop()
		}
	}()

	logger.Infof("allgecare worker started (measurements from %s)", cfg.MeasurementsSource)
	<-ctx.Done()
	logger.Infof("shutting down allgecare worker...")
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}
