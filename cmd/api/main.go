package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/hydroping/hydration-ping-engine/internal/adapters/billing"
	"github.com/hydroping/hydration-ping-engine/internal/adapters/cache"
	adapterHTTP "github.com/hydroping/hydration-ping-engine/internal/adapters/handler/http"
	"github.com/hydroping/hydration-ping-engine/internal/adapters/notify"
	"github.com/hydroping/hydration-ping-engine/internal/adapters/repository"
	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
	"github.com/hydroping/hydration-ping-engine/internal/core/services"
	"github.com/hydroping/hydration-ping-engine/internal/core/workers"
)

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment.")
	}

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	serverPort := os.Getenv("PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET must be set")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	redisClient := connectRedis()

	userRepo := repository.NewPostgresUserRepository(db.DB)
	eventRepo := repository.NewPostgresEventRepository(db)

	var scheduleRepo domain.ScheduleRepository = repository.NewPostgresScheduleRepository(db)
	if redisClient != nil {
		scheduleRepo = repository.NewCachedScheduleRepository(scheduleRepo, redisClient)
	}

	tokenDuration := 24 * time.Hour
	tokenService := services.NewTokenService(jwtSecret, "hydration-ping-engine", tokenDuration, userRepo)

	threshold := successThreshold()
	streakWorker := workers.NewStreakWorker(userRepo, eventRepo).WithThreshold(threshold)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	scheduleService := services.NewScheduleService(scheduleRepo, eventRepo, userRepo, services.DefaultEntitlements, streakWorker)
	eventService := services.NewEventService(eventRepo, userRepo, streakWorker)
	statsService := services.NewStatsService(userRepo, eventRepo, threshold)

	stripeProvider := billing.NewStripeProvider(
		os.Getenv("STRIPE_SECRET_KEY"),
		os.Getenv("STRIPE_WEBHOOK_SECRET"),
		os.Getenv("STRIPE_SUCCESS_URL"),
		os.Getenv("STRIPE_CANCEL_URL"),
	)
	billingService := services.NewBillingService(stripeProvider, userRepo)

	notifier := notify.NewTwilioNotifier(
		os.Getenv("TWILIO_ACCOUNT_SID"),
		os.Getenv("TWILIO_AUTH_TOKEN"),
		os.Getenv("TWILIO_FROM_NUMBER"),
	)
	smsService := services.NewSMSService(userRepo, notifier, services.DefaultEntitlements)

	reminderWorker := workers.NewReminderWorker(userRepo, scheduleRepo, eventRepo, notify.Metered(notifier))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	streakWorker.Start(workerCtx)
	reminderWorker.Start(workerCtx)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService, tokenService),
		UserHandler:     adapterHTTP.NewUserHandler(userService),
		ScheduleHandler: adapterHTTP.NewScheduleHandler(scheduleService),
		EventHandler:    adapterHTTP.NewEventHandler(eventService),
		StatsHandler:    adapterHTTP.NewStatsHandler(statsService),
		BillingHandler:  adapterHTTP.NewBillingHandler(billingService, os.Getenv("STRIPE_PRICE_ID")),
		SMSHandler:      adapterHTTP.NewSMSHandler(smsService),
		TokenService:    tokenService,
		DB:              db,
		Redis:           redisClient,
		StartTime:       startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Hydration Ping Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}

// connectRedis is best-effort: the API runs without the cache and the
// rate limiter when Redis is absent.
func connectRedis() *redis.Client {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		log.Println("REDIS_HOST not set, running without cache and rate limiter.")
		return nil
	}

	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	dbIndex := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			dbIndex = parsed
		}
	}

	client, err := cache.NewRedisClient(host, port, os.Getenv("REDIS_PASSWORD"), dbIndex)
	if err != nil {
		log.Printf("Redis unavailable, continuing without it: %v", err)
		return nil
	}

	log.Println("Redis connected successfully.")
	return client
}

func successThreshold() float64 {
	raw := os.Getenv("SUCCESS_THRESHOLD")
	if raw == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Invalid SUCCESS_THRESHOLD %q, using default.", raw)
		return 0
	}
	return parsed
}
