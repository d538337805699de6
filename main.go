package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"ecoTrackAPI/handlers"
	"ecoTrackAPI/middleware"
	"ecoTrackAPI/services"

	_ "net/http/pprof"
)

var (
	dbPool             *pgxpool.Pool
	redisClient        *redis.Client
	userService        *services.UserService
	challengeService   *services.ChallengeService
	membershipService  *services.MembershipService
	eventService       *services.EventService
	tipService         *services.TipService
	leaderboardService *services.LeaderboardService
	statsService       *services.StatsService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if credFile := os.Getenv("FIREBASE_CREDENTIALS_FILE"); credFile != "" {
		if err := middleware.InitFirebaseAuth(ctx, credFile); err != nil {
			log.Fatal("Failed to initialize Firebase auth:", err)
		}
		log.Println("Firebase auth initialized successfully")
	} else {
		log.Println("FIREBASE_CREDENTIALS_FILE not set, running with unverified token decoding")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to Postgres")

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatal("Failed to parse REDIS_URL:", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Warning: Could not reach Redis, leaderboard caching disabled: %v", err)
			redisClient = nil
		} else {
			log.Println("Connected to Redis")
		}
	}

	userService = services.NewUserService(dbPool)
	challengeService = services.NewChallengeService(dbPool)
	membershipService = services.NewMembershipService(dbPool)
	eventService = services.NewEventService(dbPool)
	tipService = services.NewTipService(dbPool)
	leaderboardService = services.NewLeaderboardService(dbPool, redisClient)
	statsService = services.NewStatsService(dbPool)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
		if redisClient != nil {
			redisClient.Close()
		}
	}()

	userHandler := handlers.NewUserHandler(userService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	membershipHandler := handlers.NewMembershipHandler(membershipService)
	eventHandler := handlers.NewEventHandler(eventService)
	tipHandler := handlers.NewTipHandler(tipService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	statsHandler := handlers.NewStatsHandler(statsService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "ecotrack-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/challenges", challengeHandler.List).Methods("GET")
	api.HandleFunc("/challenges/{id}", challengeHandler.Get).Methods("GET")
	api.HandleFunc("/events", eventHandler.List).Methods("GET")
	api.HandleFunc("/events/upcoming", eventHandler.Upcoming).Methods("GET")
	api.HandleFunc("/events/{id}", eventHandler.Get).Methods("GET")
	api.HandleFunc("/tips", tipHandler.List).Methods("GET")
	api.HandleFunc("/tips/{id}", tipHandler.Get).Methods("GET")
	api.HandleFunc("/leaderboard", leaderboardHandler.GetLeaderboard).Methods("GET")
	api.HandleFunc("/stats/live", statsHandler.GetLiveStats).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.FirebaseAuthMiddleware)

	protected.HandleFunc("/users/profile", userHandler.GetOrCreateProfile).Methods("POST")
	protected.HandleFunc("/users/me", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/users/me/badges", userHandler.GetBadges).Methods("GET")
	protected.HandleFunc("/stats/me", statsHandler.GetUserStats).Methods("GET")
	protected.HandleFunc("/leaderboard/me", leaderboardHandler.GetMyRank).Methods("GET")

	protected.HandleFunc("/challenges", challengeHandler.Create).Methods("POST")
	protected.HandleFunc("/challenges/{id}", challengeHandler.Update).Methods("PUT")
	protected.HandleFunc("/challenges/{id}", challengeHandler.Delete).Methods("DELETE")

	protected.HandleFunc("/user-challenges/join", membershipHandler.JoinChallenge).Methods("POST")
	protected.HandleFunc("/user-challenges", membershipHandler.ListUserChallenges).Methods("GET")
	protected.HandleFunc("/user-challenges/{id}", membershipHandler.GetUserChallenge).Methods("GET")
	protected.HandleFunc("/user-challenges/{id}/progress", membershipHandler.RecordProgress).Methods("POST")
	protected.HandleFunc("/user-challenges/{id}/abandon", membershipHandler.AbandonChallenge).Methods("POST")

	protected.HandleFunc("/events", eventHandler.Create).Methods("POST")
	protected.HandleFunc("/events/{id}/register", eventHandler.Register).Methods("POST")

	protected.HandleFunc("/tips", tipHandler.Create).Methods("POST")
	protected.HandleFunc("/tips/{id}/upvote", tipHandler.Upvote).Methods("POST")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
