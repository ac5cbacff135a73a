package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"simplefit/internal/api"
	"simplefit/internal/catalog"
	"simplefit/internal/config"
	"simplefit/internal/repository/mongo"
	"simplefit/internal/service"
	"simplefit/internal/storage"
)

// @title SimpleFit API
// @version 1.0
// @description Exercise catalog, routines, workout logging and statistics.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting SimpleFit Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	// Media storage is optional; without a bucket exercises have no images
	// and profile picture uploads are refused.
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		log.Println("Initializing file storage service...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3)
		cancel()
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("WARN: s3.bucket_name not set, media storage disabled")
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	routineRepo := mongo.NewMongoRoutineRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)

	exerciseCatalog := catalog.New(exerciseRepo)

	followUps := service.NewFollowUpQueue(cfg.FollowUp)
	followUps.Start()

	// --- Initialize Services ---
	log.Println("Initializing services...")
	await := cfg.Server.AwaitTimeout
	authService := service.NewAuthService(userRepo, routineRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	exerciseService := service.NewExerciseService(exerciseCatalog, exerciseRepo, fileStorage, await)
	statisticsService := service.NewStatisticsService(userRepo, workoutRepo, followUps)
	routineService := service.NewRoutineService(routineRepo, userRepo, exerciseCatalog, followUps, await)
	workoutService := service.NewWorkoutService(workoutRepo, routineRepo, userRepo, exerciseCatalog, statisticsService, followUps, await)
	userService := service.NewUserService(userRepo, exerciseCatalog, fileStorage, followUps, await)

	if cfg.Catalog.SeedFile != "" {
		seedCatalog(exerciseService, cfg.Catalog.SeedFile)
	}

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, api.Services{
		Auth:       authService,
		Exercises:  exerciseService,
		Routines:   routineService,
		Workouts:   workoutService,
		Statistics: statisticsService,
		Users:      userService,
		FollowUps:  followUps,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}
	// Pending follow-ups (history links, stats deltas) get the rest of the window.
	if err := followUps.Stop(ctxShutdown); err != nil {
		log.Printf("ERROR: Follow-up queue did not drain: %v", err)
	}

	log.Println("Server exiting.")
}

// seedCatalog loads the exercise seed file. A broken seed is logged, the
// server still starts with whatever the database already holds.
func seedCatalog(exercises service.ExerciseService, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("ERROR: [Seed] open %s: %v", path, err)
		return
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := exercises.SeedCatalog(ctx, f); err != nil {
		log.Printf("ERROR: [Seed] %s: %v", path, err)
	}
}
