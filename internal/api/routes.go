package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"simplefit/internal/service"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth       service.AuthService
	Exercises  service.ExerciseService
	Routines   service.RoutineService
	Workouts   service.WorkoutService
	Statistics service.StatisticsService
	Users      service.UserService

	// FollowUps is optional; without it the diagnostics route is not registered.
	FollowUps FollowUpMonitor
}

func SetupRoutes(router *gin.Engine, jwtSecret string, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	exerciseHandler := NewExerciseHandler(services.Exercises)
	routineHandler := NewRoutineHandler(services.Routines)
	workoutHandler := NewWorkoutHandler(services.Workouts)
	meHandler := NewMeHandler(services.Users, services.Statistics)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		meGroup := protected.Group("/me")
		{
			meGroup.GET("", meHandler.GetProfile)
			meGroup.PATCH("", meHandler.UpdateProfile)
			meGroup.GET("/statistics", meHandler.GetStatistics)
			meGroup.POST("/statistics/recompute", meHandler.RecomputeStatistics)
			meGroup.GET("/favorites", meHandler.GetFavorites)
			meGroup.POST("/favorites/:exerciseId", meHandler.ToggleFavorite)
			meGroup.POST("/profile-image", meHandler.RequestProfileImageUpload)
		}

		// --- Exercise catalog (shared, read-only) ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/equipment", exerciseHandler.GetEquipmentTypes)
			exerciseGroup.GET("/difficulties", exerciseHandler.GetDifficultyLevels)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.POST("/batch", exerciseHandler.GetExercisesBatch)
			exerciseGroup.POST("/cache/clear", exerciseHandler.ClearCache)
		}

		muscleGroup := protected.Group("/muscle-groups")
		{
			muscleGroup.GET("", exerciseHandler.GetMuscleGroups)
			muscleGroup.GET("/:id", exerciseHandler.GetMuscleGroup)
		}

		routineGroup := protected.Group("/routines")
		{
			routineGroup.GET("", routineHandler.ListRoutines)
			routineGroup.POST("", routineHandler.CreateRoutine)
			routineGroup.GET("/:id", routineHandler.GetRoutine)
			routineGroup.PUT("/:id", routineHandler.UpdateRoutine)
			routineGroup.DELETE("/:id", routineHandler.DeleteRoutine)
			routineGroup.POST("/:id/copy", routineHandler.CopyRoutine)
			routineGroup.POST("/:id/exercises", routineHandler.AddExercises)
			// :ex is the 0-based exercise position
			routineGroup.PUT("/:id/exercises/:ex", routineHandler.UpdateExercise)
			routineGroup.DELETE("/:id/exercises/:ex", routineHandler.RemoveExercise)
			routineGroup.POST("/:id/exercises/:ex/move", routineHandler.MoveExercise)
			// POST /api/v1/routines/{id}/workouts starts a session from the routine
			routineGroup.POST("/:id/workouts", workoutHandler.StartWorkout)
		}

		if services.FollowUps != nil {
			diagnosticsHandler := NewDiagnosticsHandler(services.FollowUps)
			protected.GET("/diagnostics/follow-ups", diagnosticsHandler.GetFollowUps)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", workoutHandler.LogWorkout)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PATCH("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
			workoutGroup.GET("/:id/summary", workoutHandler.GetSummary)
			workoutGroup.POST("/:id/complete", workoutHandler.CompleteWorkout)
			// :ex is the 0-based exercise position, :set the 1-based set number
			workoutGroup.POST("/:id/exercises/:ex/sets", workoutHandler.AddSet)
			workoutGroup.PATCH("/:id/exercises/:ex/sets/:set", workoutHandler.UpdateSet)
			workoutGroup.DELETE("/:id/exercises/:ex/sets/:set", workoutHandler.RemoveSet)
		}
	}
}
