package repository

import (
	"context"
	"time"

	"simplefit/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
	ErrConflict     = RepositoryError("conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)

	AddRoutine(ctx context.Context, userID, routineID string) error
	RemoveRoutine(ctx context.Context, userID, routineID string) error
	AddWorkoutToHistory(ctx context.Context, userID, workoutID string) error
	RemoveWorkoutFromHistory(ctx context.Context, userID, workoutID string) error

	// ToggleFavorite flips membership of exerciseID and returns the new state.
	// It fails with ErrConflict when the list changed between read and write.
	ToggleFavorite(ctx context.Context, userID, exerciseID string) (bool, error)

	// IncrementStats adds delta to the stored statistics atomically.
	IncrementStats(ctx context.Context, userID string, delta domain.WorkoutStatistics) error
	// SetStats replaces the stored statistics.
	SetStats(ctx context.Context, userID string, stats domain.WorkoutStatistics) error
	SetProfileImage(ctx context.Context, userID, key string) error
	// UpdateProfile sets the non-nil fields of p.
	UpdateProfile(ctx context.Context, userID string, p domain.ProfileUpdate) error
}

// ExerciseFilter narrows a catalog query; zero-valued fields are ignored.
type ExerciseFilter struct {
	MuscleGroup string
	Equipment   string
	Difficulty  domain.Difficulty
	Compound    *bool
}

// ExerciseRepository defines the interface for interacting with the exercise catalog.
type ExerciseRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	// GetByIDs returns the exercises that exist; unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]domain.Exercise, error)
	GetAll(ctx context.Context) ([]domain.Exercise, error)
	GetByMuscleGroup(ctx context.Context, muscleGroup string) ([]domain.Exercise, error)
	GetByEquipment(ctx context.Context, equipment string) ([]domain.Exercise, error)
	// SearchByName is a case-insensitive substring match on the name.
	SearchByName(ctx context.Context, query string) ([]domain.Exercise, error)
	Filter(ctx context.Context, f ExerciseFilter) ([]domain.Exercise, error)
	EquipmentTypes(ctx context.Context) ([]string, error)
	// Upsert writes the exercises by id in one batch.
	Upsert(ctx context.Context, exercises []domain.Exercise) (int, error)
}

// RoutineRepository defines the interface for interacting with routine data.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (string, error)
	CreateMany(ctx context.Context, routines []domain.Routine) ([]string, error)
	GetByID(ctx context.Context, id string) (*domain.Routine, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.Routine, error)
	GetByMuscleGroup(ctx context.Context, userID, muscleGroup string) ([]domain.Routine, error)
	GetByDifficulty(ctx context.Context, userID string, difficulty domain.Difficulty) ([]domain.Routine, error)
	Update(ctx context.Context, routine *domain.Routine) error
	Delete(ctx context.Context, id, userID string) error
	IncrementTimesCompleted(ctx context.Context, id string, by int) error
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Workout, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.Workout, error)
	GetInDateRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Workout, error)
	// GetLastForRoutine returns ErrNotFound when the routine was never trained.
	GetLastForRoutine(ctx context.Context, userID, routineID string) (*domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id, userID string) error
}
