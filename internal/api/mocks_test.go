package api

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"simplefit/internal/async"
	"simplefit/internal/domain"
	"simplefit/internal/service"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	args := m.Called(ctx, name, email, password)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(1).(*domain.User)
	return args.String(0), user, args.Error(2)
}

type MockExerciseService struct{ mock.Mock }

func (m *MockExerciseService) GetExercise(ctx context.Context, id string) (*domain.Exercise, error) {
	args := m.Called(ctx, id)
	ex, _ := args.Get(0).(*domain.Exercise)
	return ex, args.Error(1)
}

func (m *MockExerciseService) ListExercises(ctx context.Context, q service.ExerciseQuery) ([]domain.Exercise, error) {
	args := m.Called(ctx, q)
	list, _ := args.Get(0).([]domain.Exercise)
	return list, args.Error(1)
}

func (m *MockExerciseService) GetExercisesByIDs(ctx context.Context, ids []string) ([]domain.Exercise, error) {
	args := m.Called(ctx, ids)
	list, _ := args.Get(0).([]domain.Exercise)
	return list, args.Error(1)
}

func (m *MockExerciseService) EquipmentTypes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]string)
	return list, args.Error(1)
}

func (m *MockExerciseService) MuscleGroups(side string) ([]domain.MuscleGroup, error) {
	args := m.Called(side)
	list, _ := args.Get(0).([]domain.MuscleGroup)
	return list, args.Error(1)
}

func (m *MockExerciseService) GetMuscleGroup(id string) (domain.MuscleGroup, error) {
	args := m.Called(id)
	g, _ := args.Get(0).(domain.MuscleGroup)
	return g, args.Error(1)
}

func (m *MockExerciseService) DifficultyLevels() []domain.Difficulty {
	list, _ := m.Called().Get(0).([]domain.Difficulty)
	return list
}

func (m *MockExerciseService) ImageURL(ctx context.Context, ex *domain.Exercise) (string, error) {
	args := m.Called(ctx, ex)
	return args.String(0), args.Error(1)
}

func (m *MockExerciseService) ClearCache() {
	m.Called()
}

func (m *MockExerciseService) SeedCatalog(ctx context.Context, r io.Reader) (int, error) {
	args := m.Called(ctx, r)
	return args.Int(0), args.Error(1)
}

type MockRoutineService struct{ mock.Mock }

func (m *MockRoutineService) CreateRoutine(ctx context.Context, userID string, routine *domain.Routine) (*domain.Routine, error) {
	args := m.Called(ctx, userID, routine)
	r, _ := args.Get(0).(*domain.Routine)
	return r, args.Error(1)
}

func (m *MockRoutineService) GetRoutine(ctx context.Context, userID, routineID string) (*domain.Routine, error) {
	args := m.Called(ctx, userID, routineID)
	r, _ := args.Get(0).(*domain.Routine)
	return r, args.Error(1)
}

func (m *MockRoutineService) ListRoutines(ctx context.Context, userID string, filter service.RoutineFilter) ([]domain.Routine, error) {
	args := m.Called(ctx, userID, filter)
	list, _ := args.Get(0).([]domain.Routine)
	return list, args.Error(1)
}

func (m *MockRoutineService) UpdateRoutine(ctx context.Context, userID string, routine *domain.Routine) (*domain.Routine, error) {
	args := m.Called(ctx, userID, routine)
	r, _ := args.Get(0).(*domain.Routine)
	return r, args.Error(1)
}

func (m *MockRoutineService) DeleteRoutine(ctx context.Context, userID, routineID string) error {
	return m.Called(ctx, userID, routineID).Error(0)
}

func (m *MockRoutineService) CopyRoutine(ctx context.Context, userID, routineID, name string) (*domain.Routine, error) {
	args := m.Called(ctx, userID, routineID, name)
	r, _ := args.Get(0).(*domain.Routine)
	return r, args.Error(1)
}

func (m *MockRoutineService) AddExercises(ctx context.Context, userID, routineID string, exercises []domain.RoutineExercise) (*domain.Routine, error) {
	args := m.Called(ctx, userID, routineID, exercises)
	r, _ := args.Get(0).(*domain.Routine)
	return r, args.Error(1)
}

func (m *MockRoutineService) RemoveExercise(ctx context.Context, userID, routineID string, position int) (*domain.Routine, error) {
	args := m.Called(ctx, userID, routineID, position)
	r, _ := args.Get(0).(*domain.Routine)
	return r, args.Error(1)
}

func (m *MockRoutineService) MoveExercise(ctx context.Context, userID, routineID string, from, to int) (*domain.Routine, error) {
	args := m.Called(ctx, userID, routineID, from, to)
	r, _ := args.Get(0).(*domain.Routine)
	return r, args.Error(1)
}

func (m *MockRoutineService) UpdateExercise(ctx context.Context, userID, routineID string, position int, exercise domain.RoutineExercise) (*domain.Routine, error) {
	args := m.Called(ctx, userID, routineID, position, exercise)
	r, _ := args.Get(0).(*domain.Routine)
	return r, args.Error(1)
}

type MockWorkoutService struct{ mock.Mock }

func (m *MockWorkoutService) workout(args mock.Arguments) (*domain.Workout, error) {
	w, _ := args.Get(0).(*domain.Workout)
	return w, args.Error(1)
}

func (m *MockWorkoutService) StartWorkout(ctx context.Context, userID, routineID string) (*domain.Workout, error) {
	return m.workout(m.Called(ctx, userID, routineID))
}

func (m *MockWorkoutService) LogWorkout(ctx context.Context, userID string, workout *domain.Workout) (*domain.Workout, error) {
	return m.workout(m.Called(ctx, userID, workout))
}

func (m *MockWorkoutService) GetWorkout(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	return m.workout(m.Called(ctx, userID, workoutID))
}

func (m *MockWorkoutService) ListWorkouts(ctx context.Context, userID string, from, to time.Time) ([]domain.Workout, error) {
	args := m.Called(ctx, userID, from, to)
	list, _ := args.Get(0).([]domain.Workout)
	return list, args.Error(1)
}

func (m *MockWorkoutService) Summary(ctx context.Context, userID, workoutID string) (domain.Summary, error) {
	args := m.Called(ctx, userID, workoutID)
	s, _ := args.Get(0).(domain.Summary)
	return s, args.Error(1)
}

func (m *MockWorkoutService) UpdateSet(ctx context.Context, userID, workoutID string, exercisePos, setPos int, update service.SetUpdate) (*domain.Workout, error) {
	return m.workout(m.Called(ctx, userID, workoutID, exercisePos, setPos, update))
}

func (m *MockWorkoutService) AddSet(ctx context.Context, userID, workoutID string, exercisePos int) (*domain.Workout, error) {
	return m.workout(m.Called(ctx, userID, workoutID, exercisePos))
}

func (m *MockWorkoutService) RemoveSet(ctx context.Context, userID, workoutID string, exercisePos, setPos int) (*domain.Workout, error) {
	return m.workout(m.Called(ctx, userID, workoutID, exercisePos, setPos))
}

func (m *MockWorkoutService) CompleteWorkout(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	return m.workout(m.Called(ctx, userID, workoutID))
}

func (m *MockWorkoutService) UpdateDetails(ctx context.Context, userID, workoutID string, details service.WorkoutDetails) (*domain.Workout, error) {
	return m.workout(m.Called(ctx, userID, workoutID, details))
}

func (m *MockWorkoutService) DeleteWorkout(ctx context.Context, userID, workoutID string) error {
	return m.Called(ctx, userID, workoutID).Error(0)
}

type MockStatisticsService struct{ mock.Mock }

func (m *MockStatisticsService) GetStatistics(ctx context.Context, userID string) (domain.WorkoutStatistics, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(domain.WorkoutStatistics)
	return s, args.Error(1)
}

func (m *MockStatisticsService) Recompute(ctx context.Context, userID string) (domain.WorkoutStatistics, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(domain.WorkoutStatistics)
	return s, args.Error(1)
}

func (m *MockStatisticsService) ApplyDelta(userID string, before, after *domain.Workout) *async.Future[struct{}] {
	return m.Called(userID, before, after).Get(0).(*async.Future[struct{}])
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, userID, update)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockUserService) ProfileImageURL(ctx context.Context, user *domain.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) ToggleFavorite(ctx context.Context, userID, exerciseID string) (bool, error) {
	args := m.Called(ctx, userID, exerciseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) Favorites(ctx context.Context, userID string) ([]domain.Exercise, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]domain.Exercise)
	return list, args.Error(1)
}

func (m *MockUserService) ProfileImageUploadURL(ctx context.Context, userID, fileName string) (*service.ProfileImageUpload, error) {
	args := m.Called(ctx, userID, fileName)
	u, _ := args.Get(0).(*service.ProfileImageUpload)
	return u, args.Error(1)
}

type MockFollowUpMonitor struct{ mock.Mock }

func (m *MockFollowUpMonitor) Snapshot() service.FollowUpSnapshot {
	return m.Called().Get(0).(service.FollowUpSnapshot)
}
