package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"simplefit/internal/catalog"
	"simplefit/internal/config"
	"simplefit/internal/domain"
	"simplefit/internal/repository"
)

// MockUserRepository is a mock type for the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) AddRoutine(ctx context.Context, userID, routineID string) error {
	return m.Called(ctx, userID, routineID).Error(0)
}

func (m *MockUserRepository) RemoveRoutine(ctx context.Context, userID, routineID string) error {
	return m.Called(ctx, userID, routineID).Error(0)
}

func (m *MockUserRepository) AddWorkoutToHistory(ctx context.Context, userID, workoutID string) error {
	return m.Called(ctx, userID, workoutID).Error(0)
}

func (m *MockUserRepository) RemoveWorkoutFromHistory(ctx context.Context, userID, workoutID string) error {
	return m.Called(ctx, userID, workoutID).Error(0)
}

func (m *MockUserRepository) ToggleFavorite(ctx context.Context, userID, exerciseID string) (bool, error) {
	args := m.Called(ctx, userID, exerciseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) IncrementStats(ctx context.Context, userID string, delta domain.WorkoutStatistics) error {
	return m.Called(ctx, userID, delta).Error(0)
}

func (m *MockUserRepository) SetStats(ctx context.Context, userID string, stats domain.WorkoutStatistics) error {
	return m.Called(ctx, userID, stats).Error(0)
}

func (m *MockUserRepository) SetProfileImage(ctx context.Context, userID, key string) error {
	return m.Called(ctx, userID, key).Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, userID string, p domain.ProfileUpdate) error {
	return m.Called(ctx, userID, p).Error(0)
}

// MockRoutineRepository is a mock type for the RoutineRepository interface
type MockRoutineRepository struct {
	mock.Mock
}

func (m *MockRoutineRepository) Create(ctx context.Context, routine *domain.Routine) (string, error) {
	args := m.Called(ctx, routine)
	return args.String(0), args.Error(1)
}

func (m *MockRoutineRepository) CreateMany(ctx context.Context, routines []domain.Routine) ([]string, error) {
	args := m.Called(ctx, routines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRoutineRepository) GetByID(ctx context.Context, id string) (*domain.Routine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Routine), args.Error(1)
}

func (m *MockRoutineRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Routine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Routine), args.Error(1)
}

func (m *MockRoutineRepository) GetByMuscleGroup(ctx context.Context, userID, muscleGroup string) ([]domain.Routine, error) {
	args := m.Called(ctx, userID, muscleGroup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Routine), args.Error(1)
}

func (m *MockRoutineRepository) GetByDifficulty(ctx context.Context, userID string, difficulty domain.Difficulty) ([]domain.Routine, error) {
	args := m.Called(ctx, userID, difficulty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Routine), args.Error(1)
}

func (m *MockRoutineRepository) Update(ctx context.Context, routine *domain.Routine) error {
	return m.Called(ctx, routine).Error(0)
}

func (m *MockRoutineRepository) Delete(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockRoutineRepository) IncrementTimesCompleted(ctx context.Context, id string, by int) error {
	return m.Called(ctx, id, by).Error(0)
}

// MockExerciseRepository is a mock type for the ExerciseRepository interface
type MockExerciseRepository struct {
	mock.Mock
}

func (m *MockExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exercise), args.Error(1)
}

func (m *MockExerciseRepository) exercises(args mock.Arguments) ([]domain.Exercise, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Exercise), args.Error(1)
}

func (m *MockExerciseRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Exercise, error) {
	return m.exercises(m.Called(ctx, ids))
}

func (m *MockExerciseRepository) GetAll(ctx context.Context) ([]domain.Exercise, error) {
	return m.exercises(m.Called(ctx))
}

func (m *MockExerciseRepository) GetByMuscleGroup(ctx context.Context, muscleGroup string) ([]domain.Exercise, error) {
	return m.exercises(m.Called(ctx, muscleGroup))
}

func (m *MockExerciseRepository) GetByEquipment(ctx context.Context, equipment string) ([]domain.Exercise, error) {
	return m.exercises(m.Called(ctx, equipment))
}

func (m *MockExerciseRepository) SearchByName(ctx context.Context, query string) ([]domain.Exercise, error) {
	return m.exercises(m.Called(ctx, query))
}

func (m *MockExerciseRepository) Filter(ctx context.Context, f repository.ExerciseFilter) ([]domain.Exercise, error) {
	return m.exercises(m.Called(ctx, f))
}

func (m *MockExerciseRepository) EquipmentTypes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockExerciseRepository) Upsert(ctx context.Context, exercises []domain.Exercise) (int, error) {
	args := m.Called(ctx, exercises)
	return args.Int(0), args.Error(1)
}

// MockFileStorage is a mock type for the FileStorage interface
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, contentType, expires)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return m.Called(ctx, objectKey).Error(0)
}

// memWorkoutRepository is an in-memory WorkoutRepository for flows that
// read back what they wrote. Stored workouts are cloned on the way in and out.
type memWorkoutRepository struct {
	mu       sync.Mutex
	seq      int
	workouts map[string]*domain.Workout
	getErr   error
	lastErr  error
}

func newMemWorkoutRepository() *memWorkoutRepository {
	return &memWorkoutRepository{workouts: map[string]*domain.Workout{}}
}

func (r *memWorkoutRepository) Create(_ context.Context, w *domain.Workout) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.UserID == "" {
		return "", domain.ErrWorkoutUserIDRequired
	}
	r.seq++
	w.ID = "w" + strconv.Itoa(r.seq)
	r.workouts[w.ID] = w.Clone()
	return w.ID, nil
}

func (r *memWorkoutRepository) GetByID(_ context.Context, id string) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return w.Clone(), nil
}

func (r *memWorkoutRepository) GetByUserID(_ context.Context, userID string) ([]domain.Workout, error) {
	return r.list(func(w *domain.Workout) bool { return w.UserID == userID }), nil
}

func (r *memWorkoutRepository) GetInDateRange(_ context.Context, userID string, from, to time.Time) ([]domain.Workout, error) {
	return r.list(func(w *domain.Workout) bool {
		return w.UserID == userID && !w.Date.Before(from) && !w.Date.After(to)
	}), nil
}

func (r *memWorkoutRepository) GetLastForRoutine(_ context.Context, userID, routineID string) (*domain.Workout, error) {
	if r.lastErr != nil {
		return nil, r.lastErr
	}
	list := r.list(func(w *domain.Workout) bool { return w.UserID == userID && w.RoutineID == routineID })
	if len(list) == 0 {
		return nil, repository.ErrNotFound
	}
	return &list[0], nil
}

func (r *memWorkoutRepository) Update(_ context.Context, w *domain.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workouts[w.ID]; !ok {
		return repository.ErrNotFound
	}
	r.workouts[w.ID] = w.Clone()
	return nil
}

func (r *memWorkoutRepository) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok || w.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}

func (r *memWorkoutRepository) list(match func(*domain.Workout) bool) []domain.Workout {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Workout{}
	for _, w := range r.workouts {
		if match(w) {
			out = append(out, *w.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// fakeCatalog serves a fixed set of exercises.
type fakeCatalog struct {
	byID    map[string]domain.Exercise
	err     error
	cleared int
}

func newFakeCatalog(exercises ...domain.Exercise) *fakeCatalog {
	c := &fakeCatalog{byID: map[string]domain.Exercise{}}
	for _, e := range exercises {
		c.byID[e.ID] = e
	}
	return c
}

func (c *fakeCatalog) Get(_ context.Context, id string) (*domain.Exercise, error) {
	if c.err != nil {
		return nil, c.err
	}
	e, ok := c.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (c *fakeCatalog) all() []domain.Exercise {
	out := make([]domain.Exercise, 0, len(c.byID))
	for _, e := range c.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *fakeCatalog) GetAll(context.Context) ([]domain.Exercise, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.all(), nil
}

func (c *fakeCatalog) GetByIDs(_ context.Context, ids []string) ([]domain.Exercise, error) {
	if c.err != nil {
		return nil, c.err
	}
	out := []domain.Exercise{}
	for _, id := range ids {
		if e, ok := c.byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (c *fakeCatalog) Details(ctx context.Context, ids []string) (map[string]domain.Exercise, error) {
	list, err := c.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	m := make(map[string]domain.Exercise, len(list))
	for _, e := range list {
		m[e.ID] = e
	}
	return m, nil
}

func (c *fakeCatalog) Search(_ context.Context, query string) ([]domain.Exercise, error) {
	if c.err != nil {
		return nil, c.err
	}
	out := []domain.Exercise{}
	for _, e := range c.all() {
		if containsFold(e.Name, query) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (c *fakeCatalog) Filter(_ context.Context, f repository.ExerciseFilter) ([]domain.Exercise, error) {
	if c.err != nil {
		return nil, c.err
	}
	out := []domain.Exercise{}
	for _, e := range c.all() {
		if catalog.Matches(&e, f) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (c *fakeCatalog) EquipmentTypes(context.Context) ([]string, error) {
	return []string{"barbell", "dumbbell"}, c.err
}

func (c *fakeCatalog) ClearCache() { c.cleared++ }

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// newTestFollowUps returns a started queue that retries once without delay.
func newTestFollowUps(t *testing.T) *FollowUpQueue {
	t.Helper()
	q := NewFollowUpQueue(config.FollowUpConfig{MaxAttempts: 1, Buffer: 64})
	q.Start()
	t.Cleanup(func() { _ = q.Stop(context.Background()) })
	return q
}

// drain waits until every follow-up queued so far has run.
func drain(t *testing.T, q *FollowUpQueue) {
	t.Helper()
	if _, err := q.Enqueue("barrier", func(context.Context) error { return nil }).Await(time.Second); err != nil {
		t.Fatalf("follow-up queue did not drain: %v", err)
	}
}
