package service

import (
	"context"
	"log"
	"time"

	"simplefit/internal/domain"
	"simplefit/internal/repository"
)

// RoutineFilter narrows ListRoutines. At most one field is honoured; MuscleGroup wins.
type RoutineFilter struct {
	MuscleGroup string
	Difficulty  domain.Difficulty
}

type RoutineService interface {
	CreateRoutine(ctx context.Context, userID string, routine *domain.Routine) (*domain.Routine, error)
	GetRoutine(ctx context.Context, userID, routineID string) (*domain.Routine, error)
	ListRoutines(ctx context.Context, userID string, filter RoutineFilter) ([]domain.Routine, error)
	// UpdateRoutine replaces the editable fields; the completion counter is kept.
	UpdateRoutine(ctx context.Context, userID string, routine *domain.Routine) (*domain.Routine, error)
	DeleteRoutine(ctx context.Context, userID, routineID string) error
	// CopyRoutine duplicates a routine under a new name ("<name> (Copy)" when empty).
	CopyRoutine(ctx context.Context, userID, routineID, name string) (*domain.Routine, error)
	// AddExercises appends catalog exercises to the end of a routine.
	AddExercises(ctx context.Context, userID, routineID string, exercises []domain.RoutineExercise) (*domain.Routine, error)
	// RemoveExercise drops the exercise at the 0-based position.
	RemoveExercise(ctx context.Context, userID, routineID string, position int) (*domain.Routine, error)
	// MoveExercise reorders one exercise from one position to another.
	MoveExercise(ctx context.Context, userID, routineID string, from, to int) (*domain.Routine, error)
	// UpdateExercise replaces the plan for the exercise at position.
	UpdateExercise(ctx context.Context, userID, routineID string, position int, exercise domain.RoutineExercise) (*domain.Routine, error)
}

// routineService implements the RoutineService interface.
type routineService struct {
	routineRepo  repository.RoutineRepository
	userRepo     repository.UserRepository
	catalog      ExerciseCatalog
	followUps    *FollowUpQueue
	awaitTimeout time.Duration
}

// NewRoutineService creates a new instance of routineService.
func NewRoutineService(
	routineRepo repository.RoutineRepository,
	userRepo repository.UserRepository,
	cat ExerciseCatalog,
	followUps *FollowUpQueue,
	awaitTimeout time.Duration,
) RoutineService {
	return &routineService{
		routineRepo:  routineRepo,
		userRepo:     userRepo,
		catalog:      cat,
		followUps:    followUps,
		awaitTimeout: awaitTimeout,
	}
}

func (s *routineService) CreateRoutine(ctx context.Context, userID string, routine *domain.Routine) (*domain.Routine, error) {
	if userID == "" {
		return nil, NotAuthenticated()
	}
	if routine == nil {
		return nil, InvalidInput("routine is required", nil)
	}
	routine.UserID = userID
	routine.TimesCompleted = 0
	for i := range routine.Exercises {
		routine.Exercises[i].Order = i
		if routine.Exercises[i].RestSeconds == 0 {
			routine.Exercises[i].RestSeconds = domain.DefaultRestSeconds
		}
	}
	if err := routine.Validate(); err != nil {
		return nil, InvalidInput(err.Error(), nil)
	}
	s.refreshMuscleGroups(ctx, routine)

	if _, err := s.routineRepo.Create(ctx, routine); err != nil {
		log.Printf("ERROR: [RoutineService] Failed to create routine for user %s: %v", userID, err)
		return nil, RemoteFailure("create routine", err)
	}

	routineID := routine.ID
	s.followUps.Enqueue("link routine "+routineID, func(ctx context.Context) error {
		return s.userRepo.AddRoutine(ctx, userID, routineID)
	})
	return routine, nil
}

// GetRoutine hides routines owned by someone else behind a not-found error.
func (s *routineService) GetRoutine(ctx context.Context, userID, routineID string) (*domain.Routine, error) {
	if userID == "" {
		return nil, NotAuthenticated()
	}
	if routineID == "" {
		return nil, InvalidInput("routine id is required", nil)
	}
	routine, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		return nil, translate(err, "load routine", "routine", routineID)
	}
	if routine.UserID != userID {
		return nil, NotFound("routine", routineID)
	}
	return routine, nil
}

func (s *routineService) ListRoutines(ctx context.Context, userID string, filter RoutineFilter) ([]domain.Routine, error) {
	if userID == "" {
		return nil, NotAuthenticated()
	}
	var (
		routines []domain.Routine
		err      error
	)
	switch {
	case filter.MuscleGroup != "":
		routines, err = s.routineRepo.GetByMuscleGroup(ctx, userID, filter.MuscleGroup)
	case filter.Difficulty != "":
		if !filter.Difficulty.Valid() {
			return nil, InvalidInput(domain.ErrInvalidDifficulty.Error(), nil)
		}
		routines, err = s.routineRepo.GetByDifficulty(ctx, userID, filter.Difficulty)
	default:
		routines, err = s.routineRepo.GetByUserID(ctx, userID)
	}
	if err != nil {
		return nil, RemoteFailure("list routines", err)
	}
	return routines, nil
}

func (s *routineService) UpdateRoutine(ctx context.Context, userID string, routine *domain.Routine) (*domain.Routine, error) {
	if routine == nil {
		return nil, InvalidInput("routine is required", nil)
	}
	existing, err := s.GetRoutine(ctx, userID, routine.ID)
	if err != nil {
		return nil, err
	}

	existing.Name = routine.Name
	existing.Description = routine.Description
	existing.Difficulty = routine.Difficulty
	existing.EstimatedDuration = routine.EstimatedDuration
	existing.TargetMuscleGroup = routine.TargetMuscleGroup
	existing.Category = routine.Category
	existing.Exercises = append([]domain.RoutineExercise{}, routine.Exercises...)
	for i := range existing.Exercises {
		existing.Exercises[i].Order = i
	}
	if err := existing.Validate(); err != nil {
		return nil, InvalidInput(err.Error(), nil)
	}
	s.refreshMuscleGroups(ctx, existing)

	if err := s.routineRepo.Update(ctx, existing); err != nil {
		return nil, translate(err, "update routine", "routine", existing.ID)
	}
	return existing, nil
}

func (s *routineService) DeleteRoutine(ctx context.Context, userID, routineID string) error {
	if userID == "" {
		return NotAuthenticated()
	}
	if err := s.routineRepo.Delete(ctx, routineID, userID); err != nil {
		return translate(err, "delete routine", "routine", routineID)
	}
	s.followUps.Enqueue("unlink routine "+routineID, func(ctx context.Context) error {
		return s.userRepo.RemoveRoutine(ctx, userID, routineID)
	})
	return nil
}

func (s *routineService) CopyRoutine(ctx context.Context, userID, routineID, name string) (*domain.Routine, error) {
	source, err := s.GetRoutine(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}
	return s.CreateRoutine(ctx, userID, source.Copy(userID, name))
}

func (s *routineService) AddExercises(ctx context.Context, userID, routineID string, exercises []domain.RoutineExercise) (*domain.Routine, error) {
	if len(exercises) == 0 {
		return nil, InvalidInput("at least one exercise is required", nil)
	}
	routine, err := s.GetRoutine(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(exercises))
	for i := range exercises {
		if err := exercises[i].Validate(); err != nil {
			return nil, InvalidInput(err.Error(), nil)
		}
		ids = append(ids, exercises[i].ExerciseID)
	}
	if err := s.requireExercises(ctx, ids); err != nil {
		return nil, err
	}

	for _, ex := range exercises {
		if ex.RestSeconds == 0 {
			ex.RestSeconds = domain.DefaultRestSeconds
		}
		routine.AddExercise(ex)
	}
	s.refreshMuscleGroups(ctx, routine)

	if err := s.routineRepo.Update(ctx, routine); err != nil {
		return nil, translate(err, "update routine", "routine", routine.ID)
	}
	return routine, nil
}

func (s *routineService) RemoveExercise(ctx context.Context, userID, routineID string, position int) (*domain.Routine, error) {
	return s.editExercises(ctx, userID, routineID, func(r *domain.Routine) error {
		_, err := r.RemoveExercise(position)
		return err
	})
}

func (s *routineService) MoveExercise(ctx context.Context, userID, routineID string, from, to int) (*domain.Routine, error) {
	return s.editExercises(ctx, userID, routineID, func(r *domain.Routine) error {
		return r.MoveExercise(from, to)
	})
}

func (s *routineService) UpdateExercise(ctx context.Context, userID, routineID string, position int, exercise domain.RoutineExercise) (*domain.Routine, error) {
	if err := exercise.Validate(); err != nil {
		return nil, InvalidInput(err.Error(), nil)
	}
	if exercise.RestSeconds == 0 {
		exercise.RestSeconds = domain.DefaultRestSeconds
	}
	return s.editExercises(ctx, userID, routineID, func(r *domain.Routine) error {
		if position >= 0 && position < len(r.Exercises) && r.Exercises[position].ExerciseID != exercise.ExerciseID {
			if err := s.requireExercises(ctx, []string{exercise.ExerciseID}); err != nil {
				return err
			}
		}
		return r.UpdateExercise(position, exercise)
	})
}

// editExercises loads the caller's routine, applies edit to its exercise list
// and stores the result with refreshed muscle groups.
func (s *routineService) editExercises(ctx context.Context, userID, routineID string, edit func(*domain.Routine) error) (*domain.Routine, error) {
	routine, err := s.GetRoutine(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}
	if err := edit(routine); err != nil {
		return nil, translate(err, "edit routine", "routine", routineID)
	}
	s.refreshMuscleGroups(ctx, routine)

	if err := s.routineRepo.Update(ctx, routine); err != nil {
		return nil, translate(err, "update routine", "routine", routine.ID)
	}
	return routine, nil
}

// requireExercises fails with not-found for the first id missing from the catalog.
func (s *routineService) requireExercises(ctx context.Context, ids []string) error {
	details, err := awaitResult(ctx, s.awaitTimeout, "load exercises", "exercises", "", func(ctx context.Context) (map[string]domain.Exercise, error) {
		return s.catalog.Details(ctx, ids)
	})
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := details[id]; !ok {
			return NotFound("exercise", id)
		}
	}
	return nil
}

// refreshMuscleGroups resolves catalog details for the routine's exercises.
// A catalog failure leaves only the per-exercise overrides in the list.
func (s *routineService) refreshMuscleGroups(ctx context.Context, routine *domain.Routine) {
	details, err := awaitResult(ctx, s.awaitTimeout, "load exercises", "exercises", "", func(ctx context.Context) (map[string]domain.Exercise, error) {
		return s.catalog.Details(ctx, routine.ExerciseIDs())
	})
	if err != nil {
		log.Printf("WARN: [RoutineService] Failed to load exercise details for routine %q: %v", routine.Name, err)
	}
	routine.RefreshMuscleGroups(details)
}
