package service

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"simplefit/internal/domain"
	"simplefit/internal/repository"
)

// SetUpdate carries the fields of a set edit; nil fields are left unchanged.
// Completed drives the set state machine after reps and weight are staged.
type SetUpdate struct {
	Reps       *int
	Weight     *float64
	Completed  *bool
	DropSet    *bool
	FailureSet *bool
	Note       *string
}

// WorkoutDetails carries the free-form fields of a workout; nil fields are left unchanged.
type WorkoutDetails struct {
	Note   *string
	Rating *int
}

type WorkoutService interface {
	// StartWorkout materializes a fresh workout from the routine. Calling it
	// twice yields two independent workouts.
	StartWorkout(ctx context.Context, userID, routineID string) (*domain.Workout, error)
	// LogWorkout stores an ad-hoc workout that did not come from a routine.
	LogWorkout(ctx context.Context, userID string, workout *domain.Workout) (*domain.Workout, error)
	GetWorkout(ctx context.Context, userID, workoutID string) (*domain.Workout, error)
	// ListWorkouts returns the history newest first; zero bounds are open.
	ListWorkouts(ctx context.Context, userID string, from, to time.Time) ([]domain.Workout, error)
	Summary(ctx context.Context, userID, workoutID string) (domain.Summary, error)

	// Positions are 0-based indexes into the exercise and set lists.
	UpdateSet(ctx context.Context, userID, workoutID string, exercisePos, setPos int, update SetUpdate) (*domain.Workout, error)
	AddSet(ctx context.Context, userID, workoutID string, exercisePos int) (*domain.Workout, error)
	RemoveSet(ctx context.Context, userID, workoutID string, exercisePos, setPos int) (*domain.Workout, error)

	// CompleteWorkout marks the workout completed as of now. Completing again
	// recomputes duration and totals.
	CompleteWorkout(ctx context.Context, userID, workoutID string) (*domain.Workout, error)
	UpdateDetails(ctx context.Context, userID, workoutID string, details WorkoutDetails) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, userID, workoutID string) error
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	routineRepo  repository.RoutineRepository
	userRepo     repository.UserRepository
	catalog      ExerciseCatalog
	stats        StatisticsService
	followUps    *FollowUpQueue
	awaitTimeout time.Duration
	now          func() time.Time
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	routineRepo repository.RoutineRepository,
	userRepo repository.UserRepository,
	cat ExerciseCatalog,
	stats StatisticsService,
	followUps *FollowUpQueue,
	awaitTimeout time.Duration,
) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		routineRepo:  routineRepo,
		userRepo:     userRepo,
		catalog:      cat,
		stats:        stats,
		followUps:    followUps,
		awaitTimeout: awaitTimeout,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *workoutService) StartWorkout(ctx context.Context, userID, routineID string) (*domain.Workout, error) {
	if userID == "" {
		return nil, NotAuthenticated()
	}
	if routineID == "" {
		return nil, InvalidInput("routine id is required", nil)
	}

	var (
		routine  *domain.Routine
		previous *domain.Workout
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.routineRepo.GetByID(gctx, routineID)
		if err != nil {
			return translate(err, "load routine", "routine", routineID)
		}
		if r.UserID != userID {
			return NotFound("routine", routineID)
		}
		routine = r
		return nil
	})
	g.Go(func() error {
		w, err := s.workoutRepo.GetLastForRoutine(gctx, userID, routineID)
		switch {
		case err == nil:
			previous = w
		case !errors.Is(err, repository.ErrNotFound) && gctx.Err() == nil:
			log.Printf("WARN: [WorkoutService] Failed to load last workout for routine %s: %v", routineID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	shell := domain.WorkoutShell{
		UserID:      userID,
		RoutineID:   routine.ID,
		RoutineName: routine.Name,
		Date:        s.now(),
	}
	workout := domain.Materialize(routine, shell, domain.MaterializeOptions{
		Details:  s.details(ctx, routine.ExerciseIDs()),
		Previous: previous,
	})

	return s.create(ctx, workout)
}

func (s *workoutService) LogWorkout(ctx context.Context, userID string, workout *domain.Workout) (*domain.Workout, error) {
	if userID == "" {
		return nil, NotAuthenticated()
	}
	if workout == nil {
		return nil, InvalidInput("workout is required", nil)
	}
	workout.UserID = userID
	if workout.Date.IsZero() {
		workout.Date = s.now()
	}
	if err := workout.SetRating(workout.Rating); err != nil {
		return nil, InvalidInput(err.Error(), nil)
	}

	// Completed sets keep a logged timestamp; the state machine fills in or clears the rest.
	now := s.now()
	for i := range workout.Exercises {
		ex := &workout.Exercises[i]
		ex.Order = i
		for j := range ex.Sets {
			set := &ex.Sets[j]
			if set.Reps < 0 || set.TargetReps < 0 {
				return nil, InvalidInput(domain.ErrNegativeReps.Error(), nil)
			}
			if set.Weight < 0 {
				return nil, InvalidInput(domain.ErrNegativeWeight.Error(), nil)
			}
			set.SetNumber = j + 1
			set.SetCompleted(set.Completed, now)
		}
		ex.UpdateCompletionStatus()
	}

	details := s.details(ctx, workout.ExerciseIDs())
	workout.MuscleGroupsWorked = []string{}
	for i := range workout.Exercises {
		ex := &workout.Exercises[i]
		d, ok := details[ex.ExerciseID]
		if !ok {
			continue
		}
		if ex.ExerciseName == "" {
			ex.ExerciseName = d.Name
		}
		for _, g := range d.TargetMuscleGroups() {
			workout.AddMuscleGroupWorked(g)
		}
	}
	workout.CalculateTotals()

	return s.create(ctx, workout)
}

// create stores a new workout and queues its history and statistics updates.
func (s *workoutService) create(ctx context.Context, workout *domain.Workout) (*domain.Workout, error) {
	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		log.Printf("ERROR: [WorkoutService] Failed to create workout for user %s: %v", workout.UserID, err)
		return nil, translate(err, "create workout", "workout", "")
	}

	userID, workoutID := workout.UserID, workout.ID
	s.followUps.Enqueue("add workout "+workoutID+" to history", func(ctx context.Context) error {
		return s.userRepo.AddWorkoutToHistory(ctx, userID, workoutID)
	})
	s.stats.ApplyDelta(userID, nil, workout)
	return workout, nil
}

func (s *workoutService) GetWorkout(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	if userID == "" {
		return nil, NotAuthenticated()
	}
	if workoutID == "" {
		return nil, InvalidInput("workout id is required", nil)
	}
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, translate(err, "load workout", "workout", workoutID)
	}
	if workout.UserID != userID {
		return nil, NotFound("workout", workoutID)
	}
	return workout, nil
}

func (s *workoutService) ListWorkouts(ctx context.Context, userID string, from, to time.Time) ([]domain.Workout, error) {
	if userID == "" {
		return nil, NotAuthenticated()
	}
	var (
		workouts []domain.Workout
		err      error
	)
	if from.IsZero() && to.IsZero() {
		workouts, err = s.workoutRepo.GetByUserID(ctx, userID)
	} else {
		if to.IsZero() {
			to = s.now()
		}
		if from.After(to) {
			return nil, InvalidInput("from must not be after to", nil)
		}
		workouts, err = s.workoutRepo.GetInDateRange(ctx, userID, from, to)
	}
	if err != nil {
		return nil, RemoteFailure("list workouts", err)
	}
	return workouts, nil
}

func (s *workoutService) Summary(ctx context.Context, userID, workoutID string) (domain.Summary, error) {
	workout, err := s.GetWorkout(ctx, userID, workoutID)
	if err != nil {
		return domain.Summary{}, err
	}
	return workout.Summarize(), nil
}

func (s *workoutService) UpdateSet(ctx context.Context, userID, workoutID string, exercisePos, setPos int, update SetUpdate) (*domain.Workout, error) {
	workout, _, err := s.mutate(ctx, userID, workoutID, func(w *domain.Workout) error {
		ex, err := w.Exercise(exercisePos)
		if err != nil {
			return err
		}
		set, err := ex.Set(setPos)
		if err != nil {
			return err
		}
		if update.Reps != nil && *update.Reps < 0 {
			return domain.ErrNegativeReps
		}
		if update.Weight != nil && *update.Weight < 0 {
			return domain.ErrNegativeWeight
		}

		if update.Reps != nil {
			set.Reps = *update.Reps
		}
		if update.Weight != nil {
			set.Weight = *update.Weight
		}
		if update.DropSet != nil {
			set.DropSet = *update.DropSet
		}
		if update.FailureSet != nil {
			set.FailureSet = *update.FailureSet
		}
		if update.Note != nil {
			set.Note = *update.Note
		}
		if update.Completed != nil {
			set.SetCompleted(*update.Completed, s.now())
		}
		ex.UpdateCompletionStatus()
		return nil
	})
	return workout, err
}

func (s *workoutService) AddSet(ctx context.Context, userID, workoutID string, exercisePos int) (*domain.Workout, error) {
	workout, _, err := s.mutate(ctx, userID, workoutID, func(w *domain.Workout) error {
		ex, err := w.Exercise(exercisePos)
		if err != nil {
			return err
		}
		ex.AddEmptySet()
		return nil
	})
	return workout, err
}

func (s *workoutService) RemoveSet(ctx context.Context, userID, workoutID string, exercisePos, setPos int) (*domain.Workout, error) {
	workout, _, err := s.mutate(ctx, userID, workoutID, func(w *domain.Workout) error {
		ex, err := w.Exercise(exercisePos)
		if err != nil {
			return err
		}
		_, err = ex.RemoveSet(setPos)
		return err
	})
	return workout, err
}

func (s *workoutService) CompleteWorkout(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	workout, before, err := s.mutate(ctx, userID, workoutID, func(w *domain.Workout) error {
		w.MarkCompleted(s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !before.Completed && workout.RoutineID != "" {
		routineID := workout.RoutineID
		s.followUps.Enqueue("count completion of routine "+routineID, func(ctx context.Context) error {
			return s.routineRepo.IncrementTimesCompleted(ctx, routineID, 1)
		})
	}
	log.Printf("INFO: [WorkoutService] Workout %s completed: %d sets, %.1f volume, %d min",
		workout.ID, workout.CompletedSetsCount(), workout.TotalVolume, workout.DurationMinutes)
	return workout, nil
}

func (s *workoutService) UpdateDetails(ctx context.Context, userID, workoutID string, details WorkoutDetails) (*domain.Workout, error) {
	workout, _, err := s.mutate(ctx, userID, workoutID, func(w *domain.Workout) error {
		if details.Rating != nil {
			if err := w.SetRating(*details.Rating); err != nil {
				return err
			}
		}
		if details.Note != nil {
			w.Note = *details.Note
		}
		return nil
	})
	return workout, err
}

// DeleteWorkout removes the workout, its history entry and its statistics
// contribution. The source routine is left untouched.
func (s *workoutService) DeleteWorkout(ctx context.Context, userID, workoutID string) error {
	workout, err := s.GetWorkout(ctx, userID, workoutID)
	if err != nil {
		return err
	}
	if err := s.workoutRepo.Delete(ctx, workoutID, userID); err != nil {
		return translate(err, "delete workout", "workout", workoutID)
	}

	s.followUps.Enqueue("remove workout "+workoutID+" from history", func(ctx context.Context) error {
		return s.userRepo.RemoveWorkoutFromHistory(ctx, userID, workoutID)
	})
	s.stats.ApplyDelta(userID, workout, nil)
	return nil
}

// mutate loads a workout, applies fn, refreshes totals, stores the result and
// queues the statistics delta. It returns the stored workout and a copy of
// the workout as it was before fn ran.
func (s *workoutService) mutate(ctx context.Context, userID, workoutID string, fn func(*domain.Workout) error) (*domain.Workout, *domain.Workout, error) {
	workout, err := s.GetWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, nil, err
	}
	before := workout.Clone()

	if err := fn(workout); err != nil {
		return nil, nil, translate(err, "update workout", "workout", workoutID)
	}
	workout.CalculateTotals()

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		log.Printf("ERROR: [WorkoutService] Failed to update workout %s: %v", workoutID, err)
		return nil, nil, translate(err, "update workout", "workout", workoutID)
	}
	s.stats.ApplyDelta(userID, before, workout)
	return workout, before, nil
}

// details decorates workouts with catalog data. Names and muscle groups are
// cosmetic, so a catalog failure degrades to an empty map.
func (s *workoutService) details(ctx context.Context, ids []string) map[string]domain.Exercise {
	if len(ids) == 0 {
		return map[string]domain.Exercise{}
	}
	details, err := awaitResult(ctx, s.awaitTimeout, "load exercises", "exercises", "", func(ctx context.Context) (map[string]domain.Exercise, error) {
		return s.catalog.Details(ctx, ids)
	})
	if err != nil {
		log.Printf("WARN: [WorkoutService] Failed to load exercise details: %v", err)
		return map[string]domain.Exercise{}
	}
	return details
}
