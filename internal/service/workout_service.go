package service

import (
	"context"
	"errors"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound     = errors.New("workout not found")
	ErrWorkoutAccessDenied = errors.New("access denied to this workout")
	ErrNoExercises         = errors.New("a workout needs at least one exercise")
	ErrUserNotFound        = errors.New("user not found")
)

type WorkoutService interface {
	CreateWorkout(ctx context.Context, ownerID primitive.ObjectID, day time.Time, completed bool, exercises []domain.Exercise) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, ownerID, workoutID primitive.ObjectID, day time.Time, completed bool, exercises []domain.Exercise) (*domain.Workout, error)
	GetWorkout(ctx context.Context, viewerID, workoutID primitive.ObjectID) (*domain.Workout, error)
	ListWorkouts(ctx context.Context, viewerID, ownerID primitive.ObjectID, page int) (*PageResult[domain.Workout], error)
	SetCompleted(ctx context.Context, ownerID, workoutID primitive.ObjectID, completed bool) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, ownerID, workoutID primitive.ObjectID) error
	StartFromFavorite(ctx context.Context, ownerID, favoriteID primitive.ObjectID, day time.Time) (*domain.Workout, error)
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	movementRepo repository.MovementRepository
	favoriteRepo repository.FavoriteRepository
	userRepo     repository.UserRepository
	pageSize     int
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	movementRepo repository.MovementRepository,
	favoriteRepo repository.FavoriteRepository,
	userRepo repository.UserRepository,
	pageSize int,
) WorkoutService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &workoutService{
		workoutRepo:  workoutRepo,
		movementRepo: movementRepo,
		favoriteRepo: favoriteRepo,
		userRepo:     userRepo,
		pageSize:     pageSize,
	}
}

// CreateWorkout validates every exercise against its movement type and
// stores the workout only when all of them pass.
func (s *workoutService) CreateWorkout(ctx context.Context, ownerID primitive.ObjectID, day time.Time, completed bool, exercises []domain.Exercise) (*domain.Workout, error) {
	exercises, err := s.prepareExercises(ctx, ownerID, exercises, true)
	if err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		OwnerID:   ownerID,
		Day:       domain.TruncateDay(day),
		Exercises: exercises,
		Completed: completed,
	}
	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	log.Debugf("created workout [%s] for user [%s] with %d exercises", workoutID.Hex(), ownerID.Hex(), len(exercises))
	return s.workoutRepo.GetByID(ctx, workoutID)
}

// UpdateWorkout replaces day, completion and exercises of an owned workout.
func (s *workoutService) UpdateWorkout(ctx context.Context, ownerID, workoutID primitive.ObjectID, day time.Time, completed bool, exercises []domain.Exercise) (*domain.Workout, error) {
	existing, err := s.ownedWorkout(ctx, ownerID, workoutID)
	if err != nil {
		return nil, err
	}

	exercises, err = s.prepareExercises(ctx, ownerID, exercises, true)
	if err != nil {
		return nil, err
	}

	existing.Day = domain.TruncateDay(day)
	existing.Completed = completed
	existing.Exercises = exercises
	if err := s.workoutRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return s.workoutRepo.GetByID(ctx, workoutID)
}

// GetWorkout returns a workout to its owner or one of the owner's friends.
func (s *workoutService) GetWorkout(ctx context.Context, viewerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.OwnerID == viewerID {
		return workout, nil
	}
	if err := s.checkCanView(ctx, viewerID, workout.OwnerID); err != nil {
		return nil, err
	}
	return workout, nil
}

// ListWorkouts pages through ownerID's workouts, newest day first.
func (s *workoutService) ListWorkouts(ctx context.Context, viewerID, ownerID primitive.ObjectID, page int) (*PageResult[domain.Workout], error) {
	if viewerID != ownerID {
		if err := s.checkCanView(ctx, viewerID, ownerID); err != nil {
			return nil, err
		}
	}

	p := normalizePage(page, s.pageSize)
	workouts, total, err := s.workoutRepo.ListByOwner(ctx, ownerID, p)
	if err != nil {
		return nil, err
	}
	return newPageResult(workouts, p, total), nil
}

func (s *workoutService) SetCompleted(ctx context.Context, ownerID, workoutID primitive.ObjectID, completed bool) (*domain.Workout, error) {
	if _, err := s.ownedWorkout(ctx, ownerID, workoutID); err != nil {
		return nil, err
	}
	if err := s.workoutRepo.SetCompleted(ctx, workoutID, ownerID, completed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return s.workoutRepo.GetByID(ctx, workoutID)
}

func (s *workoutService) DeleteWorkout(ctx context.Context, ownerID, workoutID primitive.ObjectID) error {
	if _, err := s.ownedWorkout(ctx, ownerID, workoutID); err != nil {
		return err
	}
	err := s.workoutRepo.Delete(ctx, workoutID, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return err
}

// StartFromFavorite copies a visible favorite's exercises into a new
// workout on day. Each copy is validated against the movement type inlined
// in the favorite, so it keeps working after the movement changes or is
// deleted. Exercises saved without a snapshot fall back to the live movement.
func (s *workoutService) StartFromFavorite(ctx context.Context, ownerID, favoriteID primitive.ObjectID, day time.Time) (*domain.Workout, error) {
	favorite, err := s.favoriteRepo.GetByID(ctx, favoriteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFavoriteNotFound
		}
		return nil, err
	}
	if !favorite.VisibleTo(ownerID) {
		return nil, ErrFavoriteAccessDenied
	}
	if len(favorite.Exercises) == 0 {
		return nil, ErrNoExercises
	}

	types := make(map[primitive.ObjectID]domain.MovementType, len(favorite.Exercises))
	var unresolved []domain.Exercise
	for _, ex := range favorite.Exercises {
		if ex.Movement != nil {
			types[ex.MovementID] = ex.Movement.Type
			continue
		}
		unresolved = append(unresolved, ex)
	}
	if len(unresolved) > 0 {
		// A public favorite may reference movements private to its owner.
		movements, err := resolveMovements(ctx, s.movementRepo, ownerID, unresolved, false)
		if err != nil {
			return nil, err
		}
		for id, m := range movements {
			types[id] = m.Type
		}
	}

	exercises := make([]domain.Exercise, len(favorite.Exercises))
	for i, ex := range favorite.Exercises {
		exercises[i] = domain.Exercise{
			MovementID:     ex.MovementID,
			ExerciseFields: ex.ExerciseFields,
		}
	}
	typeOf := func(ex domain.Exercise) domain.MovementType {
		return types[ex.MovementID]
	}
	if err := domain.ValidateExercises(exercises, typeOf); err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		OwnerID:   ownerID,
		Day:       domain.TruncateDay(day),
		Exercises: exercises,
	}
	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	log.Debugf("started workout [%s] from favorite [%s]", workoutID.Hex(), favoriteID.Hex())
	return s.workoutRepo.GetByID(ctx, workoutID)
}

// prepareExercises resolves movement types and validates the whole list.
// Nothing is written by callers unless it returns nil.
func (s *workoutService) prepareExercises(ctx context.Context, userID primitive.ObjectID, exercises []domain.Exercise, requireVisible bool) ([]domain.Exercise, error) {
	if len(exercises) == 0 {
		return nil, ErrNoExercises
	}
	movements, err := resolveMovements(ctx, s.movementRepo, userID, exercises, requireVisible)
	if err != nil {
		return nil, err
	}

	typeOf := func(ex domain.Exercise) domain.MovementType {
		return movements[ex.MovementID].Type
	}
	if err := domain.ValidateExercises(exercises, typeOf); err != nil {
		return nil, err
	}

	// Workouts reference movements by id only.
	out := make([]domain.Exercise, len(exercises))
	for i, ex := range exercises {
		out[i] = domain.Exercise{MovementID: ex.MovementID, ExerciseFields: ex.ExerciseFields}
	}
	return out, nil
}

func (s *workoutService) ownedWorkout(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.OwnerID != ownerID {
		return nil, ErrWorkoutAccessDenied
	}
	return workout, nil
}

func (s *workoutService) checkCanView(ctx context.Context, viewerID, ownerID primitive.ObjectID) error {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !owner.CanView(viewerID) {
		return ErrWorkoutAccessDenied
	}
	return nil
}
