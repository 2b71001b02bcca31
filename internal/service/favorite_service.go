package service

import (
	"context"
	"errors"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrFavoriteNotFound     = errors.New("favorite not found")
	ErrFavoriteAccessDenied = errors.New("access denied to this favorite")
)

type FavoriteService interface {
	CreateFavorite(ctx context.Context, ownerID primitive.ObjectID, name string, public bool, exercises []domain.Exercise) (*domain.Favorite, error)
	GetFavorite(ctx context.Context, viewerID, favoriteID primitive.ObjectID) (*domain.Favorite, error)
	ListMyFavorites(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Favorite, error)
	// ListUserFavorites returns the public favorites of userID, or all of
	// them when the viewer is that user.
	ListUserFavorites(ctx context.Context, viewerID, userID primitive.ObjectID) ([]domain.Favorite, error)
	UpdateFavorite(ctx context.Context, ownerID, favoriteID primitive.ObjectID, name string, public bool) (*domain.Favorite, error)
	DeleteFavorite(ctx context.Context, ownerID, favoriteID primitive.ObjectID) error
}

// favoriteService implements the FavoriteService interface.
type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	movementRepo repository.MovementRepository
}

// NewFavoriteService creates a new instance of favoriteService.
func NewFavoriteService(favoriteRepo repository.FavoriteRepository, movementRepo repository.MovementRepository) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		movementRepo: movementRepo,
	}
}

// CreateFavorite inlines a snapshot of each exercise's movement and then
// validates the exercises against the snapshot types.
func (s *favoriteService) CreateFavorite(ctx context.Context, ownerID primitive.ObjectID, name string, public bool, exercises []domain.Exercise) (*domain.Favorite, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidationFailed
	}
	if len(exercises) == 0 {
		return nil, ErrNoExercises
	}

	movements, err := resolveMovements(ctx, s.movementRepo, ownerID, exercises, true)
	if err != nil {
		return nil, err
	}

	snapshotted := make([]domain.Exercise, len(exercises))
	for i, ex := range exercises {
		m := movements[ex.MovementID]
		snapshotted[i] = domain.Exercise{
			MovementID:     ex.MovementID,
			Movement:       m.Snapshot(),
			ExerciseFields: ex.ExerciseFields,
		}
	}

	typeOf := func(ex domain.Exercise) domain.MovementType { return ex.Movement.Type }
	if err := domain.ValidateExercises(snapshotted, typeOf); err != nil {
		return nil, err
	}

	favorite := &domain.Favorite{
		OwnerID:   ownerID,
		Name:      name,
		Exercises: snapshotted,
		Public:    public,
	}
	favoriteID, err := s.favoriteRepo.Create(ctx, favorite)
	if err != nil {
		return nil, err
	}
	return s.favoriteRepo.GetByID(ctx, favoriteID)
}

func (s *favoriteService) GetFavorite(ctx context.Context, viewerID, favoriteID primitive.ObjectID) (*domain.Favorite, error) {
	favorite, err := s.favoriteRepo.GetByID(ctx, favoriteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFavoriteNotFound
		}
		return nil, err
	}
	if !favorite.VisibleTo(viewerID) {
		return nil, ErrFavoriteAccessDenied
	}
	return favorite, nil
}

func (s *favoriteService) ListMyFavorites(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Favorite, error) {
	return s.favoriteRepo.ListByOwner(ctx, ownerID, false)
}

func (s *favoriteService) ListUserFavorites(ctx context.Context, viewerID, userID primitive.ObjectID) ([]domain.Favorite, error) {
	return s.favoriteRepo.ListByOwner(ctx, userID, viewerID != userID)
}

func (s *favoriteService) UpdateFavorite(ctx context.Context, ownerID, favoriteID primitive.ObjectID, name string, public bool) (*domain.Favorite, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidationFailed
	}

	existing, err := s.ownedFavorite(ctx, ownerID, favoriteID)
	if err != nil {
		return nil, err
	}
	existing.Name = name
	existing.Public = public

	if err := s.favoriteRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFavoriteNotFound
		}
		return nil, err
	}
	return s.favoriteRepo.GetByID(ctx, favoriteID)
}

func (s *favoriteService) DeleteFavorite(ctx context.Context, ownerID, favoriteID primitive.ObjectID) error {
	if _, err := s.ownedFavorite(ctx, ownerID, favoriteID); err != nil {
		return err
	}
	err := s.favoriteRepo.Delete(ctx, favoriteID, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrFavoriteNotFound
	}
	return err
}

func (s *favoriteService) ownedFavorite(ctx context.Context, ownerID, favoriteID primitive.ObjectID) (*domain.Favorite, error) {
	favorite, err := s.favoriteRepo.GetByID(ctx, favoriteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFavoriteNotFound
		}
		return nil, err
	}
	if favorite.OwnerID != ownerID {
		return nil, ErrFavoriteAccessDenied
	}
	return favorite, nil
}
