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
	ErrMovementNotFound     = errors.New("movement not found")
	ErrMovementAccessDenied = errors.New("access denied to modify or delete this movement")
	ErrValidationFailed     = errors.New("validation failed")
)

type MovementService interface {
	CreateMovement(ctx context.Context, creatorID primitive.ObjectID, name string, movementType domain.MovementType, muscles []string) (*domain.Movement, error)
	GetMovement(ctx context.Context, userID, movementID primitive.ObjectID) (*domain.Movement, error)
	ListMovements(ctx context.Context, userID primitive.ObjectID) ([]domain.Movement, error)
	UpdateMovement(ctx context.Context, userID, movementID primitive.ObjectID, name string, muscles []string) (*domain.Movement, error)
	DeleteMovement(ctx context.Context, userID, movementID primitive.ObjectID) error
}

// movementService implements the MovementService interface.
type movementService struct {
	movementRepo repository.MovementRepository
}

// NewMovementService creates a new instance of movementService.
func NewMovementService(movementRepo repository.MovementRepository) MovementService {
	return &movementService{
		movementRepo: movementRepo,
	}
}

// CreateMovement adds a user owned movement to the library.
func (s *movementService) CreateMovement(ctx context.Context, creatorID primitive.ObjectID, name string, movementType domain.MovementType, muscles []string) (*domain.Movement, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidationFailed
	}
	if !movementType.Valid() {
		return nil, domain.ErrInvalidMovementType
	}
	normalized, err := domain.NormalizeMuscles(movementType, muscles)
	if err != nil {
		return nil, err
	}

	movement := &domain.Movement{
		Name:          name,
		Type:          movementType,
		MusclesWorked: normalized,
	}
	if creatorID != primitive.NilObjectID {
		movement.CreatorID = &creatorID
	}

	movementID, err := s.movementRepo.Create(ctx, movement)
	if err != nil {
		return nil, err
	}
	return s.movementRepo.GetByID(ctx, movementID)
}

// GetMovement returns a library movement or one the user created.
func (s *movementService) GetMovement(ctx context.Context, userID, movementID primitive.ObjectID) (*domain.Movement, error) {
	movement, err := s.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovementNotFound
		}
		return nil, err
	}
	if !visibleMovement(movement, userID) {
		return nil, ErrMovementNotFound
	}
	return movement, nil
}

func (s *movementService) ListMovements(ctx context.Context, userID primitive.ObjectID) ([]domain.Movement, error) {
	return s.movementRepo.ListVisible(ctx, userID)
}

// UpdateMovement renames a movement or changes its muscles. The type is
// fixed at creation, so existing exercises keep validating the same way.
func (s *movementService) UpdateMovement(ctx context.Context, userID, movementID primitive.ObjectID, name string, muscles []string) (*domain.Movement, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidationFailed
	}

	existing, err := s.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovementNotFound
		}
		return nil, err
	}
	if !existing.OwnedBy(userID) {
		return nil, ErrMovementAccessDenied
	}

	normalized, err := domain.NormalizeMuscles(existing.Type, muscles)
	if err != nil {
		return nil, err
	}
	existing.Name = name
	existing.MusclesWorked = normalized

	if err := s.movementRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovementNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteMovement removes a movement the user created.
func (s *movementService) DeleteMovement(ctx context.Context, userID, movementID primitive.ObjectID) error {
	existing, err := s.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMovementNotFound
		}
		return err
	}
	if !existing.OwnedBy(userID) {
		return ErrMovementAccessDenied
	}

	err = s.movementRepo.Delete(ctx, movementID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMovementNotFound
	}
	return err
}

func visibleMovement(m *domain.Movement, userID primitive.ObjectID) bool {
	return m.CreatorID == nil || *m.CreatorID == userID
}

// resolveMovements loads the movements referenced by exercises. With
// requireVisible set, movements private to other users count as missing.
func resolveMovements(ctx context.Context, repo repository.MovementRepository, userID primitive.ObjectID, exercises []domain.Exercise, requireVisible bool) (map[primitive.ObjectID]domain.Movement, error) {
	ids := domain.DistinctMovementIDs(exercises)
	found, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]domain.Movement, len(found))
	for _, m := range found {
		if requireVisible && !visibleMovement(&m, userID) {
			continue
		}
		byID[m.ID] = m
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, ErrMovementNotFound
		}
	}
	return byID, nil
}
