package repository

import (
	"context"
	"fittrack/fitness-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Page selects a window of a sorted list. Number starts at 1.
type Page struct {
	Number int
	Size   int
}

// Skip returns how many documents precede the page.
func (p Page) Skip() int64 {
	if p.Number < 1 {
		return 0
	}
	return int64((p.Number - 1) * p.Size)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	// SearchByUsername matches usernames against a case-insensitive regex
	// built from the literal query, excluding excludeID.
	SearchByUsername(ctx context.Context, query string, excludeID primitive.ObjectID, page Page) ([]domain.User, int64, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, bio string) error
	SetProfilePictureKey(ctx context.Context, id primitive.ObjectID, key string) error
	AddFriendRequest(ctx context.Context, toID, fromID primitive.ObjectID) error
	RemoveFriendRequest(ctx context.Context, toID, fromID primitive.ObjectID) error
	// AddFriendship links both users and clears pending requests between them.
	AddFriendship(ctx context.Context, a, b primitive.ObjectID) error
	RemoveFriendship(ctx context.Context, a, b primitive.ObjectID) error
}

// MovementRepository defines the interface for interacting with movement data.
type MovementRepository interface {
	Create(ctx context.Context, movement *domain.Movement) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Movement, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Movement, error)
	// ListVisible returns library movements plus the ones created by userID.
	ListVisible(ctx context.Context, userID primitive.ObjectID) ([]domain.Movement, error)
	Update(ctx context.Context, movement *domain.Movement) error
	Delete(ctx context.Context, id, creatorID primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	// ListByOwner returns the owner's workouts, newest day first, and the total count.
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID, page Page) ([]domain.Workout, int64, error)
	Update(ctx context.Context, workout *domain.Workout) error
	SetCompleted(ctx context.Context, id, ownerID primitive.ObjectID, completed bool) error
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
	// ExerciseEntries returns every exercise of the owner joined with its movement.
	ExerciseEntries(ctx context.Context, ownerID primitive.ObjectID) ([]domain.ExerciseEntry, error)
}

// FavoriteRepository defines the interface for interacting with favorites.
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *domain.Favorite) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Favorite, error)
	// ListByOwner returns the owner's favorites; onlyPublic hides private ones.
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID, onlyPublic bool) ([]domain.Favorite, error)
	Update(ctx context.Context, favorite *domain.Favorite) error
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
}
