package mongo

import (
	"context"
	"errors"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const movementCollectionName = "movements"

// mongoMovementRepository implements repository.MovementRepository
type mongoMovementRepository struct {
	collection *mongo.Collection
}

// NewMongoMovementRepository creates a new Movement repository backed by MongoDB.
func NewMongoMovementRepository(db *mongo.Database) repository.MovementRepository {
	return &mongoMovementRepository{
		collection: db.Collection(movementCollectionName),
	}
}

// Create inserts a new movement into the database.
func (r *mongoMovementRepository) Create(ctx context.Context, movement *domain.Movement) (primitive.ObjectID, error) {
	if movement.Name == "" || !movement.Type.Valid() {
		return primitive.NilObjectID, errors.New("movement name and a valid type are required")
	}

	movement.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	movement.CreatedAt = now
	movement.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, movement)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a movement by its ID.
func (r *mongoMovementRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Movement, error) {
	var movement domain.Movement
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&movement)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// GetByIDs retrieves the movements with the given IDs in a single query.
// Unknown IDs are silently absent from the result.
func (r *mongoMovementRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Movement, error) {
	if len(ids) == 0 {
		return []domain.Movement{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// ListVisible returns the shared library plus the user's own movements.
func (r *mongoMovementRepository) ListVisible(ctx context.Context, userID primitive.ObjectID) ([]domain.Movement, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"creatorId": bson.M{"$exists": false}},
			bson.M{"creatorId": nil},
			bson.M{"creatorId": userID},
		},
	}
	return r.find(ctx, filter)
}

func (r *mongoMovementRepository) find(ctx context.Context, filter bson.M) ([]domain.Movement, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var movements []domain.Movement
	if err = cursor.All(ctx, &movements); err != nil {
		return nil, err
	}
	return movements, nil
}

// Update modifies name and muscles of an existing movement.
// The type and the creator are never changed here.
func (r *mongoMovementRepository) Update(ctx context.Context, movement *domain.Movement) error {
	if movement.ID == primitive.NilObjectID {
		return errors.New("movement ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"name":          movement.Name,
			"musclesWorked": movement.MusclesWorked,
			"updatedAt":     time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": movement.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a movement, ensuring it belongs to the specified creator.
func (r *mongoMovementRepository) Delete(ctx context.Context, id, creatorID primitive.ObjectID) error {
	// Library movements have no creator and can never match this filter.
	filter := bson.M{
		"_id":       id,
		"creatorId": creatorID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func movementIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "creatorId", Value: 1}},
			Options: options.Index().SetSparse(true), // library movements have no creator
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
	}
}
