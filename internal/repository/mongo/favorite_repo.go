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

const favoriteCollectionName = "favorites"

// mongoFavoriteRepository implements repository.FavoriteRepository
type mongoFavoriteRepository struct {
	collection *mongo.Collection
}

// NewMongoFavoriteRepository creates a new Favorite repository backed by MongoDB.
func NewMongoFavoriteRepository(db *mongo.Database) repository.FavoriteRepository {
	return &mongoFavoriteRepository{
		collection: db.Collection(favoriteCollectionName),
	}
}

func (r *mongoFavoriteRepository) Create(ctx context.Context, favorite *domain.Favorite) (primitive.ObjectID, error) {
	if favorite.OwnerID == primitive.NilObjectID || favorite.Name == "" {
		return primitive.NilObjectID, errors.New("favorite requires ownerId and name")
	}

	favorite.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	favorite.CreatedAt = now
	favorite.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, favorite)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted favorite ID")
	}
	return insertedID, nil
}

func (r *mongoFavoriteRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Favorite, error) {
	var favorite domain.Favorite
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&favorite)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &favorite, nil
}

// ListByOwner retrieves the owner's favorites sorted by name.
func (r *mongoFavoriteRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID, onlyPublic bool) ([]domain.Favorite, error) {
	filter := bson.M{"ownerId": ownerID}
	if onlyPublic {
		filter["public"] = true
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var favorites []domain.Favorite
	if err = cursor.All(ctx, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// Update changes name and visibility. Exercises of a favorite are fixed at
// creation time.
func (r *mongoFavoriteRepository) Update(ctx context.Context, favorite *domain.Favorite) error {
	if favorite.ID == primitive.NilObjectID {
		return errors.New("favorite ID is required for update")
	}

	filter := bson.M{"_id": favorite.ID, "ownerId": favorite.OwnerID}
	updateDoc := bson.M{
		"$set": bson.M{
			"name":      favorite.Name,
			"public":    favorite.Public,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoFavoriteRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func favoriteIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "public", Value: 1}},
			Options: options.Index(),
		},
	}
}
