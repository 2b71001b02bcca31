package mongo

import (
	"context"
	"errors"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user into the database.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.Username == "" || user.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("user email, username and password hash are required")
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		// Email and username carry unique indexes
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by their MongoDB ObjectID.
func (r *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail retrieves a user by their email address.
func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// GetByIDs retrieves every user whose ID is in ids, sorted by username.
func (r *mongoUserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	filter := bson.M{"_id": bson.M{"$in": ids}}
	findOptions := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []domain.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SearchByUsername finds users whose username contains query, ignoring case.
// The query is matched literally; regex metacharacters are escaped.
func (r *mongoUserRepository) SearchByUsername(ctx context.Context, query string, excludeID primitive.ObjectID, page repository.Page) ([]domain.User, int64, error) {
	filter := bson.M{
		"username": bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}},
		"_id":      bson.M{"$ne": excludeID},
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "username", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Size))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []domain.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *mongoUserRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	// ModifiedCount can be 0 when $addToSet/$pull had nothing to do, which is fine.
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, bio string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"bio": bio, "updatedAt": time.Now().UTC()},
	})
}

func (r *mongoUserRepository) SetProfilePictureKey(ctx context.Context, id primitive.ObjectID, key string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"profilePictureKey": key, "updatedAt": time.Now().UTC()},
	})
}

// AddFriendRequest records a pending request from fromID on toID's document.
func (r *mongoUserRepository) AddFriendRequest(ctx context.Context, toID, fromID primitive.ObjectID) error {
	return r.updateOne(ctx, toID, bson.M{
		"$addToSet": bson.M{"friendRequests": fromID}, // $addToSet prevents duplicates
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoUserRepository) RemoveFriendRequest(ctx context.Context, toID, fromID primitive.ObjectID) error {
	return r.updateOne(ctx, toID, bson.M{
		"$pull": bson.M{"friendRequests": fromID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

// AddFriendship links a and b in both directions and drops any pending
// request between them.
func (r *mongoUserRepository) AddFriendship(ctx context.Context, a, b primitive.ObjectID) error {
	for _, pair := range [][2]primitive.ObjectID{{a, b}, {b, a}} {
		err := r.updateOne(ctx, pair[0], bson.M{
			"$addToSet": bson.M{"friends": pair[1]},
			"$pull":     bson.M{"friendRequests": pair[1]},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *mongoUserRepository) RemoveFriendship(ctx context.Context, a, b primitive.ObjectID) error {
	for _, pair := range [][2]primitive.ObjectID{{a, b}, {b, a}} {
		err := r.updateOne(ctx, pair[0], bson.M{
			"$pull": bson.M{"friends": pair[1]},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}
