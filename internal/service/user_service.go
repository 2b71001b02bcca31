package service

import (
	"context"
	"errors"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"
	"fittrack/fitness-app/internal/stats"
	"fittrack/fitness-app/internal/storage"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSelfFriendRequest     = errors.New("you cannot send a friend request to yourself")
	ErrAlreadyFriends        = errors.New("you are already friends with this user")
	ErrFriendRequestExists   = errors.New("friend request already sent")
	ErrFriendRequestNotFound = errors.New("friend request not found")
	ErrNotFriends            = errors.New("you are not friends with this user")
	ErrUnsupportedImageType  = errors.New("profile pictures must be images")
	ErrInvalidObjectKey      = errors.New("object key does not belong to this user")
	ErrUploadNotFound        = errors.New("uploaded object not found")
	ErrNoProfilePicture      = errors.New("user has no profile picture")
	ErrUploadURLError        = errors.New("failed to generate upload URL")
	ErrDownloadURLError      = errors.New("failed to generate download URL")
)

const profilePicturePrefix = "profile-pictures"

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // The key client needs to report back on confirm
}

// Profile is a user as seen by a viewer. Volume is only filled in for the
// user themself and their friends, and stays nil without any history.
type Profile struct {
	User            *domain.User           `json:"user"`
	IsSelf          bool                   `json:"isSelf"`
	IsFriend        bool                   `json:"isFriend"`
	RequestSent     bool                   `json:"requestSent"`     // viewer asked the user
	RequestReceived bool                   `json:"requestReceived"` // user asked the viewer
	CanViewDetails  bool                   `json:"canViewDetails"`
	Volume          *stats.VolumeAggregate `json:"volume,omitempty"`
}

type UserService interface {
	GetProfile(ctx context.Context, viewerID, userID primitive.ObjectID) (*Profile, error)
	UpdateBio(ctx context.Context, userID primitive.ObjectID, bio string) (*domain.User, error)
	SearchUsers(ctx context.Context, viewerID primitive.ObjectID, query string, page int) (*PageResult[domain.User], error)

	// Friendships
	SendFriendRequest(ctx context.Context, fromID, toID primitive.ObjectID) error
	ListFriendRequests(ctx context.Context, userID primitive.ObjectID) ([]domain.User, error)
	AcceptFriendRequest(ctx context.Context, userID, fromID primitive.ObjectID) error
	DeclineFriendRequest(ctx context.Context, userID, fromID primitive.ObjectID) error
	RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	ListFriends(ctx context.Context, userID primitive.ObjectID) ([]domain.User, error)

	// Profile picture upload
	RequestProfilePictureUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmProfilePicture(ctx context.Context, userID primitive.ObjectID, objectKey string) (*domain.User, error)
	ProfilePictureURL(ctx context.Context, userID primitive.ObjectID) (string, error)
}

// userService implements the UserService interface.
type userService struct {
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutRepository
	fileStorage storage.FileStorage
	pageSize    int
}

// NewUserService creates a new instance of userService.
func NewUserService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	fileStorage storage.FileStorage,
	pageSize int,
) UserService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &userService{
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
		fileStorage: fileStorage,
		pageSize:    pageSize,
	}
}

func (s *userService) getUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// GetProfile builds the profile page data, including the volume breakdown
// when the viewer is allowed to see it.
func (s *userService) GetProfile(ctx context.Context, viewerID, userID primitive.ObjectID) (*Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		User:           user,
		IsSelf:         viewerID == userID,
		IsFriend:       user.IsFriend(viewerID),
		RequestSent:    user.HasRequestFrom(viewerID),
		CanViewDetails: user.CanView(viewerID),
	}
	if !profile.IsSelf {
		viewer, err := s.getUser(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		profile.RequestReceived = viewer.HasRequestFrom(userID)
		stripPrivate(user)
	}

	if profile.CanViewDetails {
		entries, err := s.workoutRepo.ExerciseEntries(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load exercise history: %w", err)
		}
		profile.Volume = stats.Aggregate(entries)
	}
	return profile, nil
}

func (s *userService) UpdateBio(ctx context.Context, userID primitive.ObjectID, bio string) (*domain.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, strings.TrimSpace(bio)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.getUser(ctx, userID)
}

// SearchUsers matches usernames containing query, ignoring case. The query
// is taken literally, never as a pattern.
func (s *userService) SearchUsers(ctx context.Context, viewerID primitive.ObjectID, query string, page int) (*PageResult[domain.User], error) {
	query = strings.TrimSpace(query)
	p := normalizePage(page, s.pageSize)
	if query == "" {
		return newPageResult([]domain.User{}, p, 0), nil
	}

	users, total, err := s.userRepo.SearchByUsername(ctx, query, viewerID, p)
	if err != nil {
		return nil, err
	}
	for i := range users {
		stripPrivate(&users[i])
	}
	return newPageResult(users, p, total), nil
}

// SendFriendRequest records a pending request on the target user. When the
// target already asked the sender, the two become friends right away.
func (s *userService) SendFriendRequest(ctx context.Context, fromID, toID primitive.ObjectID) error {
	if fromID == toID {
		return ErrSelfFriendRequest
	}
	target, err := s.getUser(ctx, toID)
	if err != nil {
		return err
	}
	if target.IsFriend(fromID) {
		return ErrAlreadyFriends
	}
	if target.HasRequestFrom(fromID) {
		return ErrFriendRequestExists
	}

	sender, err := s.getUser(ctx, fromID)
	if err != nil {
		return err
	}
	if sender.HasRequestFrom(toID) {
		log.Debugf("mutual friend request between [%s] and [%s]", fromID.Hex(), toID.Hex())
		return s.userRepo.AddFriendship(ctx, fromID, toID)
	}

	if err := s.userRepo.AddFriendRequest(ctx, toID, fromID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// ListFriendRequests returns the users who asked userID to be friends.
func (s *userService) ListFriendRequests(ctx context.Context, userID primitive.ObjectID) ([]domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.publicUsers(ctx, user.FriendRequests)
}

func (s *userService) AcceptFriendRequest(ctx context.Context, userID, fromID primitive.ObjectID) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasRequestFrom(fromID) {
		return ErrFriendRequestNotFound
	}
	if _, err := s.getUser(ctx, fromID); err != nil {
		// The sender is gone, drop the dangling request.
		if errors.Is(err, ErrUserNotFound) {
			if rmErr := s.userRepo.RemoveFriendRequest(ctx, userID, fromID); rmErr != nil {
				log.Warnf("failed to drop friend request from deleted user [%s]: %v", fromID.Hex(), rmErr)
			}
		}
		return err
	}
	return s.userRepo.AddFriendship(ctx, userID, fromID)
}

func (s *userService) DeclineFriendRequest(ctx context.Context, userID, fromID primitive.ObjectID) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasRequestFrom(fromID) {
		return ErrFriendRequestNotFound
	}
	return s.userRepo.RemoveFriendRequest(ctx, userID, fromID)
}

func (s *userService) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsFriend(friendID) {
		return ErrNotFriends
	}
	return s.userRepo.RemoveFriendship(ctx, userID, friendID)
}

func (s *userService) ListFriends(ctx context.Context, userID primitive.ObjectID) ([]domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.publicUsers(ctx, user.Friends)
}

func (s *userService) publicUsers(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range users {
		stripPrivate(&users[i])
	}
	return users, nil
}

// RequestProfilePictureUpload returns a presigned PUT URL under the user's
// own key prefix.
func (s *userService) RequestProfilePictureUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	parts := strings.Split(contentType, "/")
	if len(parts) != 2 || parts[0] != "image" || parts[1] == "" {
		return nil, ErrUnsupportedImageType
	}
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}

	fileExtension := strings.SplitN(parts[1], "+", 2)[0]
	objectKey := path.Join(profilePicturePrefix, userID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		log.Errorf("presign upload for user [%s]: %v", userID.Hex(), err)
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmProfilePicture points the user at an uploaded object and removes
// the previous picture.
func (s *userService) ConfirmProfilePicture(ctx context.Context, userID primitive.ObjectID, objectKey string) (*domain.User, error) {
	if !strings.HasPrefix(objectKey, path.Join(profilePicturePrefix, userID.Hex())+"/") {
		return nil, ErrInvalidObjectKey
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	exists, err := s.fileStorage.ObjectExists(ctx, objectKey)
	if err != nil {
		return nil, fmt.Errorf("check uploaded object: %w", err)
	}
	if !exists {
		return nil, ErrUploadNotFound
	}

	if err := s.userRepo.SetProfilePictureKey(ctx, userID, objectKey); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if old := user.ProfilePictureKey; old != "" && old != objectKey {
		// The new picture is already saved; a stale object only costs storage.
		if err := s.fileStorage.DeleteObject(ctx, old); err != nil {
			log.Warnf("delete previous profile picture [%s]: %v", old, err)
		}
	}
	return s.getUser(ctx, userID)
}

// ProfilePictureURL returns a presigned GET URL for the user's picture.
func (s *userService) ProfilePictureURL(ctx context.Context, userID primitive.ObjectID) (string, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.ProfilePictureKey == "" {
		return "", ErrNoProfilePicture
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, user.ProfilePictureKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		log.Errorf("presign download for user [%s]: %v", userID.Hex(), err)
		return "", ErrDownloadURLError
	}
	return url, nil
}

// stripPrivate clears the fields only the user themself may see.
func stripPrivate(u *domain.User) {
	u.PasswordHash = ""
	u.Email = ""
	u.Friends = nil
	u.FriendRequests = nil
}
