package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account of the tracker.
type User struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username          string               `bson:"username" json:"username"` // unique, searchable
	Email             string               `bson:"email" json:"email"`       // unique
	PasswordHash      string               `bson:"passwordHash" json:"-"`    // never exposed
	Bio               string               `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfilePictureKey string               `bson:"profilePictureKey,omitempty" json:"-"` // object key in the bucket
	Friends           []primitive.ObjectID `bson:"friends,omitempty" json:"friends,omitempty"`
	FriendRequests    []primitive.ObjectID `bson:"friendRequests,omitempty" json:"friendRequests,omitempty"` // incoming, pending
	CreatedAt         time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsFriend(id primitive.ObjectID) bool {
	return containsID(u.Friends, id)
}

func (u *User) HasRequestFrom(id primitive.ObjectID) bool {
	return containsID(u.FriendRequests, id)
}

// CanView reports whether viewerID may see this user's shared data:
// the user themself or one of their friends.
func (u *User) CanView(viewerID primitive.ObjectID) bool {
	return u.ID == viewerID || u.IsFriend(viewerID)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
