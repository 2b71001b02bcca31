// internal/domain/favorite.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite is a named, reusable exercise combination. Its exercises carry a
// snapshot of their movement.
type Favorite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Name      string             `bson:"name" json:"name"`
	Exercises []Exercise         `bson:"exercises" json:"exercises"`
	Public    bool               `bson:"public" json:"public"` // visible to other users when true
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// VisibleTo reports whether viewerID may read the favorite.
func (f *Favorite) VisibleTo(viewerID primitive.ObjectID) bool {
	return f.Public || f.OwnerID == viewerID
}
