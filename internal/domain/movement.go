// internal/domain/movement.go
package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MovementType classifies a movement. It never changes after creation.
type MovementType string

const (
	MovementCardio   MovementType = "cardio"
	MovementWeighted MovementType = "weighted"
)

// Valid reports whether t is one of the known movement types.
func (t MovementType) Valid() bool {
	return t == MovementCardio || t == MovementWeighted
}

// Movement is a named exercise type in the library, e.g. "Back Squat".
type Movement struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CreatorID     *primitive.ObjectID `bson:"creatorId,omitempty" json:"creatorId,omitempty"` // nil for shared library movements
	Name          string              `bson:"name" json:"name"`
	Type          MovementType        `bson:"type" json:"type"`
	MusclesWorked []string            `bson:"musclesWorked" json:"musclesWorked"` // empty for cardio
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether the movement was created by userID.
func (m *Movement) OwnedBy(userID primitive.ObjectID) bool {
	return m.CreatorID != nil && *m.CreatorID == userID
}

// Snapshot returns the inlined copy of the movement stored on favorites.
func (m *Movement) Snapshot() *MovementSnapshot {
	muscles := make([]string, len(m.MusclesWorked))
	copy(muscles, m.MusclesWorked)
	return &MovementSnapshot{
		Name:          m.Name,
		MusclesWorked: muscles,
		Type:          m.Type,
	}
}

// MovementSnapshot is a movement inlined into a favorite so later copies
// do not depend on the movement's mutable state.
type MovementSnapshot struct {
	Name          string       `bson:"name" json:"name"`
	MusclesWorked []string     `bson:"musclesWorked" json:"musclesWorked"`
	Type          MovementType `bson:"type" json:"type"`
}

// NormalizeMuscles enforces the muscle rule for a movement type: cardio
// movements carry no muscles, weighted movements need at least one.
// Blank names are dropped and duplicates collapsed, keeping input order.
func NormalizeMuscles(t MovementType, muscles []string) ([]string, error) {
	if t == MovementCardio {
		return []string{}, nil
	}
	seen := make(map[string]struct{}, len(muscles))
	out := make([]string, 0, len(muscles))
	for _, m := range muscles {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, ErrMusclesRequired
	}
	return out, nil
}
