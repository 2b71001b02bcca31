// Package memory holds in-process implementations of the repository
// interfaces. They back service and handler tests.
package memory

import (
	"context"
	"regexp"
	"sort"
	"sync"
	"time"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store keeps every collection in memory behind one lock.
type Store struct {
	mu        sync.RWMutex
	users     map[primitive.ObjectID]domain.User
	movements map[primitive.ObjectID]domain.Movement
	workouts  map[primitive.ObjectID]domain.Workout
	favorites map[primitive.ObjectID]domain.Favorite
}

func NewStore() *Store {
	return &Store{
		users:     make(map[primitive.ObjectID]domain.User),
		movements: make(map[primitive.ObjectID]domain.Movement),
		workouts:  make(map[primitive.ObjectID]domain.Workout),
		favorites: make(map[primitive.ObjectID]domain.Favorite),
	}
}

func (s *Store) Users() repository.UserRepository         { return &userRepo{s} }
func (s *Store) Movements() repository.MovementRepository { return &movementRepo{s} }
func (s *Store) Workouts() repository.WorkoutRepository   { return &workoutRepo{s} }
func (s *Store) Favorites() repository.FavoriteRepository { return &favoriteRepo{s} }

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return nil
	}
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

func cloneExercises(exercises []domain.Exercise) []domain.Exercise {
	out := make([]domain.Exercise, len(exercises))
	copy(out, exercises)
	return out
}

func addID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func window[T any](items []T, page repository.Page) []T {
	start := int(page.Skip())
	if start >= len(items) {
		return []T{}
	}
	end := len(items)
	if page.Size > 0 && start+page.Size < end {
		end = start + page.Size
	}
	return items[start:end]
}

// --- users ---

type userRepo struct{ s *Store }

func cloneUser(u domain.User) *domain.User {
	u.Friends = cloneIDs(u.Friends)
	u.FriendRequests = cloneIDs(u.FriendRequests)
	return &u
}

func (r *userRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *cloneUser(*user)
	return user.ID, nil
}

func (r *userRepo) find(match func(domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *userRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			users = append(users, *cloneUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *userRepo) SearchByUsername(_ context.Context, query string, excludeID primitive.ObjectID, page repository.Page) ([]domain.User, int64, error) {
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return nil, 0, err
	}

	r.s.mu.RLock()
	matches := make([]domain.User, 0)
	for _, u := range r.s.users {
		if u.ID != excludeID && re.MatchString(u.Username) {
			matches = append(matches, *cloneUser(u))
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].Username < matches[j].Username })
	return window(matches, page), int64(len(matches)), nil
}

func (r *userRepo) update(id primitive.ObjectID, fn func(u *domain.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u = *cloneUser(u)
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return nil
}

func (r *userRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, bio string) error {
	return r.update(id, func(u *domain.User) { u.Bio = bio })
}

func (r *userRepo) SetProfilePictureKey(_ context.Context, id primitive.ObjectID, key string) error {
	return r.update(id, func(u *domain.User) { u.ProfilePictureKey = key })
}

func (r *userRepo) AddFriendRequest(_ context.Context, toID, fromID primitive.ObjectID) error {
	return r.update(toID, func(u *domain.User) { u.FriendRequests = addID(u.FriendRequests, fromID) })
}

func (r *userRepo) RemoveFriendRequest(_ context.Context, toID, fromID primitive.ObjectID) error {
	return r.update(toID, func(u *domain.User) { u.FriendRequests = removeID(u.FriendRequests, fromID) })
}

func (r *userRepo) AddFriendship(_ context.Context, a, b primitive.ObjectID) error {
	for _, pair := range [][2]primitive.ObjectID{{a, b}, {b, a}} {
		other := pair[1]
		err := r.update(pair[0], func(u *domain.User) {
			u.Friends = addID(u.Friends, other)
			u.FriendRequests = removeID(u.FriendRequests, other)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepo) RemoveFriendship(_ context.Context, a, b primitive.ObjectID) error {
	for _, pair := range [][2]primitive.ObjectID{{a, b}, {b, a}} {
		other := pair[1]
		if err := r.update(pair[0], func(u *domain.User) { u.Friends = removeID(u.Friends, other) }); err != nil {
			return err
		}
	}
	return nil
}

// --- movements ---

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(_ context.Context, movement *domain.Movement) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	movement.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	movement.CreatedAt = now
	movement.UpdatedAt = now
	r.s.movements[movement.ID] = *movement
	return movement.ID, nil
}

func (r *movementRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *movementRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Movement, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.s.movements[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *movementRepo) ListVisible(_ context.Context, userID primitive.ObjectID) ([]domain.Movement, error) {
	r.s.mu.RLock()
	out := make([]domain.Movement, 0)
	for _, m := range r.s.movements {
		if m.CreatorID == nil || *m.CreatorID == userID {
			out = append(out, m)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *movementRepo) Update(_ context.Context, movement *domain.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[movement.ID]
	if !ok {
		return repository.ErrNotFound
	}
	m.Name = movement.Name
	m.MusclesWorked = movement.MusclesWorked
	m.UpdatedAt = time.Now().UTC()
	r.s.movements[m.ID] = m
	return nil
}

func (r *movementRepo) Delete(_ context.Context, id, creatorID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok || !m.OwnedBy(creatorID) {
		return repository.ErrNotFound
	}
	delete(r.s.movements, id)
	return nil
}

// --- workouts ---

type workoutRepo struct{ s *Store }

func (r *workoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	w := *workout
	w.Exercises = cloneExercises(workout.Exercises)
	r.s.workouts[w.ID] = w
	return w.ID, nil
}

func (r *workoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	w.Exercises = cloneExercises(w.Exercises)
	return &w, nil
}

// byOwner returns the owner's workouts oldest day first.
func (r *workoutRepo) byOwner(ownerID primitive.ObjectID) []domain.Workout {
	r.s.mu.RLock()
	out := make([]domain.Workout, 0)
	for _, w := range r.s.workouts {
		if w.OwnerID == ownerID {
			w.Exercises = cloneExercises(w.Exercises)
			out = append(out, w)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.Before(out[j].Day)
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out
}

func (r *workoutRepo) ListByOwner(_ context.Context, ownerID primitive.ObjectID, page repository.Page) ([]domain.Workout, int64, error) {
	all := r.byOwner(ownerID)
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return window(all, page), int64(len(all)), nil
}

func (r *workoutRepo) Update(_ context.Context, workout *domain.Workout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.workouts[workout.ID]
	if !ok || w.OwnerID != workout.OwnerID {
		return repository.ErrNotFound
	}
	w.Day = workout.Day
	w.Exercises = cloneExercises(workout.Exercises)
	w.Completed = workout.Completed
	w.UpdatedAt = time.Now().UTC()
	r.s.workouts[w.ID] = w
	return nil
}

func (r *workoutRepo) SetCompleted(_ context.Context, id, ownerID primitive.ObjectID, completed bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.workouts[id]
	if !ok || w.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	w.Completed = completed
	w.UpdatedAt = time.Now().UTC()
	r.s.workouts[id] = w
	return nil
}

func (r *workoutRepo) Delete(_ context.Context, id, ownerID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.workouts[id]
	if !ok || w.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.s.workouts, id)
	return nil
}

func (r *workoutRepo) ExerciseEntries(_ context.Context, ownerID primitive.ObjectID) ([]domain.ExerciseEntry, error) {
	workouts := r.byOwner(ownerID)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	entries := make([]domain.ExerciseEntry, 0)
	for _, w := range workouts {
		for _, ex := range w.Exercises {
			m, ok := r.s.movements[ex.MovementID]
			if !ok {
				continue
			}
			entries = append(entries, domain.ExerciseEntry{Exercise: ex, Movement: m})
		}
	}
	return entries, nil
}

// --- favorites ---

type favoriteRepo struct{ s *Store }

func (r *favoriteRepo) Create(_ context.Context, favorite *domain.Favorite) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	favorite.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	favorite.CreatedAt = now
	favorite.UpdatedAt = now
	f := *favorite
	f.Exercises = cloneExercises(favorite.Exercises)
	r.s.favorites[f.ID] = f
	return f.ID, nil
}

func (r *favoriteRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Favorite, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.favorites[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	f.Exercises = cloneExercises(f.Exercises)
	return &f, nil
}

func (r *favoriteRepo) ListByOwner(_ context.Context, ownerID primitive.ObjectID, onlyPublic bool) ([]domain.Favorite, error) {
	r.s.mu.RLock()
	out := make([]domain.Favorite, 0)
	for _, f := range r.s.favorites {
		if f.OwnerID != ownerID || (onlyPublic && !f.Public) {
			continue
		}
		f.Exercises = cloneExercises(f.Exercises)
		out = append(out, f)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *favoriteRepo) Update(_ context.Context, favorite *domain.Favorite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.favorites[favorite.ID]
	if !ok || f.OwnerID != favorite.OwnerID {
		return repository.ErrNotFound
	}
	f.Name = favorite.Name
	f.Public = favorite.Public
	f.UpdatedAt = time.Now().UTC()
	r.s.favorites[f.ID] = f
	return nil
}

func (r *favoriteRepo) Delete(_ context.Context, id, ownerID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.favorites[id]
	if !ok || f.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.s.favorites, id)
	return nil
}
