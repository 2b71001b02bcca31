package api_test

import (
	"net/http"
	"net/url"
	"testing"

	"fittrack/fitness-app/internal/api"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/service"
	"fittrack/fitness-app/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	a := newTestAPI(t)
	user := a.signUp("alice")

	testCases := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "MissingHeader", expectedStatus: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Basic abc", expectedStatus: http.StatusUnauthorized},
		{name: "GarbageToken", header: "Bearer not-a-jwt", expectedStatus: http.StatusUnauthorized},
		{name: "ValidToken", header: "Bearer " + user.Token, expectedStatus: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/api/v1/me", nil)
			require.NoError(t, err)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := a.serve(req)
			assert.Equal(t, tc.expectedStatus, rec.Code)
		})
	}
}

func TestRegister_Conflict(t *testing.T) {
	a := newTestAPI(t)
	a.signUp("bob")

	rec := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "bob",
		"email":    "another@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "carl",
		"email":    "carl@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "bob@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMovements_CRUD(t *testing.T) {
	a := newTestAPI(t)
	user := a.signUp("dana")

	rec := a.do(http.MethodPost, "/api/v1/movements", user.Token, map[string]any{
		"name": "Pilates", "type": "flexibility",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/movements", user.Token, map[string]any{
		"name": "Curl", "type": "weighted",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "weighted movements need muscles")

	rec = a.do(http.MethodPost, "/api/v1/movements", user.Token, map[string]any{
		"name": "Curl", "type": "weighted", "musclesWorked": []string{"Biceps"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created api.MovementResponse
	decode(t, rec, &created)
	assert.Equal(t, user.ID, created.CreatorID)

	rec = a.do(http.MethodPut, "/api/v1/movements/"+created.ID, user.Token, map[string]any{
		"name": "Hammer Curl", "musclesWorked": []string{"Biceps", "Forearms"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/v1/movements", user.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []api.MovementResponse
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Hammer Curl", list[0].Name)
	assert.Equal(t, "weighted", list[0].Type)

	other := a.signUp("emil")
	rec = a.do(http.MethodDelete, "/api/v1/movements/"+created.ID, other.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(http.MethodDelete, "/api/v1/movements/"+created.ID, user.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/movements/not-an-id", user.Token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateWorkout_JSONValidationCategory(t *testing.T) {
	a := newTestAPI(t)
	user := a.signUp("fay")
	squat := a.libraryMovement("Back Squat", domain.MovementWeighted, "Quads")
	run := a.libraryMovement("Run", domain.MovementCardio)

	rec := a.do(http.MethodPost, "/api/v1/workouts", user.Token, map[string]any{
		"day": "2024-06-01",
		"exercises": []map[string]any{
			{"movementId": squat, "weight": 100, "sets": 5, "reps": 5},
			{"movementId": run, "distance": 5, "minutes": 25, "caloriesBurned": 250, "sets": 1},
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error    string `json:"error"`
		Category string `json:"category"`
		Index    int    `json:"index"`
	}
	decode(t, rec, &body)
	assert.Equal(t, string(domain.CategoryCardioExtra), body.Category)
	assert.Equal(t, 1, body.Index)
	assert.Contains(t, body.Error, "exercise 2")

	rec = a.do(http.MethodGet, "/api/v1/workouts", user.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page service.PageResult[domain.Workout]
	decode(t, rec, &page)
	assert.Zero(t, page.Total)

	rec = a.do(http.MethodPost, "/api/v1/workouts", user.Token, map[string]any{
		"day": "06/01/2024",
		"exercises": []map[string]any{
			{"movementId": squat, "weight": 100, "sets": 5, "reps": 5},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateWorkout_FormArrays(t *testing.T) {
	a := newTestAPI(t)
	user := a.signUp("gale")
	squat := a.libraryMovement("Back Squat", domain.MovementWeighted, "Quads")
	run := a.libraryMovement("Run", domain.MovementCardio)

	form := url.Values{
		"day":              {"2024-06-02"},
		"completed":        {"on"},
		"movement[]":       {squat, run},
		"weight[]":         {"120.5", ""},
		"sets[]":           {"3", ""},
		"reps[]":           {"8", ""},
		"distance[]":       {"", "5"},
		"minutes[]":        {"", "30"},
		"caloriesBurned[]": {"", "310"},
	}
	rec := a.postForm("/api/v1/workouts", user.Token, form)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var workout domain.Workout
	decode(t, rec, &workout)
	assert.True(t, workout.Completed)
	require.Len(t, workout.Exercises, 2)

	lift := workout.Exercises[0]
	assert.Equal(t, squat, lift.MovementID.Hex())
	require.NotNil(t, lift.Weight)
	assert.Equal(t, 120.5, *lift.Weight)
	assert.Equal(t, 3, *lift.Sets)
	assert.Nil(t, lift.Distance)

	cardio := workout.Exercises[1]
	assert.Equal(t, run, cardio.MovementID.Hex())
	assert.Nil(t, cardio.Weight)
	assert.Equal(t, 310.0, *cardio.CaloriesBurned)

	// Missing calories for the run: the pivot leaves it absent.
	form["caloriesBurned[]"] = []string{""}
	rec = a.postForm("/api/v1/workouts", user.Token, form)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, string(domain.CategoryCardioMissing), body["category"])

	form["caloriesBurned[]"] = []string{"", "abc"}
	rec = a.postForm("/api/v1/workouts", user.Token, form)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateWorkout_FormRejectsNonFiniteNumbers(t *testing.T) {
	a := newTestAPI(t)
	user := a.signUp("nadia")
	run := a.libraryMovement("Run", domain.MovementCardio)

	for _, tc := range []struct{ minutes, calories string }{
		{"NaN", "300"},
		{"30", "Inf"},
		{"-Inf", "300"},
	} {
		rec := a.postForm("/api/v1/workouts", user.Token, url.Values{
			"day":              {"2024-06-02"},
			"movement[]":       {run},
			"distance[]":       {"5"},
			"minutes[]":        {tc.minutes},
			"caloriesBurned[]": {tc.calories},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "must be a number")
	}

	rec := a.do(http.MethodGet, "/api/v1/me", user.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile api.ProfileResponse
	decode(t, rec, &profile)
	assert.Nil(t, profile.Volume)
}

func TestWorkouts_FriendAccessAndCompletion(t *testing.T) {
	a := newTestAPI(t)
	owner := a.signUp("hugo")
	friend := a.signUp("ines")
	stranger := a.signUp("jon")
	a.befriend(owner, friend)
	squat := a.libraryMovement("Back Squat", domain.MovementWeighted, "Quads", "Glutes")

	rec := a.do(http.MethodPost, "/api/v1/workouts", owner.Token, map[string]any{
		"day":       "2024-06-03",
		"exercises": []map[string]any{{"movementId": squat, "weight": 80, "sets": 5, "reps": 5}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var workout domain.Workout
	decode(t, rec, &workout)
	path := "/api/v1/workouts/" + workout.ID.Hex()

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, path, friend.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, path, stranger.Token, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/users/"+owner.ID+"/workouts", friend.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/v1/users/"+owner.ID+"/workouts", stranger.Token, nil).Code)

	rec = a.do(http.MethodPatch, path+"/completed", owner.Token, map[string]bool{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &workout)
	assert.True(t, workout.Completed)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodDelete, path, friend.Token, nil).Code)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, owner.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, owner.Token, nil).Code)
}

func TestFavorites_CreateAndStartWorkout(t *testing.T) {
	a := newTestAPI(t)
	owner := a.signUp("kai")
	follower := a.signUp("lena")
	run := a.libraryMovement("Run", domain.MovementCardio)

	rec := a.do(http.MethodPost, "/api/v1/favorites", owner.Token, map[string]any{
		"name":      "5k",
		"public":    true,
		"exercises": []map[string]any{{"movementId": run, "distance": 5, "minutes": 28, "caloriesBurned": 300}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var favorite domain.Favorite
	decode(t, rec, &favorite)
	require.NotNil(t, favorite.Exercises[0].Movement)
	assert.Equal(t, "Run", favorite.Exercises[0].Movement.Name)

	rec = a.do(http.MethodGet, "/api/v1/users/"+owner.ID+"/favorites", follower.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []domain.Favorite
	decode(t, rec, &listed)
	assert.Len(t, listed, 1)

	rec = a.do(http.MethodPost, "/api/v1/favorites/"+favorite.ID.Hex()+"/start", follower.Token, map[string]string{"day": "2024-06-10"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var workout domain.Workout
	decode(t, rec, &workout)
	assert.Equal(t, follower.ID, workout.OwnerID.Hex())
	assert.Equal(t, "2024-06-10", workout.Day.Format("2006-01-02"))

	rec = a.do(http.MethodPut, "/api/v1/favorites/"+favorite.ID.Hex(), owner.Token, map[string]any{"name": "5k easy", "public": false})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/v1/favorites/"+favorite.ID.Hex(), follower.Token, nil).Code)

	rec = a.do(http.MethodPost, "/api/v1/favorites", owner.Token, map[string]any{
		"name":      "bad",
		"exercises": []map[string]any{{"movementId": run, "weight": 5, "sets": 1, "reps": 1}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, string(domain.CategoryCardioMissing), body["category"])
}

func TestProfile_VolumeVisibility(t *testing.T) {
	a := newTestAPI(t)
	owner := a.signUp("mona")
	friend := a.signUp("nick")
	stranger := a.signUp("omar")
	a.befriend(owner, friend)
	squat := a.libraryMovement("Back Squat", domain.MovementWeighted, "Quads", "Glutes")
	bench := a.libraryMovement("Bench", domain.MovementWeighted, "Chest")

	rec := a.do(http.MethodPost, "/api/v1/workouts", owner.Token, map[string]any{
		"day": "2024-06-04",
		"exercises": []map[string]any{
			{"movementId": squat, "weight": 100, "sets": 3, "reps": 10},
			{"movementId": bench, "weight": 60, "sets": 2, "reps": 5},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/v1/users/"+owner.ID, friend.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile struct {
		User           api.UserResponse       `json:"user"`
		IsFriend       bool                   `json:"isFriend"`
		CanViewDetails bool                   `json:"canViewDetails"`
		Volume         *stats.VolumeAggregate `json:"volume"`
	}
	decode(t, rec, &profile)
	assert.True(t, profile.IsFriend)
	assert.Empty(t, profile.User.Email)
	require.NotNil(t, profile.Volume)
	// 30 reps of squats split over two muscles, 10 of bench on one.
	assert.Equal(t, map[string]float64{"Quads": 37.5, "Glutes": 37.5, "Chest": 25}, profile.Volume.MusclePercent)

	rec = a.do(http.MethodGet, "/api/v1/users/"+owner.ID, stranger.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile.Volume = nil
	decode(t, rec, &profile)
	assert.False(t, profile.CanViewDetails)
	assert.Nil(t, profile.Volume)

	rec = a.do(http.MethodGet, "/api/v1/me", stranger.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &profile)
	assert.Nil(t, profile.Volume, "no history, no chart")
	assert.Equal(t, "omar@example.com", profile.User.Email)
}

func TestFriendsAndSearch(t *testing.T) {
	a := newTestAPI(t)
	me := a.signUp("pia")
	a.signUp("quentin.x")
	other := a.signUp("quentinAx")

	rec := a.do(http.MethodGet, "/api/v1/users/search?q="+url.QueryEscape("Quentin.x"), me.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page api.UserPageResponse
	decode(t, rec, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "quentin.x", page.Items[0].Username)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/v1/users/"+me.ID+"/friend-request", me.Token, nil).Code)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/api/v1/users/"+other.ID+"/friend-request", me.Token, nil).Code)
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/api/v1/users/"+other.ID+"/friend-request", me.Token, nil).Code)

	rec = a.do(http.MethodGet, "/api/v1/friends/requests", other.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var requests []api.UserResponse
	decode(t, rec, &requests)
	require.Len(t, requests, 1)
	assert.Equal(t, me.ID, requests[0].ID)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/api/v1/friends/requests/"+me.ID+"/decline", other.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/api/v1/friends/requests/"+me.ID+"/accept", other.Token, nil).Code)

	a.befriend(me, other)
	rec = a.do(http.MethodGet, "/api/v1/friends", me.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var friends []api.UserResponse
	decode(t, rec, &friends)
	require.Len(t, friends, 1)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/v1/friends/"+other.ID, me.Token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodDelete, "/api/v1/friends/"+other.ID, me.Token, nil).Code)
}

func TestProfilePicture(t *testing.T) {
	a := newTestAPI(t)
	user := a.signUp("rita")

	rec := a.do(http.MethodPost, "/api/v1/me/picture/upload-url", user.Token, map[string]string{"contentType": "text/plain"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/me/picture/upload-url", user.Token, map[string]string{"contentType": "image/jpeg"})
	require.Equal(t, http.StatusOK, rec.Code)
	var upload service.UploadURLResponse
	decode(t, rec, &upload)
	assert.Equal(t, "https://storage.test/put/"+upload.ObjectKey, upload.UploadURL)

	rec = a.do(http.MethodPost, "/api/v1/me/picture/confirm", user.Token, map[string]string{"objectKey": upload.ObjectKey})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "nothing was uploaded yet")

	a.storage.objects[upload.ObjectKey] = true
	rec = a.do(http.MethodPost, "/api/v1/me/picture/confirm", user.Token, map[string]string{"objectKey": upload.ObjectKey})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var me api.UserResponse
	decode(t, rec, &me)
	assert.True(t, me.HasProfilePicture)

	viewer := a.signUp("sven")
	rec = a.do(http.MethodGet, "/api/v1/users/"+user.ID+"/picture", viewer.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "https://storage.test/get/"+upload.ObjectKey, body["url"])

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v1/users/"+viewer.ID+"/picture", user.Token, nil).Code)
}
