package api

import (
	"fittrack/fitness-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Services groups what the HTTP handlers depend on.
type Services struct {
	Auth      service.AuthService
	Movements service.MovementService
	Workouts  service.WorkoutService
	Favorites service.FavoriteService
	Users     service.UserService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	movementHandler := NewMovementHandler(services.Movements)
	workoutHandler := NewWorkoutHandler(services.Workouts)
	favoriteHandler := NewFavoriteHandler(services.Favorites)
	userHandler := NewUserHandler(services.Users)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		meGroup := protected.Group("/me")
		{
			meGroup.GET("", userHandler.GetMe)
			meGroup.PUT("/bio", userHandler.UpdateBio)
			meGroup.POST("/picture/upload-url", userHandler.RequestPictureUploadURL)
			meGroup.POST("/picture/confirm", userHandler.ConfirmPictureUpload)
		}

		movementGroup := protected.Group("/movements")
		{
			movementGroup.POST("", movementHandler.CreateMovement)
			movementGroup.GET("", movementHandler.GetMovements)
			movementGroup.GET("/:movementId", movementHandler.GetMovement)
			movementGroup.PUT("/:movementId", movementHandler.UpdateMovement)
			movementGroup.DELETE("/:movementId", movementHandler.DeleteMovement)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("", workoutHandler.GetMyWorkouts)
			workoutGroup.GET("/:workoutId", workoutHandler.GetWorkout)
			workoutGroup.PUT("/:workoutId", workoutHandler.UpdateWorkout)
			workoutGroup.PATCH("/:workoutId/completed", workoutHandler.SetCompleted)
			workoutGroup.DELETE("/:workoutId", workoutHandler.DeleteWorkout)
		}

		favoriteGroup := protected.Group("/favorites")
		{
			favoriteGroup.POST("", favoriteHandler.CreateFavorite)
			favoriteGroup.GET("", favoriteHandler.GetMyFavorites)
			favoriteGroup.GET("/:favoriteId", favoriteHandler.GetFavorite)
			favoriteGroup.PUT("/:favoriteId", favoriteHandler.UpdateFavorite)
			favoriteGroup.DELETE("/:favoriteId", favoriteHandler.DeleteFavorite)
			// POST /api/v1/favorites/{favoriteId}/start - new workout from a favorite
			favoriteGroup.POST("/:favoriteId/start", workoutHandler.StartFromFavorite)
		}

		userGroup := protected.Group("/users")
		{
			userGroup.GET("/search", userHandler.SearchUsers)
			userGroup.GET("/:userId", userHandler.GetProfile)
			userGroup.GET("/:userId/workouts", workoutHandler.GetUserWorkouts)
			userGroup.GET("/:userId/favorites", favoriteHandler.GetUserFavorites)
			userGroup.GET("/:userId/picture", userHandler.GetPictureURL)
			userGroup.POST("/:userId/friend-request", userHandler.SendFriendRequest)
		}

		friendGroup := protected.Group("/friends")
		{
			friendGroup.GET("", userHandler.GetFriends)
			friendGroup.DELETE("/:userId", userHandler.RemoveFriend)
			friendGroup.GET("/requests", userHandler.GetFriendRequests)
			friendGroup.POST("/requests/:userId/accept", userHandler.AcceptFriendRequest)
			friendGroup.POST("/requests/:userId/decline", userHandler.DeclineFriendRequest)
		}
	}
}
