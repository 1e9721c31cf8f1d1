package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warbler-app/warbler/controllers"
)

func SetupInteractionRoutes(protected *gin.RouterGroup, interactionController *controllers.InteractionController) {
	// Message interactions
	messages := protected.Group("/messages")
	{
		messages.POST("/:id/like", interactionController.LikeMessage)
	}

	// User interactions
	users := protected.Group("/users")
	{
		users.POST("/follow/:id", interactionController.FollowUser)
		users.POST("/stop-following/:id", interactionController.StopFollowing)
		users.GET("/:id/followers", interactionController.GetUserFollowers)
		users.GET("/:id/following", interactionController.GetUserFollowing)
	}
}
