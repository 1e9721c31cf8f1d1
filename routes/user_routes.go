package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warbler-app/warbler/controllers"
)

func SetupUserRoutes(public, protected *gin.RouterGroup, userController *controllers.UserController) {
	users := public.Group("/users")
	{
		users.GET("", userController.SearchUsers)
		users.GET("/:id", userController.GetUserProfile)
	}

	account := protected.Group("/users")
	{
		account.GET("/:id/likes", userController.GetUserLikes)
		account.GET("/profile", userController.EditProfileForm)
		account.POST("/profile", userController.UpdateProfile)
		account.POST("/delete", userController.DeleteUser)
	}
}
