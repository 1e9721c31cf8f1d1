package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warbler-app/warbler/controllers"
)

func SetupAPIRoutes(api *gin.RouterGroup, apiController *controllers.ApiController, auth gin.HandlerFunc) {
	api.POST("/token", apiController.Token)
	api.GET("/users/:id", apiController.GetUser)
	api.GET("/messages/:id", apiController.GetMessage)

	protected := api.Group("")
	protected.Use(auth)
	{
		protected.GET("/timeline", apiController.GetTimeline)
		protected.POST("/messages", apiController.CreateMessage)
	}
}
