package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warbler-app/warbler/controllers"
)

func SetupMessageRoutes(public, protected *gin.RouterGroup, messageController *controllers.MessageController) {
	messages := protected.Group("/messages")
	{
		messages.GET("/new", messageController.NewMessageForm)
		messages.POST("/new", messageController.CreateMessage)
		messages.POST("/:id/delete", messageController.DeleteMessage)
	}

	public.GET("/messages/:id", messageController.GetMessageDetail)
}
