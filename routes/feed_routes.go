package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warbler-app/warbler/controllers"
)

func SetupFeedRoutes(public *gin.RouterGroup, feedController *controllers.FeedController) {
	public.GET("", feedController.Home)
}
