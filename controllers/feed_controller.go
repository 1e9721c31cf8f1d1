package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"

	"github.com/warbler-app/warbler/models"
	"github.com/warbler-app/warbler/utils"
)

// TimelineLimit caps how many messages the home page and API timeline show.
const TimelineLimit = 100

type FeedController struct {
	DB    *gorm.DB
	Store sessions.Store
}

func NewFeedController(db *gorm.DB, store sessions.Store) *FeedController {
	return &FeedController{DB: db, Store: store}
}

// Home shows the landing page to anonymous visitors and the timeline of the
// current user and everyone they follow otherwise.
func (fc *FeedController) Home(c *gin.Context) {
	user := utils.CurrentUser(c)
	if user == nil {
		render(c, fc.Store, http.StatusOK, "home-anon.html", nil)
		return
	}

	db := fc.DB.WithContext(c.Request.Context())
	messages, err := models.Timeline(db, user, TimelineLimit)
	if err != nil {
		serverError(c, fc.Store, err)
		return
	}
	stats, err := models.StatsFor(db, user.ID)
	if err != nil {
		serverError(c, fc.Store, err)
		return
	}
	liked, err := models.LikedMessageIDs(db, user.ID)
	if err != nil {
		serverError(c, fc.Store, err)
		return
	}

	render(c, fc.Store, http.StatusOK, "home.html", gin.H{
		"Messages": messages,
		"Stats":    stats,
		"LikedIDs": liked,
	})
}
