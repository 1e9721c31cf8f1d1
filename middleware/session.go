package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/warbler-app/warbler/models"
	"github.com/warbler-app/warbler/utils"
)

// LoadCurrentUser resolves the session's curr_user id into a user before each request.
// A stale id (user since deleted) is dropped from the session.
func LoadCurrentUser(db *gorm.DB, store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := utils.SessionUserID(store, c)
		if !ok {
			c.Next()
			return
		}

		user, err := models.FindUser(db.WithContext(c.Request.Context()), id)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			_ = utils.Logout(store, c)
		case err != nil:
			logrus.WithError(err).WithField("user_id", id).Error("load session user")
		default:
			c.Set(string(utils.CurrentUserKey), user)
		}
		c.Next()
	}
}

// RequireLogin sends anonymous visitors home with an error flash.
func RequireLogin(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.CurrentUser(c) == nil {
			utils.AddFlash(store, c, "danger", "Access unauthorized.")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
