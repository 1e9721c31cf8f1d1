package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/warbler-app/warbler/models"
	"github.com/warbler-app/warbler/utils"
)

type InteractionController struct {
	DB    *gorm.DB
	Store sessions.Store
}

func NewInteractionController(db *gorm.DB, store sessions.Store) *InteractionController {
	return &InteractionController{DB: db, Store: store}
}

// loadUser resolves the :id parameter, rendering the 404 page when it does not exist.
func loadUser(c *gin.Context, db *gorm.DB, store sessions.Store) (*models.User, bool) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		notFound(c, store)
		return nil, false
	}
	user, err := models.FindUser(db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(c, store)
		return nil, false
	}
	if err != nil {
		serverError(c, store, err)
		return nil, false
	}
	return user, true
}

// FollowUser godoc
// @Summary Follow a user
// @Tags interactions
// @Param id path string true "User ID to follow"
// @Router /users/follow/{id} [post]
func (ic *InteractionController) FollowUser(c *gin.Context) {
	me := utils.CurrentUser(c)
	db := ic.DB.WithContext(c.Request.Context())

	target, ok := loadUser(c, db, ic.Store)
	if !ok {
		return
	}

	if me.ID == target.ID {
		redirectWithFlash(c, ic.Store, FlashDanger, "You cannot follow yourself.", fmt.Sprintf("/users/%d", me.ID))
		return
	}

	if err := models.FollowUser(db, me, target); err != nil {
		serverError(c, ic.Store, fmt.Errorf("follow user %d: %w", target.ID, err))
		return
	}
	logrus.WithFields(logrus.Fields{"follower_id": me.ID, "followed_id": target.ID}).Info("user followed")
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", me.ID))
}

// StopFollowing godoc
// @Summary Stop following a user
// @Tags interactions
// @Param id path string true "User ID to unfollow"
// @Router /users/stop-following/{id} [post]
func (ic *InteractionController) StopFollowing(c *gin.Context) {
	me := utils.CurrentUser(c)
	db := ic.DB.WithContext(c.Request.Context())

	target, ok := loadUser(c, db, ic.Store)
	if !ok {
		return
	}

	if err := models.UnfollowUser(db, me, target); err != nil {
		serverError(c, ic.Store, fmt.Errorf("unfollow user %d: %w", target.ID, err))
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", me.ID))
}

// LikeMessage godoc
// @Summary Like or unlike a message
// @Description Toggles like status for a message; users cannot like their own messages
// @Tags interactions
// @Param id path string true "Message ID"
// @Router /messages/{id}/like [post]
func (ic *InteractionController) LikeMessage(c *gin.Context) {
	me := utils.CurrentUser(c)
	db := ic.DB.WithContext(c.Request.Context())

	msg, ok := loadMessage(c, db, ic.Store)
	if !ok {
		return
	}

	if msg.UserID == me.ID {
		redirectWithFlash(c, ic.Store, FlashDanger, "You cannot like your own message.", backTo(c))
		return
	}

	if _, err := models.ToggleLike(db, me, msg); err != nil {
		serverError(c, ic.Store, fmt.Errorf("toggle like on message %d: %w", msg.ID, err))
		return
	}
	c.Redirect(http.StatusFound, backTo(c))
}

// GetUserFollowing godoc
// @Summary Users that a user is following
// @Tags interactions
// @Param id path string true "User ID"
// @Router /users/{id}/following [get]
func (ic *InteractionController) GetUserFollowing(c *gin.Context) {
	ic.userList(c, "users/following.html", models.FollowingOf)
}

// GetUserFollowers godoc
// @Summary Followers of a user
// @Tags interactions
// @Param id path string true "User ID"
// @Router /users/{id}/followers [get]
func (ic *InteractionController) GetUserFollowers(c *gin.Context) {
	ic.userList(c, "users/followers.html", models.FollowersOf)
}

func (ic *InteractionController) userList(c *gin.Context, page string, list func(*gorm.DB, *models.User) ([]*models.User, error)) {
	db := ic.DB.WithContext(c.Request.Context())

	user, ok := loadUser(c, db, ic.Store)
	if !ok {
		return
	}

	data, err := profileData(c, db, user)
	if err != nil {
		serverError(c, ic.Store, err)
		return
	}
	users, err := list(db, user)
	if err != nil {
		serverError(c, ic.Store, err)
		return
	}
	data["Users"] = users

	render(c, ic.Store, http.StatusOK, page, data)
}

// backTo returns the local path of the referring page, or "/".
func backTo(c *gin.Context) string {
	ref, err := url.Parse(c.Request.Referer())
	if err != nil || ref.Path == "" {
		return "/"
	}
	if ref.Host != "" && ref.Host != c.Request.Host {
		return "/"
	}
	back := ref.Path
	if ref.RawQuery != "" {
		back += "?" + ref.RawQuery
	}
	return back
}
