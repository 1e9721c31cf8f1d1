package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/warbler-app/warbler/models"
	"github.com/warbler-app/warbler/storage"
	"github.com/warbler-app/warbler/utils"
)

type UserController struct {
	DB     *gorm.DB
	Store  sessions.Store
	Images storage.ImageStore
}

func NewUserController(db *gorm.DB, store sessions.Store, images storage.ImageStore) *UserController {
	return &UserController{DB: db, Store: store, Images: images}
}

// profileData holds what the profile header needs: the user, their counts
// and whether the viewer follows them.
func profileData(c *gin.Context, db *gorm.DB, user *models.User) (gin.H, error) {
	stats, err := models.StatsFor(db, user.ID)
	if err != nil {
		return nil, err
	}
	data := gin.H{
		"User":         user,
		"Stats":        stats,
		"IsFollowing":  false,
		"LikedIDs":     map[uint]bool{},
		"FollowingIDs": map[uint]bool{},
	}

	if me := utils.CurrentUser(c); me != nil {
		following, err := models.FollowingIDs(db, me.ID)
		if err != nil {
			return nil, err
		}
		liked, err := models.LikedMessageIDs(db, me.ID)
		if err != nil {
			return nil, err
		}
		data["IsFollowing"] = following[user.ID]
		data["FollowingIDs"] = following
		data["LikedIDs"] = liked
	}
	return data, nil
}

// SearchUsers lists all users, or those whose username contains ?q.
func (uc *UserController) SearchUsers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	db := uc.DB.WithContext(c.Request.Context())

	users, err := models.SearchUsers(db, query)
	if err != nil {
		serverError(c, uc.Store, err)
		return
	}

	following := map[uint]bool{}
	if me := utils.CurrentUser(c); me != nil {
		if following, err = models.FollowingIDs(db, me.ID); err != nil {
			serverError(c, uc.Store, err)
			return
		}
	}

	render(c, uc.Store, http.StatusOK, "users/index.html", gin.H{
		"Users":        users,
		"Query":        query,
		"FollowingIDs": following,
	})
}

func (uc *UserController) GetUserProfile(c *gin.Context) {
	db := uc.DB.WithContext(c.Request.Context())

	user, ok := loadUser(c, db, uc.Store)
	if !ok {
		return
	}

	data, err := profileData(c, db, user)
	if err != nil {
		serverError(c, uc.Store, err)
		return
	}
	messages, err := models.MessagesBy(db, user.ID, TimelineLimit)
	if err != nil {
		serverError(c, uc.Store, err)
		return
	}
	data["Messages"] = messages

	render(c, uc.Store, http.StatusOK, "users/show.html", data)
}

func (uc *UserController) GetUserLikes(c *gin.Context) {
	db := uc.DB.WithContext(c.Request.Context())

	user, ok := loadUser(c, db, uc.Store)
	if !ok {
		return
	}

	data, err := profileData(c, db, user)
	if err != nil {
		serverError(c, uc.Store, err)
		return
	}
	messages, err := models.LikedMessages(db, user)
	if err != nil {
		serverError(c, uc.Store, err)
		return
	}
	data["Messages"] = messages

	render(c, uc.Store, http.StatusOK, "users/likes.html", data)
}

func (uc *UserController) renderEdit(c *gin.Context, status int, form ProfileForm, errMsg string) {
	render(c, uc.Store, status, "users/edit.html", gin.H{
		"Form":           form,
		"Error":          errMsg,
		"UploadsEnabled": uc.Images != nil,
	})
}

func (uc *UserController) EditProfileForm(c *gin.Context) {
	me := utils.CurrentUser(c)
	uc.renderEdit(c, http.StatusOK, ProfileForm{
		Username:       me.Username,
		Email:          me.Email,
		ImageURL:       me.ImageURL,
		HeaderImageURL: me.HeaderImageURL,
		Bio:            me.Bio,
		Location:       me.Location,
	}, "")
}

// UpdateProfile applies the profile form once the current password checks out.
// An uploaded image takes precedence over the image_url field.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	me := utils.CurrentUser(c)

	var form ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		uc.renderEdit(c, http.StatusBadRequest, form, bindingMessage(err))
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)

	if !me.CheckPassword(form.Password) {
		redirectWithFlash(c, uc.Store, FlashDanger, "Wrong password, please try again.", "/")
		return
	}
	if err := validateUsernamePattern(form.Username); err != nil {
		uc.renderEdit(c, http.StatusBadRequest, form, err.Error())
		return
	}

	imageURL := form.ImageURL
	if uc.Images != nil {
		uploaded, err := uc.uploadImage(c, me.ID)
		if errors.Is(err, storage.ErrInvalidImage) {
			uc.renderEdit(c, http.StatusBadRequest, form, "Images must be JPEG, PNG or WebP and at most 5 MB.")
			return
		}
		if err != nil {
			serverError(c, uc.Store, err)
			return
		}
		if uploaded != "" {
			imageURL = uploaded
		}
	}
	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}
	headerURL := form.HeaderImageURL
	if headerURL == "" {
		headerURL = models.DefaultHeaderImageURL
	}

	err := uc.DB.WithContext(c.Request.Context()).Model(me).Updates(map[string]interface{}{
		"username":         form.Username,
		"email":            form.Email,
		"image_url":        imageURL,
		"header_image_url": headerURL,
		"bio":              form.Bio,
		"location":         form.Location,
	}).Error
	if err != nil {
		if models.IsIntegrityError(err) {
			uc.renderEdit(c, http.StatusBadRequest, form, "Username or email already taken")
			return
		}
		serverError(c, uc.Store, fmt.Errorf("update user %d: %w", me.ID, err))
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", me.ID))
}

// uploadImage stores the optional "image" file and returns its public URL,
// or "" when no file was sent.
func (uc *UserController) uploadImage(c *gin.Context, userID uint) (string, error) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read image upload: %w", err)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open image upload: %w", err)
	}
	defer file.Close()

	return storage.UploadAvatar(c.Request.Context(), uc.Images, userID,
		header.Header.Get("Content-Type"), header.Size, file)
}

// DeleteUser removes the current account with its messages, follows and likes.
func (uc *UserController) DeleteUser(c *gin.Context) {
	me := utils.CurrentUser(c)

	if err := models.DeleteUser(uc.DB.WithContext(c.Request.Context()), me); err != nil {
		serverError(c, uc.Store, err)
		return
	}
	if err := utils.Logout(uc.Store, c); err != nil {
		serverError(c, uc.Store, fmt.Errorf("save session: %w", err))
		return
	}
	logrus.WithField("user_id", me.ID).Info("user deleted")
	c.Redirect(http.StatusFound, "/signup")
}
