package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/warbler-app/warbler/models"
	"github.com/warbler-app/warbler/monitoring"
	"github.com/warbler-app/warbler/utils"
)

type MessageController struct {
	DB    *gorm.DB
	Store sessions.Store
}

func NewMessageController(db *gorm.DB, store sessions.Store) *MessageController {
	return &MessageController{DB: db, Store: store}
}

func loadMessage(c *gin.Context, db *gorm.DB, store sessions.Store) (*models.Message, bool) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		notFound(c, store)
		return nil, false
	}
	msg, err := models.FindMessage(db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(c, store)
		return nil, false
	}
	if err != nil {
		serverError(c, store, err)
		return nil, false
	}
	return msg, true
}

// messageText returns the text to store, or the error to show on the form.
func messageText(raw string) (string, string) {
	text, err := models.NormalizeText(raw)
	switch {
	case errors.Is(err, models.ErrEmptyMessage):
		return "", "Message is required."
	case errors.Is(err, models.ErrMessageTooLong):
		return "", fmt.Sprintf("Message must be at most %d characters long.", models.MaxMessageLength)
	}
	return text, ""
}

func (mc *MessageController) NewMessageForm(c *gin.Context) {
	render(c, mc.Store, http.StatusOK, "messages/new.html", gin.H{"Text": ""})
}

// CreateMessage godoc
// @Summary Post a new message
// @Tags messages
// @Accept x-www-form-urlencoded
// @Param text formData string true "Message text, at most 140 characters"
// @Router /messages/new [post]
func (mc *MessageController) CreateMessage(c *gin.Context) {
	me := utils.CurrentUser(c)

	var form MessageForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, mc.Store, http.StatusBadRequest, "messages/new.html", gin.H{
			"Text":  form.Text,
			"Error": bindingMessage(err),
		})
		return
	}
	text, problem := messageText(form.Text)
	if problem != "" {
		render(c, mc.Store, http.StatusBadRequest, "messages/new.html", gin.H{
			"Text":  form.Text,
			"Error": problem,
		})
		return
	}

	msg := models.Message{Text: text, UserID: me.ID}
	if err := mc.DB.WithContext(c.Request.Context()).Create(&msg).Error; err != nil {
		serverError(c, mc.Store, fmt.Errorf("create message: %w", err))
		return
	}

	monitoring.MessagesPosted.Inc()
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", me.ID))
}

// GetMessageDetail godoc
// @Summary Show a single message
// @Tags messages
// @Param id path string true "Message ID"
// @Router /messages/{id} [get]
func (mc *MessageController) GetMessageDetail(c *gin.Context) {
	db := mc.DB.WithContext(c.Request.Context())

	msg, ok := loadMessage(c, db, mc.Store)
	if !ok {
		return
	}

	liked := false
	if me := utils.CurrentUser(c); me != nil {
		var err error
		if liked, err = models.HasLiked(db, me, msg); err != nil {
			serverError(c, mc.Store, err)
			return
		}
	}

	render(c, mc.Store, http.StatusOK, "messages/show.html", gin.H{
		"Message": msg,
		"Liked":   liked,
	})
}

// DeleteMessage godoc
// @Summary Delete a message
// @Description Only the author may delete a message
// @Tags messages
// @Param id path string true "Message ID"
// @Router /messages/{id}/delete [post]
func (mc *MessageController) DeleteMessage(c *gin.Context) {
	me := utils.CurrentUser(c)
	db := mc.DB.WithContext(c.Request.Context())

	msg, ok := loadMessage(c, db, mc.Store)
	if !ok {
		return
	}

	if msg.UserID != me.ID {
		redirectWithFlash(c, mc.Store, FlashDanger, "Access unauthorized.", "/")
		return
	}

	if err := models.DeleteMessage(db, msg); err != nil {
		serverError(c, mc.Store, err)
		return
	}
	logrus.WithFields(logrus.Fields{"user_id": me.ID, "message_id": msg.ID}).Info("message deleted")
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", me.ID))
}
