package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/warbler-app/warbler/models"
	"github.com/warbler-app/warbler/monitoring"
	"github.com/warbler-app/warbler/utils"
)

type ApiController struct {
	DB        *gorm.DB
	JWTSecret string
}

func NewApiController(db *gorm.DB, jwtSecret string) *ApiController {
	return &ApiController{DB: db, JWTSecret: jwtSecret}
}

func toMessageResponse(m *models.Message) MessageResponse {
	resp := MessageResponse{
		ID:        m.ID,
		Text:      m.Text,
		Timestamp: m.Timestamp.UTC().Format(time.RFC3339),
		UserID:    m.UserID,
	}
	if m.User != nil {
		resp.Username = m.User.Username
	}
	return resp
}

func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, StandardResponse{Success: false, Message: message})
}

// Token godoc
// @Summary Exchange credentials for a bearer token
// @Tags api
// @Accept json
// @Produce json
// @Param credentials body TokenRequest true "Username and password"
// @Router /api/token [post]
func (ac *ApiController) Token(c *gin.Context) {
	var input TokenRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		apiError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	user, err := models.Authenticate(ac.DB.WithContext(c.Request.Context()), input.Username, input.Password)
	if err != nil {
		logrus.WithError(err).Error("api authenticate")
		apiError(c, http.StatusInternalServerError, "Could not authenticate")
		return
	}
	if user == nil {
		monitoring.LoginFailure.WithLabelValues("invalid_credentials").Inc()
		apiError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, err := utils.GenerateToken(ac.JWTSecret, user.ID)
	if err != nil {
		logrus.WithError(err).Error("api token")
		apiError(c, http.StatusInternalServerError, "Could not generate access token")
		return
	}

	monitoring.LoginSuccess.Inc()
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"token_type":   "Bearer",
		"access_token": accessToken,
		"user":         gin.H{"id": user.ID, "username": user.Username, "imageUrl": user.ImageURL},
	})
}

// GetUser godoc
// @Summary Public profile summary of a user
// @Tags api
// @Produce json
// @Param id path string true "User ID"
// @Router /api/users/{id} [get]
func (ac *ApiController) GetUser(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		apiError(c, http.StatusNotFound, "User not found")
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	user, err := models.FindUser(db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apiError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "Could not fetch user")
		return
	}

	stats, err := models.StatsFor(db, user.ID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "Could not fetch user")
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: UserSummary{
		ID:             user.ID,
		Username:       user.Username,
		ImageURL:       user.ImageURL,
		HeaderImageURL: user.HeaderImageURL,
		Bio:            user.Bio,
		Location:       user.Location,
		MessagesCount:  stats.MessagesCount,
		FollowersCount: stats.FollowersCount,
		FollowingCount: stats.FollowingCount,
		LikesCount:     stats.LikesCount,
	}})
}

// GetMessage godoc
// @Summary A single message
// @Tags api
// @Produce json
// @Param id path string true "Message ID"
// @Router /api/messages/{id} [get]
func (ac *ApiController) GetMessage(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		apiError(c, http.StatusNotFound, "Message not found")
		return
	}

	msg, err := models.FindMessage(ac.DB.WithContext(c.Request.Context()), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apiError(c, http.StatusNotFound, "Message not found")
		return
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "Could not fetch message")
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: toMessageResponse(msg)})
}

// bearerUser loads the user named by the token claims.
func (ac *ApiController) bearerUser(c *gin.Context) (*models.User, bool) {
	claims := utils.GetUser(c)
	if claims == nil {
		apiError(c, http.StatusUnauthorized, "User not found in context")
		return nil, false
	}
	user, err := models.FindUser(ac.DB.WithContext(c.Request.Context()), claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apiError(c, http.StatusUnauthorized, "User no longer exists")
		return nil, false
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "Could not fetch user")
		return nil, false
	}
	return user, true
}

// GetTimeline godoc
// @Summary Latest messages of the bearer and the users they follow
// @Tags api
// @Produce json
// @Router /api/timeline [get]
func (ac *ApiController) GetTimeline(c *gin.Context) {
	user, ok := ac.bearerUser(c)
	if !ok {
		return
	}

	messages, err := models.Timeline(ac.DB.WithContext(c.Request.Context()), user, TimelineLimit)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "Could not fetch timeline")
		return
	}

	data := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		data = append(data, toMessageResponse(&messages[i]))
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: data})
}

// CreateMessage godoc
// @Summary Post a message as the bearer
// @Tags api
// @Accept json
// @Produce json
// @Param message body MessageForm true "Message text"
// @Success 201 {object} MessageResponse
// @Router /api/messages [post]
func (ac *ApiController) CreateMessage(c *gin.Context) {
	user, ok := ac.bearerUser(c)
	if !ok {
		return
	}

	var input MessageForm
	if err := c.ShouldBindJSON(&input); err != nil {
		apiError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	text, problem := messageText(input.Text)
	if problem != "" {
		apiError(c, http.StatusBadRequest, problem)
		return
	}

	tx := ac.DB.WithContext(c.Request.Context()).Begin()

	msg := models.Message{Text: text, UserID: user.ID}
	if err := tx.Create(&msg).Error; err != nil {
		tx.Rollback()
		apiError(c, http.StatusInternalServerError, "Failed to create message")
		return
	}

	if err := tx.Commit().Error; err != nil {
		apiError(c, http.StatusInternalServerError, "Failed to commit transaction")
		return
	}

	msg.User = user
	monitoring.MessagesPosted.Inc()
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: toMessageResponse(&msg)})
}
