package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/warbler-app/warbler/config"
	"github.com/warbler-app/warbler/models"
	"github.com/warbler-app/warbler/monitoring"
	"github.com/warbler-app/warbler/utils"
)

const oauthStateKey = "oauth_state"

var nonUsernameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

type AuthController struct {
	DB           *gorm.DB
	Store        sessions.Store
	GoogleConfig *config.GoogleConfig
}

func NewAuthController(db *gorm.DB, store sessions.Store, google *config.GoogleConfig) *AuthController {
	return &AuthController{
		DB:           db,
		Store:        store,
		GoogleConfig: google,
	}
}

func (ac *AuthController) renderSignup(c *gin.Context, status int, form SignupForm, errMsg string) {
	render(c, ac.Store, status, "users/signup.html", gin.H{
		"Form":          form,
		"Error":         errMsg,
		"GoogleEnabled": ac.GoogleConfig != nil,
	})
}

func (ac *AuthController) renderLogin(c *gin.Context, status int, form LoginForm, errMsg string) {
	render(c, ac.Store, status, "users/login.html", gin.H{
		"Form":          form,
		"Error":         errMsg,
		"GoogleEnabled": ac.GoogleConfig != nil,
	})
}

func (ac *AuthController) SignupForm(c *gin.Context) {
	ac.renderSignup(c, http.StatusOK, SignupForm{}, "")
}

// Signup creates the account, logs it in and greets the new user.
// Duplicate usernames or emails are reported back on the form.
func (ac *AuthController) Signup(c *gin.Context) {
	var form SignupForm
	if err := c.ShouldBind(&form); err != nil {
		ac.renderSignup(c, http.StatusBadRequest, form, bindingMessage(err))
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)

	if err := validateUsernamePattern(form.Username); err != nil {
		ac.renderSignup(c, http.StatusBadRequest, form, err.Error())
		return
	}

	user, err := models.Signup(ac.DB.WithContext(c.Request.Context()), form.Username, form.Email, form.Password, form.ImageURL)
	if err != nil {
		if models.IsIntegrityError(err) {
			ac.renderSignup(c, http.StatusBadRequest, form, "Username or email already taken")
			return
		}
		serverError(c, ac.Store, err)
		return
	}

	monitoring.SignupSuccess.Inc()
	ac.login(c, user)
}

func (ac *AuthController) LoginForm(c *gin.Context) {
	ac.renderLogin(c, http.StatusOK, LoginForm{}, "")
}

func (ac *AuthController) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		monitoring.LoginFailure.WithLabelValues("invalid_form").Inc()
		ac.renderLogin(c, http.StatusBadRequest, form, bindingMessage(err))
		return
	}

	user, err := models.Authenticate(ac.DB.WithContext(c.Request.Context()), form.Username, form.Password)
	if err != nil {
		serverError(c, ac.Store, err)
		return
	}
	if user == nil {
		monitoring.LoginFailure.WithLabelValues("invalid_credentials").Inc()
		ac.renderLogin(c, http.StatusUnauthorized, form, "Invalid credentials.")
		return
	}

	monitoring.LoginSuccess.Inc()
	ac.login(c, user)
}

func (ac *AuthController) login(c *gin.Context, user *models.User) {
	if err := utils.Login(ac.Store, c, user.ID); err != nil {
		serverError(c, ac.Store, fmt.Errorf("save session: %w", err))
		return
	}
	logrus.WithField("user_id", user.ID).Info("user logged in")
	redirectWithFlash(c, ac.Store, FlashSuccess, fmt.Sprintf("Hello, %s!", user.Username), "/")
}

func (ac *AuthController) Logout(c *gin.Context) {
	if err := utils.Logout(ac.Store, c); err != nil {
		serverError(c, ac.Store, fmt.Errorf("save session: %w", err))
		return
	}
	redirectWithFlash(c, ac.Store, FlashSuccess, "Logout Successful", "/login")
}

// GoogleLogin redirects to Google's consent page with a fresh state value.
func (ac *AuthController) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	if err := utils.SetSessionValue(ac.Store, c, oauthStateKey, state); err != nil {
		serverError(c, ac.Store, fmt.Errorf("save oauth state: %w", err))
		return
	}
	c.Redirect(http.StatusFound, ac.GoogleConfig.AuthCodeURL(state))
}

// GoogleCallback signs in the Google account owner, creating a Warbler
// account on first use. An existing account with the same email is reused,
// which is only allowed for emails Google reports as verified.
func (ac *AuthController) GoogleCallback(c *gin.Context) {
	expected, err := utils.PopSessionValue(ac.Store, c, oauthStateKey)
	if err != nil || expected == nil || expected != c.Query("state") {
		redirectWithFlash(c, ac.Store, FlashDanger, "Google sign-in failed.", "/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		redirectWithFlash(c, ac.Store, FlashDanger, "Google sign-in failed.", "/login")
		return
	}

	ctx := c.Request.Context()
	token, err := ac.GoogleConfig.ExchangeCode(ctx, code)
	if err != nil {
		logrus.WithError(err).Warn("google code exchange failed")
		redirectWithFlash(c, ac.Store, FlashDanger, "Google sign-in failed.", "/login")
		return
	}

	userInfo, err := ac.GoogleConfig.GetUserInfo(ctx, token)
	if err != nil || userInfo.Email == "" {
		logrus.WithError(err).Warn("google user info failed")
		redirectWithFlash(c, ac.Store, FlashDanger, "Google sign-in failed.", "/login")
		return
	}
	// accounts are matched by email, so it must be one Google has verified
	if !userInfo.VerifiedEmail {
		logrus.WithField("email", userInfo.Email).Warn("google email not verified")
		redirectWithFlash(c, ac.Store, FlashDanger, "Google sign-in failed.", "/login")
		return
	}

	db := ac.DB.WithContext(ctx)
	var user models.User
	err = db.Where("email = ?", userInfo.Email).First(&user).Error
	switch {
	case err == nil:
		ac.login(c, &user)
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		serverError(c, ac.Store, err)
		return
	}

	username, err := ac.uniqueUsername(db, userInfo.Email)
	if err != nil {
		serverError(c, ac.Store, err)
		return
	}

	created, err := models.Signup(db, username, userInfo.Email, uuid.NewString(), userInfo.Picture)
	if err != nil {
		serverError(c, ac.Store, err)
		return
	}
	monitoring.SignupSuccess.Inc()
	ac.login(c, created)
}

// uniqueUsername derives a free username from the local part of email.
func (ac *AuthController) uniqueUsername(db *gorm.DB, email string) (string, error) {
	base := nonUsernameChars.ReplaceAllString(strings.SplitN(email, "@", 2)[0], "")
	if base == "" {
		base = "warbler"
	}
	if len(base) > maxUsernameLength-4 {
		base = base[:maxUsernameLength-4]
	}

	username := base
	for counter := 1; ; counter++ {
		var count int64
		if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return username, nil
		}
		username = base + strconv.Itoa(counter)
	}
}
