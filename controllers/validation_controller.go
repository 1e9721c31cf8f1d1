package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/warbler-app/warbler/models"
)

const maxUsernameLength = 30

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

type ValidationController struct {
	DB *gorm.DB
}

func NewValidationController(db *gorm.DB) *ValidationController {
	return &ValidationController{DB: db}
}

// validateUsernamePattern validates username format and constraints
func validateUsernamePattern(username string) error {
	if len(username) > maxUsernameLength {
		return fmt.Errorf("username must be no more than %d characters long", maxUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, and underscores")
	}
	return nil
}

var fieldLabels = map[string]string{
	"Username": "Username",
	"Email":    "E-mail",
	"Password": "Password",
	"Text":     "Message",
}

// bindingMessage turns a form binding failure into a sentence for the page.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid form submission."
	}
	fe := verrs[0]
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return "Invalid email address."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long.", label, fe.Param())
	}
	return label + " is invalid."
}

// ValidateUsername godoc
// @Summary Check whether a username is taken
// @Tags validation
// @Produce json
// @Param username path string true "Username"
// @Router /api/validation/username/{username} [get]
func (vc *ValidationController) ValidateUsername(c *gin.Context) {
	vc.exists(c, "username", strings.TrimSpace(c.Param("username")))
}

// ValidateEmail godoc
// @Summary Check whether an email is registered
// @Tags validation
// @Produce json
// @Param email path string true "Email"
// @Router /api/validation/email/{email} [get]
func (vc *ValidationController) ValidateEmail(c *gin.Context) {
	vc.exists(c, "email", strings.TrimSpace(c.Param("email")))
}

func (vc *ValidationController) exists(c *gin.Context, column, value string) {
	var count int64
	err := vc.DB.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where(column+" = ?", value).
		Count(&count).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Failed to check " + column})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: gin.H{"exists": count > 0}})
}
