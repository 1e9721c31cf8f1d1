package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"

	"github.com/warbler-app/warbler/models"
)

func TestValidateUsernamePattern(t *testing.T) {
	tests := []struct {
		username string
		wantErr  bool
	}{
		{"testuser", false},
		{"Test_User_42", false},
		{strings.Repeat("a", maxUsernameLength), false},
		{strings.Repeat("a", maxUsernameLength+1), true},
		{"with space", true},
		{"dotted.name", true},
		{"", true},
	}
	for _, tt := range tests {
		err := validateUsernamePattern(tt.username)
		if tt.wantErr {
			assert.Error(t, err, tt.username)
		} else {
			assert.NoError(t, err, tt.username)
		}
	}
}

func TestBindingMessage(t *testing.T) {
	tests := []struct {
		name string
		form interface{}
		want string
	}{
		{"required", &SignupForm{Email: "a@b.co", Password: "secret"}, "Username is required."},
		{"email", &SignupForm{Username: "u", Email: "nope", Password: "secret"}, "Invalid email address."},
		{"min", &SignupForm{Username: "u", Email: "a@b.co", Password: "abc"}, "Password must be at least 6 characters long."},
		{"max", &struct {
			Text string `binding:"max=5"`
		}{Text: "too long"}, "Message must be at most 5 characters long."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.form)
			assert.Equal(t, tt.want, bindingMessage(err))
		})
	}

	assert.Equal(t, "Invalid form submission.", bindingMessage(assert.AnError))
}

func TestBackTo(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		referer string
		want    string
	}{
		{"", "/"},
		{"http://example.com/users/2", "/users/2"},
		{"http://example.com/users?q=bob", "/users?q=bob"},
		{"https://evil.test/phish", "/"},
		{"/messages/3", "/messages/3"},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "http://example.com/messages/1/like", nil)
		if tt.referer != "" {
			c.Request.Header.Set("Referer", tt.referer)
		}
		assert.Equal(t, tt.want, backTo(c), tt.referer)
	}
}

func TestMessageText(t *testing.T) {
	text, problem := messageText("  hello  ")
	assert.Equal(t, "hello", text)
	assert.Empty(t, problem)

	_, problem = messageText(" \t ")
	assert.Equal(t, "Message is required.", problem)

	_, problem = messageText(strings.Repeat("x", models.MaxMessageLength+1))
	assert.Equal(t, "Message must be at most 140 characters long.", problem)

	// characters, not bytes
	text, problem = messageText(strings.Repeat("é", models.MaxMessageLength))
	assert.Empty(t, problem)
	assert.Equal(t, strings.Repeat("é", models.MaxMessageLength), text)
}
