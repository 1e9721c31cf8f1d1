package routes

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warbler-app/warbler/models"
	"github.com/warbler-app/warbler/utils"
)

func (a *testApp) token(t *testing.T, username string) string {
	t.Helper()
	resp, body := a.postJSON(t, "/api/token", "", map[string]string{"username": username, "password": "password"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	token, ok := body["access_token"].(string)
	require.True(t, ok)
	return token
}

func TestAPIToken(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "testuser")

	resp, body := app.postJSON(t, "/api/token", "", map[string]string{"username": "testuser", "password": "password"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Bearer", body["token_type"])

	claims, err := utils.ParseToken(testJWTSecret, body["access_token"].(string))
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)

	resp, body = app.postJSON(t, "/api/token", "", map[string]string{"username": "testuser", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, _ = app.postJSON(t, "/api/token", "", map[string]string{"username": "testuser"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPITimeline(t *testing.T) {
	app := newTestApp(t)
	me := app.createUser(t, "testuser")
	friend := app.createUser(t, "friend")
	stranger := app.createUser(t, "stranger")
	require.NoError(t, models.FollowUser(app.db, me, friend))
	app.createMessage(t, friend, "from a friend")
	app.createMessage(t, stranger, "from a stranger")

	resp, body := app.getJSON(t, "/api/timeline", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authorization header is required", body["error"])

	resp, _ = app.getJSON(t, "/api/timeline", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = app.getJSON(t, "/api/timeline", app.token(t, "testuser"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "from a friend", first["text"])
	assert.Equal(t, "friend", first["username"])
}

func TestAPITokenForDeletedUser(t *testing.T) {
	app := newTestApp(t)
	user := app.createUser(t, "testuser")
	token := app.token(t, "testuser")
	require.NoError(t, models.DeleteUser(app.db, user))

	resp, body := app.getJSON(t, "/api/timeline", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "User no longer exists", body["message"])
}

func TestAPICreateMessage(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "testuser")
	token := app.token(t, "testuser")

	resp, body := app.postJSON(t, "/api/messages", token, map[string]string{"text": "posted over the API"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "posted over the API", data["text"])
	assert.Equal(t, "testuser", data["username"])
	assert.Equal(t, int64(1), app.count(t, &models.Message{}))

	resp, body = app.postJSON(t, "/api/messages", token, map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Message is required.", body["message"])

	resp, body = app.postJSON(t, "/api/messages", token, map[string]string{"text": strings.Repeat("a", models.MaxMessageLength+1)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Message must be at most 140 characters long.", body["message"])

	resp, _ = app.postJSON(t, "/api/messages", "", map[string]string{"text": "anonymous"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int64(1), app.count(t, &models.Message{}))
}

func TestAPIGetUserAndMessage(t *testing.T) {
	app := newTestApp(t)
	user := app.createUser(t, "testuser")
	msg := app.createMessage(t, user, "public warble")

	resp, body := app.getJSON(t, "/api/users/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "testuser", data["username"])
	assert.Equal(t, float64(1), data["messagesCount"])

	resp, _ = app.getJSON(t, "/api/users/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = app.getJSON(t, "/api/messages/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, msg.Text, data["text"])

	resp, body = app.getJSON(t, "/api/messages/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Message not found", body["message"])
}

func TestAPIValidation(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "testuser")

	tests := []struct {
		path   string
		exists bool
	}{
		{"/api/validation/username/testuser", true},
		{"/api/validation/username/nobody", false},
		{"/api/validation/email/testuser@test.com", true},
		{"/api/validation/email/nobody@test.com", false},
	}
	for _, tt := range tests {
		resp, body := app.getJSON(t, tt.path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, tt.path)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, tt.exists, data["exists"], tt.path)
	}
}
