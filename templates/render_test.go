package templates

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	ID             uint
	Username       string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

type message struct {
	ID        uint
	Text      string
	Timestamp time.Time
	UserID    uint
	User      *user
}

func renderPage(t *testing.T, r *Renderer, name string, data gin.H) string {
	t.Helper()
	require.True(t, r.has(name), name)
	w := httptest.NewRecorder()
	require.NoError(t, r.Instance(name, data).Render(w))
	return w.Body.String()
}

func TestNewParsesEveryPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	for _, name := range []string{
		"home.html", "home-anon.html",
		"users/signup.html", "users/login.html", "users/index.html", "users/show.html",
		"users/following.html", "users/followers.html", "users/likes.html", "users/edit.html",
		"messages/new.html", "messages/show.html",
		"errors/404.html", "errors/500.html",
	} {
		assert.True(t, r.has(name), name)
	}
	assert.False(t, r.has("layout.html"))
}

func TestRenderForms(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	body := renderPage(t, r, "users/signup.html", gin.H{"Form": struct{ Username, Email, ImageURL string }{}})
	assert.Contains(t, body, `<form method="POST" action="/signup">`)
	assert.Contains(t, body, "<title>Sign up | Warbler</title>")

	body = renderPage(t, r, "users/login.html", gin.H{
		"Form":  struct{ Username string }{Username: "bob"},
		"Error": "Invalid credentials.",
	})
	assert.Contains(t, body, `<form method="POST" action="/login">`)
	assert.Contains(t, body, "Invalid credentials.")

	body = renderPage(t, r, "messages/new.html", gin.H{"Text": ""})
	assert.Contains(t, body, `<form method="POST" action="/messages/new">`)
}

func TestRenderProfile(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	u := &user{ID: 3, Username: "testuser", ImageURL: "/img.png"}
	body := renderPage(t, r, "users/show.html", gin.H{
		"User":     u,
		"Stats":    struct{ MessagesCount, FollowersCount, FollowingCount, LikesCount int64 }{MessagesCount: 1},
		"Messages": []message{{ID: 1, Text: "<b>hi</b>", UserID: 3, User: u}},
		"LikedIDs": map[uint]bool{},
	})
	assert.Contains(t, body, "<p>@testuser</p>")
	assert.Contains(t, body, "&lt;b&gt;hi&lt;/b&gt;")
	assert.Contains(t, body, `<a href="/messages/1"`)
}

func TestRenderUserList(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	body := renderPage(t, r, "users/index.html", gin.H{
		"Users":        []user{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}},
		"FollowingIDs": map[uint]bool{},
		"Query":        "",
	})
	assert.Contains(t, body, `<a href="/users/1">@alice</a>`)
	assert.Contains(t, body, `<a href="/users/2">@bob</a>`)

	body = renderPage(t, r, "users/index.html", gin.H{"Users": []user{}, "Query": "zzz"})
	assert.Contains(t, body, "Sorry, no users found")
}

func TestInstanceUnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		err = r.Instance("users/missing.html", gin.H{}).Render(w)
	})
	assert.EqualError(t, err, `template "users/missing.html" is not defined`)
	assert.Empty(t, w.Body.String())
}
