package utils

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	SessionName = "warbler"
	CurrUserKey = "curr_user"
)

type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

func NewStore(secret string) *sessions.CookieStore {
	s := sessions.NewCookieStore([]byte(secret))
	s.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return s
}

func session(store sessions.Store, c *gin.Context) *sessions.Session {
	// a cookie that no longer decodes still yields a usable empty session
	s, _ := store.Get(c.Request, SessionName)
	return s
}

// SessionUserID returns the id stored under curr_user, if any.
func SessionUserID(store sessions.Store, c *gin.Context) (uint, bool) {
	id, ok := session(store, c).Values[CurrUserKey].(uint)
	return id, ok
}

func Login(store sessions.Store, c *gin.Context, userID uint) error {
	s := session(store, c)
	s.Values[CurrUserKey] = userID
	return s.Save(c.Request, c.Writer)
}

func Logout(store sessions.Store, c *gin.Context) error {
	s := session(store, c)
	delete(s.Values, CurrUserKey)
	return s.Save(c.Request, c.Writer)
}

func SetSessionValue(store sessions.Store, c *gin.Context, key string, value interface{}) error {
	s := session(store, c)
	s.Values[key] = value
	return s.Save(c.Request, c.Writer)
}

// PopSessionValue returns and removes key.
func PopSessionValue(store sessions.Store, c *gin.Context, key string) (interface{}, error) {
	s := session(store, c)
	v, ok := s.Values[key]
	if !ok {
		return nil, nil
	}
	delete(s.Values, key)
	return v, s.Save(c.Request, c.Writer)
}

func AddFlash(store sessions.Store, c *gin.Context, category, message string) {
	s := session(store, c)
	s.AddFlash(Flash{Category: category, Message: message})
	_ = s.Save(c.Request, c.Writer)
}

// Flashes drains the pending flash messages.
func Flashes(store sessions.Store, c *gin.Context) []Flash {
	s := session(store, c)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save(c.Request, c.Writer)

	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}
