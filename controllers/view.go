package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"github.com/warbler-app/warbler/utils"
)

const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

// render writes a page with the layout data every page expects.
func render(c *gin.Context, store sessions.Store, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = utils.CurrentUser(c)
	data["Flashes"] = utils.Flashes(store, c)
	if _, ok := data["Query"]; !ok {
		data["Query"] = ""
	}
	c.HTML(status, name, data)
}

func notFound(c *gin.Context, store sessions.Store) {
	render(c, store, http.StatusNotFound, "errors/404.html", nil)
}

func serverError(c *gin.Context, store sessions.Store, err error) {
	_ = c.Error(err)
	logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	render(c, store, http.StatusInternalServerError, "errors/500.html", nil)
}

func redirectWithFlash(c *gin.Context, store sessions.Store, category, message, location string) {
	utils.AddFlash(store, c, category, message)
	c.Redirect(http.StatusFound, location)
}

// NotFound renders the 404 page for unknown routes.
func NotFound(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		notFound(c, store)
	}
}
