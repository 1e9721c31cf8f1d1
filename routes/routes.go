package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/warbler-app/warbler/config"
	"github.com/warbler-app/warbler/controllers"
	"github.com/warbler-app/warbler/middleware"
	"github.com/warbler-app/warbler/storage"
	"github.com/warbler-app/warbler/templates"
)

type Options struct {
	DB        *gorm.DB
	Store     sessions.Store
	Images    storage.ImageStore
	Google    *config.GoogleConfig
	JWTSecret string
	StaticDir string
}

func SetupRoutes(r *gin.Engine, opts Options) error {
	renderer, err := templates.New()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	r.HTMLRender = renderer

	// Initialize controllers
	authController := controllers.NewAuthController(opts.DB, opts.Store, opts.Google)
	feedController := controllers.NewFeedController(opts.DB, opts.Store)
	userController := controllers.NewUserController(opts.DB, opts.Store, opts.Images)
	messageController := controllers.NewMessageController(opts.DB, opts.Store)
	interactionController := controllers.NewInteractionController(opts.DB, opts.Store)
	validationController := controllers.NewValidationController(opts.DB)
	apiController := controllers.NewApiController(opts.DB, opts.JWTSecret)

	loadUser := middleware.LoadCurrentUser(opts.DB, opts.Store)

	// Public pages
	public := r.Group("/")
	public.Use(loadUser)
	{
		public.GET("/signup", authController.SignupForm)
		public.POST("/signup", authController.Signup)
		public.GET("/login", authController.LoginForm)
		public.POST("/login", authController.Login)

		if opts.Google != nil {
			public.GET("/login/google", authController.GoogleLogin)
			public.GET("/login/google/callback", authController.GoogleCallback)
		}
	}

	// Pages that need a logged in user
	protected := r.Group("/")
	protected.Use(loadUser, middleware.RequireLogin(opts.Store))
	{
		protected.GET("/logout", authController.Logout)
	}

	SetupFeedRoutes(public, feedController)
	SetupUserRoutes(public, protected, userController)
	SetupInteractionRoutes(protected, interactionController)
	SetupMessageRoutes(public, protected, messageController)

	api := r.Group("/api")
	SetupAPIRoutes(api, apiController, middleware.AuthMiddleware(opts.JWTSecret))
	SetupValidationRoutes(api, validationController)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
	}
	r.NoRoute(loadUser, controllers.NotFound(opts.Store))

	return nil
}
