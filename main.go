package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/warbler-app/warbler/config"
	"github.com/warbler-app/warbler/logger"
	"github.com/warbler-app/warbler/middleware"
	"github.com/warbler-app/warbler/monitoring"
	"github.com/warbler-app/warbler/routes"
	"github.com/warbler-app/warbler/storage"
	"github.com/warbler-app/warbler/utils"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "warbler",
		Short: "Warbler social microblogging server",
	}

	rootCmd.AddCommand(serveCmd(), migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port, _ := cmd.Flags().GetInt("port"); port != 0 {
				cfg.Port = port
			}
			logger.InitLogger(cfg.LogLevel, os.Stdout)

			// Initialize database
			db, err := config.InitDB(cfg)
			if err != nil {
				return err
			}

			var images storage.ImageStore
			if cfg.Storage.Enabled() {
				images = storage.NewS3Store(cfg.Storage)
			} else {
				logrus.Info("image storage not configured, profile uploads disabled")
			}
			if cfg.Google == nil {
				logrus.Info("google sign-in not configured")
			}

			gin.SetMode(gin.ReleaseMode)
			r := gin.New()
			r.Use(gin.Recovery(), middleware.RequestLogger(), monitoring.Instrument())

			err = routes.SetupRoutes(r, routes.Options{
				DB:        db,
				Store:     utils.NewStore(cfg.SecretKey),
				Images:    images,
				Google:    cfg.Google,
				JWTSecret: cfg.JWTSecret,
				StaticDir: cfg.StaticDir,
			})
			if err != nil {
				return err
			}

			addr := fmt.Sprintf(":%d", cfg.Port)
			logrus.WithField("addr", addr).Info("starting server")
			return r.Run(addr)
		},
	}
	cmd.Flags().Int("port", 0, "port to listen on (overrides PORT)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.InitLogger(cfg.LogLevel, os.Stdout)

			db, err := config.ConnectDatabase(cfg.DBDriver, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if err := config.Migrate(db); err != nil {
				return err
			}
			logrus.WithField("driver", cfg.DBDriver).Info("schema up to date")
			return nil
		},
	}
}
