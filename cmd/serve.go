package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"load-manager/core/config"
	"load-manager/core/database"
	"load-manager/core/logger"
	"load-manager/core/middleware/auth"
	"load-manager/core/middleware/rayid"
	"load-manager/feature/api"
	"load-manager/feature/job"
	jobmodels "load-manager/feature/job/models"
	"load-manager/feature/manifest"
	manifestmodels "load-manager/feature/manifest/models"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the status API server",
	Long: `Starts the HTTP status API: health, manifest and job lookups, and the
completion callback used by the external transfer worker.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to the tracker database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := manifestmodels.AutoMigrate(db); err != nil {
			logg.Fatal("Failed to migrate manifest schema", zap.Error(err))
		}
		if err := jobmodels.AutoMigrate(db); err != nil {
			logg.Fatal("Failed to migrate job schema", zap.Error(err))
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Build the stores and services. The API runs alongside the
		// external transfer worker, which cannot be interrupted from here.
		manifests := manifest.NewStore(db, manifest.Options{Overwrite: cfg.Policy.ManifestOverwrite})
		jobs := job.NewService(
			job.NewStore(db, job.Options{AllowRetry: cfg.Policy.JobRetry}),
			manifests,
			job.HandoffTransfer{},
			logg,
		)

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API, health stays public)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 4. Routes
		api.NewHandler(manifests, jobs, logg).RegisterRoutes(app)

		// 5. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
