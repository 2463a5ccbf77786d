package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"holocron/core/loader"
	"holocron/core/logger"
	"holocron/core/middleware/auth"
	"holocron/core/middleware/rayid"
	"holocron/core/reconcile"

	"holocron/feature/catalog"
	"holocron/feature/collection"
	"holocron/feature/integrity"
	"holocron/feature/stats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "holocron/docs/swagger"
)

// @title Holocron API
// @version 1.0
// @description Card encyclopedia, collection ledger and set completion statistics.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the holocron server",
	Long:  `Reconciles the encyclopedia with the bundled dataset, then starts the HTTP server with all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// 1. Configuration, logger and stores
		rt, err := setup(ctx)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer rt.Close()
		logg := rt.logger
		zap.ReplaceGlobals(logg)

		// 2. Statistics engine. Every writer below invalidates it.
		engine := stats.NewEngine(stats.NewStoreSource(rt.store), rt.cfg.Stats.TTL(), logg)

		// 3. Bring the encyclopedia up to date. A failed rebuild leaves the
		// previous catalogue in place, so the server still starts.
		reconciler := reconcile.NewReconciler(rt.store, engine, logg)
		if ds, target, err := rt.loadDataset(ctx); err != nil {
			logg.Error("Failed to load dataset", zap.Error(err))
		} else if res, err := reconciler.Reconcile(ctx, ds, target); err != nil && !errors.Is(err, reconcile.ErrCleanupIncomplete) {
			logg.Error("Reconciliation failed", zap.Error(err))
		} else {
			if err != nil {
				logg.Warn("Collection cleanup incomplete, run 'holocron reconcile purge'", zap.Error(err))
			}
			logg.Info("Encyclopedia ready",
				zap.String("status", string(res.Status)),
				zap.Int("version", res.Version),
				zap.Int("purged", res.Purged),
				zap.Duration("duration", res.Duration),
			)
		}

		// 4. Fiber app and features
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		collectionFeature := collection.NewFeature(rt.store, engine, logg)

		mgr := loader.NewManager()
		mgr.Register(catalog.NewFeature(rt.store, collectionFeature.Service(), logg))
		mgr.Register(collectionFeature)
		mgr.Register(stats.NewFeature(engine, logg))
		mgr.Register(integrity.NewFeature(rt.store, rt.client, rt.cfg.Storage.Bucket, rt.cfg.Dataset.Object, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Request logging
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

		// 3. Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 4. Auth
		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
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
	RootCmd.AddCommand(startCmd)
}
