package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/yeremiapane/pizzagpt/config"
	"github.com/yeremiapane/pizzagpt/database"
	"github.com/yeremiapane/pizzagpt/models"
	"github.com/yeremiapane/pizzagpt/router"
	"github.com/yeremiapane/pizzagpt/services"
	"github.com/yeremiapane/pizzagpt/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	mode := flag.String("mode", database.ModeAuto, "startup data: seed, restore-sql, auto or none")
	dump := flag.String("dump", cfg.SQLDumpPath, "path to SQL dump for restore-sql/auto")
	issueToken := flag.String("issue-token", "", "print a bearer token for the given agent name and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of a token from -issue-token")
	flag.Parse()

	if *issueToken != "" {
		token, err := utils.GenerateToken(*issueToken, []byte(cfg.ToolsJWTSecret), *tokenTTL)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to issue token (is TOOLS_JWT_SECRET set?): %v", err)
		}
		fmt.Fprintln(os.Stdout, token)
		return
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	totals := services.NewTotalsCalculator(cfg.TaxRateBasisPoints)
	if err := database.Run(db, *mode, *dump, totals); err != nil {
		utils.ErrorLogger.Fatalf("Failed to prepare data: %v", err)
	}

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.SetupRouter(db, cfg)
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Printf("Failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.InfoLogger.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		utils.ErrorLogger.Fatal(err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	utils.InfoLogger.Println("Server exited")
}
