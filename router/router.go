package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/pizzagpt/config"
	"github.com/yeremiapane/pizzagpt/controllers"
	"github.com/yeremiapane/pizzagpt/middlewares"
	"github.com/yeremiapane/pizzagpt/services"
)

func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())

	totals := services.NewTotalsCalculator(cfg.TaxRateBasisPoints)
	toolCtrl := controllers.NewToolController(
		services.NewMenuService(db),
		services.NewCustomerService(db),
		services.NewOrderService(db, totals),
	)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	tools := r.Group("/tools")
	if cfg.RateLimitRPS > 0 {
		tools.Use(middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit())
	}
	if cfg.ToolsJWTSecret != "" {
		tools.Use(middlewares.ToolAuthMiddleware([]byte(cfg.ToolsJWTSecret)))
	}
	{
		tools.GET("", toolCtrl.ListTools)
		tools.GET("/schema", toolCtrl.ToolSchemas)
		tools.POST("/:name", toolCtrl.InvokeTool)
	}

	return r
}
