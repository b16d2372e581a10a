package restapi

import (
	"net/http"
	"net/http/pprof"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/configloader"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const swaggerSpecRoute = "/docs/swagger.yaml"

// SetupRouter настраивает и возвращает экземпляр Gin роутера.
func SetupRouter(h *Handler, cfg configloader.ServerConfig) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	router.Use(cors.New(corsConfig))

	router.Use(requestIDMiddleware())
	router.Use(accessLogMiddleware(h.logger))
	router.Use(metrics.GinMiddleware())
	router.Use(gin.Recovery())

	// Группа для API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/prices/:token", h.GetPriceHandler)
		v1.GET("/market", h.GetMarketHandler)
		v1.GET("/positions", h.GetPositionsHandler)

		v1.GET("/portfolio", h.GetPortfolioHandler)
		v1.GET("/portfolio/risk", h.GetRiskHandler)
		v1.GET("/portfolio/optimization", h.GetOptimizationHandler)
		v1.GET("/portfolio/positions", h.GetPositionsHandler)

		v1.GET("/portfolios/:address", h.GetPortfolioHandler)
		v1.GET("/portfolios/:address/risk", h.GetRiskHandler)
		v1.GET("/portfolios/:address/optimization", h.GetOptimizationHandler)
		v1.GET("/portfolios/:address/positions", h.GetPositionsHandler)

		v1.GET("/networks", h.ListNetworksHandler)
		v1.GET("/networks/current", h.GetCurrentNetworkHandler)

		v1.POST("/query", h.PostQueryHandler)
	}

	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.EnableSwagger {
		router.StaticFile(swaggerSpecRoute, cfg.SwaggerSpecPath)
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(swaggerSpecRoute)))
	}

	if cfg.EnablePprof {
		pprofRouter := router.Group("/debug/pprof")
		{
			pprofRouter.GET("/", gin.WrapF(pprof.Index))
			pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
			pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
			pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
			pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		}
	}

	return router
}
