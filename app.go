// @title           WHOIS API
// @version         1.0
// @description     Domain, IP and ASN registration lookups over RDAP and WHOIS, normalized into one record format.

// @contact.name   API Support
// @contact.email  info@bentech.app

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https
package main

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/vit0-9/whois_api/docs"
	"github.com/vit0-9/whois_api/handlers"
	"github.com/vit0-9/whois_api/pkg/cache"
	"github.com/vit0-9/whois_api/pkg/config"
)

// App encapsulates all the components of the application
type App struct {
	Router         *gin.Engine
	LookupHandlers *handlers.LookupHandlers
	HealthHandler  *handlers.HealthHandler
	logger         *zap.Logger
}

// NewApp creates and initializes a new application instance
func NewApp(cfg config.Config, service handlers.Lookuper, store cache.Store, logger *zap.Logger) *App {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(
		handlers.RequestID(),
		handlers.AccessLog(logger),
		handlers.Recovery(logger),
		gzip.Gzip(gzip.DefaultCompression),
	)
	router.NoRoute(handlers.NotFound)

	app := &App{
		Router:         router,
		LookupHandlers: handlers.NewLookupHandlers(service, cfg.LookupTimeout, logger),
		HealthHandler:  handlers.NewHealthHandler(store),
		logger:         logger,
	}

	app.setupRoutes()
	return app
}

// setupRoutes defines all the application routes
func (app *App) setupRoutes() {
	app.Router.GET("/api/v1/health", app.HealthHandler.HealthCheckHandler)

	v1 := app.Router.Group("/api/v1")
	{
		v1.GET("/lookup", app.LookupHandlers.LookupHandler)
	}

	// Path kept for existing clients.
	app.Router.GET("/api/lookup", app.LookupHandlers.LookupHandler)

	app.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
}

// Start runs the Gin HTTP server
func (app *App) Start(addr string) error {
	app.logger.Info("API server starting", zap.String("addr", addr))
	return app.Router.Run(addr)
}
