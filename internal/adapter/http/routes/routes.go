package routes

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	_ "rfp_automation/docs" // generated by swag init
	"rfp_automation/internal/adapter/http/handlers"
	"rfp_automation/internal/app"
	"rfp_automation/internal/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const Version = "1.0.0"

// Run starts the server and blocks until ctx is cancelled, then shuts it down gracefully.
func Run(ctx context.Context, a *app.App) error {
	router := NewRouter(a)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(a.Config.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewRouter builds the gin engine with every public route mounted.
func NewRouter(a *app.App) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, a)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	health := handlers.NewHealthHandler(app.ServiceName, Version)
	router.GET("/", health.Banner)

	jobHandler := handlers.NewJobHandler(a.Pipeline)
	matchHandler := handlers.NewMatchHandler(a.Matcher)
	pricingHandler := handlers.NewPricingHandler(a.Pricing)

	v1 := router.Group("/v1")
	addPingRoutes(v1, health)
	addRfpRoutes(v1, jobHandler, matchHandler, pricingHandler)
	return router
}

func setMiddlewares(router *gin.Engine, a *app.App) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(recoverWith(a.Log)))
	router.Use(corsMiddleware(a.Config.CORSAllowOrigins))
	if a.Config.OtelEnabled {
		router.Use(otelgin.Middleware(app.ServiceName))
	}
}

func recoverWith(log *logger.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered interface{}) {
		log.Error("recovered from panic", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Requested-With"},
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		if len(origins) == 0 {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = origins
			cfg.AllowCredentials = true
		}
	}
	return cors.New(cfg)
}
