package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veridoc/internal/handler"
	"veridoc/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(verifyH *handler.VerifyHandler, healthH *handler.HealthHandler, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health and metrics
	r.GET("/healthz", healthH.Liveness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.POST("/verify", verifyH.Verify)
	v1.POST("/extract", verifyH.Extract)

	return r
}
