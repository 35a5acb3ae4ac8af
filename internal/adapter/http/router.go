package http

import (
	"log/slog"

	"github.com/AlanGiacomini/orders-api/internal/adapter/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the gin engine with the full middleware chain.
// Order matters: recovery first, then metrics and logging so they see
// every request, auth and rate limiting only on the /orders group.
func NewRouter(
	base *slog.Logger,
	health *HealthHandler,
	token *TokenHandler,
	orders *OrderHandler,
	authz *middleware.Authz,
	limiter middleware.Limiter,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics(), middleware.Logging(base))

	r.GET("/health", health.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/auth/token", token.IssueToken)

	grp := r.Group("/orders", authz.Require(), middleware.RateLimit(limiter))
	{
		grp.GET("", orders.ListOrders)
		grp.POST("", orders.CreateOrder)
		grp.GET("/summary", orders.Summary)
		grp.GET("/:order_number", orders.GetOrder)
		grp.PUT("/:order_number/status", orders.UpdateStatus)
	}

	return r
}
