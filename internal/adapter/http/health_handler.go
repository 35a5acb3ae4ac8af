package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	db  *sql.DB
	rdb *redis.Client
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Check reports dependency health. Any failing dependency turns the
// overall status into 503 so load balancers can rotate the instance out.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := gin.H{}
	healthy := true

	if err := h.db.PingContext(ctx); err != nil {
		deps["mysql"] = "down: " + err.Error()
		healthy = false
	} else {
		deps["mysql"] = "up"
	}

	if err := h.rdb.Ping(ctx).Err(); err != nil {
		deps["redis"] = "down: " + err.Error()
		healthy = false
	} else {
		deps["redis"] = "up"
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":       overall,
		"dependencies": deps,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}
