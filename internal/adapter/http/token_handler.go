package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/AlanGiacomini/orders-api/configs"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type TokenHandler struct {
	cfg configs.Config
}

func NewTokenHandler(cfg configs.Config) *TokenHandler {
	return &TokenHandler{cfg: cfg}
}

// IssueToken handles POST /auth/token: a valid x-api-key buys a short-lived
// HS256 bearer token for the protected routes.
func (h *TokenHandler) IssueToken(c *gin.Context) {
	apiKey := c.GetHeader("x-api-key")
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(h.cfg.Security.APIKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  "system",
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(h.cfg.Security.TTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Security.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed})
}
