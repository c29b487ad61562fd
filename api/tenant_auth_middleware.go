package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
)

// TenantAuth resolves the calling tenant from a bearer token carrying a
// tenant_id claim. Parsed tokens are cached briefly so hot callers skip
// repeated signature checks.
func TenantAuth(secret string) gin.HandlerFunc {
	tokenCache := cache.New(1*time.Minute, 5*time.Minute)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication"})
			c.Abort()
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		if cached, found := tokenCache.Get(rawToken); found {
			c.Set("tenantId", cached.(string))
			return
		}

		tenant, err := parseTenantToken(rawToken, secret)

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication"})
			c.Abort()
			return
		}

		tokenCache.SetDefault(rawToken, tenant)
		c.Set("tenantId", tenant)
	}
}

func parseTenantToken(rawToken, secret string) (string, error) {
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return "", fmt.Errorf("unexpected claims type")
	}

	tenant, ok := claims["tenant_id"].(string)

	if !ok || tenant == "" {
		return "", fmt.Errorf("token is missing the tenant_id claim")
	}

	return tenant, nil
}
