package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/slidegen/internal/domain/auth"
)

const authClaimsKey = "auth_claims"

func setClaims(c *gin.Context, claims auth.Claims) {
	c.Set(authClaimsKey, claims)
}

func getClaims(c *gin.Context) (auth.Claims, bool) {
	value, ok := c.Get(authClaimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := value.(auth.Claims)
	return claims, ok
}

// requireAuth rejects requests without a valid access token. It lets everything through when auth is disabled.
func requireAuth(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !svc.Enabled() {
			c.Next()
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header", nil))
			return
		}
		claims, err := svc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, domainError(err, "auth_failed"))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// optionalAuth attaches claims when a valid token is present and ignores everything else.
func optionalAuth(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc.Enabled() {
			if token, ok := bearerToken(c); ok {
				if claims, err := svc.ValidateToken(c.Request.Context(), token); err == nil {
					setClaims(c, claims)
				}
			}
		}
		c.Next()
	}
}

// bearerToken reads the Authorization header, falling back to the token query parameter.
func bearerToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		token := strings.TrimSpace(parts[1])
		return token, token != ""
	}
	token := strings.TrimSpace(c.Query("token"))
	return token, token != ""
}
