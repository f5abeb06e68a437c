package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var corsHeaders = [][2]string{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Methods", "GET, POST, OPTIONS"},
	{"Access-Control-Allow-Headers", "Content-Type, Authorization"},
	{"Access-Control-Expose-Headers", "Content-Disposition, " + requestIDHeader},
}

// corsMiddleware stamps every response, including 404s and errors, and ends preflights with 204.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		for _, kv := range corsHeaders {
			h.Set(kv[0], kv[1])
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
