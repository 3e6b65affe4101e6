package middleware

import (
	"XhsStudio/internal/pkg/logger"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware 放行配置中的来源访问 JSON 接口，带 cookie
func CORSMiddleware(origins []string) gin.HandlerFunc {
	allowHeaders := strings.Join([]string{"Content-Type", "Accept", logger.TraceHeader}, ", ")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := origin != "" && (slices.Contains(origins, "*") || slices.Contains(origins, origin))
		if allowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", allowHeaders)
			c.Header("Access-Control-Expose-Headers", logger.TraceHeader)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			if !allowed {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
