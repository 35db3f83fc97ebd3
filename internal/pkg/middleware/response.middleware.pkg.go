package middleware

import (
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestInit tags every request with a start log line.
func RequestInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.HTTP.Printf("%s %s", c.Request.Method, c.Request.URL.Path)
		c.Next()
	}
}

// ResponseInit installs the "send" function handlers use to write the
// normalized API response shape.
func ResponseInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("send", func(r *types.Response) {
			body := types.ResponseAPI{
				Code:    r.Code,
				Message: r.Message,
				Data:    r.Data,
			}
			if r.Error != nil {
				body.Error = r.Error.Error()
				logger.Error.Printf("%s %s -> %d: %v", c.Request.Method, c.Request.URL.Path, r.Code, r.Error)
			}
			c.Abort()
			c.JSON(r.Code, body)
		})
		c.Next()
	}
}
