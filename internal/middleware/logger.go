package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// RequestID propagates the caller's X-Request-ID, minting one when the
// header is absent. Handlers reuse the ID on their own log lines.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logger writes one line per request. The matched route template is logged
// next to the raw path so lines for /api/v1/suggestions/:id aggregate
// regardless of the concrete ID.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		log.Printf("http: [%s] %s %s (%s) %d %s",
			c.GetString(requestIDKey),
			c.Request.Method,
			path,
			route,
			c.Writer.Status(),
			time.Since(start).Round(time.Millisecond),
		)
		for _, e := range c.Errors {
			log.Printf("http: [%s] handler error: %v", c.GetString(requestIDKey), e.Err)
		}
	}
}

// Recovery turns a handler panic into the standard error envelope instead of
// a dropped connection. The stack is logged under the request ID.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("http: [%s] panic: %v\n%s", c.GetString(requestIDKey), r, debug.Stack())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   gin.H{"code": "INTERNAL_ERROR", "message": "an internal error occurred"},
				})
			}
		}()
		c.Next()
	}
}
