package middleware

import "github.com/gin-gonic/gin"

// CacheControl marks every response as non-cacheable. Responses carry
// clinical data and must never be stored by intermediaries.
func CacheControl() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
