package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const MerchantIDKey = "merchantID"

// RequireMerchant scopes every request under it to one merchant via the
// X-Merchant-ID header set by the app proxy.
func RequireMerchant() gin.HandlerFunc {
	return func(c *gin.Context) {
		merchantID := c.GetHeader("X-Merchant-ID")
		if merchantID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-Merchant-ID header is required"})
			return
		}
		c.Set(MerchantIDKey, merchantID)
		c.Next()
	}
}

// MerchantID reads the merchant scope set by RequireMerchant.
func MerchantID(c *gin.Context) string {
	return c.GetString(MerchantIDKey)
}
