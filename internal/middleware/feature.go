package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/edu-signal-api/pkg/errors"
	"github.com/noah-isme/edu-signal-api/pkg/response"
)

const (
	featureHeader     = "X-Feature"
	featureContextKey = "feature"
)

// FeatureGate rejects requests to a disabled feature with 404 and tags
// responses of an enabled one with the X-Feature header.
func FeatureGate(feature string, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, feature+" is disabled"))
			c.Abort()
			return
		}
		c.Set(featureContextKey, feature)
		c.Writer.Header().Set(featureHeader, feature)
		c.Next()
	}
}

// Feature returns the feature tag stored by FeatureGate.
func Feature(c *gin.Context) string {
	if value, exists := c.Get(featureContextKey); exists {
		if typed, ok := value.(string); ok {
			return typed
		}
	}
	return ""
}
