package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithResponseMetaStampsProcessingTime(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var captured map[string]interface{}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Next()
		captured = ExtractMeta(c)
	})
	router.Use(WithResponseMeta())
	router.GET("/x", func(c *gin.Context) {
		SetCacheHit(c, true)
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.NotNil(t, captured)
	assert.Equal(t, true, captured["cache_hit"])
	assert.Contains(t, captured, "processing_time_ms")
}

func TestStampProcessingTimeKeepsHandlerValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	StampProcessingTime(c, time.Now().Add(-50*time.Millisecond))
	SetMeta(c, "partial", false)

	meta := ExtractMeta(c)
	require.NotNil(t, meta)
	assert.GreaterOrEqual(t, meta["processing_time_ms"].(int64), int64(50))
	assert.Equal(t, false, meta["partial"])
}
