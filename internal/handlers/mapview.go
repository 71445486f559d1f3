package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"civicworks/internal/cache"
	"civicworks/internal/database"
	"civicworks/internal/mapdata"
)

const mapFeatureCacheTTL = 5 * time.Minute

// MapAssets serves the unified feature set for the map dashboard.
func MapAssets(c *gin.Context) {
	ctx := c.Request.Context()

	if raw, ok := cache.Get(ctx, mapFeatureCacheKey); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	}

	features, err := mapdata.LoadFeatures(database.DB)
	if err != nil {
		serverError(c, err)
		return
	}

	payload := gin.H{"features": features, "count": len(features)}
	if raw, err := json.Marshal(payload); err == nil {
		cache.Set(ctx, mapFeatureCacheKey, raw, mapFeatureCacheTTL)
	}

	c.JSON(http.StatusOK, payload)
}
