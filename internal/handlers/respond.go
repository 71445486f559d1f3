package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"civicworks/internal/config"
	"civicworks/internal/logger"
)

var cfg *config.Config

// Configure hands the loaded config to the handler package. Called once from
// the router.
func Configure(c *config.Config) {
	cfg = c
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func serverError(c *gin.Context, err error) {
	logger.L.Error("internal error",
		zap.String("path", c.Request.URL.Path), zap.Error(err))
	abortError(c, http.StatusInternalServerError, "internal server error")
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		abortError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// parseDate accepts "2006-01-02"; empty or malformed input yields nil.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
