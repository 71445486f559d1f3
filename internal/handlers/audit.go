package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civicworks/internal/database"
	"civicworks/internal/models"
)

func ListAuditLogs(c *gin.Context) {
	var logs []models.AuditLog
	if err := database.DB.
		Preload("User").
		Order("created_at desc").
		Limit(200).
		Find(&logs).Error; err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
