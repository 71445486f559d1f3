package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"civicworks/internal/database"
	"civicworks/internal/middleware"
	"civicworks/internal/models"
)

// syncProjectProgress mirrors the newest remaining log entry onto the project
// summary fields, or resets them when no entries remain. Runs inside the
// caller's transaction.
func syncProjectProgress(tx *gorm.DB, projectID uint) error {
	var latest models.ProgressLogEntry
	err := tx.Where("project_id = ?", projectID).
		Order("created_at desc").
		First(&latest).Error

	updates := map[string]interface{}{
		"physical_progress":  "0",
		"financial_progress": "0",
	}
	switch {
	case err == nil:
		updates["physical_progress"] = latest.PhysicalProgress
		updates["financial_progress"] = latest.FinancialProgress
	case errors.Is(err, gorm.ErrRecordNotFound):
		// keep zero reset
	default:
		return err
	}

	return tx.Model(&models.Project{}).
		Where("id = ?", projectID).
		Updates(updates).Error
}

func ListProgress(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var entries []models.ProgressLogEntry
	if err := database.DB.Where("project_id = ?", id).
		Order("created_at desc").Find(&entries).Error; err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

type progressRequest struct {
	PhysicalProgress  string `json:"physical_progress"`
	FinancialProgress string `json:"financial_progress"`
	Remarks           string `json:"remarks"`
}

func CreateProgress(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "project not found")
		return
	}

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	entry := models.ProgressLogEntry{
		ProjectID:         project.ID,
		PhysicalProgress:  req.PhysicalProgress,
		FinancialProgress: req.FinancialProgress,
		Remarks:           req.Remarks,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return syncProjectProgress(tx, project.ID)
	})
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func DeleteProgress(c *gin.Context) {
	id, ok := parseID(c, "entryID")
	if !ok {
		return
	}

	var entry models.ProgressLogEntry
	if err := database.DB.First(&entry, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "progress entry not found")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&entry).Error; err != nil {
			return err
		}
		return syncProjectProgress(tx, entry.ProjectID)
	})
	if err != nil {
		serverError(c, err)
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "progress", entry.ID, "delete", "deleted progress entry")
	c.JSON(http.StatusOK, gin.H{"deleted": entry.ID})
}
