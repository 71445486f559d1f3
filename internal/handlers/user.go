package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civicworks/internal/database"
	"civicworks/internal/middleware"
	"civicworks/internal/models"
)

func ListUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Order("username asc").Find(&users).Error; err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type roleRequest struct {
	Role string `json:"role"`
}

func UpdateUserRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "user not found")
		return
	}

	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	role := models.UserRole(req.Role)
	if !models.ValidRole(role) {
		abortError(c, http.StatusBadRequest, "invalid role")
		return
	}

	user.Role = role
	if err := database.DB.Save(&user).Error; err != nil {
		serverError(c, err)
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "user", user.ID, "role_change", "set role "+string(role)+" for "+user.Username)
	c.JSON(http.StatusOK, user)
}

func DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if id == middleware.CurrentUserID(c) {
		abortError(c, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "user not found")
		return
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		serverError(c, err)
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "user", user.ID, "delete", "deleted user "+user.Username)
	c.JSON(http.StatusOK, gin.H{"deleted": user.ID})
}
