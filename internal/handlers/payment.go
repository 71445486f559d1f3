package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civicworks/internal/database"
	"civicworks/internal/middleware"
	"civicworks/internal/models"
)

func ListPayments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "project not found")
		return
	}

	var payments []models.Payment
	if err := database.DB.Where("project_id = ?", project.ID).
		Order("payment_date asc").Find(&payments).Error; err != nil {
		serverError(c, err)
		return
	}

	var total float64
	for _, p := range payments {
		total += p.Amount
	}

	c.JSON(http.StatusOK, gin.H{
		"payments":        payments,
		"paid":            total,
		"approved_amount": project.ApprovedAmount,
	})
}

type paymentRequest struct {
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
	BillNo      string  `json:"bill_no"`
}

func CreatePayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "project not found")
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		abortError(c, http.StatusBadRequest, "amount must be positive")
		return
	}

	payment := models.Payment{
		ProjectID:   project.ID,
		Amount:      req.Amount,
		PaymentDate: parseDate(req.PaymentDate),
		BillNo:      req.BillNo,
	}
	if err := database.DB.Create(&payment).Error; err != nil {
		serverError(c, err)
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "payment", payment.ID, "create", "recorded payment for project "+project.Name)
	c.JSON(http.StatusCreated, payment)
}

func DeletePayment(c *gin.Context) {
	id, ok := parseID(c, "paymentID")
	if !ok {
		return
	}

	var payment models.Payment
	if err := database.DB.First(&payment, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "payment not found")
		return
	}

	if err := database.DB.Delete(&payment).Error; err != nil {
		serverError(c, err)
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "payment", payment.ID, "delete", "deleted payment")
	c.JSON(http.StatusOK, gin.H{"deleted": payment.ID})
}
