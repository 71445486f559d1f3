package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"civicworks/internal/database"
	"civicworks/internal/models"
	"civicworks/internal/timeline"
)

type financeRow struct {
	ProjectID         uint                 `json:"project_id"`
	Name              string               `json:"name"`
	Division          string               `json:"division"`
	Status            models.ProjectStatus `json:"status"`
	ApprovedAmount    float64              `json:"approved_amount"`
	Paid              float64              `json:"paid"`
	PercentPaid       float64              `json:"percent_paid"`
	FinancialProgress string               `json:"financial_progress"`
}

// FinanceDashboard compares paid totals against approved amounts per project.
func FinanceDashboard(c *gin.Context) {
	var projects []models.Project
	if err := database.DB.Order("created_at desc").Find(&projects).Error; err != nil {
		serverError(c, err)
		return
	}

	type paidRow struct {
		ProjectID uint
		Total     float64
	}
	var paidRows []paidRow
	if err := database.DB.Model(&models.Payment{}).
		Select("project_id, SUM(amount) as total").
		Group("project_id").
		Scan(&paidRows).Error; err != nil {
		serverError(c, err)
		return
	}
	paid := make(map[uint]float64, len(paidRows))
	for _, r := range paidRows {
		paid[r.ProjectID] = r.Total
	}

	rows := make([]financeRow, 0, len(projects))
	var totalApproved, totalPaid float64
	for _, p := range projects {
		row := financeRow{
			ProjectID:         p.ID,
			Name:              p.Name,
			Division:          p.Division,
			Status:            p.Status,
			ApprovedAmount:    p.ApprovedAmount,
			Paid:              paid[p.ID],
			FinancialProgress: p.FinancialProgress,
		}
		if p.ApprovedAmount > 0 {
			row.PercentPaid = math.Round(row.Paid/p.ApprovedAmount*10000) / 100
		}
		totalApproved += p.ApprovedAmount
		totalPaid += row.Paid
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{
		"projects":       rows,
		"total_approved": totalApproved,
		"total_paid":     totalPaid,
	})
}

type progressOverviewRow struct {
	ProjectID        uint                 `json:"project_id"`
	Name             string               `json:"name"`
	Status           models.ProjectStatus `json:"status"`
	PhysicalProgress string               `json:"physical_progress"`
	Timeline         timeline.Report      `json:"timeline"`
}

// ProgressDashboard returns per-project timeline reports plus counts per
// warning band so the UI can render summary tiles.
func ProgressDashboard(c *gin.Context) {
	var projects []models.Project
	if err := database.DB.Order("created_at desc").Find(&projects).Error; err != nil {
		serverError(c, err)
		return
	}

	now := time.Now()
	rows := make([]progressOverviewRow, 0, len(projects))
	workCounts := make(map[timeline.WorkStatus]int)
	dlpCounts := make(map[timeline.DLPStatus]int)

	for _, p := range projects {
		report := projectTimeline(p, now)
		workCounts[report.Work.Status]++
		dlpCounts[report.DLP.Status]++
		rows = append(rows, progressOverviewRow{
			ProjectID:        p.ID,
			Name:             p.Name,
			Status:           p.Status,
			PhysicalProgress: p.PhysicalProgress,
			Timeline:         report,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"projects":    rows,
		"work_counts": workCounts,
		"dlp_counts":  dlpCounts,
	})
}
