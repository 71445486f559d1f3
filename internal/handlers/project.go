package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"civicworks/internal/cache"
	"civicworks/internal/database"
	"civicworks/internal/export"
	"civicworks/internal/middleware"
	"civicworks/internal/models"
	"civicworks/internal/timeline"
)

func validProjectStatus(s models.ProjectStatus) bool {
	switch s {
	case models.StatusOngoing, models.StatusCompleted, models.StatusPending, models.StatusReturned:
		return true
	}
	return false
}

func projectTimeline(p models.Project, now time.Time) timeline.Report {
	return timeline.Compute(timeline.Input{
		CompletionDate:        p.CompletionDate,
		RevisedCompletionDate: p.RevisedCompletionDate,
		DLP:                   p.DLP,
		Status:                p.Status,
	}, now)
}

func ListProjects(c *gin.Context) {
	dbq := database.DB.Order("created_at desc")

	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}
	if division := c.Query("division"); division != "" {
		dbq = dbq.Where("division = ?", division)
	}
	if category := c.Query("category"); category != "" {
		dbq = dbq.Where("category = ?", category)
	}
	if agency := c.Query("agency"); agency != "" {
		dbq = dbq.Where("agency = ?", agency)
	}

	var projects []models.Project
	if err := dbq.Find(&projects).Error; err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func GetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := database.DB.
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_date asc") }).
		Preload("ProgressLogs", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		First(&project, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "project not found")
		return
	}

	var paid float64
	for _, p := range project.Payments {
		paid += p.Amount
	}

	c.JSON(http.StatusOK, gin.H{
		"project":  project,
		"paid":     paid,
		"timeline": projectTimeline(project, time.Now()),
	})
}

type projectRequest struct {
	Name                  string  `json:"name"`
	Division              string  `json:"division"`
	Category              string  `json:"category"`
	Agency                string  `json:"agency"`
	ApprovedAmount        float64 `json:"approved_amount"`
	YearlyBudget          float64 `json:"yearly_budget"`
	DLP                   string  `json:"dlp"`
	Status                string  `json:"status"`
	StartDate             string  `json:"start_date"`
	CompletionDate        string  `json:"completion_date"`
	RevisedCompletionDate string  `json:"revised_completion_date"`
	TimeLimit             string  `json:"time_limit"`
}

func (r projectRequest) apply(p *models.Project) {
	p.Name = strings.TrimSpace(r.Name)
	p.Division = r.Division
	p.Category = r.Category
	p.Agency = r.Agency
	p.ApprovedAmount = r.ApprovedAmount
	p.YearlyBudget = r.YearlyBudget
	p.DLP = r.DLP
	p.StartDate = parseDate(r.StartDate)
	p.CompletionDate = parseDate(r.CompletionDate)
	p.RevisedCompletionDate = parseDate(r.RevisedCompletionDate)
	p.TimeLimit = parseDate(r.TimeLimit)
}

func CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(strings.TrimSpace(req.Name)) < 3 {
		abortError(c, http.StatusBadRequest, "project name too short")
		return
	}

	status := models.ProjectStatus(req.Status)
	if req.Status == "" {
		status = models.StatusOngoing
	}
	if !validProjectStatus(status) {
		abortError(c, http.StatusBadRequest, "invalid project status")
		return
	}

	var project models.Project
	req.apply(&project)
	project.Status = status

	if err := database.DB.Create(&project).Error; err != nil {
		serverError(c, err)
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "project", project.ID, "create", "created project "+project.Name)
	c.JSON(http.StatusCreated, project)
}

func UpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "project not found")
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(strings.TrimSpace(req.Name)) < 3 {
		abortError(c, http.StatusBadRequest, "project name too short")
		return
	}
	if req.Status != "" {
		status := models.ProjectStatus(req.Status)
		if !validProjectStatus(status) {
			abortError(c, http.StatusBadRequest, "invalid project status")
			return
		}
		project.Status = status
	}

	req.apply(&project)

	if err := database.DB.Save(&project).Error; err != nil {
		serverError(c, err)
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "project", project.ID, "update", "updated project "+project.Name)
	c.JSON(http.StatusOK, project)
}

// DeleteProject removes a project with everything it owns. Assets survive;
// only the link rows go.
func DeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "project not found")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProgressLogEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectAssetLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		serverError(c, err)
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "project", project.ID, "delete", "deleted project "+project.Name)
	cache.Invalidate(c.Request.Context(), mapFeatureCacheKey)
	c.JSON(http.StatusOK, gin.H{"deleted": project.ID})
}

func ProjectTimeline(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "project not found")
		return
	}

	c.JSON(http.StatusOK, projectTimeline(project, time.Now()))
}

type linkAssetRequest struct {
	AssetCode string `json:"asset_code"`
}

func LinkProjectAsset(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "project not found")
		return
	}

	var req linkAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.AssetCode) == "" {
		abortError(c, http.StatusBadRequest, "asset_code is required")
		return
	}

	link := models.ProjectAssetLink{ProjectID: project.ID, AssetCode: strings.TrimSpace(req.AssetCode)}
	if err := database.DB.Create(&link).Error; err != nil {
		serverError(c, err)
		return
	}

	cache.Invalidate(c.Request.Context(), mapFeatureCacheKey)
	c.JSON(http.StatusCreated, link)
}

// ExportProjects streams the full register as an XLSX workbook.
func ExportProjects(c *gin.Context) {
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

	now := time.Now()
	rows := make([]export.ProjectRow, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, export.ProjectRow{Project: p, Paid: paid[p.ID]})
	}

	f, err := export.ProjectRegister(rows, now)
	if err != nil {
		serverError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(now)+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		serverError(c, err)
	}
}
