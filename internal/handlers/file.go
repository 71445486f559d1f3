package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"civicworks/internal/cache"
	"civicworks/internal/database"
	"civicworks/internal/middleware"
	"civicworks/internal/models"
	"civicworks/internal/notification"
)

func newFileNumber() string {
	return "FILE-" + strings.ToUpper(uuid.New().String()[:8])
}

// gateReason checks the forward/approve preconditions; empty means pass.
func gateReason(f models.ProjectFile) string {
	if f.EstimatedAmount <= 0 {
		return "file has no positive estimated amount"
	}
	if len(f.Assets) == 0 {
		return "file has no proposed assets"
	}
	return ""
}

func loadFile(c *gin.Context) (models.ProjectFile, bool) {
	var file models.ProjectFile
	id, ok := parseID(c, "id")
	if !ok {
		return file, false
	}
	if err := database.DB.
		Preload("Items").
		Preload("Assets").
		Preload("Movements", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("CreatedBy").
		Preload("Holder").
		First(&file, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "file not found")
		return file, false
	}
	return file, true
}

type fileRequest struct {
	Subject        string  `json:"subject"`
	WorkName       string  `json:"work_name"`
	Division       string  `json:"division"`
	Category       string  `json:"category"`
	Agency         string  `json:"agency"`
	ApprovedAmount float64 `json:"approved_amount"`
	DLP            string  `json:"dlp"`
	TimeLimit      string  `json:"time_limit"`
}

func CreateFile(c *gin.Context) {
	var req fileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(strings.TrimSpace(req.WorkName)) < 3 {
		abortError(c, http.StatusBadRequest, "work name too short")
		return
	}

	uid := middleware.CurrentUserID(c)
	file := models.ProjectFile{
		FileNumber:     newFileNumber(),
		Subject:        strings.TrimSpace(req.Subject),
		WorkName:       strings.TrimSpace(req.WorkName),
		Division:       req.Division,
		Category:       req.Category,
		Agency:         req.Agency,
		ApprovedAmount: req.ApprovedAmount,
		DLP:            req.DLP,
		TimeLimit:      parseDate(req.TimeLimit),
		Status:         models.FileDraft,
		CreatedByID:    uid,
		HolderID:       &uid,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&file).Error; err != nil {
			return err
		}
		return tx.Create(&models.FileMovement{
			FileID:     file.ID,
			FromUserID: uid,
			ToUserID:   &uid,
			Action:     models.ActionCreate,
			Remarks:    "file created",
		}).Error
	})
	if err != nil {
		serverError(c, err)
		return
	}

	database.CreateAuditLog(uid, "file", file.ID, "create", "created file "+file.FileNumber)
	c.JSON(http.StatusCreated, file)
}

// ListFiles is role-scoped: non-admins only see files they created or hold.
func ListFiles(c *gin.Context) {
	dbq := database.DB.Order("created_at desc").Preload("CreatedBy").Preload("Holder")

	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}
	if middleware.CurrentRole(c) != models.RoleAdmin {
		uid := middleware.CurrentUserID(c)
		dbq = dbq.Where("created_by_id = ? OR holder_id = ?", uid, uid)
	}

	var files []models.ProjectFile
	if err := dbq.Find(&files).Error; err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

func GetFile(c *gin.Context) {
	file, ok := loadFile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, file)
}

type estimateItemRequest struct {
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

func AddEstimateItem(c *gin.Context) {
	file, ok := loadFile(c)
	if !ok {
		return
	}
	if file.Status == models.FileApproved {
		abortError(c, http.StatusBadRequest, "approved files cannot be edited")
		return
	}

	var req estimateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity <= 0 || req.Rate < 0 {
		abortError(c, http.StatusBadRequest, "quantity must be positive and rate non-negative")
		return
	}

	item := models.EstimateItem{
		FileID:      file.ID,
		Description: req.Description,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		Rate:        req.Rate,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return recomputeEstimate(tx, file.ID)
	})
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func DeleteEstimateItem(c *gin.Context) {
	file, ok := loadFile(c)
	if !ok {
		return
	}
	if file.Status == models.FileApproved {
		abortError(c, http.StatusBadRequest, "approved files cannot be edited")
		return
	}

	itemID, ok := parseID(c, "itemID")
	if !ok {
		return
	}

	var item models.EstimateItem
	if err := database.DB.Where("file_id = ?", file.ID).First(&item, itemID).Error; err != nil {
		abortError(c, http.StatusNotFound, "estimate item not found")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&item).Error; err != nil {
			return err
		}
		return recomputeEstimate(tx, file.ID)
	})
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": item.ID})
}

// recomputeEstimate rewrites the file's derived total from its line items.
func recomputeEstimate(tx *gorm.DB, fileID uint) error {
	var items []models.EstimateItem
	if err := tx.Where("file_id = ?", fileID).Find(&items).Error; err != nil {
		return err
	}
	return tx.Model(&models.ProjectFile{}).
		Where("id = ?", fileID).
		Update("estimated_amount", models.EstimateTotal(items)).Error
}

type fileAssetRequest struct {
	RoadName   string         `json:"road_name"`
	TypeOfRoad string         `json:"type_of_road"`
	Ward       string         `json:"ward"`
	LengthM    float64        `json:"length_m"`
	WidthM     float64        `json:"width_m"`
	StartLat   string         `json:"start_lat"`
	StartLng   string         `json:"start_lng"`
	EndLat     string         `json:"end_lat"`
	EndLng     string         `json:"end_lng"`
	Vertices   datatypes.JSON `json:"vertices"`
}

func AddFileAsset(c *gin.Context) {
	file, ok := loadFile(c)
	if !ok {
		return
	}
	if file.Status == models.FileApproved {
		abortError(c, http.StatusBadRequest, "approved files cannot be edited")
		return
	}

	var req fileAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.RoadName) == "" {
		abortError(c, http.StatusBadRequest, "road_name is required")
		return
	}

	asset := models.FileAsset{
		FileID:     file.ID,
		RoadName:   strings.TrimSpace(req.RoadName),
		TypeOfRoad: req.TypeOfRoad,
		Ward:       req.Ward,
		LengthM:    req.LengthM,
		WidthM:     req.WidthM,
		StartLat:   req.StartLat,
		StartLng:   req.StartLng,
		EndLat:     req.EndLat,
		EndLng:     req.EndLng,
		Vertices:   req.Vertices,
	}
	if err := database.DB.Create(&asset).Error; err != nil {
		serverError(c, err)
		return
	}

	cache.Invalidate(c.Request.Context(), mapFeatureCacheKey)
	c.JSON(http.StatusCreated, asset)
}

type movementRequest struct {
	ToUserID uint   `json:"to_user_id"`
	Remarks  string `json:"remarks"`
}

func ForwardFile(c *gin.Context) {
	file, ok := loadFile(c)
	if !ok {
		return
	}
	if file.Status == models.FileApproved {
		abortError(c, http.StatusBadRequest, "file is already approved")
		return
	}
	if reason := gateReason(file); reason != "" {
		abortError(c, http.StatusBadRequest, reason)
		return
	}

	var req movementRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ToUserID == 0 {
		abortError(c, http.StatusBadRequest, "to_user_id is required")
		return
	}

	var toUser models.User
	if err := database.DB.First(&toUser, req.ToUserID).Error; err != nil {
		abortError(c, http.StatusNotFound, "target user not found")
		return
	}

	uid := middleware.CurrentUserID(c)
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProjectFile{}).
			Where("id = ?", file.ID).
			Updates(map[string]interface{}{
				"status":    models.FileForwarded,
				"holder_id": toUser.ID,
			}).Error; err != nil {
			return err
		}
		return tx.Create(&models.FileMovement{
			FileID:     file.ID,
			FromUserID: uid,
			ToUserID:   &toUser.ID,
			Action:     models.ActionForward,
			Remarks:    req.Remarks,
		}).Error
	})
	if err != nil {
		serverError(c, err)
		return
	}

	notification.NotifyFileMovement(file, toUser, models.ActionForward, req.Remarks)
	c.JSON(http.StatusOK, gin.H{"status": models.FileForwarded, "holder_id": toUser.ID})
}

func ReturnFile(c *gin.Context) {
	file, ok := loadFile(c)
	if !ok {
		return
	}
	if file.Status == models.FileApproved {
		abortError(c, http.StatusBadRequest, "file is already approved")
		return
	}

	var req movementRequest
	_ = c.ShouldBindJSON(&req)

	uid := middleware.CurrentUserID(c)
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProjectFile{}).
			Where("id = ?", file.ID).
			Updates(map[string]interface{}{
				"status":    models.FileReturned,
				"holder_id": file.CreatedByID,
			}).Error; err != nil {
			return err
		}
		return tx.Create(&models.FileMovement{
			FileID:     file.ID,
			FromUserID: uid,
			ToUserID:   &file.CreatedByID,
			Action:     models.ActionReturn,
			Remarks:    req.Remarks,
		}).Error
	})
	if err != nil {
		serverError(c, err)
		return
	}

	notification.NotifyFileMovement(file, file.CreatedBy, models.ActionReturn, req.Remarks)
	c.JSON(http.StatusOK, gin.H{"status": models.FileReturned})
}

// ApproveFile promotes the file into a live project. The whole sequence is
// one transaction: a failure anywhere leaves no partial state.
func ApproveFile(c *gin.Context) {
	file, ok := loadFile(c)
	if !ok {
		return
	}
	if file.Status == models.FileApproved {
		abortError(c, http.StatusBadRequest, "file is already approved")
		return
	}
	if reason := gateReason(file); reason != "" {
		abortError(c, http.StatusBadRequest, reason)
		return
	}

	var req movementRequest
	_ = c.ShouldBindJSON(&req)

	uid := middleware.CurrentUserID(c)
	var project models.Project

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProjectFile{}).
			Where("id = ?", file.ID).
			Updates(map[string]interface{}{
				"status":    models.FileApproved,
				"holder_id": nil,
			}).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.FileMovement{
			FileID:     file.ID,
			FromUserID: uid,
			Action:     models.ActionApprove,
			Remarks:    req.Remarks,
		}).Error; err != nil {
			return err
		}

		project = models.Project{
			Name:           file.WorkName,
			Division:       file.Division,
			Category:       file.Category,
			Agency:         file.Agency,
			ApprovedAmount: file.ApprovedAmount,
			DLP:            file.DLP,
			TimeLimit:      file.TimeLimit,
			Status:         models.StatusOngoing,
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		for _, fa := range file.Assets {
			detail := models.ProjectAssetDetail{
				ProjectID:  &project.ID,
				RoadName:   fa.RoadName,
				TypeOfRoad: fa.TypeOfRoad,
				StartLat:   fa.StartLat,
				StartLng:   fa.StartLng,
				EndLat:     fa.EndLat,
				EndLng:     fa.EndLng,
				Vertices:   fa.Vertices,
			}
			if err := tx.Create(&detail).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		serverError(c, err)
		return
	}

	database.CreateAuditLog(uid, "file", file.ID, "approve",
		"approved file "+file.FileNumber+" into project "+project.Name)
	cache.Invalidate(c.Request.Context(), mapFeatureCacheKey)
	c.JSON(http.StatusOK, gin.H{
		"status":  models.FileApproved,
		"project": project,
	})
}
