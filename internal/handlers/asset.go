package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"civicworks/internal/cache"
	"civicworks/internal/database"
	"civicworks/internal/mapdata"
	"civicworks/internal/middleware"
	"civicworks/internal/models"
)

// mapFeatureCacheKey is shared with the map handler; every asset write
// invalidates it.
const mapFeatureCacheKey = "map:features"

func ListAssets(c *gin.Context) {
	dbq := database.DB.Order("code asc")

	if ward := c.Query("ward"); ward != "" {
		dbq = dbq.Where("ward = ?", ward)
	}
	if zone := c.Query("zone"); zone != "" {
		dbq = dbq.Where("zone = ?", zone)
	}
	if q := c.Query("q"); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	var assets []models.Asset
	if err := dbq.Find(&assets).Error; err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

func GetAsset(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var asset models.Asset
	if err := database.DB.First(&asset, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "asset not found")
		return
	}

	var details []models.ProjectAssetDetail
	database.DB.Where("asset_id = ?", asset.ID).Order("created_at desc").Find(&details)

	// distinct union of detail-row and link-table project references
	projects := make(map[uint]struct{})
	for _, d := range details {
		if d.ProjectID != nil {
			projects[*d.ProjectID] = struct{}{}
		}
	}
	var links []models.ProjectAssetLink
	database.DB.Where("asset_code = ?", asset.Code).Find(&links)
	for _, l := range links {
		projects[l.ProjectID] = struct{}{}
	}

	c.JSON(http.StatusOK, gin.H{
		"asset":         asset,
		"class":         mapdata.ClassifyType(asset.TypeOfRoad),
		"details":       details,
		"project_count": len(projects),
	})
}

type assetRequest struct {
	Code       string         `json:"code"`
	Name       string         `json:"name"`
	TypeOfRoad string         `json:"type_of_road"`
	Ward       string         `json:"ward"`
	Zone       string         `json:"zone"`
	LengthM    float64        `json:"length_m"`
	WidthM     float64        `json:"width_m"`
	Geometry   datatypes.JSON `json:"geometry"`
}

func CreateAsset(c *gin.Context) {
	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" || strings.TrimSpace(req.Name) == "" {
		abortError(c, http.StatusBadRequest, "code and name are required")
		return
	}

	var existing models.Asset
	if err := database.DB.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		abortError(c, http.StatusBadRequest, "asset code already exists")
		return
	}

	asset := models.Asset{
		Code:       req.Code,
		Name:       strings.TrimSpace(req.Name),
		TypeOfRoad: req.TypeOfRoad,
		Ward:       req.Ward,
		Zone:       req.Zone,
		LengthM:    req.LengthM,
		WidthM:     req.WidthM,
		Geometry:   req.Geometry,
	}
	if err := database.DB.Create(&asset).Error; err != nil {
		serverError(c, err)
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "asset", asset.ID, "create", "created asset "+asset.Code)
	cache.Invalidate(c.Request.Context(), mapFeatureCacheKey)
	c.JSON(http.StatusCreated, asset)
}

func UpdateAsset(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var asset models.Asset
	if err := database.DB.First(&asset, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "asset not found")
		return
	}

	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// identity is immutable once created
	if req.Code != "" && req.Code != asset.Code {
		abortError(c, http.StatusBadRequest, "asset code cannot be changed")
		return
	}

	if req.Name != "" {
		asset.Name = strings.TrimSpace(req.Name)
	}
	asset.TypeOfRoad = req.TypeOfRoad
	asset.Ward = req.Ward
	asset.Zone = req.Zone
	asset.LengthM = req.LengthM
	asset.WidthM = req.WidthM
	if len(req.Geometry) > 0 {
		asset.Geometry = req.Geometry
	}

	if err := database.DB.Save(&asset).Error; err != nil {
		serverError(c, err)
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "asset", asset.ID, "update", "updated asset "+asset.Code)
	cache.Invalidate(c.Request.Context(), mapFeatureCacheKey)
	c.JSON(http.StatusOK, asset)
}

func DeleteAsset(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var asset models.Asset
	if err := database.DB.First(&asset, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "asset not found")
		return
	}

	if err := database.DB.Delete(&asset).Error; err != nil {
		serverError(c, err)
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "asset", asset.ID, "delete", "deleted asset "+asset.Code)
	cache.Invalidate(c.Request.Context(), mapFeatureCacheKey)
	c.JSON(http.StatusOK, gin.H{"deleted": asset.ID})
}

func ListAssetDetails(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var details []models.ProjectAssetDetail
	if err := database.DB.Where("asset_id = ?", id).
		Order("created_at desc").Find(&details).Error; err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

type assetDetailRequest struct {
	ProjectID        *uint          `json:"project_id"`
	RoadName         string         `json:"road_name"`
	TypeOfRoad       string         `json:"type_of_road"`
	OwnershipHistory string         `json:"ownership_history"`
	CarriagewayWidth string         `json:"carriageway_width"`
	DrainageDetails  string         `json:"drainage_details"`
	StartLat         string         `json:"start_lat"`
	StartLng         string         `json:"start_lng"`
	EndLat           string         `json:"end_lat"`
	EndLng           string         `json:"end_lng"`
	Vertices         datatypes.JSON `json:"vertices"`
}

func CreateAssetDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var asset models.Asset
	if err := database.DB.First(&asset, id).Error; err != nil {
		abortError(c, http.StatusNotFound, "asset not found")
		return
	}

	var req assetDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ProjectID != nil {
		var project models.Project
		if err := database.DB.First(&project, *req.ProjectID).Error; err != nil {
			abortError(c, http.StatusNotFound, "project not found")
			return
		}
	}

	detail := models.ProjectAssetDetail{
		AssetID:          asset.ID,
		ProjectID:        req.ProjectID,
		RoadName:         req.RoadName,
		TypeOfRoad:       req.TypeOfRoad,
		OwnershipHistory: req.OwnershipHistory,
		CarriagewayWidth: req.CarriagewayWidth,
		DrainageDetails:  req.DrainageDetails,
		StartLat:         req.StartLat,
		StartLng:         req.StartLng,
		EndLat:           req.EndLat,
		EndLng:           req.EndLng,
		Vertices:         req.Vertices,
	}
	if err := database.DB.Create(&detail).Error; err != nil {
		serverError(c, err)
		return
	}

	cache.Invalidate(c.Request.Context(), mapFeatureCacheKey)
	c.JSON(http.StatusCreated, detail)
}
