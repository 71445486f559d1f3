// Package mapdata merges canonical assets, per-project detail rows and
// proposed file assets into one feature list for the map dashboard.
package mapdata

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"civicworks/internal/geometry"
	"civicworks/internal/models"
)

// Feature is one map-renderable entry. Geometry is nil when nothing usable
// exists; the entry is still listed.
type Feature struct {
	Code         string            `json:"code"`
	Name         string            `json:"name"`
	Type         models.AssetClass `json:"type"`
	Ward         string            `json:"ward"`
	Zone         string            `json:"zone,omitempty"`
	LengthM      float64           `json:"length_m"`
	WidthM       float64           `json:"width_m"`
	Geometry     [][]float64       `json:"geometry,omitempty"`
	ProjectCount int               `json:"project_count"`
	IsSynthetic  bool              `json:"is_synthetic"`
	IsProposed   bool              `json:"is_proposed"`
}

// ClassifyType maps a free-text type tag onto the closed asset class set.
// Road is the fallback for anything unrecognised.
func ClassifyType(tag string) models.AssetClass {
	lower := strings.ToLower(tag)
	switch {
	case strings.Contains(lower, "drain"):
		return models.ClassDrain
	case strings.Contains(lower, "sewer"):
		return models.ClassSewer
	case strings.Contains(lower, "road"),
		strings.Contains(lower, "bituminous"),
		strings.Contains(lower, "concrete"):
		return models.ClassRoad
	}
	return models.ClassRoad
}

// sortNewestFirst returns a copy of the detail rows ordered newest-first so
// downstream output is stable.
func sortNewestFirst(details []models.ProjectAssetDetail) []models.ProjectAssetDetail {
	sorted := make([]models.ProjectAssetDetail, len(details))
	copy(sorted, details)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// latestDetailPerAsset keeps only the newest detail row per asset id. The
// input must already be newest-first.
func latestDetailPerAsset(sorted []models.ProjectAssetDetail) map[uint]models.ProjectAssetDetail {
	latest := make(map[uint]models.ProjectAssetDetail, len(sorted))
	for _, d := range sorted {
		if _, seen := latest[d.AssetID]; !seen {
			latest[d.AssetID] = d
		}
	}
	return latest
}

// detailGeometry resolves a detail row's own geometry: vertex list first,
// then the endpoint pair.
func detailGeometry(d models.ProjectAssetDetail) [][]float64 {
	if line := geometry.PolylineFromVertices(d.Vertices); line != nil {
		return line
	}
	return geometry.LineFromEndpoints(d.StartLat, d.StartLng, d.EndLat, d.EndLng)
}

// Reconcile merges the three geometry sources into one ordered feature list.
// Identity de-duplication is scoped to the canonical set; synthetic and
// proposed entries are additive and may coexist with a canonical asset whose
// geometry is simply missing.
func Reconcile(
	assets []models.Asset,
	details []models.ProjectAssetDetail,
	links []models.ProjectAssetLink,
	proposed []models.FileAsset,
) []Feature {
	sorted := sortNewestFirst(details)
	latest := latestDetailPerAsset(sorted)

	// project references per asset id (detail rows) and per code (link table)
	detailProjects := make(map[uint]map[uint]struct{})
	for _, d := range details {
		if d.ProjectID == nil {
			continue
		}
		if detailProjects[d.AssetID] == nil {
			detailProjects[d.AssetID] = make(map[uint]struct{})
		}
		detailProjects[d.AssetID][*d.ProjectID] = struct{}{}
	}
	linkProjects := make(map[string]map[uint]struct{})
	for _, l := range links {
		if linkProjects[l.AssetCode] == nil {
			linkProjects[l.AssetCode] = make(map[uint]struct{})
		}
		linkProjects[l.AssetCode][l.ProjectID] = struct{}{}
	}

	features := make([]Feature, 0, len(assets)+len(proposed))
	canonical := make(map[uint]struct{}, len(assets))

	for _, a := range assets {
		canonical[a.ID] = struct{}{}

		f := Feature{
			Code:    a.Code,
			Name:    a.Name,
			Type:    ClassifyType(a.TypeOfRoad),
			Ward:    a.Ward,
			Zone:    a.Zone,
			LengthM: a.LengthM,
			WidthM:  a.WidthM,
		}

		// distinct union of detail-row and link-table project references
		count := make(map[uint]struct{})
		for pid := range detailProjects[a.ID] {
			count[pid] = struct{}{}
		}
		for pid := range linkProjects[a.Code] {
			count[pid] = struct{}{}
		}
		f.ProjectCount = len(count)

		if line := geometry.PolylineFromVertices(a.Geometry); line != nil {
			f.Geometry = line
		} else if d, ok := latest[a.ID]; ok {
			f.Geometry = detailGeometry(d)
		}

		features = append(features, f)
	}

	// Detail rows pointing at asset ids with no canonical record: keep them
	// on the map as synthetic entries when they carry usable endpoints. Every
	// such row stands on its own; rows promoted from separate file approvals
	// all carry asset id zero and must each survive.
	for _, d := range sorted {
		if _, ok := canonical[d.AssetID]; ok {
			continue
		}
		if geometry.LineFromEndpoints(d.StartLat, d.StartLng, d.EndLat, d.EndLng) == nil {
			continue
		}
		features = append(features, Feature{
			Code:        fmt.Sprintf("NEW-%d", d.ID),
			Name:        d.RoadName,
			Type:        ClassifyType(d.TypeOfRoad),
			Geometry:    detailGeometry(d),
			IsSynthetic: true,
		})
	}

	// Not-yet-approved file assets show up as provisional proposals.
	for _, fa := range proposed {
		geom := geometry.PolylineFromVertices(fa.Vertices)
		if geom == nil {
			geom = geometry.LineFromEndpoints(fa.StartLat, fa.StartLng, fa.EndLat, fa.EndLng)
		}
		features = append(features, Feature{
			Code:        "PROPOSED",
			Name:        fa.RoadName,
			Type:        models.ClassProposed,
			Ward:        fa.Ward,
			LengthM:     fa.LengthM,
			WidthM:      fa.WidthM,
			Geometry:    geom,
			IsSynthetic: true,
			IsProposed:  true,
		})
	}

	return features
}

// LoadFeatures fetches the three sources and reconciles them.
func LoadFeatures(db *gorm.DB) ([]Feature, error) {
	var assets []models.Asset
	if err := db.Order("code asc").Find(&assets).Error; err != nil {
		return nil, err
	}

	var details []models.ProjectAssetDetail
	if err := db.Order("created_at desc").Find(&details).Error; err != nil {
		return nil, err
	}

	var links []models.ProjectAssetLink
	if err := db.Find(&links).Error; err != nil {
		return nil, err
	}

	var proposed []models.FileAsset
	if err := db.
		Joins("JOIN project_files ON project_files.id = file_assets.file_id").
		Where("project_files.status <> ?", models.FileApproved).
		Where("project_files.deleted_at IS NULL").
		Find(&proposed).Error; err != nil {
		return nil, err
	}

	return Reconcile(assets, details, links, proposed), nil
}
