package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssetClass is the derived classification of an asset. It is computed from
// the free-text type tag and never stored.
type AssetClass string

const (
	ClassRoad     AssetClass = "Road"
	ClassDrain    AssetClass = "Drain"
	ClassSewer    AssetClass = "Sewer"
	ClassProposed AssetClass = "Proposed Work"
)

// Asset is a canonical infrastructure record (road/drain/sewer segment).
// Identity is the Code; geometry may be backfilled after creation.
type Asset struct {
	gorm.Model
	Code       string  `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Name       string  `gorm:"size:255;not null" json:"name"`
	TypeOfRoad string  `gorm:"size:100" json:"type_of_road"` // free-text legacy tag
	Ward       string  `gorm:"size:50" json:"ward"`
	Zone       string  `gorm:"size:50" json:"zone"`
	LengthM    float64 `json:"length_m"`
	WidthM     float64 `json:"width_m"`

	// Stored polyline as [[lng,lat], ...]; null when only detail rows carry
	// coordinates.
	Geometry datatypes.JSON `json:"geometry,omitempty"`
}

// ProjectAssetDetail is a per-project metadata overlay for an asset. A row
// with a null ProjectID is an inventory template, never a project.
type ProjectAssetDetail struct {
	gorm.Model
	AssetID   uint  `gorm:"index" json:"asset_id"`
	ProjectID *uint `gorm:"index" json:"project_id,omitempty"`

	RoadName         string `gorm:"size:255" json:"road_name"`
	TypeOfRoad       string `gorm:"size:100" json:"type_of_road"`
	OwnershipHistory string `gorm:"type:text" json:"ownership_history"`
	CarriagewayWidth string `gorm:"size:100" json:"carriageway_width"`
	DrainageDetails  string `gorm:"type:text" json:"drainage_details"`

	// Legacy coordinate columns are free text; malformed values are treated
	// as absent when building geometry.
	StartLat string `gorm:"size:32" json:"start_lat"`
	StartLng string `gorm:"size:32" json:"start_lng"`
	EndLat   string `gorm:"size:32" json:"end_lat"`
	EndLng   string `gorm:"size:32" json:"end_lng"`

	Vertices datatypes.JSON `json:"vertices,omitempty"`
}

// ProjectAssetLink joins projects to assets by asset code.
type ProjectAssetLink struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID uint   `gorm:"index" json:"project_id"`
	AssetCode string `gorm:"index;size:64" json:"asset_code"`
}
