package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FileStatus string

const (
	FileDraft     FileStatus = "DRAFT"
	FileForwarded FileStatus = "FORWARDED"
	FileApproved  FileStatus = "APPROVED"
	FileReturned  FileStatus = "RETURNED"
)

type FileAction string

const (
	ActionCreate  FileAction = "CREATE"
	ActionForward FileAction = "FORWARD"
	ActionApprove FileAction = "APPROVE"
	ActionReturn  FileAction = "RETURN"
)

// ProjectFile is a workflow document that becomes a Project on approval.
type ProjectFile struct {
	gorm.Model
	FileNumber string `gorm:"uniqueIndex;size:50;not null" json:"file_number"`
	Subject    string `gorm:"size:255" json:"subject"`

	// Work metadata copied onto the Project at approval.
	WorkName       string     `gorm:"size:255;not null" json:"work_name"`
	Division       string     `gorm:"size:100" json:"division"`
	Category       string     `gorm:"size:100" json:"category"`
	Agency         string     `gorm:"size:255" json:"agency"`
	ApprovedAmount float64    `json:"approved_amount"`
	DLP            string     `gorm:"size:50" json:"dlp"`
	TimeLimit      *time.Time `json:"time_limit,omitempty"`

	// Derived: sum of quantity*rate over Items. Kept on the row so the gate
	// and listings do not re-aggregate.
	EstimatedAmount float64 `json:"estimated_amount"`

	Status FileStatus `gorm:"type:varchar(20);not null" json:"status"`

	CreatedByID uint  `gorm:"not null" json:"created_by_id"`
	CreatedBy   User  `json:"created_by,omitempty"`
	HolderID    *uint `json:"holder_id,omitempty"`
	Holder      *User `json:"holder,omitempty"`

	Items     []EstimateItem `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Assets    []FileAsset    `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE" json:"assets,omitempty"`
	Movements []FileMovement `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE" json:"movements,omitempty"`
}

type EstimateItem struct {
	gorm.Model
	FileID      uint    `gorm:"index;not null" json:"file_id"`
	Description string  `gorm:"size:255" json:"description"`
	Unit        string  `gorm:"size:50" json:"unit"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

// EstimateTotal sums quantity*rate over the line items.
func EstimateTotal(items []EstimateItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Quantity * it.Rate
	}
	return total
}

// FileAsset is a proposed geometry tied to a file; it becomes a
// ProjectAssetDetail bound to the new project when the file is approved.
type FileAsset struct {
	gorm.Model
	FileID uint `gorm:"index;not null" json:"file_id"`

	RoadName   string  `gorm:"size:255" json:"road_name"`
	TypeOfRoad string  `gorm:"size:100" json:"type_of_road"`
	Ward       string  `gorm:"size:50" json:"ward"`
	LengthM    float64 `json:"length_m"`
	WidthM     float64 `json:"width_m"`

	StartLat string `gorm:"size:32" json:"start_lat"`
	StartLng string `gorm:"size:32" json:"start_lng"`
	EndLat   string `gorm:"size:32" json:"end_lat"`
	EndLng   string `gorm:"size:32" json:"end_lng"`

	Vertices datatypes.JSON `json:"vertices,omitempty"`
}

type FileMovement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	FileID     uint       `gorm:"index;not null" json:"file_id"`
	FromUserID uint       `json:"from_user_id"`
	ToUserID   *uint      `json:"to_user_id,omitempty"`
	Action     FileAction `gorm:"type:varchar(20);not null" json:"action"`
	Remarks    string     `gorm:"type:text" json:"remarks"`
}
