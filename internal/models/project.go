package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	StatusOngoing   ProjectStatus = "ONGOING"
	StatusCompleted ProjectStatus = "COMPLETED"
	StatusPending   ProjectStatus = "PENDING"
	StatusReturned  ProjectStatus = "RETURNED"
)

// Project is a capital work. RevisedCompletionDate, when set, always signals
// a delay and takes precedence over CompletionDate downstream.
type Project struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Division string `gorm:"size:100" json:"division"`
	Category string `gorm:"size:100" json:"category"`
	Agency   string `gorm:"size:255" json:"agency"`

	ApprovedAmount float64 `json:"approved_amount"`
	YearlyBudget   float64 `json:"yearly_budget"`

	// Progress summaries mirror the latest progress log entry; legacy data
	// keeps them as text ("75%", "75", "NA").
	PhysicalProgress  string `gorm:"size:20" json:"physical_progress"`
	FinancialProgress string `gorm:"size:20" json:"financial_progress"`

	StartDate             *time.Time `json:"start_date,omitempty"`
	CompletionDate        *time.Time `json:"completion_date,omitempty"`
	RevisedCompletionDate *time.Time `json:"revised_completion_date,omitempty"`
	TimeLimit             *time.Time `json:"time_limit,omitempty"`

	// Defect Liability Period as entered, e.g. "5 Years", "6 Months".
	DLP string `gorm:"size:50" json:"dlp"`

	Status ProjectStatus `gorm:"type:varchar(20);not null" json:"status"`

	Payments     []Payment          `gorm:"constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	ProgressLogs []ProgressLogEntry `gorm:"constraint:OnDelete:CASCADE" json:"progress_logs,omitempty"`
}

type Payment struct {
	gorm.Model
	ProjectID   uint       `gorm:"index;not null" json:"project_id"`
	Amount      float64    `json:"amount"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`
	BillNo      string     `gorm:"size:100" json:"bill_no"`
}

// ProgressLogEntry is a timestamped physical/financial progress update.
// The newest entry per project is mirrored onto the Project summary fields.
type ProgressLogEntry struct {
	gorm.Model
	ProjectID         uint   `gorm:"index;not null" json:"project_id"`
	PhysicalProgress  string `gorm:"size:20" json:"physical_progress"`
	FinancialProgress string `gorm:"size:20" json:"financial_progress"`
	Remarks           string `gorm:"type:text" json:"remarks"`
}
