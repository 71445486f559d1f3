// Package timeline derives work-completion and DLP warning reports from a
// project's date fields. Everything here is pure; malformed input degrades to
// an "unknown" style status, never an error.
package timeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"civicworks/internal/models"
)

// Style is the UI hint attached to each sub-report.
type Style string

const (
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleDanger  Style = "danger"
	StyleMuted   Style = "muted"
	StyleInfo    Style = "info"
)

type WorkStatus string

const (
	WorkUnknown   WorkStatus = "unknown"
	WorkOnTrack   WorkStatus = "on-track"
	WorkAttention WorkStatus = "attention"
	WorkCritical  WorkStatus = "critical"
	WorkDueToday  WorkStatus = "due-today"
	WorkOverdue   WorkStatus = "overdue"
)

type DLPStatus string

const (
	DLPNone          DLPStatus = "no-dlp"
	DLPNoDate        DLPStatus = "no-date"
	DLPPreview       DLPStatus = "preview"
	DLPNotApplicable DLPStatus = "not-applicable"
	DLPActive        DLPStatus = "active"
	DLPExpiringSoon  DLPStatus = "expiring-soon"
	DLPCritical      DLPStatus = "critical"
	DLPEndsToday     DLPStatus = "ends-today"
	DLPExpired       DLPStatus = "expired"
)

// Input is the slice of a project the engine looks at.
type Input struct {
	CompletionDate        *time.Time
	RevisedCompletionDate *time.Time
	DLP                   string
	Status                models.ProjectStatus
}

type WorkReport struct {
	DaysRemaining *int       `json:"days_remaining"`
	IsRevised     bool       `json:"is_revised"`
	EffectiveEnd  *time.Time `json:"effective_end,omitempty"`
	Status        WorkStatus `json:"status"`
	Message       string     `json:"message"`
	Style         Style      `json:"style"`
}

type DLPReport struct {
	DurationDays  int        `json:"duration_days"`
	Start         *time.Time `json:"start,omitempty"`
	End           *time.Time `json:"end,omitempty"`
	DaysRemaining *int       `json:"days_remaining"`
	IsActive      bool       `json:"is_active"`
	Status        DLPStatus  `json:"status"`
	Message       string     `json:"message"`
	Style         Style      `json:"style"`
}

type Report struct {
	Work WorkReport `json:"work"`
	DLP  DLPReport  `json:"dlp"`
}

var firstInt = regexp.MustCompile(`\d+`)

// ParseDLPDuration turns a free-text DLP like "5 Years" or "90 Days" into a
// day count. The first integer token sets the magnitude; the unit is matched
// by substring. Anything else yields 0, meaning no DLP.
func ParseDLPDuration(s string) int {
	tok := firstInt.FindString(s)
	if tok == "" {
		return 0
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0
	}

	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "year"):
		return n * 365
	case strings.Contains(lower, "month"):
		return n * 30
	case strings.Contains(lower, "day"):
		return n
	}
	return 0
}

// Compute builds the full timeline report for one project as of now.
func Compute(in Input, now time.Time) Report {
	return Report{
		Work: computeWork(in, now),
		DLP:  computeDLP(in, now),
	}
}

// effectiveEnd prefers the revised completion date; a revision always wins.
func effectiveEnd(in Input) (*time.Time, bool) {
	if in.RevisedCompletionDate != nil {
		return in.RevisedCompletionDate, true
	}
	return in.CompletionDate, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysUntil(end, now time.Time) int {
	return int(midnight(end).Sub(midnight(now)).Hours() / 24)
}

func computeWork(in Input, now time.Time) WorkReport {
	end, revised := effectiveEnd(in)
	if end == nil {
		return WorkReport{
			Status:  WorkUnknown,
			Message: "no completion date set",
			Style:   StyleMuted,
		}
	}

	d := daysUntil(*end, now)
	r := WorkReport{
		DaysRemaining: &d,
		IsRevised:     revised,
		EffectiveEnd:  end,
	}

	switch {
	case d > 60:
		r.Status = WorkOnTrack
		r.Message = fmt.Sprintf("%d days remaining", d)
		r.Style = StyleSuccess
	case d >= 30:
		r.Status = WorkAttention
		r.Message = fmt.Sprintf("%d days remaining", d)
		r.Style = StyleWarning
	case d >= 1:
		r.Status = WorkCritical
		r.Message = fmt.Sprintf("only %d days remaining", d)
		r.Style = StyleDanger
	case d == 0:
		r.Status = WorkDueToday
		r.Message = "completion is due today"
		r.Style = StyleDanger
	default:
		r.Status = WorkOverdue
		r.Message = fmt.Sprintf("overdue by %d days", -d)
		r.Style = StyleDanger
	}
	return r
}

func computeDLP(in Input, now time.Time) DLPReport {
	dur := ParseDLPDuration(in.DLP)
	if dur == 0 {
		return DLPReport{
			Status:  DLPNone,
			Message: "no defect liability period",
			Style:   StyleMuted,
		}
	}

	end, _ := effectiveEnd(in)

	switch in.Status {
	case models.StatusCompleted:
		if end == nil {
			return DLPReport{
				DurationDays: dur,
				Status:       DLPNoDate,
				Message:      "completed without a completion date",
				Style:        StyleMuted,
			}
		}
		start := *end
		finish := start.AddDate(0, 0, dur)
		d := daysUntil(finish, now)
		r := DLPReport{
			DurationDays:  dur,
			Start:         &start,
			End:           &finish,
			DaysRemaining: &d,
			IsActive:      true,
		}
		switch {
		case d > 90:
			r.Status = DLPActive
			r.Message = fmt.Sprintf("DLP active, %d days remaining", d)
			r.Style = StyleSuccess
		case d >= 30:
			r.Status = DLPExpiringSoon
			r.Message = fmt.Sprintf("DLP expiring in %d days", d)
			r.Style = StyleWarning
		case d >= 1:
			r.Status = DLPCritical
			r.Message = fmt.Sprintf("DLP ends in %d days", d)
			r.Style = StyleDanger
		case d == 0:
			r.Status = DLPEndsToday
			r.Message = "DLP ends today"
			r.Style = StyleDanger
		default:
			r.Status = DLPExpired
			r.Message = fmt.Sprintf("DLP expired %d days ago; contractor liability has ended", -d)
			r.Style = StyleMuted
		}
		return r

	case models.StatusOngoing:
		if end == nil {
			return DLPReport{
				DurationDays: dur,
				Status:       DLPNoDate,
				Message:      "DLP will start once a completion date is set",
				Style:        StyleMuted,
			}
		}
		// Work not complete yet: show the window without counting down.
		start := *end
		finish := start.AddDate(0, 0, dur)
		return DLPReport{
			DurationDays: dur,
			Start:        &start,
			End:          &finish,
			Status:       DLPPreview,
			Message:      fmt.Sprintf("DLP will run until %s after completion", finish.Format("02 Jan 2006")),
			Style:        StyleInfo,
		}
	}

	return DLPReport{
		DurationDays: dur,
		Status:       DLPNotApplicable,
		Message:      "DLP not applicable for this project status",
		Style:        StyleMuted,
	}
}
