package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"civicworks/internal/models"
)

func seedProject(t *testing.T, db *gorm.DB) models.Project {
	t.Helper()
	project := models.Project{
		Name:           "Ward 12 road strengthening",
		ApprovedAmount: 1000000,
		Status:         models.StatusOngoing,
	}
	require.NoError(t, db.Create(&project).Error)
	return project
}

func seedProgressEntry(t *testing.T, db *gorm.DB, projectID uint, created time.Time, phys, fin string) models.ProgressLogEntry {
	t.Helper()
	entry := models.ProgressLogEntry{
		ProjectID:         projectID,
		PhysicalProgress:  phys,
		FinancialProgress: fin,
	}
	entry.CreatedAt = created
	require.NoError(t, db.Create(&entry).Error)
	return entry
}

func TestCreateProgressMirrorsOntoProject(t *testing.T) {
	r, db := setupTest(t)
	_, token := createUser(t, db, "je1", models.RoleJE)
	project := seedProject(t, db)

	w := doJSON(t, r, "POST", fmt.Sprintf("/projects/%d/progress", project.ID), token, map[string]interface{}{
		"physical_progress":  "40",
		"financial_progress": "35",
		"remarks":            "base course laid",
	})
	requireStatus(t, w, http.StatusCreated)

	var fresh models.Project
	require.NoError(t, db.First(&fresh, project.ID).Error)
	assert.Equal(t, "40", fresh.PhysicalProgress)
	assert.Equal(t, "35", fresh.FinancialProgress)
}

func TestDeleteNewestProgressRederivesSummary(t *testing.T) {
	r, db := setupTest(t)
	_, adminToken := createUser(t, db, "boss", models.RoleAdmin)
	project := seedProject(t, db)

	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	seedProgressEntry(t, db, project.ID, base, "20", "15")
	newest := seedProgressEntry(t, db, project.ID, base.Add(48*time.Hour), "60", "55")
	require.NoError(t, db.Model(&models.Project{}).Where("id = ?", project.ID).
		Updates(map[string]interface{}{"physical_progress": "60", "financial_progress": "55"}).Error)

	w := doJSON(t, r, "DELETE", fmt.Sprintf("/progress/%d", newest.ID), adminToken, nil)
	requireStatus(t, w, http.StatusOK)

	var fresh models.Project
	require.NoError(t, db.First(&fresh, project.ID).Error)
	assert.Equal(t, "20", fresh.PhysicalProgress)
	assert.Equal(t, "15", fresh.FinancialProgress)
}

func TestDeleteLastProgressResetsSummaryToZero(t *testing.T) {
	r, db := setupTest(t)
	_, adminToken := createUser(t, db, "boss", models.RoleAdmin)
	project := seedProject(t, db)

	only := seedProgressEntry(t, db, project.ID, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), "20", "15")

	w := doJSON(t, r, "DELETE", fmt.Sprintf("/progress/%d", only.ID), adminToken, nil)
	requireStatus(t, w, http.StatusOK)

	var fresh models.Project
	require.NoError(t, db.First(&fresh, project.ID).Error)
	assert.Equal(t, "0", fresh.PhysicalProgress)
	assert.Equal(t, "0", fresh.FinancialProgress)
}

func TestPaymentsSumShownAsPaid(t *testing.T) {
	r, db := setupTest(t)
	_, token := createUser(t, db, "je1", models.RoleJE)
	project := seedProject(t, db)

	for _, amount := range []float64{250000, 125000.50} {
		w := doJSON(t, r, "POST", fmt.Sprintf("/projects/%d/payments", project.ID), token, map[string]interface{}{
			"amount":       amount,
			"payment_date": "2024-02-01",
			"bill_no":      "B-1",
		})
		requireStatus(t, w, http.StatusCreated)
	}

	w := doJSON(t, r, "GET", fmt.Sprintf("/projects/%d/payments", project.ID), token, nil)
	requireStatus(t, w, http.StatusOK)

	var resp struct {
		Paid           float64 `json:"paid"`
		ApprovedAmount float64 `json:"approved_amount"`
	}
	decode(t, w, &resp)
	assert.InDelta(t, 375000.50, resp.Paid, 0.001)
	assert.InDelta(t, 1000000, resp.ApprovedAmount, 0.001)
}

func TestFinanceDashboardTotals(t *testing.T) {
	r, db := setupTest(t)
	_, token := createUser(t, db, "je1", models.RoleJE)
	project := seedProject(t, db)

	w := doJSON(t, r, "POST", fmt.Sprintf("/projects/%d/payments", project.ID), token, map[string]interface{}{
		"amount": 500000, "bill_no": "B-1",
	})
	requireStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, "GET", "/dashboard/finance", token, nil)
	requireStatus(t, w, http.StatusOK)

	var resp struct {
		TotalApproved float64 `json:"total_approved"`
		TotalPaid     float64 `json:"total_paid"`
		Projects      []struct {
			PercentPaid float64 `json:"percent_paid"`
		} `json:"projects"`
	}
	decode(t, w, &resp)
	assert.InDelta(t, 1000000, resp.TotalApproved, 0.001)
	assert.InDelta(t, 500000, resp.TotalPaid, 0.001)
	require.Len(t, resp.Projects, 1)
	assert.InDelta(t, 50, resp.Projects[0].PercentPaid, 0.001)
}
