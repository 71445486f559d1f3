package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicworks/internal/mapdata"
	"civicworks/internal/models"
)

func TestMapAssetsMergesAllSources(t *testing.T) {
	r, db := setupTest(t)
	_, token := createUser(t, db, "je1", models.RoleJE)

	// canonical asset whose geometry comes from a detail row
	w := doJSON(t, r, "POST", "/assets", token, map[string]interface{}{
		"code":         "RD-001",
		"name":         "Main Bazaar Road",
		"type_of_road": "Bituminous",
	})
	requireStatus(t, w, http.StatusCreated)
	var asset models.Asset
	decode(t, w, &asset)

	w = doJSON(t, r, "POST", fmt.Sprintf("/assets/%d/details", asset.ID), token, map[string]interface{}{
		"start_lat": "30.1", "start_lng": "76.1",
		"end_lat": "30.2", "end_lng": "76.2",
	})
	requireStatus(t, w, http.StatusCreated)

	// draft file carrying a proposed asset
	file := createDraftFile(t, r, token)
	w = doJSON(t, r, "POST", fmt.Sprintf("/files/%d/assets", file.ID), token, map[string]interface{}{
		"road_name": "New Colony Road",
		"start_lat": "30.3", "start_lng": "76.3",
		"end_lat": "30.4", "end_lng": "76.4",
	})
	requireStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, "GET", "/map/assets", token, nil)
	requireStatus(t, w, http.StatusOK)

	var resp struct {
		Features []mapdata.Feature `json:"features"`
		Count    int               `json:"count"`
	}
	decode(t, w, &resp)
	require.Equal(t, 2, resp.Count)

	assert.Equal(t, "RD-001", resp.Features[0].Code)
	assert.Equal(t, models.ClassRoad, resp.Features[0].Type)
	require.Len(t, resp.Features[0].Geometry, 2)

	assert.Equal(t, "PROPOSED", resp.Features[1].Code)
	assert.True(t, resp.Features[1].IsProposed)
}

func TestMapAssetsDropsProposedAfterApproval(t *testing.T) {
	r, db := setupTest(t)
	_, token := createUser(t, db, "xen1", models.RoleXEN)

	file := seedApprovableFile(t, r, token)

	w := doJSON(t, r, "POST", fmt.Sprintf("/files/%d/approve", file.ID), token, nil)
	requireStatus(t, w, http.StatusOK)

	w = doJSON(t, r, "GET", "/map/assets", token, nil)
	requireStatus(t, w, http.StatusOK)

	var resp struct {
		Features []mapdata.Feature `json:"features"`
	}
	decode(t, w, &resp)

	// the approved file's asset now surfaces via its project detail row as a
	// synthetic NEW- entry, not as PROPOSED
	require.Len(t, resp.Features, 1)
	assert.NotEqual(t, "PROPOSED", resp.Features[0].Code)
	assert.True(t, resp.Features[0].IsSynthetic)
	assert.False(t, resp.Features[0].IsProposed)
}

func TestMapProjectCountDropsAfterProjectDelete(t *testing.T) {
	r, db := setupTest(t)
	_, officerToken := createUser(t, db, "je1", models.RoleJE)
	_, adminToken := createUser(t, db, "boss", models.RoleAdmin)

	w := doJSON(t, r, "POST", "/assets", officerToken, map[string]interface{}{
		"code": "RD-001",
		"name": "Main Bazaar Road",
	})
	requireStatus(t, w, http.StatusCreated)
	var asset models.Asset
	decode(t, w, &asset)

	project := seedProject(t, db)
	w = doJSON(t, r, "POST", fmt.Sprintf("/projects/%d/assets", project.ID), officerToken, map[string]interface{}{
		"asset_code": "RD-001",
	})
	requireStatus(t, w, http.StatusCreated)

	var resp struct {
		Features []mapdata.Feature `json:"features"`
	}
	w = doJSON(t, r, "GET", "/map/assets", officerToken, nil)
	requireStatus(t, w, http.StatusOK)
	decode(t, w, &resp)
	require.Len(t, resp.Features, 1)
	require.Equal(t, 1, resp.Features[0].ProjectCount)

	w = doJSON(t, r, "DELETE", fmt.Sprintf("/projects/%d", project.ID), adminToken, nil)
	requireStatus(t, w, http.StatusOK)

	w = doJSON(t, r, "GET", "/map/assets", officerToken, nil)
	requireStatus(t, w, http.StatusOK)
	decode(t, w, &resp)
	require.Len(t, resp.Features, 1)
	assert.Equal(t, 0, resp.Features[0].ProjectCount)
}

func TestExportProjectsReturnsWorkbook(t *testing.T) {
	r, db := setupTest(t)
	_, token := createUser(t, db, "je1", models.RoleJE)
	seedProject(t, db)

	w := doJSON(t, r, "GET", "/projects/export", token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "project-register-")
	assert.NotZero(t, w.Body.Len())
}
