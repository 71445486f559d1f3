package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicworks/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, "POST", "/auth/register", "", map[string]interface{}{
		"username": "je.sharma",
		"password": "Secret123!",
		"email":    "je.sharma@example.com",
	})
	requireStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, "POST", "/auth/login", "", map[string]interface{}{
		"username": "je.sharma",
		"password": "Secret123!",
	})
	requireStatus(t, w, http.StatusOK)

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleViewer, resp.User.Role)

	w = doJSON(t, r, "GET", "/auth/me", resp.Token, nil)
	requireStatus(t, w, http.StatusOK)
}

func TestSelfRegistrationCannotGrantPrivilegedRole(t *testing.T) {
	r, _ := setupTest(t)

	// a requested role in the body is ignored; the account is read-only
	w := doJSON(t, r, "POST", "/auth/register", "", map[string]interface{}{
		"username": "sneaky",
		"password": "Secret123!",
		"role":     "XEN",
	})
	requireStatus(t, w, http.StatusCreated)

	var created models.User
	decode(t, w, &created)
	assert.Equal(t, models.RoleViewer, created.Role)

	w = doJSON(t, r, "POST", "/auth/login", "", map[string]interface{}{
		"username": "sneaky",
		"password": "Secret123!",
	})
	requireStatus(t, w, http.StatusOK)
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)

	w = doJSON(t, r, "POST", "/assets", resp.Token, map[string]interface{}{
		"code": "RD-001",
		"name": "Main Bazaar Road",
	})
	requireStatus(t, w, http.StatusForbidden)
}

func TestLoginWrongPassword(t *testing.T) {
	r, db := setupTest(t)
	createUser(t, db, "je1", models.RoleJE)

	w := doJSON(t, r, "POST", "/auth/login", "", map[string]interface{}{
		"username": "je1",
		"password": "wrong",
	})
	requireStatus(t, w, http.StatusUnauthorized)
}

func TestMissingTokenRejected(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, "GET", "/projects", "", nil)
	requireStatus(t, w, http.StatusUnauthorized)
}

func TestRoleGating(t *testing.T) {
	r, db := setupTest(t)
	_, viewerToken := createUser(t, db, "clerk", models.RoleViewer)
	_, officerToken := createUser(t, db, "je1", models.RoleJE)
	_, adminToken := createUser(t, db, "boss", models.RoleAdmin)

	assetBody := map[string]interface{}{
		"code": "RD-001",
		"name": "Main Bazaar Road",
	}

	// viewer can read but not create
	w := doJSON(t, r, "GET", "/assets", viewerToken, nil)
	requireStatus(t, w, http.StatusOK)
	w = doJSON(t, r, "POST", "/assets", viewerToken, assetBody)
	requireStatus(t, w, http.StatusForbidden)

	// officer set can create
	w = doJSON(t, r, "POST", "/assets", officerToken, assetBody)
	requireStatus(t, w, http.StatusCreated)

	// update stays admin-only
	var asset models.Asset
	decode(t, w, &asset)
	w = doJSON(t, r, "PUT", "/assets/1", officerToken, assetBody)
	requireStatus(t, w, http.StatusForbidden)

	w = doJSON(t, r, "PUT", "/assets/1", adminToken, map[string]interface{}{
		"name": "Main Bazaar Road (renamed)",
	})
	requireStatus(t, w, http.StatusOK)

	// user management is admin-only
	w = doJSON(t, r, "GET", "/users", officerToken, nil)
	requireStatus(t, w, http.StatusForbidden)
	w = doJSON(t, r, "GET", "/users", adminToken, nil)
	requireStatus(t, w, http.StatusOK)
}
