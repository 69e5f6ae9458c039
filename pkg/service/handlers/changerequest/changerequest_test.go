// Copyright 2025 The CityPages Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package changerequest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/citypages/citypages/pkg/msgbus/switcher"
	"github.com/citypages/citypages/pkg/service/aaa"
	"github.com/citypages/citypages/pkg/service/handlers/base"
	"github.com/citypages/citypages/pkg/service/models"
	"github.com/citypages/citypages/pkg/utils/database"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type crEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	admin    models.User
	owner    models.User
	provider models.Provider
}

func setupCREnv(t *testing.T) *crEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	admin := models.User{Username: "root", Email: "root@example.com", SystemRole: models.SystemRoleAdmin}
	owner := models.User{Username: "ana", Email: "ana@example.com"}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&owner).Error)

	provider := models.Provider{OwnerID: owner.ID, Name: "Old Name", Slug: "old-name", City: "Porto"}
	require.NoError(t, db.Create(&provider).Error)

	userinfo := aaa.NewUserInfoHandler()
	handler := &ChangeRequestHandler{
		BaseHandler: *base.NewBaseHandler(database.NewDatabaseFromDB(db), switcher.NewMessageSwitch(), userinfo),
	}
	router := gin.New()
	rg := router.Group("v1")
	rg.Use(userinfo.Middleware(db))
	handler.RegistRouter(rg)
	return &crEnv{router: router, db: db, admin: admin, owner: owner, provider: provider}
}

func (e *crEnv) request(method string, userID uint, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(aaa.HeaderUserID, fmt.Sprintf("%d", userID))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *crEnv) pendingChange(t *testing.T, changes string) models.ChangeRequest {
	t.Helper()
	cr := models.ChangeRequest{
		ProviderID:  e.provider.ID,
		RequesterID: e.owner.ID,
		Changes:     datatypes.JSON(changes),
		Status:      models.ChangeRequestStatusPending,
	}
	require.NoError(t, e.db.Create(&cr).Error)
	return cr
}

func TestApproveChangeRequestAppliesChanges(t *testing.T) {
	env := setupCREnv(t)
	cr := env.pendingChange(t, `{"name":"New Name","city":"Braga"}`)

	w := env.request(http.MethodPut, env.admin.ID, fmt.Sprintf("/v1/changerequest/%d/approve", cr.ID), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var provider models.Provider
	require.NoError(t, env.db.First(&provider, env.provider.ID).Error)
	assert.Equal(t, "New Name", provider.Name)
	assert.Equal(t, "Braga", provider.City)
	assert.Equal(t, "old-name", provider.Slug) // untouched

	var stored models.ChangeRequest
	require.NoError(t, env.db.First(&stored, cr.ID).Error)
	assert.Equal(t, models.ChangeRequestStatusApproved, stored.Status)
	require.NotNil(t, stored.DecidedAt)

	var notifications []models.Notification
	require.NoError(t, env.db.Where("user_id = ?", env.owner.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
}

func TestApproveChangeRequestRefusesUnknownColumn(t *testing.T) {
	env := setupCREnv(t)
	cr := env.pendingChange(t, `{"owner_id":99}`)

	w := env.request(http.MethodPut, env.admin.ID, fmt.Sprintf("/v1/changerequest/%d/approve", cr.ID), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// the provider is untouched and the request stays pending
	var provider models.Provider
	require.NoError(t, env.db.First(&provider, env.provider.ID).Error)
	assert.Equal(t, env.owner.ID, provider.OwnerID)

	var stored models.ChangeRequest
	require.NoError(t, env.db.First(&stored, cr.ID).Error)
	assert.Equal(t, models.ChangeRequestStatusPending, stored.Status)
}

func TestApproveChangeRequestEnforcesDescriptionCeiling(t *testing.T) {
	env := setupCREnv(t)
	long := strings.Repeat("d", 450)
	cr := env.pendingChange(t, fmt.Sprintf(`{"description":%q}`, long))

	// free tier caps at 200, the apply must refuse
	w := env.request(http.MethodPut, env.admin.ID, fmt.Sprintf("/v1/changerequest/%d/approve", cr.ID), "")
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var provider models.Provider
	require.NoError(t, env.db.First(&provider, env.provider.ID).Error)
	assert.Empty(t, provider.Description)

	var stored models.ChangeRequest
	require.NoError(t, env.db.First(&stored, cr.ID).Error)
	assert.Equal(t, models.ChangeRequestStatusPending, stored.Status)

	// the same change is fine once the listing is featured
	require.NoError(t, env.db.Model(&models.Provider{}).Where("id = ?", env.provider.ID).Update("featured", true).Error)
	w = env.request(http.MethodPut, env.admin.ID, fmt.Sprintf("/v1/changerequest/%d/approve", cr.ID), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, env.db.First(&provider, env.provider.ID).Error)
	assert.Len(t, provider.Description, 450)
}

func TestPostChangeRequestEnforcesDescriptionCeiling(t *testing.T) {
	env := setupCREnv(t)

	body := fmt.Sprintf(`{"ProviderID":%d,"RequesterID":%d,"Changes":{"description":%q}}`,
		env.provider.ID, env.owner.ID, strings.Repeat("d", 201))
	w := env.request(http.MethodPost, env.owner.ID, "/v1/changerequest", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.ChangeRequest{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestRejectChangeRequestLeavesProviderUntouched(t *testing.T) {
	env := setupCREnv(t)
	cr := env.pendingChange(t, `{"name":"New Name"}`)

	w := env.request(http.MethodPut, env.admin.ID,
		fmt.Sprintf("/v1/changerequest/%d/reject", cr.ID),
		`{"reviewNote":"duplicate of an earlier request"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var provider models.Provider
	require.NoError(t, env.db.First(&provider, env.provider.ID).Error)
	assert.Equal(t, "Old Name", provider.Name)

	var stored models.ChangeRequest
	require.NoError(t, env.db.First(&stored, cr.ID).Error)
	assert.Equal(t, models.ChangeRequestStatusRejected, stored.Status)
	assert.Equal(t, "duplicate of an earlier request", stored.ReviewNote)
}

func TestApproveChangeRequestRequiresAdmin(t *testing.T) {
	env := setupCREnv(t)
	cr := env.pendingChange(t, `{"name":"New Name"}`)

	w := env.request(http.MethodPut, env.owner.ID, fmt.Sprintf("/v1/changerequest/%d/approve", cr.ID), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPostChangeRequestRefusesBadPayload(t *testing.T) {
	env := setupCREnv(t)

	body := fmt.Sprintf(`{"ProviderID":%d,"RequesterID":%d,"Changes":{"slug":"hijack"}}`,
		env.provider.ID, env.owner.ID)
	w := env.request(http.MethodPost, env.owner.ID, "/v1/changerequest", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
