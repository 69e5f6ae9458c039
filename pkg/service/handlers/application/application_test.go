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

package application

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
	"gorm.io/gorm"
)

type appEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	admin     models.User
	applicant models.User
}

func setupAppEnv(t *testing.T) *appEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	admin := models.User{Username: "root", Email: "root@example.com", SystemRole: models.SystemRoleAdmin}
	applicant := models.User{Username: "ana", Email: "ana@example.com", SystemRole: models.SystemRoleNormal}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&applicant).Error)

	userinfo := aaa.NewUserInfoHandler()
	handler := &ApplicationHandler{
		BaseHandler: *base.NewBaseHandler(database.NewDatabaseFromDB(db), switcher.NewMessageSwitch(), userinfo),
	}
	router := gin.New()
	rg := router.Group("v1")
	rg.Use(userinfo.Middleware(db))
	handler.RegistRouter(rg)
	return &appEnv{router: router, db: db, admin: admin, applicant: applicant}
}

func (e *appEnv) pendingApplication(t *testing.T) models.Application {
	t.Helper()
	app := models.Application{
		ApplicantID:  e.applicant.ID,
		BusinessName: "Corner Cafe",
		Slug:         "corner-cafe",
		Category:     "food",
		City:         "Porto",
		Status:       models.ApplicationStatusPending,
	}
	require.NoError(t, e.db.Create(&app).Error)
	return app
}

func (e *appEnv) putAs(userID uint, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(aaa.HeaderUserID, fmt.Sprintf("%d", userID))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestApproveApplicationCreatesProvider(t *testing.T) {
	env := setupAppEnv(t)
	app := env.pendingApplication(t)

	w := env.putAs(env.admin.ID, fmt.Sprintf("/v1/application/%d/approve", app.ID), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var provider models.Provider
	require.NoError(t, env.db.Where("slug = ?", app.Slug).First(&provider).Error)
	assert.Equal(t, env.applicant.ID, provider.OwnerID)
	assert.Equal(t, models.ProviderStatusActive, provider.Status)

	var stored models.Application
	require.NoError(t, env.db.First(&stored, app.ID).Error)
	assert.Equal(t, models.ApplicationStatusApproved, stored.Status)
	require.NotNil(t, stored.DecidedAt)

	var notifications []models.Notification
	require.NoError(t, env.db.Where("user_id = ?", env.applicant.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Title, "approved")
}

func TestApproveApplicationRequiresAdmin(t *testing.T) {
	env := setupAppEnv(t)
	app := env.pendingApplication(t)

	w := env.putAs(env.applicant.ID, fmt.Sprintf("/v1/application/%d/approve", app.ID), "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.Application
	require.NoError(t, env.db.First(&stored, app.ID).Error)
	assert.Equal(t, models.ApplicationStatusPending, stored.Status)
}

func TestApproveApplicationOnlyOnce(t *testing.T) {
	env := setupAppEnv(t)
	app := env.pendingApplication(t)

	first := env.putAs(env.admin.ID, fmt.Sprintf("/v1/application/%d/approve", app.ID), "")
	require.Equal(t, http.StatusOK, first.Code)

	second := env.putAs(env.admin.ID, fmt.Sprintf("/v1/application/%d/approve", app.ID), "")
	assert.Equal(t, http.StatusBadRequest, second.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Provider{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRejectApplicationStoresNote(t *testing.T) {
	env := setupAppEnv(t)
	app := env.pendingApplication(t)

	w := env.putAs(env.admin.ID,
		fmt.Sprintf("/v1/application/%d/reject", app.ID),
		`{"decisionNote":"address could not be verified"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Application
	require.NoError(t, env.db.First(&stored, app.ID).Error)
	assert.Equal(t, models.ApplicationStatusRejected, stored.Status)
	assert.Equal(t, "address could not be verified", stored.DecisionNote)

	// no listing appears for a rejected application
	var count int64
	require.NoError(t, env.db.Model(&models.Provider{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestPutApplicationOnlyWhilePending(t *testing.T) {
	env := setupAppEnv(t)
	app := env.pendingApplication(t)
	require.NoError(t, env.db.Model(&app).Update("status", models.ApplicationStatusApproved).Error)

	body := fmt.Sprintf(`{"ApplicantID":%d,"BusinessName":"Renamed","Slug":"corner-cafe"}`, env.applicant.ID)
	w := env.putAs(env.applicant.ID, fmt.Sprintf("/v1/application/%d", app.ID), body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
