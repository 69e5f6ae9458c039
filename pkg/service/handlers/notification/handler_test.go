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

package notification

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

type feedEnv struct {
	router *gin.Engine
	db     *gorm.DB
	user   models.User
}

func setupFeedEnv(t *testing.T) *feedEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	user := models.User{Username: "maria", Email: "maria@example.com"}
	require.NoError(t, db.Create(&user).Error)

	userinfo := aaa.NewUserInfoHandler()
	handler := &NotificationHandler{
		BaseHandler: *base.NewBaseHandler(database.NewDatabaseFromDB(db), switcher.NewMessageSwitch(), userinfo),
		AckStore:    NewMemoryAckStore(),
	}
	router := gin.New()
	rg := router.Group("v1")
	rg.Use(userinfo.Middleware(db))
	handler.RegistRouter(rg)
	return &feedEnv{router: router, db: db, user: user}
}

func (e *feedEnv) get(t *testing.T, path string) FeedResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(aaa.HeaderUserID, fmt.Sprintf("%d", e.user.ID))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data FeedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func (e *feedEnv) put(t *testing.T, path string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, path, nil)
	req.Header.Set(aaa.HeaderUserID, fmt.Sprintf("%d", e.user.ID))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (e *feedEnv) seed(t *testing.T) {
	t.Helper()
	base := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, e.db.Create(&models.Notification{
		UserID: e.user.ID, Type: models.NotificationTypeSystem,
		Title: "Welcome", Message: "Account created", CreatedAt: base,
	}).Error)
	require.NoError(t, e.db.Create(&models.Application{
		ApplicantID: e.user.ID, BusinessName: "Corner Cafe",
		Status: models.ApplicationStatusPending, CreatedAt: base.Add(2 * time.Hour),
	}).Error)

	provider := models.Provider{OwnerID: e.user.ID, Name: "Corner Cafe", Slug: "corner-cafe"}
	require.NoError(t, e.db.Create(&provider).Error)
	require.NoError(t, e.db.Create(&models.ChangeRequest{
		ProviderID: provider.ID, RequesterID: e.user.ID,
		Status: models.ChangeRequestStatusPending, CreatedAt: base.Add(time.Hour),
	}).Error)
}

func TestFeedMergesThreeSourcesNewestFirst(t *testing.T) {
	env := setupFeedEnv(t)
	env.seed(t)

	feed := env.get(t, "/v1/notifybell")
	require.Len(t, feed.Items, 3)
	assert.Equal(t, "app-1", feed.Items[0].ID)
	assert.Equal(t, "cr-1", feed.Items[1].ID)
	assert.Equal(t, "n-1", feed.Items[2].ID)
	assert.Equal(t, 3, feed.Unread)
	assert.Equal(t, "3", feed.UnreadDisplay)
}

func TestFeedAckOnOpenSuppressesInferredOnly(t *testing.T) {
	env := setupFeedEnv(t)
	env.seed(t)

	opened := env.get(t, "/v1/notifybell?ack=true")
	require.Len(t, opened.Items, 3)

	after := env.get(t, "/v1/notifybell")
	require.Len(t, after.Items, 1)
	assert.Equal(t, "n-1", after.Items[0].ID)
	assert.Equal(t, 1, after.Unread)
}

func TestReadSingleAdminNotification(t *testing.T) {
	env := setupFeedEnv(t)
	env.seed(t)

	env.put(t, "/v1/notifybell/n-1/read")

	feed := env.get(t, "/v1/notifybell")
	require.Len(t, feed.Items, 3)
	for _, item := range feed.Items {
		if item.ID == "n-1" {
			assert.True(t, item.Read)
		}
	}
	assert.Equal(t, 2, feed.Unread)

	var row models.Notification
	require.NoError(t, env.db.First(&row, 1).Error)
	assert.True(t, row.IsRead)
}

func TestReadAllSentinel(t *testing.T) {
	env := setupFeedEnv(t)
	env.seed(t)

	env.put(t, "/v1/notifybell/_all/read")

	feed := env.get(t, "/v1/notifybell")
	assert.Equal(t, 0, feed.Unread)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "n-1", feed.Items[0].ID)
	assert.True(t, feed.Items[0].Read)
}

func TestReadInferredAcknowledges(t *testing.T) {
	env := setupFeedEnv(t)
	env.seed(t)

	env.put(t, "/v1/notifybell/app-1/read")

	feed := env.get(t, "/v1/notifybell")
	require.Len(t, feed.Items, 2)
	for _, item := range feed.Items {
		assert.NotEqual(t, "app-1", item.ID)
	}
}

func TestFeedSurvivesFailingSource(t *testing.T) {
	env := setupFeedEnv(t)
	env.seed(t)

	// break the applications source; the other two must still render
	require.NoError(t, env.db.Migrator().DropTable(&models.Application{}))

	feed := env.get(t, "/v1/notifybell")
	require.Len(t, feed.Items, 2)
	assert.Equal(t, "cr-1", feed.Items[0].ID)
	assert.Equal(t, "n-1", feed.Items[1].ID)
	assert.Equal(t, 2, feed.Unread)
}

func TestCountCapsDisplay(t *testing.T) {
	env := setupFeedEnv(t)
	for i := 0; i < 12; i++ {
		require.NoError(t, env.db.Create(&models.Notification{
			UserID: env.user.ID, Title: fmt.Sprintf("n %d", i),
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Minute),
		}).Error)
	}

	feed := env.get(t, "/v1/notifybell/count")
	assert.Equal(t, 12, feed.Unread)
	assert.Equal(t, "9+", feed.UnreadDisplay)
	assert.Empty(t, feed.Items)
}

func TestFeedScopedToUser(t *testing.T) {
	env := setupFeedEnv(t)
	env.seed(t)

	other := models.User{Username: "joao", Email: "joao@example.com"}
	require.NoError(t, env.db.Create(&other).Error)
	require.NoError(t, env.db.Create(&models.Notification{
		UserID: other.ID, Title: "Not yours", CreatedAt: time.Now(),
	}).Error)

	feed := env.get(t, "/v1/notifybell")
	for _, item := range feed.Items {
		assert.NotEqual(t, "Not yours", item.Title)
	}
	assert.Len(t, feed.Items, 3)
}
