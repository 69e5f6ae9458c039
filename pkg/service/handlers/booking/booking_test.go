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

package booking

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
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

func setupBookingEnv(t *testing.T) (*gin.Engine, *gorm.DB, models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	owner := models.User{Username: "owner", Email: "owner@example.com"}
	require.NoError(t, db.Create(&owner).Error)

	userinfo := aaa.NewUserInfoHandler()
	handler := &BookingHandler{
		BaseHandler: *base.NewBaseHandler(database.NewDatabaseFromDB(db), switcher.NewMessageSwitch(), userinfo),
	}
	router := gin.New()
	rg := router.Group("v1")
	rg.Use(userinfo.Middleware(db))
	handler.RegistRouter(rg)
	return router, db, owner
}

func putStatus(router *gin.Engine, userID, bookingID uint, status string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/v1/booking/%d/status/%s", bookingID, status), nil)
	req.Header.Set(aaa.HeaderUserID, fmt.Sprintf("%d", userID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBookingStatusMachine(t *testing.T) {
	router, db, owner := setupBookingEnv(t)

	provider := models.Provider{OwnerID: owner.ID, Name: "Salon", Slug: "salon"}
	require.NoError(t, db.Create(&provider).Error)

	newBooking := func(status string) models.Booking {
		b := models.Booking{
			ProviderID:   provider.ID,
			CustomerName: "Ana",
			ScheduledAt:  time.Now().Add(24 * time.Hour),
			Status:       status,
		}
		require.NoError(t, db.Create(&b).Error)
		return b
	}

	tests := []struct {
		name     string
		from     string
		to       string
		wantCode int
	}{
		{"pending to confirmed", models.BookingStatusPending, models.BookingStatusConfirmed, http.StatusOK},
		{"pending to cancelled", models.BookingStatusPending, models.BookingStatusCancelled, http.StatusOK},
		{"pending to completed is refused", models.BookingStatusPending, models.BookingStatusCompleted, http.StatusBadRequest},
		{"confirmed to completed", models.BookingStatusConfirmed, models.BookingStatusCompleted, http.StatusOK},
		{"confirmed to cancelled", models.BookingStatusConfirmed, models.BookingStatusCancelled, http.StatusOK},
		{"confirmed back to pending is refused", models.BookingStatusConfirmed, models.BookingStatusPending, http.StatusBadRequest},
		{"cancelled is terminal", models.BookingStatusCancelled, models.BookingStatusConfirmed, http.StatusBadRequest},
		{"completed is terminal", models.BookingStatusCompleted, models.BookingStatusCancelled, http.StatusBadRequest},
		{"unknown target status", models.BookingStatusPending, "bogus", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBooking(tt.from)
			w := putStatus(router, owner.ID, b.ID, tt.to)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())

			var stored models.Booking
			require.NoError(t, db.First(&stored, b.ID).Error)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.to, stored.Status)
			} else {
				assert.Equal(t, tt.from, stored.Status)
			}
		})
	}
}

func TestPutBookingStatusNotifiesOwner(t *testing.T) {
	router, db, owner := setupBookingEnv(t)

	provider := models.Provider{OwnerID: owner.ID, Name: "Salon", Slug: "salon"}
	require.NoError(t, db.Create(&provider).Error)

	b := models.Booking{
		ProviderID:   provider.ID,
		CustomerName: "Ana",
		ScheduledAt:  time.Now().Add(24 * time.Hour),
		Status:       models.BookingStatusPending,
	}
	require.NoError(t, db.Create(&b).Error)

	w := putStatus(router, owner.ID, b.ID, models.BookingStatusConfirmed)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ?", owner.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeBooking, notifications[0].Type)
	assert.Contains(t, notifications[0].Message, models.BookingStatusConfirmed)
}

func TestPostBookingNotifiesOwner(t *testing.T) {
	router, db, owner := setupBookingEnv(t)

	provider := models.Provider{OwnerID: owner.ID, Name: "Salon", Slug: "salon"}
	require.NoError(t, db.Create(&provider).Error)

	body := fmt.Sprintf(
		`{"ProviderID":%d,"CustomerName":"Ana","ScheduledAt":%q}`,
		provider.ID, time.Now().Add(24*time.Hour).Format(time.RFC3339),
	)
	req := httptest.NewRequest(http.MethodPost, "/v1/booking", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(aaa.HeaderUserID, fmt.Sprintf("%d", owner.ID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ?", owner.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeBooking, notifications[0].Type)
}
