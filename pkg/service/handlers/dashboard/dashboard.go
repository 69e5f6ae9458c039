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

package dashboard

import (
	"time"

	"github.com/citypages/citypages/pkg/log"
	"github.com/citypages/citypages/pkg/service/handlers"
	"github.com/citypages/citypages/pkg/service/handlers/base"
	"github.com/citypages/citypages/pkg/service/models"
	"github.com/citypages/citypages/pkg/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	base.BaseHandler
}

type DashboardData struct {
	ActiveProviders       int64 `json:"activeProviders"`
	PendingApplications   int64 `json:"pendingApplications"`
	PendingChangeRequests int64 `json:"pendingChangeRequests"`
	BookingsToday         int64 `json:"bookingsToday"`
	ActiveJobPosts        int64 `json:"activeJobPosts"`
}

// Dashboard admin dashboard counters
// @Tags        Dashboard
// @Summary     admin dashboard counters
// @Description per-table counts fetched concurrently, a failing card is zeroed
// @Accept      json
// @Produce     json
// @Success     200 {object} handlers.ResponseStruct{Data=DashboardData} "resp"
// @Router      /v1/dashboard [get]
// @Security    JWT
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	data := DashboardData{}
	now := time.Now()
	dayStart := utils.DayStartTime(now)

	// one failing count never fails the dashboard, the card shows zero
	count := func(dest *int64, scope func(db *gorm.DB) *gorm.DB) func() error {
		return func() error {
			if err := scope(h.GetDB().WithContext(ctx)).Count(dest).Error; err != nil {
				log.Error(err, "dashboard count")
				*dest = 0
			}
			return nil
		}
	}

	eg, _ := errgroup.WithContext(ctx)
	eg.Go(count(&data.ActiveProviders, func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Provider{}).Where("status = ?", models.ProviderStatusActive)
	}))
	eg.Go(count(&data.PendingApplications, func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Application{}).Where("status = ?", models.ApplicationStatusPending)
	}))
	eg.Go(count(&data.PendingChangeRequests, func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.ChangeRequest{}).Where("status = ?", models.ChangeRequestStatusPending)
	}))
	eg.Go(count(&data.BookingsToday, func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Booking{}).Where("scheduled_at >= ? and scheduled_at < ?", dayStart, dayStart.AddDate(0, 0, 1))
	}))
	eg.Go(count(&data.ActiveJobPosts, func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.JobPost{}).Where("is_active = ?", true).Where("expire_at is null or expire_at > ?", now)
	}))
	_ = eg.Wait()

	handlers.OK(c, data)
}

func (h *DashboardHandler) RegistRouter(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.CheckIsSysADMIN, h.Dashboard)
}
