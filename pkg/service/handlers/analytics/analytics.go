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

package analytics

import (
	"time"

	"github.com/citypages/citypages/pkg/service/handlers"
	"github.com/citypages/citypages/pkg/service/handlers/base"
	"github.com/citypages/citypages/pkg/service/models"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	base.BaseHandler
}

// PostEvent ingest an analytics event
// @Tags        Analytics
// @Summary     ingest an analytics event
// @Description record a single interaction event
// @Accept      json
// @Produce     json
// @Param       form body     models.AnalyticsEvent                true "event"
// @Success     201  {object} handlers.ResponseStruct{Data=string} "resp"
// @Router      /v1/analytics [post]
// @Security    JWT
func (h *AnalyticsHandler) PostEvent(c *gin.Context) {
	req := models.AnalyticsEvent{}
	if err := c.Bind(&req); err != nil {
		handlers.NotOK(c, err)
		return
	}
	if err := h.GetDB().WithContext(c.Request.Context()).Create(&req).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.Created(c, "ok")
}

// Summary per-provider event counts
// @Tags        Analytics
// @Summary     per-provider event counts
// @Description event counts grouped by type over a time window
// @Accept      json
// @Produce     json
// @Param       provider_id query    uint   false "filter by provider"
// @Param       start       query    string false "window start, RFC3339"
// @Param       end         query    string false "window end, RFC3339"
// @Success     200         {object} handlers.ResponseStruct{Data=[]models.EventTypeCount} "resp"
// @Router      /v1/analytics/summary [get]
// @Security    JWT
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	q := h.GetDB().WithContext(c.Request.Context()).Model(&models.AnalyticsEvent{})
	if providerID := c.Query("provider_id"); providerID != "" {
		q = q.Where("provider_id = ?", providerID)
	}
	// default window is the trailing 30 days
	start := time.Now().AddDate(0, 0, -30)
	end := time.Now()
	if startStr := c.Query("start"); startStr != "" {
		t, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			handlers.NotOK(c, err)
			return
		}
		start = t
	}
	if endStr := c.Query("end"); endStr != "" {
		t, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			handlers.NotOK(c, err)
			return
		}
		end = t
	}
	counts := []models.EventTypeCount{}
	err := q.Where("created_at >= ? and created_at < ?", start, end).
		Select("event_type, count(*) as count").
		Group("event_type").
		Scan(&counts).Error
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, counts)
}

func (h *AnalyticsHandler) RegistRouter(rg *gin.RouterGroup) {
	rg.POST("/analytics", h.PostEvent)
	rg.GET("/analytics/summary", h.Summary)
}
