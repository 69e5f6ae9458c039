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
	"time"

	"github.com/citypages/citypages/pkg/service/handlers"
	"github.com/citypages/citypages/pkg/service/handlers/base"
	"github.com/citypages/citypages/pkg/service/models"
	"github.com/citypages/citypages/pkg/utils/msgbus"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	SearchFields  = []string{"BusinessName", "City"}
	SortFields    = []string{"CreatedAt", "ID"}
	PreloadFields = []string{"Applicant"}
	ModelName     = "Application"
)

type ApplicationHandler struct {
	base.BaseHandler
}

// ListApplication list business applications
// @Tags        Application
// @Summary     list business applications
// @Description list business applications with pagination and filters
// @Accept      json
// @Produce     json
// @Param       page         query    int    false "page"
// @Param       size         query    int    false "size"
// @Param       status       query    string false "filter by status"
// @Param       applicant_id query    uint   false "filter by applicant"
// @Success     200          {object} handlers.ResponseStruct{Data=handlers.PageData[models.Application]} "resp"
// @Router      /v1/application [get]
// @Security    JWT
func (h *ApplicationHandler) ListApplication(c *gin.Context) {
	list := []models.Application{}
	query, err := handlers.GetQuery(c)
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	cond := &handlers.PageQueryCond{
		Model:         ModelName,
		SearchFields:  SearchFields,
		SortFields:    SortFields,
		PreloadFields: PreloadFields,
	}
	if status := c.Query("status"); status != "" {
		cond.Where = append(cond.Where, handlers.Args("status = ?", status))
	}
	if applicantID := c.Query("applicant_id"); applicantID != "" {
		cond.Where = append(cond.Where, handlers.Args("applicant_id = ?", applicantID))
	}
	total, page, size, err := query.PageList(h.GetDB().WithContext(c.Request.Context()), cond, &list)
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, handlers.Page(total, list, page, size))
}

// GetApplication get a single application
// @Tags        Application
// @Summary     get a single application
// @Description get a single application by id
// @Accept      json
// @Produce     json
// @Param       id  path     uint                                             true "application id"
// @Success     200 {object} handlers.ResponseStruct{Data=models.Application} "resp"
// @Router      /v1/application/{id} [get]
// @Security    JWT
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	ret := models.Application{}
	if err := h.GetDB().WithContext(c.Request.Context()).Preload("Applicant").First(&ret, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, ret)
}

// PostApplication submit an application
// @Tags        Application
// @Summary     submit an application
// @Description submit a business application, it starts pending
// @Accept      json
// @Produce     json
// @Param       form body     models.Application                               true "application"
// @Success     200  {object} handlers.ResponseStruct{Data=models.Application} "resp"
// @Router      /v1/application [post]
// @Security    JWT
func (h *ApplicationHandler) PostApplication(c *gin.Context) {
	req := models.Application{}
	if err := c.Bind(&req); err != nil {
		handlers.NotOK(c, err)
		return
	}
	req.Status = models.ApplicationStatusPending
	req.DecidedAt = nil
	if err := h.GetDB().WithContext(c.Request.Context()).Create(&req).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	h.BroadcastChanged(msgbus.Application, msgbus.Add, req.ID, req.ApplicantID)
	handlers.Created(c, req)
}

// PutApplication update a pending application
// @Tags        Application
// @Summary     update a pending application
// @Description update an application while it is still pending
// @Accept      json
// @Produce     json
// @Param       id   path     uint                                             true "application id"
// @Param       form body     models.Application                               true "application"
// @Success     200  {object} handlers.ResponseStruct{Data=models.Application} "resp"
// @Router      /v1/application/{id} [put]
// @Security    JWT
func (h *ApplicationHandler) PutApplication(c *gin.Context) {
	req := models.Application{}
	if err := c.Bind(&req); err != nil {
		handlers.NotOK(c, err)
		return
	}
	ctx := c.Request.Context()
	current := models.Application{}
	if err := h.GetDB().WithContext(ctx).First(&current, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	if current.Status != models.ApplicationStatusPending {
		handlers.NotOK(c, fmt.Errorf("application is already %s", current.Status))
		return
	}
	req.ID = current.ID
	req.Status = current.Status
	if err := h.GetDB().WithContext(ctx).Updates(&req).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, req)
}

// ApproveApplication approve an application
// @Tags        Application
// @Summary     approve an application
// @Description approve a pending application, creating the provider listing
// @Accept      json
// @Produce     json
// @Param       id  path     uint                                          true "application id"
// @Success     200 {object} handlers.ResponseStruct{Data=models.Provider} "resp"
// @Router      /v1/application/{id}/approve [put]
// @Security    JWT
func (h *ApplicationHandler) ApproveApplication(c *gin.Context) {
	ctx := c.Request.Context()
	app := models.Application{}
	if err := h.GetDB().WithContext(ctx).First(&app, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	if app.Status != models.ApplicationStatusPending {
		handlers.NotOK(c, fmt.Errorf("application is already %s", app.Status))
		return
	}
	provider := app.ToProvider()
	now := time.Now()
	err := h.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(provider).Error; err != nil {
			return err
		}
		return tx.Model(&app).Updates(map[string]interface{}{
			"status":     models.ApplicationStatusApproved,
			"decided_at": now,
		}).Error
	})
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	if err := h.NotifyUsers(ctx, models.Notification{
		Type:        models.NotificationTypeApplication,
		Title:       fmt.Sprintf("Application for %s approved", app.BusinessName),
		Message:     "Your business listing is now live.",
		Link:        fmt.Sprintf("/providers/%d", provider.ID),
		LinkSection: "listings",
	}, app.ApplicantID); err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, provider)
}

// RejectApplication reject an application
// @Tags        Application
// @Summary     reject an application
// @Description reject a pending application with a note
// @Accept      json
// @Produce     json
// @Param       id   path     uint                                             true "application id"
// @Param       form body     object                                           true "decision note"
// @Success     200  {object} handlers.ResponseStruct{Data=models.Application} "resp"
// @Router      /v1/application/{id}/reject [put]
// @Security    JWT
func (h *ApplicationHandler) RejectApplication(c *gin.Context) {
	req := struct {
		DecisionNote string `json:"decisionNote"`
	}{}
	if err := c.Bind(&req); err != nil {
		handlers.NotOK(c, err)
		return
	}
	ctx := c.Request.Context()
	app := models.Application{}
	if err := h.GetDB().WithContext(ctx).First(&app, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	if app.Status != models.ApplicationStatusPending {
		handlers.NotOK(c, fmt.Errorf("application is already %s", app.Status))
		return
	}
	now := time.Now()
	if err := h.GetDB().WithContext(ctx).Model(&app).Updates(map[string]interface{}{
		"status":        models.ApplicationStatusRejected,
		"decision_note": req.DecisionNote,
		"decided_at":    now,
	}).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	if err := h.NotifyUsers(ctx, models.Notification{
		Type:        models.NotificationTypeApplication,
		Title:       fmt.Sprintf("Application for %s rejected", app.BusinessName),
		Message:     req.DecisionNote,
		Link:        fmt.Sprintf("/applications/%d", app.ID),
		LinkSection: "applications",
	}, app.ApplicantID); err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, app)
}

// DeleteApplication delete an application
// @Tags        Application
// @Summary     delete an application
// @Description delete an application by id
// @Accept      json
// @Produce     json
// @Param       id  path     uint                                 true "application id"
// @Success     204 {object} handlers.ResponseStruct{Data=string} "resp"
// @Router      /v1/application/{id} [delete]
// @Security    JWT
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	ret := models.Application{}
	if err := h.GetDB().WithContext(c.Request.Context()).Delete(&ret, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.NoContent(c, nil)
}

func (h *ApplicationHandler) RegistRouter(rg *gin.RouterGroup) {
	rg.GET("/application", h.ListApplication)
	rg.GET("/application/:id", h.GetApplication)
	rg.POST("/application", h.PostApplication)
	rg.PUT("/application/:id", h.PutApplication)
	rg.PUT("/application/:id/approve", h.CheckIsSysADMIN, h.ApproveApplication)
	rg.PUT("/application/:id/reject", h.CheckIsSysADMIN, h.RejectApplication)
	rg.DELETE("/application/:id", h.DeleteApplication)
}
