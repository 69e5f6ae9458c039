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
	"time"

	"github.com/citypages/citypages/pkg/service/handlers"
	"github.com/citypages/citypages/pkg/service/handlers/base"
	"github.com/citypages/citypages/pkg/service/models"
	"github.com/citypages/citypages/pkg/utils/msgbus"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	SortFields    = []string{"CreatedAt", "ID"}
	PreloadFields = []string{"Provider", "Requester"}
	ModelName     = "ChangeRequest"
)

type ChangeRequestHandler struct {
	base.BaseHandler
}

// ListChangeRequest list change requests
// @Tags        ChangeRequest
// @Summary     list change requests
// @Description list change requests with pagination and filters
// @Accept      json
// @Produce     json
// @Param       page        query    int    false "page"
// @Param       size        query    int    false "size"
// @Param       status      query    string false "filter by status"
// @Param       provider_id query    uint   false "filter by provider"
// @Param       owner_id    query    uint   false "filter by provider owner"
// @Success     200         {object} handlers.ResponseStruct{Data=handlers.PageData[models.ChangeRequest]} "resp"
// @Router      /v1/changerequest [get]
// @Security    JWT
func (h *ChangeRequestHandler) ListChangeRequest(c *gin.Context) {
	list := []models.ChangeRequest{}
	query, err := handlers.GetQuery(c)
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	cond := &handlers.PageQueryCond{
		Model:         ModelName,
		SortFields:    SortFields,
		PreloadFields: PreloadFields,
	}
	if status := c.Query("status"); status != "" {
		cond.Where = append(cond.Where, handlers.Args("status = ?", status))
	}
	if providerID := c.Query("provider_id"); providerID != "" {
		cond.Where = append(cond.Where, handlers.Args("provider_id = ?", providerID))
	}
	if ownerID := c.Query("owner_id"); ownerID != "" {
		cond.Join = handlers.Args("join providers on providers.id = change_requests.provider_id and providers.owner_id = ?", ownerID)
	}
	total, page, size, err := query.PageList(h.GetDB().WithContext(c.Request.Context()), cond, &list)
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, handlers.Page(total, list, page, size))
}

// GetChangeRequest get a single change request
// @Tags        ChangeRequest
// @Summary     get a single change request
// @Description get a single change request by id
// @Accept      json
// @Produce     json
// @Param       id  path     uint                                               true "change request id"
// @Success     200 {object} handlers.ResponseStruct{Data=models.ChangeRequest} "resp"
// @Router      /v1/changerequest/{id} [get]
// @Security    JWT
func (h *ChangeRequestHandler) GetChangeRequest(c *gin.Context) {
	ret := models.ChangeRequest{}
	if err := h.GetDB().WithContext(c.Request.Context()).Preload("Provider").Preload("Requester").First(&ret, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, ret)
}

// PostChangeRequest submit a change request
// @Tags        ChangeRequest
// @Summary     submit a change request
// @Description propose field changes against a provider listing
// @Accept      json
// @Produce     json
// @Param       form body     models.ChangeRequest                               true "change request"
// @Success     200  {object} handlers.ResponseStruct{Data=models.ChangeRequest} "resp"
// @Router      /v1/changerequest [post]
// @Security    JWT
func (h *ChangeRequestHandler) PostChangeRequest(c *gin.Context) {
	req := models.ChangeRequest{}
	if err := c.Bind(&req); err != nil {
		handlers.NotOK(c, err)
		return
	}
	// refuse undecodable or non-whitelisted payloads up front
	changes, err := req.ChangedColumns()
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	req.Status = models.ChangeRequestStatusPending
	req.DecidedAt = nil
	ctx := c.Request.Context()
	provider := models.Provider{}
	if err := h.GetDB().WithContext(ctx).First(&provider, req.ProviderID).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	if err := models.ValidateProviderChanges(&provider, changes); err != nil {
		handlers.NotOK(c, err)
		return
	}
	if err := h.GetDB().WithContext(ctx).Create(&req).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	h.BroadcastChanged(msgbus.ChangeRequest, msgbus.Add, req.ID, provider.OwnerID)
	handlers.Created(c, req)
}

// ApproveChangeRequest approve and apply a change request
// @Tags        ChangeRequest
// @Summary     approve a change request
// @Description approve a pending change request and apply it to the provider
// @Accept      json
// @Produce     json
// @Param       id  path     uint                                          true "change request id"
// @Success     200 {object} handlers.ResponseStruct{Data=models.Provider} "resp"
// @Router      /v1/changerequest/{id}/approve [put]
// @Security    JWT
func (h *ChangeRequestHandler) ApproveChangeRequest(c *gin.Context) {
	ctx := c.Request.Context()
	cr := models.ChangeRequest{}
	if err := h.GetDB().WithContext(ctx).First(&cr, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	if cr.Status != models.ChangeRequestStatusPending {
		handlers.NotOK(c, fmt.Errorf("change request is already %s", cr.Status))
		return
	}
	changes, err := cr.ChangedColumns()
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	provider := models.Provider{}
	now := time.Now()
	err = h.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&provider, cr.ProviderID).Error; err != nil {
			return err
		}
		if err := models.ValidateProviderChanges(&provider, changes); err != nil {
			return err
		}
		if err := tx.Model(&provider).Updates(changes).Error; err != nil {
			return err
		}
		return tx.Model(&cr).Updates(map[string]interface{}{
			"status":     models.ChangeRequestStatusApproved,
			"decided_at": now,
		}).Error
	})
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	if err := h.NotifyUsers(ctx, models.Notification{
		Type:        models.NotificationTypeChangeRequest,
		Title:       fmt.Sprintf("Change request for %s approved", provider.Name),
		Message:     "The requested changes were applied to the listing.",
		Link:        fmt.Sprintf("/providers/%d", provider.ID),
		LinkSection: "listings",
	}, cr.RequesterID); err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, provider)
}

// RejectChangeRequest reject a change request
// @Tags        ChangeRequest
// @Summary     reject a change request
// @Description reject a pending change request with a review note
// @Accept      json
// @Produce     json
// @Param       id   path     uint                                               true "change request id"
// @Param       form body     object                                             true "review note"
// @Success     200  {object} handlers.ResponseStruct{Data=models.ChangeRequest} "resp"
// @Router      /v1/changerequest/{id}/reject [put]
// @Security    JWT
func (h *ChangeRequestHandler) RejectChangeRequest(c *gin.Context) {
	req := struct {
		ReviewNote string `json:"reviewNote"`
	}{}
	if err := c.Bind(&req); err != nil {
		handlers.NotOK(c, err)
		return
	}
	ctx := c.Request.Context()
	cr := models.ChangeRequest{}
	if err := h.GetDB().WithContext(ctx).Preload("Provider").First(&cr, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	if cr.Status != models.ChangeRequestStatusPending {
		handlers.NotOK(c, fmt.Errorf("change request is already %s", cr.Status))
		return
	}
	now := time.Now()
	if err := h.GetDB().WithContext(ctx).Model(&cr).Updates(map[string]interface{}{
		"status":      models.ChangeRequestStatusRejected,
		"review_note": req.ReviewNote,
		"decided_at":  now,
	}).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	title := "Change request rejected"
	if cr.Provider != nil {
		title = fmt.Sprintf("Change request for %s rejected", cr.Provider.Name)
	}
	if err := h.NotifyUsers(ctx, models.Notification{
		Type:        models.NotificationTypeChangeRequest,
		Title:       title,
		Message:     req.ReviewNote,
		Link:        fmt.Sprintf("/changerequests/%d", cr.ID),
		LinkSection: "changes",
	}, cr.RequesterID); err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, cr)
}

// DeleteChangeRequest delete a change request
// @Tags        ChangeRequest
// @Summary     delete a change request
// @Description delete a change request by id
// @Accept      json
// @Produce     json
// @Param       id  path     uint                                 true "change request id"
// @Success     204 {object} handlers.ResponseStruct{Data=string} "resp"
// @Router      /v1/changerequest/{id} [delete]
// @Security    JWT
func (h *ChangeRequestHandler) DeleteChangeRequest(c *gin.Context) {
	ret := models.ChangeRequest{}
	if err := h.GetDB().WithContext(c.Request.Context()).Delete(&ret, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.NoContent(c, nil)
}

func (h *ChangeRequestHandler) RegistRouter(rg *gin.RouterGroup) {
	rg.GET("/changerequest", h.ListChangeRequest)
	rg.GET("/changerequest/:id", h.GetChangeRequest)
	rg.POST("/changerequest", h.PostChangeRequest)
	rg.PUT("/changerequest/:id/approve", h.CheckIsSysADMIN, h.ApproveChangeRequest)
	rg.PUT("/changerequest/:id/reject", h.CheckIsSysADMIN, h.RejectChangeRequest)
	rg.DELETE("/changerequest/:id", h.DeleteChangeRequest)
}
