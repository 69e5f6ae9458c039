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

package provider

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/citypages/citypages/pkg/service/handlers"
	"github.com/citypages/citypages/pkg/service/handlers/base"
	"github.com/citypages/citypages/pkg/service/models"
	"github.com/citypages/citypages/pkg/utils/msgbus"

	"github.com/gin-gonic/gin"
)

var (
	SearchFields  = []string{"Name", "City", "Category"}
	SortFields    = []string{"Name", "CreatedAt", "ID"}
	PreloadFields = []string{"Owner"}
	ModelName     = "Provider"
)

type ProviderHandler struct {
	base.BaseHandler
}

// ListProvider list providers
// @Tags        Provider
// @Summary     list providers
// @Description list providers with pagination, search and filters
// @Accept      json
// @Produce     json
// @Param       page     query    int    false "page"
// @Param       size     query    int    false "size"
// @Param       search   query    string false "search in name/city/category"
// @Param       status   query    string false "filter by status"
// @Param       featured query    bool   false "filter featured listings"
// @Param       owner_id query    uint   false "filter by owner"
// @Success     200      {object} handlers.ResponseStruct{Data=handlers.PageData[models.Provider]} "resp"
// @Router      /v1/provider [get]
// @Security    JWT
func (h *ProviderHandler) ListProvider(c *gin.Context) {
	list := []models.Provider{}
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
	if category := c.Query("category"); category != "" {
		cond.Where = append(cond.Where, handlers.Args("category = ?", category))
	}
	if city := c.Query("city"); city != "" {
		cond.Where = append(cond.Where, handlers.Args("city = ?", city))
	}
	if featuredStr := c.Query("featured"); featuredStr != "" {
		featured, _ := strconv.ParseBool(featuredStr)
		cond.Where = append(cond.Where, handlers.Args("featured = ?", featured))
	}
	if ownerStr := c.Query("owner_id"); ownerStr != "" {
		cond.Where = append(cond.Where, handlers.Args("owner_id = ?", ownerStr))
	}
	total, page, size, err := query.PageList(h.GetDB().WithContext(c.Request.Context()), cond, &list)
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, handlers.Page(total, list, page, size))
}

// GetProvider get a single provider
// @Tags        Provider
// @Summary     get a single provider
// @Description get a single provider by id
// @Accept      json
// @Produce     json
// @Param       id  path     uint                                          true "provider id"
// @Success     200 {object} handlers.ResponseStruct{Data=models.Provider} "resp"
// @Router      /v1/provider/{id} [get]
// @Security    JWT
func (h *ProviderHandler) GetProvider(c *gin.Context) {
	ret := models.Provider{}
	if err := h.GetDB().WithContext(c.Request.Context()).Preload("Owner").First(&ret, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, ret)
}

// PostProvider create a provider
// @Tags        Provider
// @Summary     create a provider
// @Description create a provider listing
// @Accept      json
// @Produce     json
// @Param       form body     models.Provider                               true "provider"
// @Success     200  {object} handlers.ResponseStruct{Data=models.Provider} "resp"
// @Router      /v1/provider [post]
// @Security    JWT
func (h *ProviderHandler) PostProvider(c *gin.Context) {
	req := models.Provider{}
	if err := c.Bind(&req); err != nil {
		handlers.NotOK(c, err)
		return
	}
	if err := validateImages(&req); err != nil {
		handlers.NotOK(c, err)
		return
	}
	if req.Status == "" {
		req.Status = models.ProviderStatusActive
	}
	if err := h.GetDB().WithContext(c.Request.Context()).Create(&req).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	h.BroadcastChanged(msgbus.Provider, msgbus.Add, req.ID, req.OwnerID)
	handlers.Created(c, req)
}

// PutProvider update a provider
// @Tags        Provider
// @Summary     update a provider
// @Description update a provider listing
// @Accept      json
// @Produce     json
// @Param       id   path     uint                                          true "provider id"
// @Param       form body     models.Provider                               true "provider"
// @Success     200  {object} handlers.ResponseStruct{Data=models.Provider} "resp"
// @Router      /v1/provider/{id} [put]
// @Security    JWT
func (h *ProviderHandler) PutProvider(c *gin.Context) {
	req := models.Provider{}
	if err := c.Bind(&req); err != nil {
		handlers.NotOK(c, err)
		return
	}
	if strconv.Itoa(int(req.ID)) != c.Param("id") {
		handlers.NotOK(c, fmt.Errorf("request id does not match url id"))
		return
	}
	if err := validateImages(&req); err != nil {
		handlers.NotOK(c, err)
		return
	}
	if err := h.GetDB().WithContext(c.Request.Context()).Updates(&req).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	h.BroadcastChanged(msgbus.Provider, msgbus.Update, req.ID, req.OwnerID)
	handlers.OK(c, req)
}

// DeleteProvider delete a provider
// @Tags        Provider
// @Summary     delete a provider
// @Description delete a provider listing by id
// @Accept      json
// @Produce     json
// @Param       id  path     uint                                 true "provider id"
// @Success     204 {object} handlers.ResponseStruct{Data=string} "resp"
// @Router      /v1/provider/{id} [delete]
// @Security    JWT
func (h *ProviderHandler) DeleteProvider(c *gin.Context) {
	ret := models.Provider{}
	if err := h.GetDB().WithContext(c.Request.Context()).First(&ret, c.Param("id")).Error; err != nil {
		if models.IsNotFound(err) {
			handlers.NoContent(c, nil)
			return
		}
		handlers.NotOK(c, err)
		return
	}
	if err := h.GetDB().WithContext(c.Request.Context()).Delete(&ret).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	h.BroadcastChanged(msgbus.Provider, msgbus.Delete, ret.ID, ret.OwnerID)
	handlers.NoContent(c, nil)
}

// validateImages enforces the tier-dependent image count ceiling.
func validateImages(p *models.Provider) error {
	if len(p.Images) == 0 {
		return nil
	}
	images := []string{}
	if err := json.Unmarshal(p.Images, &images); err != nil {
		return fmt.Errorf("images must be a json array of urls: %w", err)
	}
	if limit := p.ImageLimit(); len(images) > limit {
		return fmt.Errorf("at most %d images allowed for this listing tier", limit)
	}
	return nil
}

func (h *ProviderHandler) RegistRouter(rg *gin.RouterGroup) {
	rg.GET("/provider", h.ListProvider)
	rg.GET("/provider/:id", h.GetProvider)
	rg.POST("/provider", h.PostProvider)
	rg.PUT("/provider/:id", h.PutProvider)
	rg.DELETE("/provider/:id", h.DeleteProvider)
}
