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

package jobpost

import (
	"fmt"
	"strconv"
	"time"

	"github.com/citypages/citypages/pkg/service/handlers"
	"github.com/citypages/citypages/pkg/service/handlers/base"
	"github.com/citypages/citypages/pkg/service/models"

	"github.com/gin-gonic/gin"
)

var (
	SearchFields  = []string{"Title"}
	SortFields    = []string{"CreatedAt", "Title", "ID"}
	PreloadFields = []string{"Provider"}
	ModelName     = "JobPost"
)

type JobPostHandler struct {
	base.BaseHandler
}

// ListJobPost list job posts
// @Tags        JobPost
// @Summary     list job posts
// @Description list job posts with pagination and filters
// @Accept      json
// @Produce     json
// @Param       page        query    int    false "page"
// @Param       size        query    int    false "size"
// @Param       provider_id query    uint   false "filter by provider"
// @Param       active      query    bool   false "only active, unexpired posts"
// @Success     200         {object} handlers.ResponseStruct{Data=handlers.PageData[models.JobPost]} "resp"
// @Router      /v1/jobpost [get]
// @Security    JWT
func (h *JobPostHandler) ListJobPost(c *gin.Context) {
	list := []models.JobPost{}
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
	if providerID := c.Query("provider_id"); providerID != "" {
		cond.Where = append(cond.Where, handlers.Args("provider_id = ?", providerID))
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active, _ := strconv.ParseBool(activeStr)
		if active {
			cond.Where = append(cond.Where,
				handlers.Args("is_active = ?", true),
				handlers.Args("expire_at is null or expire_at > ?", time.Now()),
			)
		} else {
			cond.Where = append(cond.Where,
				handlers.Args("is_active = ? or expire_at <= ?", false, time.Now()),
			)
		}
	}
	total, page, size, err := query.PageList(h.GetDB().WithContext(c.Request.Context()), cond, &list)
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, handlers.Page(total, list, page, size))
}

// GetJobPost get a single job post
// @Tags        JobPost
// @Summary     get a single job post
// @Description get a single job post by id
// @Accept      json
// @Produce     json
// @Param       id  path     uint                                         true "job post id"
// @Success     200 {object} handlers.ResponseStruct{Data=models.JobPost} "resp"
// @Router      /v1/jobpost/{id} [get]
// @Security    JWT
func (h *JobPostHandler) GetJobPost(c *gin.Context) {
	ret := models.JobPost{}
	if err := h.GetDB().WithContext(c.Request.Context()).Preload("Provider").First(&ret, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, ret)
}

// PostJobPost create a job post
// @Tags        JobPost
// @Summary     create a job post
// @Description publish a vacancy under a provider
// @Accept      json
// @Produce     json
// @Param       form body     models.JobPost                               true "job post"
// @Success     200  {object} handlers.ResponseStruct{Data=models.JobPost} "resp"
// @Router      /v1/jobpost [post]
// @Security    JWT
func (h *JobPostHandler) PostJobPost(c *gin.Context) {
	req := models.JobPost{}
	if err := c.Bind(&req); err != nil {
		handlers.NotOK(c, err)
		return
	}
	if err := h.GetDB().WithContext(c.Request.Context()).Create(&req).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.Created(c, req)
}

// PutJobPost update a job post
// @Tags        JobPost
// @Summary     update a job post
// @Description update a vacancy
// @Accept      json
// @Produce     json
// @Param       id   path     uint                                         true "job post id"
// @Param       form body     models.JobPost                               true "job post"
// @Success     200  {object} handlers.ResponseStruct{Data=models.JobPost} "resp"
// @Router      /v1/jobpost/{id} [put]
// @Security    JWT
func (h *JobPostHandler) PutJobPost(c *gin.Context) {
	req := models.JobPost{}
	if err := c.Bind(&req); err != nil {
		handlers.NotOK(c, err)
		return
	}
	if strconv.Itoa(int(req.ID)) != c.Param("id") {
		handlers.NotOK(c, fmt.Errorf("request id does not match url id"))
		return
	}
	if err := h.GetDB().WithContext(c.Request.Context()).Updates(&req).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, req)
}

// DeleteJobPost delete a job post
// @Tags        JobPost
// @Summary     delete a job post
// @Description delete a vacancy by id
// @Accept      json
// @Produce     json
// @Param       id  path     uint                                 true "job post id"
// @Success     204 {object} handlers.ResponseStruct{Data=string} "resp"
// @Router      /v1/jobpost/{id} [delete]
// @Security    JWT
func (h *JobPostHandler) DeleteJobPost(c *gin.Context) {
	ret := models.JobPost{}
	if err := h.GetDB().WithContext(c.Request.Context()).Delete(&ret, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.NoContent(c, nil)
}

func (h *JobPostHandler) RegistRouter(rg *gin.RouterGroup) {
	rg.GET("/jobpost", h.ListJobPost)
	rg.GET("/jobpost/:id", h.GetJobPost)
	rg.POST("/jobpost", h.PostJobPost)
	rg.PUT("/jobpost/:id", h.PutJobPost)
	rg.DELETE("/jobpost/:id", h.DeleteJobPost)
}
