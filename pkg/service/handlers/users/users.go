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

package users

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
	SearchFields = []string{"Username", "Email"}
	SortFields   = []string{"Username", "CreatedAt", "ID"}
	ModelName    = "User"
)

type UserHandler struct {
	base.BaseHandler
}

// ListUser list users
// @Tags        User
// @Summary     list users
// @Description list users with pagination and search
// @Accept      json
// @Produce     json
// @Param       page   query    int    false "page"
// @Param       size   query    int    false "size"
// @Param       search query    string false "search in username/email"
// @Param       role   query    string false "filter by system role"
// @Success     200    {object} handlers.ResponseStruct{Data=handlers.PageData[models.User]} "resp"
// @Router      /v1/user [get]
// @Security    JWT
func (h *UserHandler) ListUser(c *gin.Context) {
	list := []models.User{}
	query, err := handlers.GetQuery(c)
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	cond := &handlers.PageQueryCond{
		Model:        ModelName,
		SearchFields: SearchFields,
		SortFields:   SortFields,
	}
	if role := c.Query("role"); role != "" {
		cond.Where = append(cond.Where, handlers.Args("system_role = ?", role))
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active, _ := strconv.ParseBool(activeStr)
		cond.Where = append(cond.Where, handlers.Args("is_active = ?", active))
	}
	total, page, size, err := query.PageList(h.GetDB().WithContext(c.Request.Context()), cond, &list)
	if err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, handlers.Page(total, list, page, size))
}

// GetUser get a single user
// @Tags        User
// @Summary     get a single user
// @Description get a single user by id
// @Accept      json
// @Produce     json
// @Param       id  path     uint                                      true "user id"
// @Success     200 {object} handlers.ResponseStruct{Data=models.User} "resp"
// @Router      /v1/user/{id} [get]
// @Security    JWT
func (h *UserHandler) GetUser(c *gin.Context) {
	ret := models.User{}
	if err := h.GetDB().WithContext(c.Request.Context()).First(&ret, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, ret)
}

// PostUser create a user
// @Tags        User
// @Summary     create a user
// @Description create a user account
// @Accept      json
// @Produce     json
// @Param       form body     models.User                               true "user"
// @Success     200  {object} handlers.ResponseStruct{Data=models.User} "resp"
// @Router      /v1/user [post]
// @Security    JWT
func (h *UserHandler) PostUser(c *gin.Context) {
	req := models.User{}
	if err := c.Bind(&req); err != nil {
		handlers.NotOK(c, err)
		return
	}
	if req.SystemRole == "" {
		req.SystemRole = models.SystemRoleNormal
	}
	now := time.Now()
	req.CreatedAt = &now
	if err := h.GetDB().WithContext(c.Request.Context()).Create(&req).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.Created(c, req)
}

// PutUser update a user
// @Tags        User
// @Summary     update a user
// @Description update user profile fields
// @Accept      json
// @Produce     json
// @Param       id   path     uint                                      true "user id"
// @Param       form body     models.User                               true "user"
// @Success     200  {object} handlers.ResponseStruct{Data=models.User} "resp"
// @Router      /v1/user/{id} [put]
// @Security    JWT
func (h *UserHandler) PutUser(c *gin.Context) {
	req := models.User{}
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

// PutUserRole change a user's system role
// @Tags        User
// @Summary     change a user's system role
// @Description promote or demote a user between sysadmin and normal
// @Accept      json
// @Produce     json
// @Param       id   path     uint                                      true "user id"
// @Param       role path     string                                    true "sysadmin or normal"
// @Success     200  {object} handlers.ResponseStruct{Data=models.User} "resp"
// @Router      /v1/user/{id}/role/{role} [put]
// @Security    JWT
func (h *UserHandler) PutUserRole(c *gin.Context) {
	role := c.Param("role")
	if role != models.SystemRoleAdmin && role != models.SystemRoleNormal {
		handlers.NotOK(c, fmt.Errorf("unknown system role %q", role))
		return
	}
	ret := models.User{}
	ctx := c.Request.Context()
	if err := h.GetDB().WithContext(ctx).First(&ret, c.Param("id")).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	ret.SystemRole = role
	if err := h.GetDB().WithContext(ctx).Model(&ret).Update("system_role", role).Error; err != nil {
		handlers.NotOK(c, err)
		return
	}
	handlers.OK(c, ret)
}

// DeleteUser delete a user
// @Tags        User
// @Summary     delete a user
// @Description delete a user account by id
// @Accept      json
// @Produce     json
// @Param       id  path     uint                                 true "user id"
// @Success     204 {object} handlers.ResponseStruct{Data=string} "resp"
// @Router      /v1/user/{id} [delete]
// @Security    JWT
func (h *UserHandler) DeleteUser(c *gin.Context) {
	ret := models.User{}
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
	handlers.NoContent(c, nil)
}

func (h *UserHandler) RegistRouter(rg *gin.RouterGroup) {
	rg.GET("/user", h.ListUser)
	rg.GET("/user/:id", h.GetUser)
	rg.POST("/user", h.CheckIsSysADMIN, h.PostUser)
	rg.PUT("/user/:id", h.PutUser)
	rg.PUT("/user/:id/role/:role", h.CheckIsSysADMIN, h.PutUserRole)
	rg.DELETE("/user/:id", h.CheckIsSysADMIN, h.DeleteUser)
}
