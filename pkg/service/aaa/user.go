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

package aaa

import (
	"strconv"

	"github.com/citypages/citypages/pkg/service/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Identity is resolved by the gateway in front of this service and
// forwarded in headers. Enforcement happens there, not here.
const (
	HeaderUserID   = "X-Auth-User-Id"
	HeaderUsername = "X-Auth-Username"
)

type UserInterface interface {
	SetContextUser(c *gin.Context, user *models.User)
	GetContextUser(c *gin.Context) (*models.User, bool)
}

type UserInfoHandler struct {
	ContextUserKey string
}

func NewUserInfoHandler() *UserInfoHandler {
	return &UserInfoHandler{
		ContextUserKey: "current_user",
	}
}

func (i *UserInfoHandler) SetContextUser(c *gin.Context, user *models.User) {
	c.Set(i.ContextUserKey, user)
}

func (i *UserInfoHandler) GetContextUser(c *gin.Context) (*models.User, bool) {
	user, exist := c.Get(i.ContextUserKey)
	if exist {
		return user.(*models.User), true
	}
	return nil, false
}

// Middleware loads the user row named by the gateway headers into the
// request context. Requests without the header pass through anonymous.
func (i *UserInfoHandler) Middleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idstr := c.GetHeader(HeaderUserID)
		if idstr == "" {
			c.Next()
			return
		}
		id, err := strconv.ParseUint(idstr, 10, 64)
		if err != nil {
			c.Next()
			return
		}
		user := &models.User{}
		if err := db.WithContext(c.Request.Context()).First(user, id).Error; err != nil {
			c.Next()
			return
		}
		i.SetContextUser(c, user)
		c.Next()
	}
}
