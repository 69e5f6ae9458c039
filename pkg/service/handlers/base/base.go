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

package base

import (
	"context"
	"errors"

	"github.com/citypages/citypages/pkg/log"
	"github.com/citypages/citypages/pkg/msgbus/switcher"
	"github.com/citypages/citypages/pkg/service/aaa"
	"github.com/citypages/citypages/pkg/service/handlers"
	"github.com/citypages/citypages/pkg/service/models"
	"github.com/citypages/citypages/pkg/utils/database"
	"github.com/citypages/citypages/pkg/utils/msgbus"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BaseHandler carries what every entity handler needs: the database, the
// current-user accessor and the push switcher.
type BaseHandler struct {
	aaa.UserInterface
	database *database.Database
	switcher *switcher.MessageSwitcher
}

func NewBaseHandler(db *database.Database, ms *switcher.MessageSwitcher, user aaa.UserInterface) *BaseHandler {
	return &BaseHandler{
		UserInterface: user,
		database:      db,
		switcher:      ms,
	}
}

func (h *BaseHandler) GetDB() *gorm.DB {
	return h.database.DB()
}

func (h *BaseHandler) GetDataBase() *database.Database {
	return h.database
}

func (h *BaseHandler) GetSwitcher() *switcher.MessageSwitcher {
	return h.switcher
}

// CheckIsSysADMIN aborts non-admin requests. Authorization proper lives
// at the gateway, this only guards admin-console routes.
func (h *BaseHandler) CheckIsSysADMIN(c *gin.Context) {
	user, exist := h.GetContextUser(c)
	if !exist || !user.IsSysADMIN() {
		handlers.Forbidden(c, errors.New(handlers.MessageForbidden))
		c.Abort()
		return
	}
	c.Next()
}

// NotifyUsers stores one notification row per recipient and pushes a
// change event to connected sessions. Storage errors fail the call;
// push errors only drop the session.
func (h *BaseHandler) NotifyUsers(ctx context.Context, notification models.Notification, userIDs ...uint) error {
	rows := make([]models.Notification, 0, len(userIDs))
	for _, uid := range userIDs {
		row := notification
		row.ID = 0
		row.UserID = uid
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := h.GetDB().WithContext(ctx).Create(&rows).Error; err != nil {
		return err
	}
	if h.switcher != nil {
		h.switcher.DispatchMessage(&msgbus.NotifyMessage{
			MessageType: msgbus.Message,
			EventKind:   msgbus.Add,
			InvolvedObject: &msgbus.InvolvedObject{
				ResourceType: msgbus.Notification,
			},
			Content: msgbus.MessageContent{
				ResourceType: msgbus.Notification,
				CreatedAt:    rows[0].CreatedAt,
				Detail:       notification.Title,
				To:           userIDs,
			},
		})
	}
	log.V(1).Info("notified users", "count", len(rows), "title", notification.Title)
	return nil
}

// BroadcastChanged pushes an entity change hint to the given users.
func (h *BaseHandler) BroadcastChanged(resource msgbus.ResourceType, kind msgbus.EventKind, resourceID uint, userIDs ...uint) {
	if h.switcher == nil {
		return
	}
	h.switcher.DispatchMessage(&msgbus.NotifyMessage{
		MessageType:    msgbus.Changed,
		EventKind:      kind,
		InvolvedObject: &msgbus.InvolvedObject{ResourceType: resource, ResourceID: resourceID},
		Content:        msgbus.MessageContent{ResourceType: resource, ResourceID: resourceID, To: userIDs},
	})
}
