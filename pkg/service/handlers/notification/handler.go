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

package notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/citypages/citypages/pkg/log"
	"github.com/citypages/citypages/pkg/service/handlers"
	"github.com/citypages/citypages/pkg/service/handlers/base"
	"github.com/citypages/citypages/pkg/service/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type NotificationHandler struct {
	base.BaseHandler
	AckStore AckStore
}

type FeedResponse struct {
	Items         []FeedItem `json:"items"`
	Unread        int        `json:"unread"`
	UnreadDisplay string     `json:"unreadDisplay"`
}

// ListFeed the notification bell feed
// @Tags        Notification
// @Summary     the notification bell feed
// @Description merged, deduplicated, newest-first feed from three sources
// @Accept      json
// @Produce     json
// @Param       ack query    bool                                        false "acknowledge all visible inferred items"
// @Success     200 {object} handlers.ResponseStruct{Data=FeedResponse} "resp"
// @Router      /v1/notifybell [get]
// @Security    JWT
func (h *NotificationHandler) ListFeed(c *gin.Context) {
	user, exist := h.GetContextUser(c)
	if !exist {
		handlers.Unauthorized(c, errors.New(handlers.MessageUnauthorized))
		return
	}
	ctx := c.Request.Context()
	feed := h.buildFeed(ctx, user.GetID())

	// opening the dropdown acknowledges every visible inferred item
	if ack, _ := strconv.ParseBool(c.Query("ack")); ack {
		toAck := []string{}
		for _, item := range feed {
			if !item.IsAdminNotification {
				toAck = append(toAck, item.ID)
			}
		}
		if len(toAck) > 0 {
			if err := h.AckStore.Ack(ctx, user.GetID(), toAck...); err != nil {
				log.Error(err, "acknowledge inferred notifications", "user", user.GetID())
			}
		}
	}

	unread := UnreadCount(feed)
	handlers.OK(c, FeedResponse{
		Items:         feed,
		Unread:        unread,
		UnreadDisplay: UnreadDisplay(unread),
	})
}

// Count unread badge count
// @Tags        Notification
// @Summary     unread badge count
// @Description unread count of the merged feed, capped display at 9+
// @Accept      json
// @Produce     json
// @Success     200 {object} handlers.ResponseStruct{Data=FeedResponse} "resp"
// @Router      /v1/notifybell/count [get]
// @Security    JWT
func (h *NotificationHandler) Count(c *gin.Context) {
	user, exist := h.GetContextUser(c)
	if !exist {
		handlers.Unauthorized(c, errors.New(handlers.MessageUnauthorized))
		return
	}
	feed := h.buildFeed(c.Request.Context(), user.GetID())
	unread := UnreadCount(feed)
	handlers.OK(c, FeedResponse{Unread: unread, UnreadDisplay: UnreadDisplay(unread)})
}

// ReadNotification mark one feed item read
// @Tags        Notification
// @Summary     mark one feed item read
// @Description persist read for admin notifications, acknowledge inferred ones; "_all" reads everything
// @Accept      json
// @Produce     json
// @Param       id  path     string                               true "feed item id or _all"
// @Success     200 {object} handlers.ResponseStruct{Data=string} "resp"
// @Router      /v1/notifybell/{id}/read [put]
// @Security    JWT
func (h *NotificationHandler) ReadNotification(c *gin.Context) {
	user, exist := h.GetContextUser(c)
	if !exist {
		handlers.Unauthorized(c, errors.New(handlers.MessageUnauthorized))
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	switch {
	case id == "_all":
		if err := h.GetDB().WithContext(ctx).Model(&models.Notification{}).
			Where("user_id = ?", user.GetID()).
			Updates(map[string]interface{}{"is_read": true}).Error; err != nil {
			handlers.NotOK(c, err)
			return
		}
		feed := h.buildFeed(ctx, user.GetID())
		toAck := []string{}
		for _, item := range feed {
			if !item.IsAdminNotification {
				toAck = append(toAck, item.ID)
			}
		}
		if len(toAck) > 0 {
			if err := h.AckStore.Ack(ctx, user.GetID(), toAck...); err != nil {
				log.Error(err, "acknowledge inferred notifications", "user", user.GetID())
			}
		}
	case IsInferredID(id):
		if err := h.AckStore.Ack(ctx, user.GetID(), id); err != nil {
			log.Error(err, "acknowledge inferred notification", "user", user.GetID(), "id", id)
		}
	case strings.HasPrefix(id, directIDPrefix):
		rowID, err := strconv.ParseUint(strings.TrimPrefix(id, directIDPrefix), 10, 64)
		if err != nil {
			handlers.NotOK(c, fmt.Errorf("invalid notification id %q", id))
			return
		}
		if err := h.GetDB().WithContext(ctx).Model(&models.Notification{}).
			Where("id = ? and user_id = ?", rowID, user.GetID()).
			Updates(map[string]interface{}{"is_read": true}).Error; err != nil {
			handlers.NotOK(c, err)
			return
		}
	default:
		handlers.NotOK(c, fmt.Errorf("invalid notification id %q", id))
		return
	}
	handlers.OK(c, "ok")
}

// buildFeed fetches the three sources concurrently and merges them. A
// failing source is logged and contributes nothing, the others still
// render.
func (h *NotificationHandler) buildFeed(ctx context.Context, userID uint) []FeedItem {
	var direct, inferredApps, inferredCRs []FeedItem

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		items, err := h.fetchDirect(egctx, userID)
		if err != nil {
			log.Error(err, "fetch notifications", "user", userID)
			return nil
		}
		direct = items
		return nil
	})
	eg.Go(func() error {
		items, err := h.fetchPendingApplications(egctx, userID)
		if err != nil {
			log.Error(err, "fetch pending applications", "user", userID)
			return nil
		}
		inferredApps = items
		return nil
	})
	eg.Go(func() error {
		items, err := h.fetchPendingChangeRequests(egctx, userID)
		if err != nil {
			log.Error(err, "fetch pending change requests", "user", userID)
			return nil
		}
		inferredCRs = items
		return nil
	})
	_ = eg.Wait()

	acked, err := h.AckStore.Acked(ctx, userID)
	if err != nil {
		// FallbackAckStore never errors, but keep the feed alive anyway
		log.Error(err, "load acknowledged set", "user", userID)
		acked = map[string]struct{}{}
	}
	return MergeFeed(acked, direct, inferredApps, inferredCRs)
}

func (h *NotificationHandler) fetchDirect(ctx context.Context, userID uint) ([]FeedItem, error) {
	rows := []models.Notification{}
	if err := h.GetDB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, MapDirect(row))
	}
	return items, nil
}

func (h *NotificationHandler) fetchPendingApplications(ctx context.Context, userID uint) ([]FeedItem, error) {
	rows := []models.Application{}
	if err := h.GetDB().WithContext(ctx).
		Where("applicant_id = ? and status = ?", userID, models.ApplicationStatusPending).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, MapApplication(row))
	}
	return items, nil
}

// fetchPendingChangeRequests resolves the user's provider ids first, then
// the pending change requests against them.
func (h *NotificationHandler) fetchPendingChangeRequests(ctx context.Context, userID uint) ([]FeedItem, error) {
	ownedIDs := []uint{}
	if err := h.GetDB().WithContext(ctx).Model(&models.Provider{}).
		Where("owner_id = ?", userID).
		Pluck("id", &ownedIDs).Error; err != nil {
		return nil, err
	}
	if len(ownedIDs) == 0 {
		return nil, nil
	}
	rows := []models.ChangeRequest{}
	if err := h.GetDB().WithContext(ctx).Preload("Provider").
		Where("provider_id in ? and status = ?", ownedIDs, models.ChangeRequestStatusPending).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, MapChangeRequest(row))
	}
	return items, nil
}

func (h *NotificationHandler) RegistRouter(rg *gin.RouterGroup) {
	rg.GET("/notifybell", h.ListFeed)
	rg.GET("/notifybell/count", h.Count)
	rg.PUT("/notifybell/:id/read", h.ReadNotification)
}
