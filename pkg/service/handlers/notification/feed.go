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
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/citypages/citypages/pkg/service/models"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// id prefixes keep the three sources apart in one feed
const (
	directIDPrefix        = "n-"
	applicationIDPrefix   = "app-"
	changeRequestIDPrefix = "cr-"
)

const (
	placeholderTitle   = "New notification"
	placeholderMessage = "You have a new notification"
)

// FeedItem is the common shape every source is mapped into.
type FeedItem struct {
	ID                  string    `json:"id"`
	Type                string    `json:"type"`
	Title               string    `json:"title"`
	Message             string    `json:"message"`
	Timestamp           time.Time `json:"timestamp"`
	Read                bool      `json:"read"`
	Link                string    `json:"link,omitempty"`
	LinkSection         string    `json:"linkSection,omitempty"`
	IsAdminNotification bool      `json:"isAdminNotification"`
}

// resolveText finds a display text for rows written by older deployments:
// plain column first, then the payload json, then the metadata json.
func resolveText(direct string, payload, metadata []byte, key, fallback string) string {
	if direct != "" {
		return direct
	}
	if len(payload) > 0 {
		if res := gjson.GetBytes(payload, key); res.Exists() && res.String() != "" {
			return res.String()
		}
	}
	if len(metadata) > 0 {
		if res := gjson.GetBytes(metadata, key); res.Exists() && res.String() != "" {
			return res.String()
		}
	}
	return fallback
}

// MapDirect maps a stored notification row. Direct rows are the admin
// notifications, never suppressed by acknowledgment.
func MapDirect(n models.Notification) FeedItem {
	return FeedItem{
		ID:                  fmt.Sprintf("%s%d", directIDPrefix, n.ID),
		Type:                n.Type,
		Title:               resolveText(n.Title, n.Payload, n.Metadata, "title", placeholderTitle),
		Message:             resolveText(n.Message, n.Payload, n.Metadata, "message", placeholderMessage),
		Timestamp:           n.CreatedAt,
		Read:                n.IsRead,
		Link:                n.Link,
		LinkSection:         n.LinkSection,
		IsAdminNotification: true,
	}
}

// MapApplication synthesizes a feed item from the user's own pending
// application.
func MapApplication(a models.Application) FeedItem {
	return FeedItem{
		ID:          fmt.Sprintf("%s%d", applicationIDPrefix, a.ID),
		Type:        models.NotificationTypeApplication,
		Title:       fmt.Sprintf("Application for %s is pending", a.BusinessName),
		Message:     "Your business application is awaiting review.",
		Timestamp:   a.CreatedAt,
		Read:        false,
		Link:        fmt.Sprintf("/applications/%d", a.ID),
		LinkSection: "applications",
	}
}

// MapChangeRequest synthesizes a feed item from a pending change request
// against one of the user's providers.
func MapChangeRequest(cr models.ChangeRequest) FeedItem {
	title := "Pending change request"
	if cr.Provider != nil {
		title = fmt.Sprintf("Pending change request for %s", cr.Provider.Name)
	}
	return FeedItem{
		ID:          fmt.Sprintf("%s%d", changeRequestIDPrefix, cr.ID),
		Type:        models.NotificationTypeChangeRequest,
		Title:       title,
		Message:     "A change request against your listing is awaiting review.",
		Timestamp:   cr.CreatedAt,
		Read:        false,
		Link:        fmt.Sprintf("/changerequests/%d", cr.ID),
		LinkSection: "changes",
	}
}

// MergeFeed concatenates the mapped sources, drops acknowledged inferred
// items and sorts newest first. Admin notifications are never dropped
// here, only their read flag hides them from the unread count.
func MergeFeed(acked map[string]struct{}, sources ...[]FeedItem) []FeedItem {
	feed := lo.Flatten(sources)
	feed = lo.Filter(feed, func(item FeedItem, _ int) bool {
		if item.IsAdminNotification {
			return true
		}
		_, ok := acked[item.ID]
		return !ok
	})
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})
	return feed
}

// UnreadCount counts feed items not yet read.
func UnreadCount(feed []FeedItem) int {
	return lo.CountBy(feed, func(item FeedItem) bool { return !item.Read })
}

// UnreadDisplay caps the badge at "9+".
func UnreadDisplay(count int) string {
	if count > 9 {
		return "9+"
	}
	return fmt.Sprintf("%d", count)
}

// IsInferredID reports whether a feed id belongs to a synthesized item.
func IsInferredID(id string) bool {
	return strings.HasPrefix(id, applicationIDPrefix) || strings.HasPrefix(id, changeRequestIDPrefix)
}
