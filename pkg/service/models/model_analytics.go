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

package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventTypePageView      = "page_view"
	EventTypeSearch        = "search"
	EventTypeProviderClick = "provider_click"
	EventTypeCallClick     = "call_click"
	EventTypeWebsiteClick  = "website_click"
)

// AnalyticsEvent is a single interaction recorded from the public site.
type AnalyticsEvent struct {
	ID         uint      `gorm:"primarykey"`
	EventType  string    `gorm:"type:varchar(50);index" binding:"required"`
	ProviderID *uint     `gorm:"index"`
	Provider   *Provider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`

	SessionID string `gorm:"type:varchar(100);index"`
	Metadata  datatypes.JSON

	CreatedAt time.Time `gorm:"index" sql:"DEFAULT:'current_timestamp'"`
}

// EventTypeCount is the grouped row returned by the analytics summary.
type EventTypeCount struct {
	EventType string `json:"eventType"`
	Count     int64  `json:"count"`
}
