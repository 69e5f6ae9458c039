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
	NotificationTypeBooking       = "booking"
	NotificationTypeApplication   = "application"
	NotificationTypeChangeRequest = "changeRequest"
	NotificationTypeSystem        = "system"
)

// Notification is a stored, system-generated message addressed to one
// user. Rows written by older deployments may carry title/message inside
// the Payload or Metadata JSON columns instead of the plain columns.
type Notification struct {
	ID     uint  `gorm:"primarykey"`
	UserID uint  `gorm:"index" binding:"required"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Type    string `gorm:"type:varchar(50);index"`
	Title   string `gorm:"type:varchar(255)"`
	Message string `gorm:"type:text"`

	// legacy deployments packed title/message in here
	Payload  datatypes.JSON
	Metadata datatypes.JSON

	Link        string `gorm:"type:varchar(255)"`
	LinkSection string `gorm:"type:varchar(100)"`

	IsRead    bool      `gorm:"index"`
	CreatedAt time.Time `gorm:"index" sql:"DEFAULT:'current_timestamp'"`
}
