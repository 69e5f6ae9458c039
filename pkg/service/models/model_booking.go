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

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking is an appointment a customer requested from a provider.
type Booking struct {
	ID         uint      `gorm:"primarykey"`
	ProviderID uint      `gorm:"index" binding:"required"`
	Provider   *Provider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	CustomerName  string `gorm:"type:varchar(255)" binding:"required"`
	CustomerEmail string `gorm:"type:varchar(255)"`
	CustomerPhone string `gorm:"type:varchar(50)"`
	ServiceName   string `gorm:"type:varchar(255)"`

	ScheduledAt time.Time `gorm:"index" binding:"required"`
	Status      string    `gorm:"type:varchar(30);index" sql:"DEFAULT:'pending'"`
	Note        string    `gorm:"type:text"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}
