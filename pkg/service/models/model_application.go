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
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// Application is a request to list a new business in the directory.
// Approval creates the Provider row.
type Application struct {
	ID          uint  `gorm:"primarykey"`
	ApplicantID uint  `gorm:"index" binding:"required"`
	Applicant   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	BusinessName string `gorm:"type:varchar(255)" binding:"required"`
	Slug         string `gorm:"type:varchar(255)" binding:"required"`
	Category     string `gorm:"type:varchar(100)"`
	Description  string `gorm:"type:text"`
	Phone        string `gorm:"type:varchar(50)"`
	Email        string `gorm:"type:varchar(255)"`
	Website      string `gorm:"type:varchar(255)"`
	Address      string `gorm:"type:varchar(255)"`
	City         string `gorm:"type:varchar(100)"`

	Status       string     `gorm:"type:varchar(30);index" sql:"DEFAULT:'pending'"`
	DecisionNote string     `gorm:"type:text"`
	DecidedAt    *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// ToProvider builds the listing created when the application is approved.
func (a *Application) ToProvider() *Provider {
	return &Provider{
		OwnerID:     a.ApplicantID,
		Name:        a.BusinessName,
		Slug:        a.Slug,
		Category:    a.Category,
		Description: a.Description,
		Phone:       a.Phone,
		Email:       a.Email,
		Website:     a.Website,
		Address:     a.Address,
		City:        a.City,
		Status:      ProviderStatusActive,
	}
}
