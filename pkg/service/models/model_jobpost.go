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

// JobPost is a vacancy published by a provider.
type JobPost struct {
	ID         uint      `gorm:"primarykey"`
	ProviderID uint      `gorm:"index" binding:"required"`
	Provider   *Provider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Title          string `gorm:"type:varchar(255)" binding:"required"`
	Description    string `gorm:"type:text"`
	EmploymentType string `gorm:"type:varchar(50)"` // full-time, part-time, contract
	SalaryRange    string `gorm:"type:varchar(100)"`

	IsActive *bool      `gorm:"index" sql:"DEFAULT:true"`
	ExpireAt *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (j *JobPost) Expired(now time.Time) bool {
	return j.ExpireAt != nil && j.ExpireAt.Before(now)
}
