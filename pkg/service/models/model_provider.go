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
	ProviderStatusActive   = "active"
	ProviderStatusInactive = "inactive"
)

// Description and image ceilings per account tier. Enforced on create and
// update, the stored row never exceeds them.
const (
	FreeDescriptionLimit     = 200
	FeaturedDescriptionLimit = 500
	FreeImageLimit           = 3
	FeaturedImageLimit       = 10
)

// Provider is a business listing in the directory.
type Provider struct {
	ID      uint  `gorm:"primarykey"`
	OwnerID uint  `gorm:"index" binding:"required"`
	Owner   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Name        string `gorm:"type:varchar(255)" binding:"required"`
	Slug        string `gorm:"type:varchar(255);uniqueIndex" binding:"required"`
	Category    string `gorm:"type:varchar(100);index"`
	Description string `gorm:"type:text"`

	Phone   string `gorm:"type:varchar(50)"`
	Email   string `gorm:"type:varchar(255)"`
	Website string `gorm:"type:varchar(255)"`
	Address string `gorm:"type:varchar(255)"`
	City    string `gorm:"type:varchar(100);index"`

	// Featured listings get wider field ceilings.
	Featured bool           `gorm:"index"`
	Images   datatypes.JSON // array of image urls
	Status   string         `gorm:"type:varchar(30);index" sql:"DEFAULT:'active'"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (p *Provider) DescriptionLimit() int {
	if p.Featured {
		return FeaturedDescriptionLimit
	}
	return FreeDescriptionLimit
}

func (p *Provider) ImageLimit() int {
	if p.Featured {
		return FeaturedImageLimit
	}
	return FreeImageLimit
}
