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
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const (
	ChangeRequestStatusPending  = "pending"
	ChangeRequestStatusApproved = "approved"
	ChangeRequestStatusRejected = "rejected"
)

// Fields a change request may touch. Anything else in the payload is
// rejected on apply.
var changeableProviderFields = map[string]struct{}{
	"name": {}, "category": {}, "description": {}, "phone": {},
	"email": {}, "website": {}, "address": {}, "city": {},
}

// ChangeRequest is a field-level edit proposed against a provider,
// applied only once approved.
type ChangeRequest struct {
	ID          uint      `gorm:"primarykey"`
	ProviderID  uint      `gorm:"index" binding:"required"`
	Provider    *Provider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	RequesterID uint      `gorm:"index" binding:"required"`
	Requester   *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	// column name -> new value
	Changes datatypes.JSON `binding:"required"`

	Status     string     `gorm:"type:varchar(30);index" sql:"DEFAULT:'pending'"`
	ReviewNote string     `gorm:"type:text"`
	DecidedAt  *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// ChangedColumns decodes the change payload into a column->value map
// usable with gorm Updates, refusing unknown columns.
func (cr *ChangeRequest) ChangedColumns() (map[string]interface{}, error) {
	changes := map[string]interface{}{}
	if err := json.Unmarshal(cr.Changes, &changes); err != nil {
		return nil, err
	}
	for column := range changes {
		if _, ok := changeableProviderFields[column]; !ok {
			return nil, fmt.Errorf("field %q can not be changed by a change request", column)
		}
	}
	return changes, nil
}

// ValidateProviderChanges checks decoded change values against the target
// provider's tier ceilings before they are applied.
func ValidateProviderChanges(p *Provider, changes map[string]interface{}) error {
	if desc, ok := changes["description"].(string); ok {
		if limit := p.DescriptionLimit(); len(desc) > limit {
			return fmt.Errorf("description exceeds the %d character limit for this listing", limit)
		}
	}
	return nil
}
