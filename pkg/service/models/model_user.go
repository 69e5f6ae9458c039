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
	"time"
)

const (
	SystemRoleAdmin  = "sysadmin"
	SystemRoleNormal = "normal"
)

// User is an account that owns providers and receives notifications.
type User struct {
	ID       uint   `gorm:"primarykey"`
	Username string `gorm:"type:varchar(50);uniqueIndex" binding:"required"`
	Email    string `gorm:"type:varchar(255);index" binding:"required"`
	Phone    string `gorm:"type:varchar(255)"`
	// role is either sysadmin or normal
	SystemRole  string     `gorm:"type:varchar(30)" sql:"DEFAULT:'normal'"`
	IsActive    *bool      `sql:"DEFAULT:true"`
	CreatedAt   *time.Time `sql:"DEFAULT:'current_timestamp'"`
	LastLoginAt *time.Time `sql:"DEFAULT:'current_timestamp'"`
}

func (u *User) GetID() uint {
	return u.ID
}

func (u *User) GetUsername() string {
	return u.Username
}

func (u *User) IsSysADMIN() bool {
	return u.SystemRole == SystemRoleAdmin
}

// implement redis encoding
func (u *User) MarshalBinary() ([]byte, error) {
	return json.Marshal(u)
}

func (u *User) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, &u)
}
