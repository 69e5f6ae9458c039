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

package msgbus

import "time"

type MessageType string

const (
	Message MessageType = "message"       // direct user message
	Changed MessageType = "objectChanged" // entity row changed
	Resync  MessageType = "resync"        // periodic refetch hint
)

type EventKind string

const (
	Add    EventKind = "add"
	Update EventKind = "update"
	Delete EventKind = "delete"
)

type ResourceType string

const (
	Provider      ResourceType = "provider"
	Booking       ResourceType = "booking"
	Application   ResourceType = "application"
	ChangeRequest ResourceType = "changeRequest"
	JobPost       ResourceType = "jobPost"
	Notification  ResourceType = "notification"
	User          ResourceType = "user"
)

type InvolvedObject struct {
	ResourceType ResourceType
	ResourceID   uint
}

type NotifyMessage struct {
	MessageType
	EventKind
	InvolvedObject *InvolvedObject
	Content        interface{}
}

type MessageContent struct {
	ResourceType
	ResourceID uint
	CreatedAt  time.Time
	From       string
	To         []uint // recipients, set for direct messages only
	Detail     string
}

type MessageTarget struct {
	Message NotifyMessage
	Users   []uint
}
