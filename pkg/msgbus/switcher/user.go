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

package switcher

import (
	"sync"

	"github.com/citypages/citypages/pkg/utils/msgbus"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type NotifyUser struct {
	Username  string
	UserID    uint
	Conn      *websocket.Conn
	wslock    sync.Mutex
	SessionID string
}

func (nu *NotifyUser) CloseConn() {
	nu.Conn.Close()
}

func (nu *NotifyUser) Read(into interface{}) error {
	return nu.Conn.ReadJSON(into)
}

func (nu *NotifyUser) Write(data interface{}) error {
	/*
		panic: concurrent write to websocket connection
	*/
	nu.wslock.Lock()
	defer nu.wslock.Unlock()

	return nu.Conn.WriteJSON(data)
}

func (nu *NotifyUser) IsRecipient(msg *msgbus.NotifyMessage) bool {
	content, ok := msg.Content.(msgbus.MessageContent)
	if !ok {
		return false
	}
	for _, uid := range content.To {
		if uid == nu.UserID {
			return true
		}
	}
	return false
}

func NewNotifyUser(conn *websocket.Conn, username string, userid uint) *NotifyUser {
	return &NotifyUser{
		Username:  username,
		UserID:    userid,
		Conn:      conn,
		SessionID: uuid.NewString(),
	}
}
