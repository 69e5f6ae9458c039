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
	"context"
	"sync"
	"time"

	"github.com/citypages/citypages/pkg/log"
	"github.com/citypages/citypages/pkg/utils/msgbus"
)

func NewMessageSwitch() *MessageSwitcher {
	return &MessageSwitcher{
		Users: []*NotifyUser{},
	}
}

type MessageSwitcher struct {
	mu    sync.Mutex
	Users []*NotifyUser
}

func (ms *MessageSwitcher) RegistUser(user *NotifyUser) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.Users = append(ms.Users, user)
}

func (ms *MessageSwitcher) DeRegistUser(user *NotifyUser) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	index := 0
	for idx := range ms.Users {
		if ms.Users[idx].SessionID != user.SessionID {
			ms.Users[index] = ms.Users[idx]
			index++
		} else {
			ms.Users[idx].CloseConn()
		}
	}
	ms.Users = ms.Users[:index]
}

func (ms *MessageSwitcher) snapshot() []*NotifyUser {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	users := make([]*NotifyUser, len(ms.Users))
	copy(users, ms.Users)
	return users
}

// DispatchMessage fans a message out to every connected session of its
// recipients.
func (ms *MessageSwitcher) DispatchMessage(msg *msgbus.NotifyMessage) {
	for _, u := range ms.snapshot() {
		if u.IsRecipient(msg) {
			_ = ms.Send(u, msg)
		}
	}
}

func (ms *MessageSwitcher) SendMessageToUser(msg *msgbus.NotifyMessage, userid uint) {
	for _, u := range ms.snapshot() {
		if u.UserID == userid {
			_ = ms.Send(u, msg)
		}
	}
}

func (ms *MessageSwitcher) Send(user *NotifyUser, msg *msgbus.NotifyMessage) error {
	err := user.Write(msg)
	if err != nil {
		ms.DeRegistUser(user)
		return err
	}
	return nil
}

// Run sends a periodic resync hint to every connected user so clients
// refetch even when a push was missed.
func (ms *MessageSwitcher) Run(ctx context.Context, resyncPeriod time.Duration) error {
	if resyncPeriod <= 0 {
		resyncPeriod = 5 * time.Minute
	}
	ticker := time.NewTicker(resyncPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			users := ms.snapshot()
			for _, u := range users {
				_ = ms.Send(u, &msgbus.NotifyMessage{MessageType: msgbus.Resync})
			}
			log.V(1).Info("resync hint sent", "users", len(users))
		}
	}
}
