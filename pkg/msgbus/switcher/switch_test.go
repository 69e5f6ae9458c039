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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/citypages/citypages/pkg/utils/msgbus"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialPair returns a server-side websocket connection and its client peer.
func dialPair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return <-serverConns, client
}

func TestRegistAndDeRegistUser(t *testing.T) {
	ms := NewMessageSwitch()
	server1, _ := dialPair(t)
	server2, _ := dialPair(t)

	u1 := NewNotifyUser(server1, "ana", 1)
	u2 := NewNotifyUser(server2, "ana", 1) // second session, same user

	ms.RegistUser(u1)
	ms.RegistUser(u2)
	assert.Len(t, ms.snapshot(), 2)

	ms.DeRegistUser(u1)
	remaining := ms.snapshot()
	require.Len(t, remaining, 1)
	assert.Equal(t, u2.SessionID, remaining[0].SessionID)
}

func TestDispatchMessageReachesRecipientsOnly(t *testing.T) {
	ms := NewMessageSwitch()
	serverAna, clientAna := dialPair(t)
	serverJoao, clientJoao := dialPair(t)

	ms.RegistUser(NewNotifyUser(serverAna, "ana", 1))
	ms.RegistUser(NewNotifyUser(serverJoao, "joao", 2))

	ms.DispatchMessage(&msgbus.NotifyMessage{
		MessageType: msgbus.Message,
		EventKind:   msgbus.Add,
		Content:     msgbus.MessageContent{To: []uint{1}, Detail: "hello ana"},
	})

	got := msgbus.NotifyMessage{}
	require.NoError(t, clientAna.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, clientAna.ReadJSON(&got))
	assert.Equal(t, msgbus.Message, got.MessageType)

	// joao must not receive anything
	require.NoError(t, clientJoao.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	assert.Error(t, clientJoao.ReadJSON(&msgbus.NotifyMessage{}))
}

func TestSendMessageToUserHitsEverySession(t *testing.T) {
	ms := NewMessageSwitch()
	server1, client1 := dialPair(t)
	server2, client2 := dialPair(t)

	ms.RegistUser(NewNotifyUser(server1, "ana", 1))
	ms.RegistUser(NewNotifyUser(server2, "ana", 1))

	ms.SendMessageToUser(&msgbus.NotifyMessage{MessageType: msgbus.Resync}, 1)

	for _, client := range []*websocket.Conn{client1, client2} {
		got := msgbus.NotifyMessage{}
		require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, client.ReadJSON(&got))
		assert.Equal(t, msgbus.Resync, got.MessageType)
	}
}

func TestSendDeregistersBrokenSession(t *testing.T) {
	ms := NewMessageSwitch()
	server, client := dialPair(t)
	u := NewNotifyUser(server, "ana", 1)
	ms.RegistUser(u)

	client.Close()
	server.Close()

	err := ms.Send(u, &msgbus.NotifyMessage{MessageType: msgbus.Resync})
	assert.Error(t, err)
	assert.Empty(t, ms.snapshot())
}
