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

package api

import (
	"context"
	"net/http"

	"github.com/citypages/citypages/pkg/msgbus/switcher"
	"github.com/citypages/citypages/pkg/service/aaa"
	"github.com/citypages/citypages/pkg/service/handlers"
	"github.com/citypages/citypages/pkg/utils/msgbus"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type MessageHandler struct {
	*aaa.UserInfoHandler
	Switcher *switcher.MessageSwitcher
}

func (m *MessageHandler) RegistRouter(rg *gin.RouterGroup) {
	rg.GET("/msgbus/notify", m.MessageCenter)
	rg.POST("/msgbus/send", m.SendMessages)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// MessageCenter the realtime push channel
// @Tags        MSGBUS
// @Summary     the realtime push channel (websocket)
// @Description upgrades to a websocket and streams notification and change events
// @Accept      json
// @Produce     json
// @Success     200 {object} object "stream"
// @Router      /realtime/msgbus/notify [get]
// @Security    JWT
func (m *MessageHandler) MessageCenter(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(400, gin.H{"Message": err.Error()})
		return
	}
	var user *switcher.NotifyUser
	dbUser, exist := m.GetContextUser(c)
	if exist {
		user = switcher.NewNotifyUser(conn, dbUser.GetUsername(), dbUser.GetID())
	} else {
		user = switcher.NewNotifyUser(conn, "none", 0)
	}
	m.HandleMessage(c.Request.Context(), m.Switcher, user)
}

// HandleMessage keeps the session registered until the peer goes away.
// Inbound frames are drained so the connection's read side stays healthy.
func (m *MessageHandler) HandleMessage(ctx context.Context, ms *switcher.MessageSwitcher, nu *switcher.NotifyUser) {
	ms.RegistUser(nu)
	defer ms.DeRegistUser(nu)
	for {
		select {
		case <-ctx.Done():
			return
		default:
			msg := &msgbus.NotifyMessage{}
			if err := nu.Read(msg); err != nil {
				return
			}
		}
	}
}

// SendMessages push a message to users
// @Tags        MSGBUS
// @Summary     push a message to users
// @Description push a message to the target users over their open websockets
// @Accept      json
// @Produce     json
// @Param       param body     msgbus.MessageTarget true "message"
// @Success     200   {object} object               "resp"
// @Router      /realtime/msgbus/send [post]
// @Security    JWT
func (m *MessageHandler) SendMessages(c *gin.Context) {
	var msgTarget msgbus.MessageTarget
	if err := c.Bind(&msgTarget); err != nil {
		c.AbortWithStatusJSON(400, gin.H{"Message": err.Error()})
		return
	}
	for _, uid := range msgTarget.Users {
		m.Switcher.SendMessageToUser(&msgTarget.Message, uid)
	}
	handlers.OK(c, "ok")
}
