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

package routers

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/citypages/citypages/pkg/log"
	msgbusapi "github.com/citypages/citypages/pkg/msgbus/api"
	"github.com/citypages/citypages/pkg/msgbus/switcher"
	"github.com/citypages/citypages/pkg/service/aaa"
	"github.com/citypages/citypages/pkg/service/handlers/analytics"
	applicationhandler "github.com/citypages/citypages/pkg/service/handlers/application"
	"github.com/citypages/citypages/pkg/service/handlers/base"
	bookinghandler "github.com/citypages/citypages/pkg/service/handlers/booking"
	changerequesthandler "github.com/citypages/citypages/pkg/service/handlers/changerequest"
	"github.com/citypages/citypages/pkg/service/handlers/dashboard"
	jobposthandler "github.com/citypages/citypages/pkg/service/handlers/jobpost"
	notificationhandler "github.com/citypages/citypages/pkg/service/handlers/notification"
	providerhandler "github.com/citypages/citypages/pkg/service/handlers/provider"
	userhandler "github.com/citypages/citypages/pkg/service/handlers/users"
	"github.com/citypages/citypages/pkg/service/options"
	"github.com/citypages/citypages/pkg/utils/database"
	"github.com/citypages/citypages/pkg/version"

	"github.com/gin-gonic/gin"
)

func getClientIP(c *gin.Context) string {
	forwardHeader := c.Request.Header.Get("x-forwarded-for")
	if len(forwardHeader) > 0 {
		firstAddress := strings.Split(forwardHeader, ",")[0]
		if net.ParseIP(strings.TrimSpace(firstAddress)) != nil {
			return firstAddress
		}
	}
	return c.ClientIP()
}

func RealClientIPMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		_, port, _ := net.SplitHostPort(strings.TrimSpace(ctx.Request.RemoteAddr))
		ip := getClientIP(ctx)
		ctx.Request.RemoteAddr = fmt.Sprintf("%s:%s", ip, port)
		ctx.Next()
	}
}

func NewRouter(_ *options.Options) *gin.Engine {
	router := gin.New()
	router.Use(
		log.DefaultGinLoggerMideare(),
		gin.Recovery(),
	)
	return router
}

type RegistOptions struct {
	Database *database.Database
	Switcher *switcher.MessageSwitcher
	AckStore notificationhandler.AckStore
}

func RegistRouter(router *gin.Engine, opts *options.Options, regopts RegistOptions) error {
	userinfo := aaa.NewUserInfoHandler()
	basehandler := base.NewBaseHandler(regopts.Database, regopts.Switcher, userinfo)

	router.Use(RealClientIPMiddleware())
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "healthy"}) })
	router.GET("/version", func(c *gin.Context) { c.JSON(http.StatusOK, version.Get()) })

	rg := router.Group("v1")
	rg.Use(userinfo.Middleware(regopts.Database.DB()))

	userHandler := &userhandler.UserHandler{BaseHandler: *basehandler}
	userHandler.RegistRouter(rg)

	providerHandler := &providerhandler.ProviderHandler{BaseHandler: *basehandler}
	providerHandler.RegistRouter(rg)

	bookingHandler := &bookinghandler.BookingHandler{BaseHandler: *basehandler}
	bookingHandler.RegistRouter(rg)

	applicationHandler := &applicationhandler.ApplicationHandler{BaseHandler: *basehandler}
	applicationHandler.RegistRouter(rg)

	changerequestHandler := &changerequesthandler.ChangeRequestHandler{BaseHandler: *basehandler}
	changerequestHandler.RegistRouter(rg)

	jobpostHandler := &jobposthandler.JobPostHandler{BaseHandler: *basehandler}
	jobpostHandler.RegistRouter(rg)

	analyticsHandler := &analytics.AnalyticsHandler{BaseHandler: *basehandler}
	analyticsHandler.RegistRouter(rg)

	dashboardHandler := &dashboard.DashboardHandler{BaseHandler: *basehandler}
	dashboardHandler.RegistRouter(rg)

	notificationHandler := &notificationhandler.NotificationHandler{BaseHandler: *basehandler, AckStore: regopts.AckStore}
	notificationHandler.RegistRouter(rg)

	if opts.System.EnableRealtime {
		realtime := router.Group("realtime")
		realtime.Use(userinfo.Middleware(regopts.Database.DB()))
		messageHandler := &msgbusapi.MessageHandler{UserInfoHandler: userinfo, Switcher: regopts.Switcher}
		messageHandler.RegistRouter(realtime)
	}

	return nil
}
