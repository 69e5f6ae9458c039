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

package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/citypages/citypages/pkg/log"
	"github.com/citypages/citypages/pkg/msgbus/switcher"
	notificationhandler "github.com/citypages/citypages/pkg/service/handlers/notification"
	"github.com/citypages/citypages/pkg/service/models/validate"
	"github.com/citypages/citypages/pkg/service/options"
	"github.com/citypages/citypages/pkg/service/routers"
	"github.com/citypages/citypages/pkg/utils/database"
	"github.com/citypages/citypages/pkg/utils/redis"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type Dependencies struct {
	Options  *options.Options
	Redis    *redis.Client
	Database *database.Database
}

func prepareDependencies(_ context.Context, options *options.Options) (*Dependencies, error) {
	log.SetLevel(options.LogLevel)

	// redis is optional, acknowledgements degrade to in-memory without it
	var rediscli *redis.Client
	if options.Redis.Addr != "" {
		cli, err := redis.NewClient(options.Redis)
		if err != nil {
			return nil, err
		}
		rediscli = cli
	} else {
		log.Info("redis not configured, acknowledgements are session scoped")
	}

	db, err := database.NewDatabase(options.Mysql)
	if err != nil {
		return nil, err
	}
	return &Dependencies{
		Options:  options,
		Redis:    rediscli,
		Database: db,
	}, nil
}

func Run(ctx context.Context, options *options.Options) error {
	ctx = log.NewContext(ctx, log.LogrLogger)
	deps, err := prepareDependencies(ctx, options)
	if err != nil {
		return fmt.Errorf("failed init dependencies: %v", err)
	}

	if !options.System.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	validate.InitValidator()

	ms := switcher.NewMessageSwitch()

	var ackstore notificationhandler.AckStore
	if deps.Redis != nil {
		ackstore = notificationhandler.NewFallbackAckStore(notificationhandler.NewRedisAckStore(deps.Redis))
	} else {
		ackstore = notificationhandler.NewMemoryAckStore()
	}

	router := routers.NewRouter(options)
	if err := routers.RegistRouter(router, options, routers.RegistOptions{
		Database: deps.Database,
		Switcher: ms,
		AckStore: ackstore,
	}); err != nil {
		return err
	}

	httpserver := &http.Server{
		Addr:    options.System.Listen,
		Handler: router,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info("start listen", "addr", httpserver.Addr)
		return httpserver.ListenAndServe()
	})
	eg.Go(func() error {
		return ms.Run(ctx, options.System.ResyncPeriod)
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpserver.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
