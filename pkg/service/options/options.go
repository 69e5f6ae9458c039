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

package options

import (
	"github.com/citypages/citypages/pkg/utils/database"
	"github.com/citypages/citypages/pkg/utils/redis"
	"github.com/citypages/citypages/pkg/utils/system"

	"github.com/spf13/pflag"
)

type Options struct {
	System   *system.Options   `json:"system,omitempty"`
	LogLevel string            `json:"logLevel,omitempty"`
	Mysql    *database.Options `json:"mysql,omitempty"`
	Redis    *redis.Options    `json:"redis,omitempty"`
}

func DefaultOptions() *Options {
	return &Options{
		System:   system.NewDefaultOptions(),
		LogLevel: "info",
		Mysql:    database.NewDefaultOptions(),
		Redis:    redis.NewDefaultOptions(),
	}
}

func (o *Options) RegistFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.LogLevel, "loglevel", o.LogLevel, "log level")
	o.System.RegistFlags("system", fs)
	o.Mysql.RegistFlags("mysql", fs)
	o.Redis.RegistFlags("redis", fs)
}
