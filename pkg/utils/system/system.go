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

package system

import (
	"time"

	"github.com/citypages/citypages/pkg/utils"
	"github.com/spf13/pflag"
)

type Options struct {
	Listen         string        `json:"listen,omitempty" description:"listen address"`
	ResyncPeriod   time.Duration `json:"resyncPeriod,omitempty" description:"realtime feed resync period"`
	DebugMode      bool          `json:"debugMode,omitempty" description:"enable gin debug mode"`
	EnableRealtime bool          `json:"enableRealtime,omitempty" description:"enable websocket realtime push"`
}

func NewDefaultOptions() *Options {
	return &Options{
		Listen:         ":8020",
		ResyncPeriod:   5 * time.Minute,
		DebugMode:      false,
		EnableRealtime: true,
	}
}

func (o *Options) RegistFlags(prefix string, fs *pflag.FlagSet) {
	fs.StringVar(&o.Listen, utils.JoinFlagName(prefix, "listen"), o.Listen, "listen address")
	fs.DurationVar(&o.ResyncPeriod, utils.JoinFlagName(prefix, "resyncperiod"), o.ResyncPeriod, "realtime feed resync period")
	fs.BoolVar(&o.DebugMode, utils.JoinFlagName(prefix, "debugmode"), o.DebugMode, "enable gin debug mode")
	fs.BoolVar(&o.EnableRealtime, utils.JoinFlagName(prefix, "enablerealtime"), o.EnableRealtime, "enable websocket realtime push")
}
