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

package handlers

type ResponseStruct struct {
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	ErrorData interface{} `json:"err,omitempty"`
}

type PageData[T any] struct {
	Total       int64 `json:"total"`
	List        []T   `json:"list"`
	CurrentPage int64 `json:"page"`
	CurrentSize int64 `json:"size"`
}

func Page[T any](total int64, list []T, page, size int64) *PageData[T] {
	return &PageData[T]{Total: total, List: list, CurrentPage: page, CurrentSize: size}
}
