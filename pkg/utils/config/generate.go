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

package config

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// GenerateConfig prints a commented yaml template for the given options
// struct, default values filled in.
func GenerateConfig(opt interface{}) {
	root := yamlNode(opt)
	out, err := yaml.Marshal(root)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(out))
}

func yamlNode(v interface{}) *yaml.Node {
	node := &yaml.Node{}
	vv := reflect.ValueOf(v)
	switch vv.Kind() {
	case reflect.Ptr:
		if vv.IsNil() {
			node.Kind = yaml.ScalarNode
			node.Value = "null"
			return node
		}
		return yamlNode(vv.Elem().Interface())
	case reflect.Map:
		node.Kind = yaml.MappingNode
		for _, k := range vv.MapKeys() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: k.String()},
				yamlNode(vv.MapIndex(k).Interface()))
		}
	case reflect.Array, reflect.Slice:
		node.Kind = yaml.SequenceNode
		for idx := 0; idx < vv.Len(); idx++ {
			node.Content = append(node.Content, yamlNode(vv.Index(idx).Interface()))
		}
	case reflect.Struct:
		node.Kind = yaml.MappingNode
		t := vv.Type()
		for idx := 0; idx < t.NumField(); idx++ {
			field := t.Field(idx)
			if !vv.Field(idx).CanInterface() {
				continue
			}
			fieldname := strings.Split(field.Tag.Get("json"), ",")[0]
			if fieldname == "" {
				fieldname = strings.ToLower(field.Name)
			}
			node.Content = append(node.Content,
				&yaml.Node{
					Kind:        yaml.ScalarNode,
					Value:       fieldname,
					LineComment: field.Tag.Get("description"),
				},
				yamlNode(vv.Field(idx).Interface()))
		}
	default:
		node.Kind = yaml.ScalarNode
		node.Value = fmt.Sprintf("%v", vv.Interface())
	}
	return node
}
