// Licensed to Apache Software Foundation (ASF) under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Apache Software Foundation (ASF) licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package config

import (
	"os"
	"regexp"

	"github.com/spf13/viper"
)

// EnvRegularRegex matches ${NAME:default}, the default is used when the environment variable is empty
var EnvRegularRegex = regexp.MustCompile(`\${([_A-Z0-9]+):([^}]*)}`)

func overrideEnv(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		if value, changed := overrideValue(v.Get(key)); changed {
			v.Set(key, value)
		}
	}
}

func overrideValue(value interface{}) (interface{}, bool) {
	switch val := value.(type) {
	case string:
		result := overrideString(val)
		return result, result != val
	case []interface{}:
		return overrideSlice(val), true
	case map[interface{}]interface{}:
		return overrideMap(stringKeys(val)), true
	case map[string]interface{}:
		return overrideMap(val), true
	}
	return value, false
}

func overrideString(val string) string {
	return EnvRegularRegex.ReplaceAllStringFunc(val, func(placeholder string) string {
		groups := EnvRegularRegex.FindStringSubmatch(placeholder)
		if v := os.Getenv(groups[1]); v != "" {
			return v
		}
		return groups[2]
	})
}

func overrideSlice(val []interface{}) []interface{} {
	res := make([]interface{}, 0, len(val))
	for _, item := range val {
		overridden, _ := overrideValue(item)
		res = append(res, overridden)
	}
	return res
}

func overrideMap(val map[string]interface{}) map[string]interface{} {
	res := make(map[string]interface{}, len(val))
	for k, item := range val {
		res[k], _ = overrideValue(item)
	}
	return res
}

func stringKeys(val map[interface{}]interface{}) map[string]interface{} {
	res := make(map[string]interface{}, len(val))
	for k, v := range val {
		if key, ok := k.(string); ok {
			res[key] = v
		}
	}
	return res
}
