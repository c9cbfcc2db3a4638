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

package guard

import (
	"fmt"
	"path"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

const (
	matchCacheSize = 1024
	executableExt  = ".exe"
)

// DenyList decides which process names are not allowed, names are compared case-insensitively
type DenyList struct {
	names    map[string]bool
	patterns []string
	entries  []string

	// name -> matched
	cache *lru.Cache
}

func NewDenyList(entries []string) (*DenyList, error) {
	cache, err := lru.New(matchCacheSize)
	if err != nil {
		return nil, err
	}
	d := &DenyList{names: make(map[string]bool), cache: cache}
	for _, entry := range entries {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		d.entries = append(d.entries, entry)
		variants := []string{entry}
		if !strings.HasSuffix(entry, executableExt) {
			variants = append(variants, entry+executableExt)
		}
		if !isPattern(entry) {
			for _, v := range variants {
				d.names[v] = true
			}
			continue
		}
		if _, err := path.Match(entry, ""); err != nil {
			return nil, fmt.Errorf("illegal deny-list pattern %q: %v", entry, err)
		}
		d.patterns = append(d.patterns, variants...)
	}
	return d, nil
}

// Match checks the process name is denied
func (d *DenyList) Match(name string) bool {
	name = strings.ToLower(name)
	if matched, ok := d.cache.Get(name); ok {
		return matched.(bool)
	}
	matched := d.match(name)
	d.cache.Add(name, matched)
	return matched
}

func (d *DenyList) match(name string) bool {
	if d.names[name] {
		return true
	}
	for _, pattern := range d.patterns {
		// the patterns have been validated
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// Entries returns the normalized entries, sorted
func (d *DenyList) Entries() []string {
	result := append([]string(nil), d.entries...)
	sort.Strings(result)
	return result
}

func (d *DenyList) Len() int {
	return len(d.entries)
}

func isPattern(entry string) bool {
	return strings.ContainsAny(entry, "*?[")
}
