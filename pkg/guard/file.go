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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// the debounce of file changes, editors usually write a file in several steps
var reloadDebounce = 500 * time.Millisecond

type denyListFile struct {
	Processes []string `mapstructure:"processes" json:"processes" yaml:"processes"`
}

// LoadDenyListFile reads the processes from the file, the file is created with the defaults when absent
func LoadDenyListFile(file string, defaults []string) ([]string, error) {
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		if err := writeDenyListFile(file, defaults); err != nil {
			return nil, err
		}
		log.Infof("the deny-list file is not exist, created with defaults: %s", file)
		return defaults, nil
	} else if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(file)
	if configType(file) == "" {
		v.SetConfigType("json")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read deny-list file %s failure: %v", file, err)
	}
	content := &denyListFile{}
	if err := v.Unmarshal(content); err != nil {
		return nil, fmt.Errorf("parse deny-list file %s failure: %v", file, err)
	}
	return content.Processes, nil
}

func writeDenyListFile(file string, processes []string) error {
	content := &denyListFile{Processes: processes}
	var data []byte
	var err error
	if t := configType(file); t == "yaml" || t == "yml" {
		data, err = yaml.Marshal(content)
	} else {
		data, err = json.MarshalIndent(content, "", "    ")
	}
	if err != nil {
		return err
	}
	if dir := filepath.Dir(file); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(file, data, 0o600)
}

func configType(file string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(file)), ".")
}

// FileWatcher notifies the changes of one file, the directory is watched so the file could be recreated
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	file     string
	onChange func()
	done     chan struct{}
}

func WatchFile(file string, onChange func()) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher failure: %v", err)
	}
	file = filepath.Clean(file)
	if err := fsw.Add(filepath.Dir(file)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching directory of %s failure: %v", file, err)
	}
	w := &FileWatcher{watcher: fsw, file: file, onChange: onChange, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

func (w *FileWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *FileWatcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("watching the file %s failure: %v", w.file, err)
		case <-w.done:
			return
		}
	}
}

func (w *FileWatcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.file
}
