// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig reopens the config file at path whenever it changes and
// sends each valid result on the returned channel, which holds only
// the latest one. Invalid files are logged and skipped. The returned
// func stops watching and closes nothing else. An empty path watches
// nothing and returns a nil channel.
func WatchConfig(path string) (<-chan *Config, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	path = filepath.Clean(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	// editors often replace the file, so watch its directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, nil, err
	}
	ch := make(chan *Config, 1)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := OpenConfig(path)
				if err != nil {
					slog.Error("config not reloaded: " + err.Error())
					continue
				}
				select {
				case <-ch:
				default:
				}
				ch <- cfg
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("config watcher error: " + err.Error())
			}
		}
	}()
	return ch, func() { watcher.Close() }, nil
}
