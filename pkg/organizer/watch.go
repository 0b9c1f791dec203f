// Guessfilename
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Guessfilename.
//
// Guessfilename is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Guessfilename is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Guessfilename.  If not, see <http://www.gnu.org/licenses/>.

package organizer

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce is how long a directory has to stay quiet before new
// files are renamed.
const DefaultDebounce = 500 * time.Millisecond

// BatchFunc receives the outcome of every batch processed by a Watcher.
type BatchFunc func(entries []Entry, sum Summary, err error)

// Watcher renames files as they appear in a set of directories. It
// watches the real filesystem, so the Organizer it drives should work
// on an afero.OsFs.
type Watcher struct {
	org      *Organizer
	clock    clockwork.Clock
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onBatch  BatchFunc
	dirs     []string
	debounce time.Duration
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewWatcher returns a Watcher for dirs. onBatch may be nil.
func NewWatcher(org *Organizer, dirs []string, debounce time.Duration, onBatch BatchFunc) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		org:      org,
		clock:    clockwork.NewRealClock(),
		dirs:     dirs,
		debounce: debounce,
		onBatch:  onBatch,
		stopChan: make(chan struct{}),
	}
}

// SetClock replaces the clock driving the debounce timer. It must be
// called before Start.
func (w *Watcher) SetClock(clock clockwork.Clock) {
	w.clock = clock
}

// Start begins watching. The event loop ends when ctx is cancelled or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	for _, dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		log.Info().Str("dir", dir).Msg("watching directory")
	}
	w.watcher = watcher

	debounceTimer := w.clock.NewTimer(w.debounce)
	if !debounceTimer.Stop() {
		<-debounceTimer.Chan()
	}

	w.wg.Add(1)
	go w.loop(ctx, debounceTimer)

	return nil
}

// Stop ends the event loop and waits for a running batch to finish.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.wg.Wait()
		if w.watcher != nil {
			_ = w.watcher.Close()
		}
	})
}

func (w *Watcher) loop(ctx context.Context, debounceTimer clockwork.Timer) {
	defer w.wg.Done()

	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			debounceTimer.Stop()
			return

		case <-w.stopChan:
			debounceTimer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			pending[event.Name] = struct{}{}
			debounceTimer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("fsnotify error")

		case <-debounceTimer.Chan():
			w.process(ctx, pending)
			pending = make(map[string]struct{})
		}
	}
}

func (w *Watcher) process(ctx context.Context, pending map[string]struct{}) {
	files := make([]string, 0, len(pending))
	for path := range pending {
		info, err := w.org.fs.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	if len(files) == 0 {
		return
	}
	slices.Sort(files)

	entries, err := w.org.Plan(ctx, files)
	var sum Summary
	if err == nil {
		sum, err = w.org.Apply(ctx, entries)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to process new files")
	}
	log.Debug().
		Int("files", len(files)).
		Int("renamed", sum.Renamed).
		Msg("processed watched files")

	if w.onBatch != nil {
		w.onBatch(entries, sum, err)
	}
}
