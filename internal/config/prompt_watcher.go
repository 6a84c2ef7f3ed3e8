package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"hrpilot/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// PromptWatcher reloads file-backed prompt templates when their files change.
type PromptWatcher struct {
	mu sync.Mutex

	store *PromptStore
	files []string

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer
	pending       map[string]struct{}

	stopChan   chan struct{}
	reloadChan chan struct{}

	onReload func(tools []string)
	logger   *errors.Logger

	running bool
}

// NewPromptWatcher creates a watcher for every file the store was loaded from.
// onReload may be nil.
func NewPromptWatcher(store *PromptStore, debounceDelay time.Duration, onReload func(tools []string), logger *errors.Logger) *PromptWatcher {
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}
	if logger == nil {
		logger = errors.Discard()
	}

	files := slices.Sorted(maps.Values(store.Files()))
	files = slices.Compact(files)

	return &PromptWatcher{
		store:         store,
		files:         files,
		debounceDelay: debounceDelay,
		pending:       make(map[string]struct{}),
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
		logger:        logger,
	}
}

// Start begins watching. Watching no files is not an error.
func (pw *PromptWatcher) Start() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return fmt.Errorf("prompt watcher is already running")
	}
	if len(pw.files) == 0 {
		pw.logger.Debug("No prompt files configured, watcher not started")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	pw.fsWatcher = watcher

	// Watch directories so editors that replace files atomically are seen.
	dirs := make(map[string]struct{})
	for _, file := range pw.files {
		dirs[filepath.Dir(file)] = struct{}{}
	}
	for dir := range dirs {
		if err := pw.fsWatcher.Add(dir); err != nil {
			pw.logger.Warn("Failed to watch prompt directory", "directory", dir, "error", err)
		}
	}

	pw.running = true
	go pw.watchLoop()

	pw.logger.Info("Prompt file watcher started",
		"files", pw.files,
		"debounce_delay", pw.debounceDelay)
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (pw *PromptWatcher) Stop() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return nil
	}

	close(pw.stopChan)
	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.running = false

	if err := pw.fsWatcher.Close(); err != nil {
		pw.logger.LogError(err, "Failed to close prompt file watcher")
		return err
	}

	pw.logger.Info("Prompt file watcher stopped")
	return nil
}

// IsRunning returns whether the watcher is currently running
func (pw *PromptWatcher) IsRunning() bool {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	return pw.running
}

func (pw *PromptWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-pw.fsWatcher.Events:
			if !ok {
				return
			}
			if file, watched := pw.matchEvent(event); watched {
				pw.scheduleReload(file)
			}

		case err, ok := <-pw.fsWatcher.Errors:
			if !ok {
				return
			}
			pw.logger.LogError(err, "Prompt file watcher error")

		case <-pw.reloadChan:
			pw.reloadPending()

		case <-pw.stopChan:
			return
		}
	}
}

// matchEvent maps a filesystem event onto a watched prompt file.
func (pw *PromptWatcher) matchEvent(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return "", false
	}
	for _, file := range pw.files {
		if samePath(event.Name, file) {
			return file, true
		}
	}
	return "", false
}

func (pw *PromptWatcher) scheduleReload(file string) {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	pw.pending[file] = struct{}{}
	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.debounceTimer = time.AfterFunc(pw.debounceDelay, func() {
		select {
		case pw.reloadChan <- struct{}{}:
		default:
		}
	})
}

func (pw *PromptWatcher) reloadPending() {
	pw.mu.Lock()
	files := slices.Collect(maps.Keys(pw.pending))
	clear(pw.pending)
	pw.mu.Unlock()

	var reloaded []string
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			pw.logger.Warn("Prompt file disappeared, keeping previous template", "file", file)
			continue
		}
		tools, err := pw.store.ReloadPath(file)
		if err != nil {
			pw.logger.LogError(errors.NewConfigError(errors.ErrCodeInvalidConfig, "prompt reload failed", err), "Prompt file reload failed", "file", file)
		}
		reloaded = append(reloaded, tools...)
	}

	if len(reloaded) == 0 {
		return
	}
	slices.Sort(reloaded)
	pw.logger.Info("Prompt templates reloaded", "tools", reloaded)
	if pw.onReload != nil {
		pw.onReload(reloaded)
	}
}
