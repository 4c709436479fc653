package server

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"resumelift/internal/errors"
)

// CertWatcher watches certificate PEM files on disk and fires the reload
// callback when any of them change. Events are debounced so a cert/key pair
// written in quick succession produces a single reload.
type CertWatcher struct {
	mu sync.RWMutex

	certFile string
	keyFile  string
	caFile   string

	lastModTime map[string]time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	reloadCallback func()
	logger         *errors.Logger

	running bool
}

// NewCertWatcher builds a watcher for the given PEM paths. Empty paths are
// skipped. A zero debounceDelay falls back to one second.
func NewCertWatcher(certFile, keyFile, caFile string, debounceDelay time.Duration, reloadCallback func(), logger *errors.Logger) (*CertWatcher, error) {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &CertWatcher{
		certFile:      certFile,
		keyFile:       keyFile,
		caFile:        caFile,
		lastModTime:   make(map[string]time.Time),
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		// Buffered so a pending reload never blocks the event loop.
		reloadChan:     make(chan struct{}, 1),
		reloadCallback: reloadCallback,
		logger:         logger,
	}, nil
}

// watchedFiles returns the non-empty PEM paths this watcher covers.
func (cw *CertWatcher) watchedFiles() []string {
	files := make([]string, 0, 3)
	for _, file := range []string{cw.certFile, cw.keyFile, cw.caFile} {
		if file != "" {
			files = append(files, file)
		}
	}
	return files
}

// Start snapshots current modification times and launches the event loop.
func (cw *CertWatcher) Start() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.running {
		return fmt.Errorf("certificate watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	cw.fsWatcher = watcher

	if err := cw.snapshotModTimes(); err != nil {
		if closeErr := cw.fsWatcher.Close(); closeErr != nil && cw.logger != nil {
			cw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return fmt.Errorf("failed to get initial file modification times: %w", err)
	}

	files := cw.watchedFiles()
	for _, file := range files {
		if err := cw.watchFile(file); err != nil && cw.logger != nil {
			cw.logger.Warn("Failed to watch certificate file", "file", file, "error", err)
		}
	}

	cw.running = true
	go cw.watchLoop()

	if cw.logger != nil {
		cw.logger.Info("Certificate file watcher started",
			"files", files,
			"debounce_delay", cw.debounceDelay)
	}
	return nil
}

// Stop halts the event loop and releases the fsnotify watcher. Safe to call
// on a watcher that never started.
func (cw *CertWatcher) Stop() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if !cw.running {
		return nil
	}

	close(cw.stopChan)

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}

	if cw.fsWatcher != nil {
		if err := cw.fsWatcher.Close(); err != nil {
			if cw.logger != nil {
				cw.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	cw.running = false

	if cw.logger != nil {
		cw.logger.Info("Certificate file watcher stopped")
	}

	return nil
}

// watchFile registers a file with fsnotify. A missing file is watched through
// its directory so it is picked up once created. The directory is watched in
// any case: atomic writes land as renames, which only the directory sees.
func (cw *CertWatcher) watchFile(file string) error {
	if err := cw.fsWatcher.Add(file); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to watch file %s: %w", file, err)
		}
		dir := filepath.Dir(file)
		if err := cw.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		if cw.logger != nil {
			cw.logger.Info("Watching directory for certificate file",
				"file", file, "directory", dir)
		}
	}

	dir := filepath.Dir(file)
	if err := cw.fsWatcher.Add(dir); err != nil {
		if cw.logger != nil {
			cw.logger.Warn("Failed to watch directory for atomic writes",
				"directory", dir, "error", err)
		}
	}

	return nil
}

// snapshotModTimes records current modification times for all watched files.
func (cw *CertWatcher) snapshotModTimes() error {
	for _, file := range cw.watchedFiles() {
		stat, err := os.Stat(file)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to stat file %s: %w", file, err)
		}
		cw.lastModTime[file] = stat.ModTime()
	}
	return nil
}

// hasFileChanged reports whether the file moved past its recorded
// modification time. Deletion of a previously seen file also counts.
func (cw *CertWatcher) hasFileChanged(file string) bool {
	stat, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			if _, seen := cw.lastModTime[file]; seen {
				delete(cw.lastModTime, file)
				return true
			}
		}
		return false
	}

	lastMod, seen := cw.lastModTime[file]
	if !seen || stat.ModTime().After(lastMod) {
		cw.lastModTime[file] = stat.ModTime()
		return true
	}

	return false
}

func (cw *CertWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-cw.fsWatcher.Events:
			if !ok {
				return
			}
			if cw.relevantEvent(event) {
				cw.scheduleReload()
			}

		case err, ok := <-cw.fsWatcher.Errors:
			if !ok {
				return
			}
			if cw.logger != nil {
				cw.logger.LogError(err, "File watcher error")
			}

		case <-cw.reloadChan:
			// Debounce expired. Confirm something actually changed before
			// disturbing the certificate manager.
			if slices.ContainsFunc(cw.watchedFiles(), cw.hasFileChanged) {
				if cw.logger != nil {
					cw.logger.Info("Certificate files changed, triggering reload")
				}
				cw.reloadCallback()
			}

		case <-cw.stopChan:
			return
		}
	}
}

// relevantEvent reports whether the event touches a watched file with an op
// that can alter its content. Base-name matching covers directory events for
// atomically replaced files.
func (cw *CertWatcher) relevantEvent(event fsnotify.Event) bool {
	matched := false
	for _, file := range cw.watchedFiles() {
		if event.Name == file || filepath.Base(event.Name) == filepath.Base(file) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload arms the debounce timer, resetting it if already pending.
func (cw *CertWatcher) scheduleReload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}

	cw.debounceTimer = time.AfterFunc(cw.debounceDelay, func() {
		select {
		case cw.reloadChan <- struct{}{}:
		default:
			// A reload is already queued.
		}
	})
}

// IsRunning reports whether the event loop is active.
func (cw *CertWatcher) IsRunning() bool {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return cw.running
}

// GetWatchedFiles lists the PEM paths under watch, for health reporting.
func (cw *CertWatcher) GetWatchedFiles() []string {
	return cw.watchedFiles()
}
