package config

import (
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/a1exx55/server-backend-sub000/internal/logger"
)

// Watcher watches the configuration file for changes and hot-reloads the
// Logging and Upload sections. Server, Database, JWT, Metrics and Admin are
// fixed at startup and require a restart to change. A reloaded Upload
// section is only visible through Upload(); the upload handler keeps the
// settings it was constructed with at startup.
//
// Design:
//   - fsnotify watches the config file's directory and reacts to Write/Create
//     events on the config file (editors often replace the file rather than
//     write in place, hence Create too)
//   - On a change, the file is re-read and re-validated; a bad edit is logged
//     and ignored, leaving the last-known-good settings in place
//   - Atomic pointer swap for thread safety: readers never block on a reload
type Watcher struct {
	mu         sync.Mutex
	configPath string
	fsw        *fsnotify.Watcher

	logging atomic.Pointer[LoggingConfig]
	upload  atomic.Pointer[UploadConfig]

	stopCh  chan struct{}
	stopped chan struct{}
}

// NewWatcher creates a Watcher seeded with the Logging and Upload sections
// of the given Config. Call Start to begin watching configPath for changes.
func NewWatcher(configPath string, cfg *Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		configPath: configPath,
		fsw:        fsw,
		stopCh:     make(chan struct{}),
		stopped:    make(chan struct{}),
	}
	w.logging.Store(&cfg.Logging)
	w.upload.Store(&cfg.Upload)
	return w, nil
}

// Start begins watching the config file. The goroutine continues until
// Stop is called.
func (w *Watcher) Start() error {
	path := w.configPath
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := w.fsw.Add(filepath.Dir(path)); err != nil {
		return err
	}

	go func() {
		defer close(w.stopped)

		logger.Info("Config watcher started", "path", path)

		for {
			select {
			case <-w.stopCh:
				logger.Debug("Config watcher stopping (stop signal)")
				return
			case event, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) == filepath.Clean(path) &&
					event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					w.reload()
				}
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("Config watcher error", "error", err)
			}
		}
	}()

	return nil
}

// Stop signals the watcher goroutine to stop and waits for it to exit.
func (w *Watcher) Stop() {
	select {
	case <-w.stopCh:
		return
	default:
		close(w.stopCh)
	}
	<-w.stopped
	_ = w.fsw.Close()
	logger.Debug("Config watcher stopped")
}

// reload re-reads the config file and swaps in the Logging and Upload
// sections if the result validates cleanly. Invalid edits are logged and
// the previous settings are kept.
func (w *Watcher) reload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	cfg, err := Load(w.configPath)
	if err != nil {
		logger.Warn("Config reload failed, keeping previous settings", "error", err)
		return
	}

	w.logging.Store(&cfg.Logging)
	w.upload.Store(&cfg.Upload)

	logger.SetLevel(cfg.Logging.Level)
	logger.SetFormat(cfg.Logging.Format)

	logger.Info("Config reloaded",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"upload_output_directory", cfg.Upload.OutputDirectory,
	)
}

// Logging returns the current, possibly hot-reloaded, Logging section.
// The returned pointer must not be mutated by callers.
func (w *Watcher) Logging() *LoggingConfig {
	return w.logging.Load()
}

// Upload returns the current, possibly hot-reloaded, Upload section.
// The returned pointer must not be mutated by callers.
func (w *Watcher) Upload() *UploadConfig {
	return w.upload.Load()
}
