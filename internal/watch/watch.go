// Package watch reports edits to a site's images directory and
// configuration file. Bursts of file system events are debounced into one
// Change per kind.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/agentstation/docsite/pkg/constants"
	"github.com/agentstation/docsite/pkg/errors"
	"github.com/agentstation/docsite/pkg/images"
	"github.com/agentstation/docsite/pkg/logging"
)

// Kind classifies a change.
type Kind string

// Change kinds.
const (
	KindConfig Kind = "config"
	KindImages Kind = "images"
)

// Change is one debounced burst of edits.
type Change struct {
	Kind  Kind     `json:"kind"`
	Paths []string `json:"paths"`
}

// HandlerFunc receives changes. Calls are serialized.
type HandlerFunc func(ctx context.Context, change Change)

// Config holds watcher options.
type Config struct {
	ConfigPath string
	ImagesDir  string
	Debounce   time.Duration // default constants.WatchDebounce
	Logger     *zerolog.Logger
}

// Watcher watches one site.
type Watcher struct {
	fsw        *fsnotify.Watcher
	configPath string
	imagesDir  string
	debounce   time.Duration
	logger     *zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

// New starts watching. The configuration file's directory must exist. A
// missing images directory is logged, and its nearest existing ancestor is
// watched so the directory is picked up once created.
func New(cfg Config) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = constants.WatchDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	configPath, err := filepath.Abs(cfg.ConfigPath)
	if err != nil {
		return nil, errors.WrapIO("resolve", cfg.ConfigPath, err)
	}
	imagesDir, err := filepath.Abs(cfg.ImagesDir)
	if err != nil {
		return nil, errors.WrapIO("resolve", cfg.ImagesDir, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapIO("watch", "", err)
	}

	w := &Watcher{
		fsw:        fsw,
		configPath: configPath,
		imagesDir:  imagesDir,
		debounce:   cfg.Debounce,
		logger:     cfg.Logger,
	}

	// Editors often save by renaming over the file, so watch the directory.
	configDir := filepath.Dir(configPath)
	if err := fsw.Add(configDir); err != nil {
		_ = fsw.Close()
		return nil, errors.WrapIO("watch", configDir, err)
	}

	if !w.watchImages() {
		w.logger.Warn().
			Str("dir", imagesDir).
			Msg("Images directory not watched")
	}

	w.logger.Debug().
		Str("config", configPath).
		Str("images", imagesDir).
		Dur("debounce", cfg.Debounce).
		Msg("Watching site")

	return w, nil
}

// Watched returns the paths currently being watched.
func (w *Watcher) Watched() []string {
	return w.fsw.WatchList()
}

// Run delivers changes to fn until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context, fn HandlerFunc) error {
	defer func() { _ = w.Close() }()

	pending := make(map[Kind]map[string]struct{})
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			kind, ok := w.classify(ev)
			if !ok {
				continue
			}
			if pending[kind] == nil {
				pending[kind] = make(map[string]struct{})
			}
			pending[kind][ev.Name] = struct{}{}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("File watcher error")

		case <-fire:
			fire = nil
			for _, kind := range []Kind{KindConfig, KindImages} {
				paths, ok := pending[kind]
				if !ok {
					continue
				}
				change := Change{Kind: kind, Paths: sortedKeys(paths)}
				w.logger.Debug().
					Str("kind", string(kind)).
					Strs("paths", change.Paths).
					Msg("Site changed")
				fn(ctx, change)
			}
			clear(pending)
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = w.fsw.Close()
	})
	return w.closeErr
}

// classify maps an event onto a change kind. Pure permission changes and
// non-image files are ignored.
func (w *Watcher) classify(ev fsnotify.Event) (Kind, bool) {
	if ev.Op == fsnotify.Chmod {
		return "", false
	}
	name := filepath.Clean(ev.Name)
	switch {
	case name == w.configPath:
		return KindConfig, true
	case filepath.Dir(name) == w.imagesDir && images.IsImage(name):
		return KindImages, true
	case ev.Has(fsnotify.Create) && onImagesPath(name, w.imagesDir):
		// The images directory, or one of its parents, appeared after startup.
		if w.watchImages() {
			w.logger.Info().Str("dir", w.imagesDir).Msg("Images directory created, now watching")
			return KindImages, true
		}
	}
	return "", false
}

// watchImages watches the images directory or, while it is missing, its
// nearest existing ancestor. It reports whether the directory itself is
// now watched.
func (w *Watcher) watchImages() bool {
	dir := w.imagesDir
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
	if err := w.fsw.Add(dir); err != nil {
		w.logger.Warn().Err(err).Str("dir", dir).Msg("Directory not watched")
		return false
	}
	return dir == w.imagesDir
}

// onImagesPath reports whether name is the images directory or one of its
// ancestors.
func onImagesPath(name, imagesDir string) bool {
	return name == imagesDir || strings.HasPrefix(imagesDir, name+string(filepath.Separator))
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
