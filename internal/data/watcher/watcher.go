package watcher

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-health-extractor/internal/util"
)

// FileEvent is one change notification for a watched export file.
type FileEvent struct {
	Path      string
	Operation string
}

// ExportWatcher watches export XML files for changes so the CLI can re-run
// an extraction when the export is replaced on disk.
type ExportWatcher struct {
	watcher *fsnotify.Watcher
	events  chan FileEvent
}

// NewExportWatcher watches the directories containing the given files.
// Events are filtered to .xml files.
func NewExportWatcher(paths []string) (*ExportWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ew := &ExportWatcher{
		watcher: watcher,
		events:  make(chan FileEvent, 100),
	}

	seen := make(map[string]bool)
	for _, path := range paths {
		dir := filepath.Dir(path)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	go ew.processEvents()

	return ew, nil
}

func (ew *ExportWatcher) processEvents() {
	for {
		select {
		case event, ok := <-ew.watcher.Events:
			if !ok {
				return
			}

			if filepath.Ext(event.Name) == ".xml" {
				ew.events <- FileEvent{
					Path:      event.Name,
					Operation: event.Op.String(),
				}
			}

		case err, ok := <-ew.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// Events returns the change notification channel.
func (ew *ExportWatcher) Events() <-chan FileEvent {
	return ew.events
}

// Close stops the watcher.
func (ew *ExportWatcher) Close() error {
	return ew.watcher.Close()
}
