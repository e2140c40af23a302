package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/m3hr4nn/logboss/internal/model"
	"github.com/rs/zerolog"
)

var (
	// ErrDirectoryNotFound is returned when the scan root does not exist.
	ErrDirectoryNotFound = errors.New("directory not found")
	// ErrNotADirectory is returned when the scan root is not a directory.
	ErrNotADirectory = errors.New("not a directory")
)

// Options tunes a discovery walk.
type Options struct {
	// Exclude holds doublestar patterns matched against the slash-separated
	// path relative to the root, e.g. "archive/**" or "**/*.old.gz".
	Exclude []string
	Logger  zerolog.Logger
}

// Discover walks root recursively and returns every .log, .gz and .bz2 file,
// sorted by path. Symlinked directories are never descended. Unreadable
// subtrees are logged and skipped.
func Discover(root string, opts Options) ([]model.FileTask, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, root)
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, root)
	}

	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	// WalkDir does not descend into a symlinked root, so walk its target and
	// report paths under the name the caller gave.
	walkRoot := root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		walkRoot = resolved
	}

	log := opts.Logger
	var tasks []model.FileTask

	walkErr := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable path")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if path != walkRoot && excluded(walkRoot, path, opts.Exclude) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		format, ok := model.FormatFromPath(path)
		if !ok {
			return nil
		}

		size, ok := regularFileSize(path, d)
		if !ok {
			return nil
		}

		tasks = append(tasks, model.FileTask{Path: underRoot(root, walkRoot, path), Format: format, Size: size})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Path < tasks[j].Path })
	log.Debug().Int("files", len(tasks)).Str("root", root).Msg("discovery complete")
	return tasks, nil
}

// underRoot rewrites a path found below walkRoot to sit below root.
func underRoot(root, walkRoot, path string) string {
	if walkRoot == root {
		return path
	}
	rel, err := filepath.Rel(walkRoot, path)
	if err != nil {
		return path
	}
	return filepath.Join(root, rel)
}

// regularFileSize resolves d to a regular file, following a symlink one hop.
// Symlinks to directories and special files are rejected.
func regularFileSize(path string, d fs.DirEntry) (int64, bool) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return 0, false
		}
		return info.Size(), true
	}
	if !d.Type().IsRegular() {
		return 0, false
	}
	info, err := d.Info()
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}

// excluded reports whether path matches any exclude pattern.
func excluded(root, path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
