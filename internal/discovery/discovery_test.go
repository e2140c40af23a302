package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m3hr4nn/logboss/internal/model"
	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("line\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func paths(tasks []model.FileTask) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Path
	}
	return out
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "z.log"))
	writeFile(t, filepath.Join(dir, "a", "syslog.1.gz"))
	writeFile(t, filepath.Join(dir, "a", "b", "auth.BZ2"))
	writeFile(t, filepath.Join(dir, "UPPER.LOG"))
	writeFile(t, filepath.Join(dir, "notes.txt"))
	writeFile(t, filepath.Join(dir, "a", "data.zip"))

	tasks, err := Discover(dir, Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(dir, "UPPER.LOG"),
		filepath.Join(dir, "a", "b", "auth.BZ2"),
		filepath.Join(dir, "a", "syslog.1.gz"),
		filepath.Join(dir, "z.log"),
	}
	got := paths(tasks)
	if len(got) != len(want) {
		t.Fatalf("expected %d files, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	formats := map[string]model.Format{}
	for _, task := range tasks {
		formats[filepath.Base(task.Path)] = task.Format
	}
	if formats["auth.BZ2"] != model.FormatBzip2 {
		t.Errorf("expected bzip2 for auth.BZ2, got %s", formats["auth.BZ2"])
	}
	if formats["syslog.1.gz"] != model.FormatGzip {
		t.Errorf("expected gzip for syslog.1.gz, got %s", formats["syslog.1.gz"])
	}
	if formats["UPPER.LOG"] != model.FormatPlain {
		t.Errorf("expected plain for UPPER.LOG, got %s", formats["UPPER.LOG"])
	}
}

func TestDiscoverEmptyDirectory(t *testing.T) {
	tasks, err := Discover(t.TempDir(), Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no files, got %d", len(tasks))
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), Options{Logger: zerolog.Nop()})
	if !errors.Is(err, ErrDirectoryNotFound) {
		t.Errorf("expected ErrDirectoryNotFound, got %v", err)
	}
}

func TestDiscoverRootIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.log")
	writeFile(t, path)

	_, err := Discover(path, Options{Logger: zerolog.Nop()})
	if !errors.Is(err, ErrNotADirectory) {
		t.Errorf("expected ErrNotADirectory, got %v", err)
	}
}

func TestDiscoverDoesNotFollowSymlinkedDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sub", "a.log"))

	// A loop back to the root must not recurse forever.
	if err := os.Symlink(dir, filepath.Join(dir, "sub", "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	// A symlink to a regular log file is still picked up.
	if err := os.Symlink(filepath.Join(dir, "sub", "a.log"), filepath.Join(dir, "link.log")); err != nil {
		t.Fatal(err)
	}

	tasks, err := Discover(dir, Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(tasks), paths(tasks))
	}
}

func TestDiscoverSymlinkedRoot(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	writeFile(t, filepath.Join(real, "a.log"))
	writeFile(t, filepath.Join(real, "old", "b.log.gz"))

	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	tasks, err := Discover(link, Options{Exclude: []string{"old/**"}, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 file, got %d: %v", len(tasks), paths(tasks))
	}
	if want := filepath.Join(link, "a.log"); tasks[0].Path != want {
		t.Errorf("expected path %s, got %s", want, tasks[0].Path)
	}
}

func TestDiscoverSkipsUnreadableSubtree(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ok.log"))
	writeFile(t, filepath.Join(dir, "locked", "secret.log"))

	locked := filepath.Join(dir, "locked")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	tasks, err := Discover(dir, Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Path != filepath.Join(dir, "ok.log") {
		t.Errorf("expected only ok.log, got %v", paths(tasks))
	}
}

func TestDiscoverExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keep.log"))
	writeFile(t, filepath.Join(dir, "archive", "old.log"))
	writeFile(t, filepath.Join(dir, "nested", "debug.log.gz"))

	tasks, err := Discover(dir, Options{
		Exclude: []string{"archive", "**/debug.*"},
		Logger:  zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || filepath.Base(tasks[0].Path) != "keep.log" {
		t.Errorf("expected only keep.log, got %v", paths(tasks))
	}
}

func TestDiscoverInvalidExclude(t *testing.T) {
	_, err := Discover(t.TempDir(), Options{Exclude: []string{"[unclosed"}, Logger: zerolog.Nop()})
	if err == nil {
		t.Error("expected error for invalid exclude pattern")
	}
}
