package playlist

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.m3u")
	want := []string{"/music/a.flac", "/music/b.mp3", "/music/c.ogg"}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	paths, err := Load(filepath.Join(dir, "missing.m3u"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected empty playlist, got %v", paths)
	}
}

func TestLoadSkipsBlankAndCommentLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixed.m3u")
	content := "# a comment\n\n/music/a.flac\n\n# another\n/music/b.flac\n"
	if err := os.WriteFile(path, []byte(content), 0o666); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"/music/a.flac", "/music/b.flac"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playlist.m3u")
	if err := Save(path, []string{"/old.flac"}); err != nil {
		t.Fatalf("Save (first): %v", err)
	}
	if err := Save(path, []string{"/new.flac"}); err != nil {
		t.Fatalf("Save (second): %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"/new.flac"}) {
		t.Fatalf("expected overwritten playlist, got %v", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected .tmp file to be renamed away, stat err=%v", err)
	}
}
