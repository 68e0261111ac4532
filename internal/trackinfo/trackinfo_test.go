package trackinfo

import "testing"

func TestNewDefaults(t *testing.T) {
	ti := New("/music/a.flac")
	if ti.Duration != Unknown || ti.Bitrate != Unknown {
		t.Fatalf("expected unknown duration/bitrate, got %d/%d", ti.Duration, ti.Bitrate)
	}
	if ti.RefCount() != 1 {
		t.Fatalf("expected initial refcount 1, got %d", ti.RefCount())
	}
}

func TestRefUnref(t *testing.T) {
	ti := New("/music/a.flac")
	ti.Ref()
	if ti.RefCount() != 2 {
		t.Fatalf("expected refcount 2, got %d", ti.RefCount())
	}
	if ti.Unref() {
		t.Fatal("unref should not report freed with outstanding reference")
	}
	if !ti.Unref() {
		t.Fatal("unref should report freed when count reaches zero")
	}
}

func TestPlayCount(t *testing.T) {
	ti := New("/music/a.flac")
	if ti.PlayCount() != 0 {
		t.Fatalf("expected 0 play count, got %d", ti.PlayCount())
	}
	ti.IncrementPlayCount()
	ti.IncrementPlayCount()
	if ti.PlayCount() != 2 {
		t.Fatalf("expected 2 play count, got %d", ti.PlayCount())
	}
	ti.SetPlayCount(10)
	if ti.PlayCount() != 10 {
		t.Fatalf("expected 10 play count, got %d", ti.PlayCount())
	}
}

func TestIsRemote(t *testing.T) {
	local := New("/music/a.flac")
	remote := New("http://example.com/stream.mp3")
	if local.IsRemote() {
		t.Error("local path should not be remote")
	}
	if !remote.IsRemote() {
		t.Error("http path should be remote")
	}
}

func TestHasTag(t *testing.T) {
	ti := New("/music/a.flac")
	if ti.HasTag() {
		t.Error("fresh track should have no tags")
	}
	ti.Tags.Set("title", "Song")
	if !ti.HasTag() {
		t.Error("expected HasTag true after setting title")
	}
}

func TestMatches(t *testing.T) {
	ti := New("/music/a.flac")
	ti.Tags.Set("artist", "Pink Floyd")
	ti.Tags.Set("title", "Time")

	if !ti.Matches("pink time", MatchArtist|MatchTitle) {
		t.Error("expected match across artist and title words")
	}
	if ti.Matches("floyd", MatchTitle) {
		t.Error("should not match artist word when only title flag set")
	}
	if !ti.Matches("", MatchArtist) {
		t.Error("empty search text should match everything")
	}
}

func TestIsCompilation(t *testing.T) {
	ti := New("/music/a.flac")
	if ti.IsCompilation() {
		t.Error("expected not a compilation by default")
	}

	ti.Tags.Set("compilation", "1")
	if !ti.IsCompilation() {
		t.Error("expected compilation tag to mark compilation")
	}

	ti2 := New("/music/b.flac")
	ti2.Tags.Set("artist", "Solo Artist")
	ti2.Tags.Set("albumartist", "Various Artists")
	if !ti2.IsCompilation() {
		t.Error("expected albumartist disagreement to mark compilation")
	}
}

func TestTagsCaseInsensitive(t *testing.T) {
	tags := NewTags()
	tags.Set("Artist", "Muse")
	v, ok := tags.Get("ARTIST")
	if !ok || v != "Muse" {
		t.Fatalf("expected case-insensitive lookup to find Muse, got %q, %v", v, ok)
	}
	if tags.Keys()[0] != "Artist" {
		t.Errorf("expected first-write casing preserved, got %q", tags.Keys()[0])
	}
}

func TestTagsClone(t *testing.T) {
	tags := NewTags()
	tags.Set("title", "Song")
	clone := tags.Clone()
	clone.Set("title", "Other")
	if v, _ := tags.Get("title"); v != "Song" {
		t.Errorf("mutating clone should not affect original, got %q", v)
	}
}
