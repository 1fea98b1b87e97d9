package updater

import (
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()

	in := &VersionCache{
		LatestVersion:   "1.2.0",
		CurrentVersion:  "1.0.0",
		CheckedAt:       time.Now().Truncate(time.Second),
		UpdateAvailable: true,
	}
	if err := SaveCache(dir, in); err != nil {
		t.Fatalf("SaveCache failed: %v", err)
	}

	out, err := LoadCache(dir)
	if err != nil {
		t.Fatalf("LoadCache failed: %v", err)
	}
	if out == nil {
		t.Fatal("LoadCache returned nil for an existing cache")
	}
	if out.LatestVersion != in.LatestVersion || out.CurrentVersion != in.CurrentVersion {
		t.Errorf("cache round-trip mismatch: got %+v, want %+v", out, in)
	}
	if !out.UpdateAvailable {
		t.Error("UpdateAvailable flag was lost")
	}
}

func TestLoadCache_Missing(t *testing.T) {
	cache, err := LoadCache(t.TempDir())
	if err != nil {
		t.Fatalf("LoadCache on an empty dir: %v", err)
	}
	if cache != nil {
		t.Errorf("expected nil cache on first run, got %+v", cache)
	}
}

func TestIsCacheStale(t *testing.T) {
	if !IsCacheStale(nil, time.Hour) {
		t.Error("nil cache must be stale")
	}

	fresh := &VersionCache{CheckedAt: time.Now()}
	if IsCacheStale(fresh, time.Hour) {
		t.Error("just-written cache must not be stale")
	}

	old := &VersionCache{CheckedAt: time.Now().Add(-2 * time.Hour)}
	if !IsCacheStale(old, time.Hour) {
		t.Error("expired cache must be stale")
	}
}
