package storage

import (
	"testing"
	"time"

	"github.com/lotas/fenster/internal/types"
)

func testSnapshot() *types.SessionSnapshot {
	return &types.SessionSnapshot{
		Tabs: []types.SessionTab{
			{URL: "https://go.dev", Title: "The Go Programming Language", Pinned: true},
			{URL: "https://example.com", Title: "Example Domain"},
			{URL: "https://news.ycombinator.com", Title: "Hacker News"},
		},
		ActiveIndex: 1,
		SavedAt:     time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}
}

func TestSessionCompressRoundTrip(t *testing.T) {
	in := testSnapshot()

	data, err := CompressSession(in)
	if err != nil {
		t.Fatalf("CompressSession: %v", err)
	}

	out, err := DecompressSession(data)
	if err != nil {
		t.Fatalf("DecompressSession: %v", err)
	}

	if len(out.Tabs) != 3 {
		t.Fatalf("got %d tabs, want 3", len(out.Tabs))
	}
	if out.Tabs[0].URL != "https://go.dev" || !out.Tabs[0].Pinned {
		t.Errorf("first tab = %+v", out.Tabs[0])
	}
	if out.ActiveIndex != 1 {
		t.Errorf("ActiveIndex = %d, want 1", out.ActiveIndex)
	}
}

func TestSessionCompressRoundTripEmpty(t *testing.T) {
	// Small enough that lz4 refuses to compress it; the literal-only block
	// path must still produce a decodable frame.
	in := &types.SessionSnapshot{ActiveIndex: -1}

	data, err := CompressSession(in)
	if err != nil {
		t.Fatalf("CompressSession: %v", err)
	}
	out, err := DecompressSession(data)
	if err != nil {
		t.Fatalf("DecompressSession: %v", err)
	}
	if len(out.Tabs) != 0 || out.ActiveIndex != -1 {
		t.Errorf("got %+v, want empty snapshot", out)
	}
}

func TestDecompressSessionRejectsBadMagic(t *testing.T) {
	data, err := CompressSession(testSnapshot())
	if err != nil {
		t.Fatalf("CompressSession: %v", err)
	}
	data[0] = 'x'

	if _, err := DecompressSession(data); err == nil {
		t.Error("expected error for corrupted magic")
	}
}

func TestDecompressSessionRejectsShortData(t *testing.T) {
	if _, err := DecompressSession([]byte("fen")); err == nil {
		t.Error("expected error for truncated data")
	}
}

func TestSaveLoadSession(t *testing.T) {
	dir := t.TempDir()

	if err := SaveSession(dir, testSnapshot()); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	snap, err := LoadSession(dir)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if snap == nil || len(snap.Tabs) != 3 {
		t.Fatalf("LoadSession returned %+v", snap)
	}

	// Saving again overwrites.
	snap.Tabs = snap.Tabs[:1]
	if err := SaveSession(dir, snap); err != nil {
		t.Fatalf("second SaveSession: %v", err)
	}
	again, err := LoadSession(dir)
	if err != nil {
		t.Fatalf("second LoadSession: %v", err)
	}
	if len(again.Tabs) != 1 {
		t.Errorf("got %d tabs after overwrite, want 1", len(again.Tabs))
	}
}

func TestLoadSessionMissingFile(t *testing.T) {
	snap, err := LoadSession(t.TempDir())
	if err != nil {
		t.Fatalf("LoadSession on empty dir: %v", err)
	}
	if snap != nil {
		t.Errorf("got %+v, want nil for missing snapshot", snap)
	}
}
