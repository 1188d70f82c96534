package archive

import (
	"os"
	"path/filepath"
	"testing"
)

func TestArchiveRoundTrip(t *testing.T) {
	srcDir := t.TempDir()
	archiveDir := t.TempDir()

	original := "Time,Sender Type,Message\n" +
		"2025-03-01 09:00:00,bot,Hello! How can I help?\n" +
		"2025-03-01 09:00:10,user,I need a refund\n"

	srcPath := filepath.Join(srcDir, "chat_001.csv")
	if err := os.WriteFile(srcPath, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	archPath, err := Archive(srcPath, archiveDir)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if want := filepath.Join(archiveDir, "chat_001.csv.zst"); archPath != want {
		t.Errorf("archive path = %q, want %q", archPath, want)
	}

	tmpPath, cleanup, err := Decompress(archPath)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	defer cleanup()

	decompressed, err := os.ReadFile(tmpPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(decompressed) != original {
		t.Errorf("decompressed content mismatch\ngot:  %q\nwant: %q", string(decompressed), original)
	}

	// Source stays in place.
	if _, err := os.Stat(srcPath); err != nil {
		t.Errorf("source removed: %v", err)
	}
}

func TestArchiveRejectsNonCSV(t *testing.T) {
	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "notes.txt")
	if err := os.WriteFile(srcPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Archive(srcPath, t.TempDir()); err == nil {
		t.Error("expected error for non-csv input")
	}
}

func TestIsArchived(t *testing.T) {
	archiveDir := t.TempDir()

	if IsArchived("chat_001", archiveDir) {
		t.Error("should not be archived yet")
	}

	path := Path("chat_001", archiveDir)
	if err := os.WriteFile(path, []byte("fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !IsArchived("chat_001", archiveDir) {
		t.Error("should be archived now")
	}
}

func TestPath(t *testing.T) {
	got := Path("chat_001", "/out/archive")
	want := "/out/archive/chat_001.csv.zst"
	if got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}
