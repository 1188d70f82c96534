package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("Time,Sender Type,Message\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverFindsCSVsSortedByName(t *testing.T) {
	base := t.TempDir()
	writeCSV(t, filepath.Join(base, "nested", "chat_002.csv"))
	writeCSV(t, filepath.Join(base, "chat_001.csv"))
	writeCSV(t, filepath.Join(base, "chat_010.CSV"))
	// Non-CSV files are ignored.
	if err := os.WriteFile(filepath.Join(base, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := Discover(base)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("len = %d, want 3", len(files))
	}
	want := []string{"chat_001.csv", "chat_002.csv", "chat_010.CSV"}
	for i, w := range want {
		if files[i].Name != w {
			t.Errorf("files[%d] = %q, want %q", i, files[i].Name, w)
		}
	}
}

func TestSampleCapsDeterministically(t *testing.T) {
	base := t.TempDir()
	for _, n := range []string{"a.csv", "b.csv", "c.csv"} {
		writeCSV(t, filepath.Join(base, n))
	}
	files, err := Discover(base)
	if err != nil {
		t.Fatal(err)
	}

	got := Sample(files, 2)
	if len(got) != 2 || got[0].Name != "a.csv" || got[1].Name != "b.csv" {
		t.Errorf("Sample(2): %+v", got)
	}
	if got := Sample(files, 0); len(got) != 3 {
		t.Errorf("Sample(0) should not cap, got %d", len(got))
	}
	if got := Sample(files, 10); len(got) != 3 {
		t.Errorf("Sample(10) should not cap, got %d", len(got))
	}
}
