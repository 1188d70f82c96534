package check

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/johns/chatlens/internal/config"
)

func TestCheckInputDirPass(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := CheckInputDir(dir)
	if r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckInputDirEmptyWarns(t *testing.T) {
	r := CheckInputDir(t.TempDir())
	if r.Status != Warn {
		t.Errorf("expected Warn, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckInputDirMissingFails(t *testing.T) {
	r := CheckInputDir(filepath.Join(t.TempDir(), "nope"))
	if r.Status != Fail {
		t.Errorf("expected Fail, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckOutputDirCreates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh", "analysis")
	r := CheckOutputDir(dir)
	if r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output dir not created: %v", err)
	}
}

func TestCheckAPIKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.APIKeyEnv = "CHATLENS_TEST_KEY_UNSET"
	if r := CheckAPIKey(cfg); r.Status != Warn {
		t.Errorf("unset key: expected Warn, got %s", r.Status)
	}

	t.Setenv("CHATLENS_TEST_KEY_SET", "sk-x")
	cfg.LLM.APIKeyEnv = "CHATLENS_TEST_KEY_SET"
	if r := CheckAPIKey(cfg); r.Status != Pass {
		t.Errorf("set key: expected Pass, got %s", r.Status)
	}
}

func TestCheckStore(t *testing.T) {
	if r := CheckStore(filepath.Join(t.TempDir(), "chatlens.db")); r.Status != Warn {
		t.Errorf("missing db: expected Warn, got %s", r.Status)
	}
	path := filepath.Join(t.TempDir(), "chatlens.db")
	if err := os.WriteFile(path, []byte("db"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckStore(path); r.Status != Pass {
		t.Errorf("existing db: expected Pass, got %s", r.Status)
	}
}

func TestReportFormat(t *testing.T) {
	r := Report{Results: []Result{
		{Name: "input", Status: Pass, Detail: "ok"},
		{Name: "api-key", Status: Warn, Detail: "unset"},
		{Name: "output", Status: Fail, Detail: "bad"},
	}}
	out := r.Format()
	if !strings.Contains(out, "1 passed, 1 warning, 1 failure") {
		t.Errorf("format:\n%s", out)
	}
	if !r.HasFailures() {
		t.Error("HasFailures should be true")
	}
}
