package check

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/johns/chatlens/internal/config"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "chatlens check\n\n  no checks ran\n"
	}

	// Find max name length for alignment.
	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("chatlens check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// Run executes every check against the loaded config.
func Run(cfg config.Config) Report {
	return Report{Results: []Result{
		CheckConfig(),
		CheckInputDir(cfg.InputDir),
		CheckOutputDir(cfg.OutputDir),
		CheckAPIKey(cfg),
		CheckStore(cfg.DBPath()),
	}}
}

// CheckConfig reports the resolved config path. Always passes — broken TOML
// is caught by config.Load before we get here.
func CheckConfig() Result {
	cfgPath := filepath.Join(config.ConfigDir(), "config.toml")
	return Result{
		Name:   "config",
		Status: Pass,
		Detail: config.CompressHome(cfgPath),
	}
}

// CheckInputDir checks whether the input directory exists and counts exports.
func CheckInputDir(dir string) Result {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Result{Name: "input", Status: Fail, Detail: dir + " not found"}
	}
	count := countCSV(dir)
	if count == 0 {
		return Result{Name: "input", Status: Warn, Detail: config.CompressHome(dir) + " (no csv exports yet)"}
	}
	return Result{Name: "input", Status: Pass, Detail: fmt.Sprintf("%s (%d exports)", config.CompressHome(dir), count)}
}

// CheckOutputDir checks whether the output directory is writable, creating
// it if missing.
func CheckOutputDir(dir string) Result {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Name: "output", Status: Fail, Detail: fmt.Sprintf("%s: %v", dir, err)}
	}
	probe := filepath.Join(dir, ".chatlens-write-probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return Result{Name: "output", Status: Fail, Detail: fmt.Sprintf("%s not writable: %v", dir, err)}
	}
	os.Remove(probe)
	return Result{Name: "output", Status: Pass, Detail: config.CompressHome(dir)}
}

// CheckAPIKey checks whether the configured key variable is set. A dry
// run works without it, so missing is a warning, not a failure.
func CheckAPIKey(cfg config.Config) Result {
	if cfg.APIKey() == "" {
		return Result{Name: "api-key", Status: Warn, Detail: cfg.LLM.APIKeyEnv + " not set (dry-run only)"}
	}
	return Result{Name: "api-key", Status: Pass, Detail: cfg.LLM.APIKeyEnv + " set"}
}

// CheckStore reports whether a results database exists from a prior run.
func CheckStore(path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: "store", Status: Warn, Detail: "no results database yet (run analyze)"}
	}
	return Result{Name: "store", Status: Pass, Detail: fmt.Sprintf("%s (%d bytes)", config.CompressHome(path), info.Size())}
}

func countCSV(dir string) int {
	count := 0
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			count++
		}
		return nil
	})
	return count
}
