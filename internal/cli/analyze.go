package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johns/chatlens/internal/archive"
	"github.com/johns/chatlens/internal/classify"
	"github.com/johns/chatlens/internal/discover"
	"github.com/johns/chatlens/internal/dispatch"
	"github.com/johns/chatlens/internal/pipeline"
	"github.com/johns/chatlens/internal/ratelimit"
	"github.com/johns/chatlens/internal/store"
)

var (
	analyzeInput       string
	analyzeOutput      string
	analyzeDryRun      bool
	analyzeSample      int
	analyzeWorkers     int
	analyzeFromArchive bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify every CSV export in the input directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeInput != "" {
			cfg.InputDir = analyzeInput
		}
		if analyzeOutput != "" {
			cfg.OutputDir = analyzeOutput
		}

		var files []discover.InputFile
		var err error
		if analyzeFromArchive {
			var cleanup func()
			files, cleanup, err = archivedInputs(cfg.ArchiveDir())
			if err != nil {
				return err
			}
			defer cleanup()
		} else {
			files, err = discover.Discover(cfg.InputDir)
			if err != nil {
				return fmt.Errorf("discover inputs: %w", err)
			}
		}
		files = discover.Sample(files, analyzeSample)
		if len(files) == 0 {
			dir := cfg.InputDir
			if analyzeFromArchive {
				dir = cfg.ArchiveDir()
			}
			return fmt.Errorf("no csv exports found under %s", dir)
		}

		workers := cfg.LLM.Workers
		if analyzeWorkers > 0 {
			workers = analyzeWorkers
		}
		// Dry runs are sequential so output order is deterministic.
		if analyzeDryRun {
			workers = 1
		}

		var worker *classify.Worker
		if !analyzeDryRun {
			key := cfg.APIKey()
			if key == "" {
				return fmt.Errorf("API key env %s is empty; set it or use --dry-run", cfg.LLM.APIKeyEnv)
			}
			client := classify.NewClient(classify.Options{
				BaseURL: cfg.LLM.BaseURL,
				APIKey:  key,
				Model:   cfg.LLM.Model,
				Timeout: cfg.LLM.Timeout(),
			})
			worker = classify.NewWorker(client, ratelimit.New(cfg.LLM.MaxPerMinute))
		}

		st, err := store.Open(cfg.DBPath())
		if err != nil {
			return err
		}
		defer st.Close()

		p := pipeline.New(cfg.MaxChars, analyzeDryRun, worker, st, logger)

		logger.Info("starting analysis",
			"files", len(files),
			"workers", workers,
			"dry_run", analyzeDryRun,
			"rate_limit_per_min", cfg.LLM.MaxPerMinute,
		)

		res := dispatch.New(workers, logger).Run(cmd.Context(), files, p.Process)

		logger.Info("analysis complete",
			"total", res.Total(),
			"classified", res.Classified,
			"filtered", res.Filtered,
			"errors", res.Errors,
		)

		if err := st.SaveRecords(res.Records); err != nil {
			return err
		}
		if err := writeOutputs(cfg.OutputDir, res.Records, st, false); err != nil {
			return err
		}

		if cfg.Archive.Compress && !analyzeDryRun && !analyzeFromArchive {
			archived := 0
			for _, f := range files {
				if archive.IsArchived(strings.TrimSuffix(f.Name, ".csv"), cfg.ArchiveDir()) {
					continue
				}
				if _, err := archive.Archive(f.Path, cfg.ArchiveDir()); err != nil {
					logger.Warn("archive input", "file", f.Name, "error", err)
					continue
				}
				archived++
			}
			logger.Info("inputs archived", "count", archived, "dir", cfg.ArchiveDir())
		}
		return nil
	},
}

// archivedInputs decompresses every archived export into temp files so a
// past batch can be re-analyzed after the originals are gone. The cleanup
// removes the temp files; callers must defer it even on error paths.
func archivedInputs(archiveDir string) ([]discover.InputFile, func(), error) {
	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		return nil, nil, fmt.Errorf("read archive dir: %w", err)
	}

	var files []discover.InputFile
	var cleanups []func()
	cleanup := func() {
		for _, fn := range cleanups {
			fn()
		}
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".csv.zst") {
			continue
		}
		path, rm, err := archive.Decompress(filepath.Join(archiveDir, name))
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("decompress %s: %w", name, err)
		}
		cleanups = append(cleanups, rm)
		files = append(files, discover.InputFile{
			Path: path,
			Name: strings.TrimSuffix(name, ".zst"),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, cleanup, nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "input directory of CSV exports (overrides config)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "output directory for artifacts (overrides config)")
	analyzeCmd.Flags().BoolVar(&analyzeDryRun, "dry-run", false, "skip LLM calls, emit placeholder records")
	analyzeCmd.Flags().IntVar(&analyzeSample, "sample", 0, "only process the first N files (0 = all)")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "worker pool size (overrides config)")
	analyzeCmd.Flags().BoolVar(&analyzeFromArchive, "from-archive", false, "re-analyze previously archived exports instead of the input directory")
	rootCmd.AddCommand(analyzeCmd)
}
