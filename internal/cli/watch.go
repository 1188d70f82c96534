package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/johns/chatlens/internal/classify"
	"github.com/johns/chatlens/internal/discover"
	"github.com/johns/chatlens/internal/pipeline"
	"github.com/johns/chatlens/internal/ratelimit"
	"github.com/johns/chatlens/internal/record"
	"github.com/johns/chatlens/internal/store"
	"github.com/johns/chatlens/internal/watch"
)

var (
	watchDryRun bool
	watchSettle time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the input directory and classify new exports as they land",
	Long: `Tails the input directory and runs each new or rewritten CSV
export through the pipeline once it stops changing. Results are upserted
into the store and all report artifacts are regenerated after each file.
Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var worker *classify.Worker
		if !watchDryRun {
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

		p := pipeline.New(cfg.MaxChars, watchDryRun, worker, st, logger)

		handler := func(ctx context.Context, path string) {
			f := discover.InputFile{Path: path, Name: filepath.Base(path)}
			out := p.Process(ctx, f)

			if out.Record.ConversationQuality == record.QualityLowValue {
				logger.Info("filtered", "file", f.Name, "reason", out.Record.FilteredReason)
				return
			}
			if err := st.SaveRecord(out.Record); err != nil {
				logger.Error("save record", "file", f.Name, "error", err)
				return
			}

			records, err := st.Records()
			if err != nil {
				logger.Error("load records", "error", err)
				return
			}
			if err := writeOutputs(cfg.OutputDir, records, st, false); err != nil {
				logger.Error("write artifacts", "error", err)
			}
		}

		w := watch.New(cfg.InputDir, watchSettle, logger, handler)
		err = w.Run(cmd.Context())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchDryRun, "dry-run", false, "skip LLM calls, emit placeholder records")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", 2*time.Second, "how long a file must be quiet before processing")
	rootCmd.AddCommand(watchCmd)
}
