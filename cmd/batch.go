package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/underwrite-cli/internal/engine"
	"github.com/sells-group/underwrite-cli/internal/ingest"
	"github.com/sells-group/underwrite-cli/internal/model"
	"github.com/sells-group/underwrite-cli/internal/store"
)

var (
	batchConcurrency int
	batchLimit       int
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze every document in a directory",
	Long:  "Walks the directory, analyzes each supported file concurrently, and persists the results when a store is configured.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		files, err := collectDocuments(args[0])
		if err != nil {
			return err
		}
		if len(files) == 0 {
			zap.L().Info("no documents found", zap.String("dir", args[0]))
			return nil
		}
		if batchLimit > 0 && len(files) > batchLimit {
			files = files[:batchLimit]
		}

		var st store.Store
		if cfg.Store.Path != "" {
			st, err = initStore()
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
		}

		eng := engine.New(cfg.Risk, cfg.Validation)
		return processBatch(ctx, files, batchConcurrency, st, eng)
	},
}

func processBatch(ctx context.Context, files []string, concurrency int, st store.Store, eng *engine.Engine) error {
	zap.L().Info("processing batch",
		zap.Int("documents", len(files)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, path := range files {
		g.Go(func() error {
			log := zap.L().With(zap.String("file", path))

			text, err := ingest.FromFile(path)
			if err != nil {
				failed.Add(1)
				log.Error("ingest failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			doc := model.Document{Text: text, FilenameHint: filepath.Base(path)}
			analysis, err := eng.Analyze(gctx, doc, model.LoanTerms{})
			if err != nil {
				failed.Add(1)
				log.Error("analysis failed", zap.Error(err))
				return nil
			}

			if st != nil {
				if _, err := st.SaveRun(gctx, filepath.Base(path), analysis); err != nil {
					failed.Add(1)
					log.Error("save run failed", zap.Error(err))
					return nil
				}
			}

			succeeded.Add(1)
			log.Info("analysis complete",
				zap.Int("extractions", len(analysis.Extractions)),
				zap.Int("risk_score", analysis.Risk.Score),
				zap.Bool("valid", analysis.Validation.OverallValid),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}

var documentExtensions = map[string]bool{
	".txt":  true,
	".csv":  true,
	".xlsx": true,
	".xlsm": true,
}

func collectDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read dir %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if documentExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "max documents analyzed in parallel")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of documents to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}
