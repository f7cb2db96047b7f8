// Command report prints dashboard figures for the irrigation feeds from a
// terminal, using the same pipeline as the REST API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/config"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/db"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/feed"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/pipeline"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type options struct {
	ecFile string
	phFile string
	quiet  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "report",
		Short:        "IrrigaPro pump runtime and EC/pH report",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.quiet {
				log.SetOutput(nopWriter{})
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.ecFile, "ec-file", "", "EC feed file (overrides EC_FEED_PATH)")
	root.PersistentFlags().StringVar(&opts.phFile, "ph-file", "", "pH feed file (overrides PH_FEED_PATH)")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress load logs")

	root.AddCommand(newMonthsCmd(opts))
	root.AddCommand(newSummaryCmd(opts))
	root.AddCommand(newSeriesCmd(opts))
	return root
}

// loadDataset builds the dataset from configuration, with flag overrides.
// File flags take precedence over a configured database source.
func loadDataset(ctx context.Context, opts *options) (*pipeline.Dataset, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	loader := pipeline.Loader{
		EC:     feed.FileSource{Path: cfg.ECFeedPath},
		PH:     feed.FileSource{Path: cfg.PHFeedPath},
		Parser: cfg.Parser(),
	}

	if cfg.UseDatabase() && opts.ecFile == "" && opts.phFile == "" {
		store, err := db.New(ctx, cfg.FeedDatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connection error: %w", err)
		}
		defer store.Close()
		loader.EC = db.TableSource{Store: store, Table: cfg.ECFeedTable, Columns: db.ECColumns}
		loader.PH = db.TableSource{Store: store, Table: cfg.PHFeedTable, Columns: db.PHColumns}
	}

	if opts.ecFile != "" {
		loader.EC = feed.FileSource{Path: opts.ecFile}
	}
	if opts.phFile != "" {
		loader.PH = feed.FileSource{Path: opts.phFile}
	}

	return loader.Load(ctx), nil
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
