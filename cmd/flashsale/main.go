package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"flashsale-dashboard/internal/cache"
	"flashsale-dashboard/internal/config"
	"flashsale-dashboard/internal/dataset"
	"flashsale-dashboard/internal/observability"
	"flashsale-dashboard/internal/services"
)

const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli holds the state shared by every subcommand once the root has resolved
// its configuration.
type cli struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "flashsale",
		Short: "Flash sale campaign dashboard",
		Long: `flashsale loads a flash sale campaign export and serves an interactive
dashboard of KPIs, revenue trends, promo performance and fulfillment status,
either in the browser or in the terminal.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.initConfig,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (YAML)")
	flags.String("csv", "", "campaign CSV export (default data/flash_sale_data.csv)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (json, text)")

	_ = c.v.BindPFlag("data.csv_file", flags.Lookup("csv"))
	_ = c.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = c.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(c.serveCmd())
	root.AddCommand(c.tuiCmd())
	root.AddCommand(c.summaryCmd())
	root.AddCommand(versionCmd())
	return root
}

func (c *cli) initConfig(cmd *cobra.Command, _ []string) error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load(c.v)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	c.cfg = cfg
	c.setLogOutput(cmd.ErrOrStderr())
	return nil
}

func (c *cli) setLogOutput(w io.Writer) {
	c.logger = observability.NewLogger(c.cfg.Logger, w)
	slog.SetDefault(c.logger)
}

// loadAnalytics reads the configured CSV into a new analytics service. A
// non-nil progress writer receives a progress bar while the file is read.
func (c *cli) loadAnalytics(ctx context.Context, store *cache.Cache, progress io.Writer) (*services.Analytics, error) {
	analytics := services.NewAnalytics(c.logger, store)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Data.LoadTimeout)
	defer cancel()

	start := time.Now()
	err := analytics.LoadFromCSV(ctx, c.cfg.Data.CSVFile, dataset.LoadOptions{
		Workers:     c.cfg.Data.Workers,
		SnapshotDir: c.cfg.Data.SnapshotDir,
		Progress:    progress,
		Logger:      c.logger,
	})
	if err != nil {
		c.logger.Error("failed to load CSV data", "file", c.cfg.Data.CSVFile, "error", err)
		return nil, err
	}
	c.logger.Info("CSV data loaded successfully", "duration", time.Since(start))
	return analytics, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "flashsale %s\n", version)
			return err
		},
	}
}
