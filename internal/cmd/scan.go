package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/m3hr4nn/logboss/internal/aggregator"
	"github.com/m3hr4nn/logboss/internal/config"
	"github.com/m3hr4nn/logboss/internal/decode"
	"github.com/m3hr4nn/logboss/internal/discovery"
	"github.com/m3hr4nn/logboss/internal/hub"
	"github.com/m3hr4nn/logboss/internal/logging"
	"github.com/m3hr4nn/logboss/internal/model"
	"github.com/m3hr4nn/logboss/internal/output"
	"github.com/m3hr4nn/logboss/internal/parser"
	"github.com/m3hr4nn/logboss/internal/scanner"
	"github.com/m3hr4nn/logboss/internal/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Scan a log directory for command invocations",
	Long: `Recursively scan a directory for .log, .gz and .bz2 files and extract
every line that contains one of the configured commands as a whole word.

Examples:
  logboss scan /var/log --commands systemctl,reboot,shutdown
  logboss scan -d /srv/archive -f commands.txt -o results.csv -w 8
  logboss scan /var/log --exclude "journal/**" --serve :8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	f := scanCmd.Flags()
	f.StringP("dir", "d", config.DefaultLogDir, "directory to scan for log files")
	f.StringSlice("commands", nil, "comma-separated commands to search for (default: systemctl,reboot,shutdown)")
	f.StringP("command-file", "f", "", "file with one command per line (# comments allowed)")
	f.StringP("output", "o", "", "output file (default: <host>_<timestamp>_parsed_logs.csv)")
	f.String("format", "csv", "output format: csv, jsonl")
	f.IntP("workers", "w", runtime.NumCPU(), "number of parallel workers (default: CPU count)")
	f.Int64("mmap-threshold", decode.DefaultMmapThreshold, "memory-map plain files larger than this many bytes (0 disables)")
	f.StringSlice("exclude", nil, "glob patterns, relative to dir, to skip (e.g. \"archive/**\")")
	f.Bool("sort", false, "sort records by file and line before writing")
	f.String("serve", "", "serve live progress on this address (e.g. :8080)")
	f.BoolP("quiet", "q", false, "disable the live progress line")
	f.Bool("echo", false, "also print each matched line to stdout")

	_ = viper.BindPFlags(f)
}

func runScan(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		viper.Set("dir", args[0])
	}

	logger := logging.New(os.Stderr, viper.GetBool("verbose"), viper.GetString("log-format"))

	cfg, err := config.Load(viper.GetViper(), time.Now())
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	pattern, err := parser.CompileCommands(cfg.Commands)
	if err != nil {
		return err
	}

	// --- Set up context with graceful shutdown ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\ninterrupted: finishing in-flight files...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// --- Discover files ---
	tasks, err := discovery.Discover(cfg.Root, discovery.Options{Exclude: cfg.Exclude, Logger: logger})
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		logger.Warn().Str("dir", cfg.Root).Msg("no log files found")
	}

	logger.Info().
		Str("dir", cfg.Root).
		Strs("commands", pattern.Commands()).
		Int("files", len(tasks)).
		Int("workers", cfg.Workers).
		Str("output", cfg.Output).
		Msg("starting scan")
	logger.Debug().Str("pattern", pattern.String()).Int64("mmap_threshold", cfg.MmapThreshold).Msg("scan settings")

	// --- Wire progress ---
	h := hub.New()
	agg := aggregator.New(len(tasks), h, logger)

	printerDone := make(chan struct{})
	if cfg.Quiet {
		close(printerDone)
	} else {
		events := h.Subscribe()
		go func() {
			defer close(printerDone)
			output.NewProgressPrinter(os.Stderr).Run(events)
		}()
	}

	var srv *server.Server
	if cfg.Serve != "" {
		srv = server.New(h, agg, cfg.Serve, logger)
		go func() {
			if err := srv.Start(); err != nil {
				logger.Error().Err(err).Msg("progress server failed")
			}
		}()
	}

	// --- Scan ---
	sc := scanner.New(parser.NewExtractor(pattern), decode.New(cfg.MmapThreshold), cfg.Workers, logger)
	sc.Run(ctx, tasks, agg)

	h.Close()
	<-printerDone
	if srv != nil {
		shutdown(srv, logger)
	}

	// --- Save ---
	records := agg.Records()
	if cfg.Sort {
		aggregator.SortRecords(records)
	}
	if cfg.Echo {
		echo(newEchoRenderer(viper.GetString("log-format")), records, logger)
	}
	if len(records) == 0 {
		logger.Warn().Msg("no entries to save")
	}

	saveErr := output.Save(cfg.Output, format, records)
	savedTo := cfg.Output
	if saveErr != nil {
		savedTo = ""
	}

	if err := output.WriteSummary(os.Stderr, agg.Snapshot(), savedTo); err != nil {
		logger.Debug().Err(err).Msg("summary write failed")
	}

	if saveErr != nil {
		return saveErr
	}
	if ctx.Err() != nil {
		return fmt.Errorf("scan interrupted: partial results saved to %s", cfg.Output)
	}
	return nil
}

// newEchoRenderer picks JSON lines when logs are JSON, colorized text otherwise.
func newEchoRenderer(logFormat string) output.Renderer {
	if strings.EqualFold(logFormat, "json") {
		return output.NewJSONRenderer()
	}
	return output.NewTextRenderer()
}

func echo(r output.Renderer, records []model.Record, logger zerolog.Logger) {
	for _, rec := range records {
		if err := r.Render(rec); err != nil {
			logger.Debug().Err(err).Msg("render error")
			return
		}
	}
}

func shutdown(srv *server.Server, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("progress server shutdown")
	}
}
