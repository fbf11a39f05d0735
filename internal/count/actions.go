package count

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/topwords/models"
	"github.com/dtnitsch/topwords/pkg/metrics"
	"github.com/dtnitsch/topwords/pkg/storage"
)

// Flags are shared by the default action and the count command.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "YAML config file; flags override its values",
			EnvVars: []string{"TOPWORDS_CONFIG"},
		},
		&cli.IntFlag{
			Name:    "workers",
			Usage:   "Number of concurrent workers (0 = CPUs - 1)",
			EnvVars: []string{"TOPWORDS_WORKERS"},
		},
		&cli.IntFlag{
			Name:    "max-depth",
			Value:   models.MaxFileWalk,
			Usage:   "Maximum directory depth to walk",
			EnvVars: []string{"TOPWORDS_MAX_DEPTH"},
		},
		&cli.StringFlag{
			Name:  "merge",
			Value: string(models.MergeExact),
			Usage: "Merge mode: exact (full per-file counts) or bounded (per-file top-N only)",
		},
		&cli.DurationFlag{
			Name:  "task-timeout",
			Usage: "Per-file timeout, e.g. 30s (0 = none)",
		},
		&cli.StringFlag{
			Name:  "format",
			Value: FormatText,
			Usage: "Output format: text, json, or yaml",
		},
		&cli.BoolFlag{
			Name:  "per-file",
			Usage: "Include each file's own ranking in the output",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "Only log errors",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Log per-worker debug detail",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text or json (default: text on a terminal, json otherwise)",
		},
	}
}

// CountAction counts the top words across the paths given on the command line.
func CountAction(c *cli.Context) error {
	startTime := time.Now()
	runID := uuid.NewString()
	logger := newLogger(c).With("run_id", runID)

	format := strings.ToLower(stringFlag(c, "format"))
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return cli.Exit(fmt.Sprintf("Unknown output format %q. Use text, json, or yaml.", format), 1)
	}

	config, err := resolveConfig(c)
	if err != nil {
		return err
	}

	if err := config.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit(validationMessage(config, err), 1)
	}

	// Every path must exist before any work starts.
	s := &storage.Storage{}
	for _, root := range config.Roots {
		if !s.HasFile(root) {
			logger.Error("path does not exist", "path", root)
			return cli.Exit(MsgPathDoesNotExist, 1)
		}
	}

	files, err := s.ListAll(config.Roots, config.MaxDepth)
	if err != nil {
		logger.Error("failed to expand paths", "error", err)
		return cli.Exit(MsgExecutionFailed, 1)
	}
	logger.Info("Paths expanded", "roots", len(config.Roots), "files", len(files), "max_depth", config.MaxDepth,
		"input_size", humanize.Bytes(uint64(inputSize(s, files))))

	m := metrics.NewRun()
	defer m.Stop()

	outcome, err := Run(c.Context, Options{
		TopN:        config.TopN,
		Workers:     config.Workers,
		Merge:       config.Merge,
		TaskTimeout: config.TaskTimeout,
		Opener:      s,
		Logger:      logger,
		Metrics:     m,
	}, files)
	if err != nil {
		var execErr *ExecutionError
		if errors.As(err, &execErr) {
			logger.Error("count run failed", "path", execErr.Path, "error", execErr.Err)
		}
		return cli.Exit(MsgExecutionFailed, 1)
	}

	logger.Info("Count complete", "files", len(outcome.Files), "distinct_tokens", outcome.Distinct,
		"total_tokens", outcome.Totals.Tokens, "elapsed", time.Since(startTime).String())

	w := c.App.Writer
	if w == nil {
		w = os.Stdout
	}

	if format == FormatText {
		if err := WriteOutcome(w, outcome, boolFlag(c, "per-file")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	snap := m.Snapshot()
	report := BuildReport(runID, config, outcome, &snap, time.Since(startTime), boolFlag(c, "per-file"))
	if err := WriteReport(w, format, report); err != nil {
		logger.Error("failed to write report", "error", err)
		return cli.Exit(MsgExecutionFailed, 1)
	}
	return nil
}

// resolveConfig layers the config file, then flags and env vars, then the
// positional <top-n> <path...> arguments.
func resolveConfig(c *cli.Context) (*models.RunConfig, error) {
	config := models.DefaultConfig()
	if path := stringFlag(c, "config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return nil, cli.Exit(fmt.Sprintf("Could not load config: %v", err), 1)
		}
		config = loaded
	}

	if isSet(c, "workers") {
		config.Workers = intFlag(c, "workers")
	}
	if isSet(c, "max-depth") {
		config.MaxDepth = intFlag(c, "max-depth")
	}
	if isSet(c, "merge") {
		config.Merge = models.MergeMode(strings.ToLower(stringFlag(c, "merge")))
	}
	if isSet(c, "task-timeout") {
		config.TaskTimeout = durationFlag(c, "task-timeout")
	}

	args := c.Args().Slice()
	switch {
	case len(args) == 0:
		// Everything comes from the config file.
	case len(args) == 1:
		return nil, cli.Exit(MsgInvalidArguments, 1)
	default:
		topN, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, cli.Exit(MsgNonInteger, 1)
		}
		config.TopN = topN
		config.Roots = args[1:]
	}

	if len(config.Roots) == 0 {
		return nil, cli.Exit(MsgInvalidArguments, 1)
	}
	return config, nil
}

// flagCtx returns the closest context in which name was set, so a flag
// given before the count command applies the same as one given after it.
// Unset flags resolve against c and its defaults.
func flagCtx(c *cli.Context, name string) *cli.Context {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx
		}
	}
	return c
}

func isSet(c *cli.Context, name string) bool {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return true
		}
	}
	return false
}

func stringFlag(c *cli.Context, name string) string { return flagCtx(c, name).String(name) }

func boolFlag(c *cli.Context, name string) bool { return flagCtx(c, name).Bool(name) }

func intFlag(c *cli.Context, name string) int { return flagCtx(c, name).Int(name) }

func durationFlag(c *cli.Context, name string) time.Duration {
	return flagCtx(c, name).Duration(name)
}

// validationMessage picks the user message for a config that failed Validate.
func validationMessage(config *models.RunConfig, err error) string {
	switch {
	case config.TopN > models.MaxTopN:
		return MsgExceedsMaxTopN
	case config.TopN < 1:
		return MsgBelowMinTopN
	}
	return err.Error() + "\n" + usageLine
}

// inputSize sums the on-disk size of files. Files that cannot be stat'ed
// count as zero here and fail later when opened.
func inputSize(s *storage.Storage, files []string) int64 {
	var total int64
	for _, f := range files {
		if stats, err := s.GetFileStats(f); err == nil {
			total += stats.SizeBytes
		}
	}
	return total
}

func newLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if boolFlag(c, "verbose") {
		logLevel = slog.LevelDebug
	}
	if boolFlag(c, "quiet") {
		logLevel = slog.LevelError
	}

	var w io.Writer = os.Stderr
	if c.App != nil && c.App.ErrWriter != nil {
		w = c.App.ErrWriter
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	switch strings.ToLower(stringFlag(c, "log-format")) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts))
	case "text":
		return slog.New(slog.NewTextHandler(w, opts))
	}
	if isTerminal(w) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
