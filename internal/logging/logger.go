package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"heropatch/internal/config"
)

// RunLogFilePattern matches the per-run log files written under log_dir.
const RunLogFilePattern = "run-*.log"

// Options describes logger construction parameters. Records go to every
// path in OutputPaths; "stdout" and "stderr" name the process streams.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
}

// New constructs a slog logger writing console or JSON records.
func New(opts Options) (*slog.Logger, error) {
	w, err := openOutputs(opts.OutputPaths)
	if err != nil {
		return nil, err
	}
	level := parseLevel(opts.Level)
	// Debug runs carry the call site; normal runs keep lines short.
	addSource := level <= slog.LevelDebug

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		return slog.New(newConsoleHandler(w, level, addSource)), nil
	case "json":
		return slog.New(newJSONHandler(w, level, addSource)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig creates the logger for one run. Records go to a fresh
// run-<timestamp>-<id>.log file under the configured log directory and,
// when mirror is set, to stderr as well. Every record carries the run ID.
// The returned path is empty when no log directory is configured.
func NewFromConfig(cfg *config.Config, runID string, mirror bool) (*slog.Logger, string, error) {
	opts := Options{Level: "info", Format: "console"}
	var logPath string
	if cfg != nil {
		opts.Level = cfg.Logging.Level
		opts.Format = cfg.Logging.Format
		if cfg.Paths.LogDir != "" {
			logPath = filepath.Join(cfg.Paths.LogDir, runLogFileName(time.Now(), runID))
			opts.OutputPaths = append(opts.OutputPaths, logPath)
		}
	}
	if mirror || logPath == "" {
		opts.OutputPaths = append(opts.OutputPaths, "stderr")
	}

	logger, err := New(opts)
	if err != nil {
		return nil, "", err
	}
	if runID != "" {
		logger = slog.New(newRunIDHandler(logger.Handler(), runID))
	}
	return logger, logPath, nil
}

func runLogFileName(now time.Time, runID string) string {
	short := strings.ReplaceAll(runID, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	if short == "" {
		short = "adhoc"
	}
	return fmt.Sprintf("run-%s-%s.log", now.UTC().Format("20060102-150405"), short)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openOutputs(paths []string) (io.Writer, error) {
	seen := make(map[string]bool)
	var writers []io.Writer
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		switch p {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return nil, fmt.Errorf("ensure log directory: %w", err)
			}
			f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", p, err)
			}
			writers = append(writers, f)
		}
	}
	switch len(writers) {
	case 0:
		return os.Stderr, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func newJSONHandler(w io.Writer, level slog.Level, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return attr
			}
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	})
}
