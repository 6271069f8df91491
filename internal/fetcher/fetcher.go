package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"heropatch/internal/batch"
	"heropatch/internal/catalog"
	"heropatch/internal/config"
	"heropatch/internal/fileutil"
	"heropatch/internal/logging"
	"heropatch/internal/stage"
)

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration)

// Options configures a Fetcher.
type Options struct {
	Layout         config.Layout
	BaseURL        string
	Dimensions     string
	MinCachedBytes int64
	Pause          time.Duration
	Timeout        time.Duration
	UserAgent      string
	Logger         *slog.Logger
	// Client overrides the HTTP client, mainly for tests.
	Client *resty.Client
	// Sleep overrides the pause between downloads.
	Sleep SleepFunc
}

// OptionsFromConfig maps the fetch section onto Options.
func OptionsFromConfig(cfg *config.Config, layout config.Layout) Options {
	return Options{
		Layout:         layout,
		BaseURL:        cfg.Fetch.BaseURL,
		Dimensions:     cfg.Fetch.Dimensions,
		MinCachedBytes: cfg.Fetch.MinCachedBytes,
		Pause:          time.Duration(cfg.Fetch.PauseMillis) * time.Millisecond,
		Timeout:        time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		UserAgent:      cfg.Fetch.UserAgent,
	}
}

// Fetcher materializes hero assets on disk.
type Fetcher struct {
	layout     config.Layout
	baseURL    string
	dimensions string
	minCached  int64
	pause      time.Duration
	client     *resty.Client
	sleep      SleepFunc
	logger     *slog.Logger
}

// New constructs a Fetcher.
func New(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = resty.New()
		if opts.Timeout > 0 {
			client.SetTimeout(opts.Timeout)
		}
	}
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		client.SetHeader("User-Agent", ua)
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Fetcher{
		layout:     opts.Layout,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		dimensions: opts.Dimensions,
		minCached:  opts.MinCachedBytes,
		pause:      opts.Pause,
		client:     client,
		sleep:      sleep,
		logger:     logging.NewComponentLogger(logger, "fetcher"),
	}
}

// Phase implements stage.Handler.
func (f *Fetcher) Phase() batch.Phase { return batch.PhaseFetch }

// Select implements stage.Handler. Every entry has an asset.
func (f *Fetcher) Select(entries []catalog.Entry) []catalog.Entry { return entries }

// Execute implements stage.Handler.
func (f *Fetcher) Execute(ctx context.Context, entry catalog.Entry) batch.Outcome {
	return f.Fetch(ctx, entry)
}

// Batch downloads every entry in order.
func (f *Fetcher) Batch(ctx context.Context, entries []catalog.Entry, observe func(batch.Outcome)) []batch.Outcome {
	return stage.Run(ctx, f, entries, observe)
}

// ImageURL returns the service URL for a keyword query.
func (f *Fetcher) ImageURL(query string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
	return fmt.Sprintf("%s/%s/?%s", f.baseURL, f.dimensions, encoded)
}

// Fetch downloads the asset of one entry unless a valid copy is cached.
func (f *Fetcher) Fetch(ctx context.Context, entry catalog.Entry) batch.Outcome {
	start := time.Now()
	path := f.layout.AssetPath(entry.PageID)
	outcome := batch.Outcome{PageID: entry.PageID, Phase: batch.PhaseFetch, Path: path}
	logger := logging.WithContext(ctx, f.logger)
	fail := func(message string, err error) batch.Outcome {
		outcome.Status = batch.StatusFailed
		outcome.Err = batch.Wrap(batch.ErrFetch, batch.PhaseFetch, entry.PageID, message, err)
		outcome.Duration = time.Since(start)
		return outcome
	}

	cached, size, err := fileutil.SizeAbove(path, f.minCached)
	if err != nil {
		return fail("inspect cached asset", err)
	}
	if cached {
		outcome.Status = batch.StatusSkipped
		outcome.Detail = "exists"
		outcome.Bytes = size
		return outcome
	}

	if err := os.MkdirAll(f.layout.AssetDir(), 0o755); err != nil {
		return fail("create images directory", err)
	}

	target := f.ImageURL(entry.Query)
	logger.Debug("downloading hero image", logging.String("url", target), logging.String("path", path))
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(target)
	if err != nil {
		return fail("request image", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() >= 400 {
		return fail(fmt.Sprintf("HTTP %d", resp.StatusCode()), nil)
	}

	n, err := fileutil.CopyToFileAtomic(path, body, 0o644)
	if err != nil {
		if errors.Is(err, fileutil.ErrEmpty) {
			return fail("empty response body", nil)
		}
		return fail("write image", err)
	}

	outcome.Status = batch.StatusDownloaded
	outcome.Detail = entry.Query
	outcome.Bytes = n
	outcome.Duration = time.Since(start)
	logger.Info("hero image downloaded",
		logging.String(logging.FieldEventType, "asset_downloaded"),
		logging.Int64("bytes", n),
		logging.Duration("duration", outcome.Duration),
	)

	if f.pause > 0 {
		f.sleep(ctx, f.pause)
	}
	return outcome
}

// HealthCheck implements stage.Handler.
func (f *Fetcher) HealthCheck(context.Context) stage.Health {
	parsed, err := url.Parse(f.baseURL)
	if err != nil || parsed.Host == "" {
		return stage.Unhealthy("fetch", fmt.Sprintf("invalid image service URL %q", f.baseURL))
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return stage.Unhealthy("fetch", fmt.Sprintf("unsupported scheme %q", parsed.Scheme))
	}
	return stage.Healthy("fetch")
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
