package patcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"heropatch/internal/batch"
	"heropatch/internal/catalog"
	"heropatch/internal/config"
	"heropatch/internal/fileutil"
	"heropatch/internal/logging"
	"heropatch/internal/stage"
)

// Options configures a Patcher.
type Options struct {
	Layout  config.Layout
	Profile Profile
	DryRun  bool
	Logger  *slog.Logger
}

// Patcher applies a profile to page source files.
type Patcher struct {
	layout   config.Layout
	profile  Profile
	renderer *Renderer
	dryRun   bool
	logger   *slog.Logger
}

// New constructs a Patcher.
func New(opts Options) (*Patcher, error) {
	renderer, err := NewRenderer(opts.Profile)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Patcher{
		layout:   opts.Layout,
		profile:  opts.Profile,
		renderer: renderer,
		dryRun:   opts.DryRun,
		logger:   logging.NewComponentLogger(logger, "patcher"),
	}, nil
}

// Phase implements stage.Handler.
func (p *Patcher) Phase() batch.Phase { return batch.PhasePatch }

// Profile returns the resolved profile.
func (p *Patcher) Profile() Profile { return p.profile }

// Select returns the entries the profile applies to.
func (p *Patcher) Select(entries []catalog.Entry) []catalog.Entry {
	if !p.profile.PageAnchors {
		return entries
	}
	selected := make([]catalog.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Anchor != "" {
			selected = append(selected, entry)
		}
	}
	return selected
}

// Batch patches every selected entry in order.
func (p *Patcher) Batch(ctx context.Context, entries []catalog.Entry, observe func(batch.Outcome)) []batch.Outcome {
	return stage.Run(ctx, p, p.Select(entries), observe)
}

// Execute implements stage.Handler.
func (p *Patcher) Execute(ctx context.Context, entry catalog.Entry) batch.Outcome {
	return p.Patch(ctx, entry)
}

// Patch applies the profile to one page and writes the file back only when
// the content changed.
func (p *Patcher) Patch(ctx context.Context, entry catalog.Entry) batch.Outcome {
	start := time.Now()
	path := p.layout.PagePath(entry.PageID)
	outcome := batch.Outcome{PageID: entry.PageID, Phase: batch.PhasePatch, Path: path}
	logger := logging.WithContext(ctx, p.logger)
	finish := func(o batch.Outcome) batch.Outcome {
		o.Duration = time.Since(start)
		return o
	}

	anchor := p.profile.Anchor
	if p.profile.PageAnchors {
		anchor = entry.Anchor
	}
	if anchor == "" {
		outcome.Status = batch.StatusSkipped
		outcome.Detail = "no anchor configured"
		return finish(outcome)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			outcome.Status = batch.StatusSkipped
			outcome.Detail = "no " + p.layout.SourceFile
			outcome.Err = batch.Wrap(batch.ErrNotFound, batch.PhasePatch, entry.PageID, "page source missing", err)
			return finish(outcome)
		}
		outcome.Status = batch.StatusFailed
		outcome.Err = batch.Wrap(batch.ErrIO, batch.PhasePatch, entry.PageID, "read page", err)
		return finish(outcome)
	}

	snippet, err := p.renderer.Render(p.layout.AssetURL(entry.PageID), entry.AltText)
	if err != nil {
		outcome.Status = batch.StatusFailed
		outcome.Err = batch.Wrap(batch.ErrConfiguration, batch.PhasePatch, entry.PageID, "render snippet", err)
		return finish(outcome)
	}

	res := Apply(string(data), Request{
		PageID:          entry.PageID,
		Marker:          p.layout.AssetName(entry.PageID),
		Anchor:          anchor,
		Snippet:         snippet,
		ImportLine:      p.profile.ImportLine,
		InsertionPoints: p.profile.InsertionPoints,
	})
	outcome.Status = res.Status
	outcome.Detail = res.Detail
	outcome.ImportAdded = res.ImportAdded

	if res.ImportMissing {
		logging.WarnWithContext(logger, "import insertion point missing",
			"import_point_missing",
			logging.Alert("unresolved_import"),
			logging.String("import_line", p.profile.ImportLine),
			logging.String("path", path),
			logging.String(logging.FieldErrorHint, "add the import to the page by hand"),
			logging.String(logging.FieldImpact, "page may fail to compile without the import"),
		)
	}
	if res.Status == batch.StatusWarned {
		outcome.Err = batch.Wrap(batch.ErrAnchorNotFound, batch.PhasePatch, entry.PageID, anchor, nil)
	}

	if !res.Mutated {
		return finish(outcome)
	}
	if p.dryRun {
		logger.Debug("dry run, page left unchanged", logging.String("path", path))
		return finish(outcome)
	}
	if err := fileutil.WriteFileAtomic(path, []byte(res.Content), 0o644); err != nil {
		outcome.Status = batch.StatusFailed
		outcome.Detail = ""
		outcome.Err = batch.Wrap(batch.ErrIO, batch.PhasePatch, entry.PageID, "write page", err)
		return finish(outcome)
	}
	outcome.Bytes = int64(len(res.Content))
	return finish(outcome)
}

// HealthCheck implements stage.Handler.
func (p *Patcher) HealthCheck(context.Context) stage.Health {
	name := "patch:" + p.profile.Name
	dir := filepath.Join(p.layout.Root, filepath.FromSlash(p.layout.PagesDir), p.layout.Namespace)
	info, err := os.Stat(dir)
	if err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("pages directory %s: %v", dir, err))
	}
	if !info.IsDir() {
		return stage.Unhealthy(name, fmt.Sprintf("pages directory %s is not a directory", dir))
	}
	return stage.Healthy(name)
}
