package pipeline

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/cache"
	"github.com/matzehuels/assetforge/pkg/config"
	"github.com/matzehuels/assetforge/pkg/errors"
	"github.com/matzehuels/assetforge/pkg/observability"
	"github.com/matzehuels/assetforge/pkg/render"
	"github.com/matzehuels/assetforge/pkg/render/icon"
)

// Runner executes configurations with caching.
//
// The Runner holds no per-run state, so one Runner can serve concurrent
// runs with different configurations.
type Runner struct {
	Engine *render.Engine
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil engine uses the default codec, a nil
// cache disables caching and a nil keyer uses cache.DefaultKeyer.
func NewRunner(engine *render.Engine, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if engine == nil {
		engine = render.NewEngine(nil, nil, logger)
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Runner{
		Engine: engine,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// Execute validates cfg and its sources, then renders every planned
// variant. The returned error is reserved for failures that prevent the
// run as a whole; per-variant failures are in Result.Errors.
func (r *Runner) Execute(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	start := time.Now()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	run := *cfg
	if opts.OutputDir != "" {
		run.Output.Directory = opts.OutputDir
	}
	if err := run.Validate(); err != nil {
		return nil, err
	}
	for _, name := range opts.Assets {
		if _, ok := run.Asset(name); !ok && name != FaviconAsset {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown asset: %s", name)
		}
	}

	sources := make([]asset.Source, 0, len(run.Source.Images))
	for _, path := range run.Source.Images {
		src, err := ValidateSource(ctx, r.Engine.Codec, path, run.Source.Validation, r.Logger)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "Source image validation failed")
		}
		sources = append(sources, src)
	}
	r.Logger.Info("validated source images", "count", len(sources))

	jobs := Plan(&run, sources, opts)
	result := &Result{RunID: uuid.NewString(), DryRun: opts.DryRun}
	observability.Render().OnRunStart(ctx, result.RunID, len(jobs))

	if opts.DryRun {
		r.Logger.Info("dry run, simulating asset generation", "variants", len(jobs))
		for _, j := range jobs {
			result.Assets = append(result.Assets, Simulate(j))
		}
	} else if err := r.renderAll(ctx, &run, jobs, opts, result); err != nil {
		return result, err
	}

	result.Metrics = metrics(result, start)
	observability.Render().OnRunComplete(ctx, result.RunID, result.Metrics.Succeeded, result.Metrics.Failed, result.Metrics.Duration)
	r.Logger.Info("pipeline finished",
		"run", result.RunID,
		"generated", result.Metrics.Succeeded,
		"failed", result.Metrics.Failed,
		"size", FormatFileSize(result.Metrics.TotalFileSize),
		"cache_hits", result.CacheHits,
		"duration", result.Metrics.Duration)
	return result, nil
}

// outcome is the result slot of one job.
type outcome struct {
	gen asset.Generated
	hit bool
	err error
}

func (r *Runner) renderAll(ctx context.Context, cfg *config.Config, jobs []Job, opts Options, result *Result) error {
	eng := *r.Engine
	eng.Defaults = render.Defaults{
		Quality:    cfg.Processing.Quality,
		Monochrome: cfg.Processing.Themes.Monochrome,
		Overwrite:  cfg.Output.Overwrite,
	}

	hashes, err := hashSources(jobs)
	if err != nil {
		return err
	}

	outcomes := make([]outcome, len(jobs))
	g := new(errgroup.Group)
	g.SetLimit(opts.Concurrency)

	for i, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			gen, hit, err := r.renderJob(ctx, &eng, j, hashes[j.Source.Path], opts)
			outcomes[i] = outcome{gen: gen, hit: hit, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, o := range outcomes {
		switch {
		case o.err != nil:
			r.Logger.Error("variant failed", "asset", jobs[i].Asset, "variant", jobs[i].Variant.Name, "err", errors.UserMessage(o.err))
			result.Errors = append(result.Errors, newAssetError(jobs[i], o.err))
		case o.gen.Path != "":
			result.Assets = append(result.Assets, o.gen)
			if o.hit {
				result.CacheHits++
			}
		}
	}
	return ctx.Err()
}

// renderJob renders one variant, going through the artifact cache.
func (r *Runner) renderJob(ctx context.Context, eng *render.Engine, j Job, sourceHash string, opts Options) (asset.Generated, bool, error) {
	if err := ctx.Err(); err != nil {
		return asset.Generated{}, false, err
	}
	start := time.Now()
	observability.Render().OnVariantStart(ctx, j.Asset, j.Variant.Name, string(j.Variant.Format))

	ropts := opts.RenderOptions()
	key := r.Keyer.ArtifactKey(sourceHash, cache.ArtifactKeyOpts{
		Variant:    j.Variant,
		Quality:    eng.Quality(j.Variant, ropts),
		Monochrome: eng.Defaults.Monochrome,
	})

	art, hit := r.cached(ctx, key, opts)
	if !hit {
		var err error
		art, err = eng.RenderBytes(ctx, j.Source, j.Variant, ropts)
		if err != nil {
			observability.Render().OnVariantComplete(ctx, j.Asset, j.Variant.Name, 0, time.Since(start), err)
			return asset.Generated{}, false, err
		}
		if !opts.NoCache {
			if data, err := json.Marshal(art); err == nil {
				if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
					r.Logger.Warn("cache write failed", "variant", j.Variant.Name, "err", err)
				}
			}
		}
	}

	gen, err := eng.Write(ctx, art, j.Variant, j.Path, ropts)
	if err != nil {
		err = render.Failure(j.Source, j.Variant, err)
	}
	observability.Render().OnVariantComplete(ctx, j.Asset, j.Variant.Name, gen.FileSize, time.Since(start), err)
	if err != nil {
		return asset.Generated{}, false, err
	}

	r.Logger.Debug("generated asset", "asset", j.Asset, "path", gen.Path, "cached", hit, "duration", time.Since(start))
	return gen, hit, nil
}

func (r *Runner) cached(ctx context.Context, key string, opts Options) (render.Artifact, bool) {
	if opts.NoCache || opts.Refresh {
		return render.Artifact{}, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return render.Artifact{}, false
	}
	if !hit {
		return render.Artifact{}, false
	}
	var art render.Artifact
	if err := json.Unmarshal(data, &art); err != nil || len(art.Data) == 0 {
		return render.Artifact{}, false
	}
	return art, true
}

// hashSources hashes each distinct source file once.
func hashSources(jobs []Job) (map[string]string, error) {
	hashes := make(map[string]string)
	var mu sync.Mutex
	g := new(errgroup.Group)
	for _, j := range jobs {
		path := j.Source.Path
		if _, ok := hashes[path]; ok {
			continue
		}
		hashes[path] = ""
		g.Go(func() error {
			h, err := cache.HashFile(path)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidSource, err, "hash %s", path)
			}
			mu.Lock()
			hashes[path] = h
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return hashes, nil
}

// Simulate predicts the record of a job without rendering: the requested
// size (the missing side scaled from the source) and an uncompressed size
// estimate.
func Simulate(j Job) asset.Generated {
	v, src := j.Variant, j.Source
	w, h := v.Width, v.Height
	switch {
	case w == 0 && h == 0:
		w, h = src.Width, src.Height
	case w == 0 && src.Height > 0:
		w = int(math.Round(float64(src.Width) * float64(h) / float64(src.Height)))
	case h == 0 && src.Width > 0:
		h = int(math.Round(float64(src.Height) * float64(w) / float64(src.Width)))
	}

	size := int64(w) * int64(h) * 3
	if v.Format == asset.FormatICO {
		sizes := icon.ResolveSizes(v.Sizes, v.Width, v.Height)
		size = 0
		for _, s := range sizes {
			size += int64(s) * int64(s) * 4
		}
		w = sizes[len(sizes)-1]
		h = w
	}
	return asset.Generated{
		Name:      v.Name,
		Path:      j.Path,
		Format:    v.Format,
		Width:     w,
		Height:    h,
		FileSize:  size,
		Optimised: true,
	}
}

func metrics(result *Result, start time.Time) Metrics {
	m := Metrics{
		Succeeded: len(result.Assets),
		Failed:    len(result.Errors),
		Duration:  time.Since(start),
	}
	m.Total = m.Succeeded + m.Failed
	for _, a := range result.Assets {
		m.TotalFileSize += a.FileSize
	}
	return m
}
