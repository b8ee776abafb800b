// Package pipeline turns a handful of photos into one illustration: caption
// every photo, extract salient elements from each caption, consolidate them,
// build a prompt and generate the image.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"crayon/internal/domain"
	"crayon/internal/elements"
	"crayon/internal/imagenorm"
	"crayon/internal/prompt"
	"crayon/internal/providers/openai"
)

// Vision captions an image.
type Vision interface {
	Describe(ctx context.Context, req openai.VisionRequest) (string, error)
}

// TextModel answers a text prompt.
type TextModel interface {
	Complete(ctx context.Context, req openai.TextRequest) (string, error)
}

// ImageModel renders a prompt into image bytes.
type ImageModel interface {
	GenerateImage(ctx context.Context, prompt, size string) ([]byte, error)
}

// Deps are the collaborators of a Pipeline.
type Deps struct {
	Vision Vision
	Text   TextModel
	Images ImageModel
	Store  Store
	Logger *zerolog.Logger
}

// Pipeline is safe for concurrent runs; runs share no mutable state beyond
// the optional caption cache and pacing limiter.
type Pipeline struct {
	opts       Options
	normalizer *imagenorm.Normalizer
	captioner  *Captioner
	extractor  *Extractor
	invoker    *Invoker
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

func New(deps Deps, opts Options) (*Pipeline, error) {
	switch {
	case deps.Vision == nil:
		return nil, errors.New("pipeline: vision model is required")
	case deps.Text == nil:
		return nil, errors.New("pipeline: text model is required")
	case deps.Images == nil:
		return nil, errors.New("pipeline: image model is required")
	case deps.Store == nil:
		return nil, errors.New("pipeline: store is required")
	}
	opts = opts.withDefaults()
	if !ValidSize(opts.Size) {
		return nil, fmt.Errorf("pipeline: unsupported default size %q", opts.Size)
	}
	logger := zerolog.New(io.Discard)
	if deps.Logger != nil {
		logger = *deps.Logger
	}
	p := &Pipeline{
		opts:       opts,
		normalizer: imagenorm.New(imagenorm.Options{MaxSide: opts.MaxSide, MaxPixels: opts.MaxPixels}),
		captioner:  NewCaptioner(deps.Vision, opts),
		extractor:  NewExtractor(deps.Text, opts, &logger),
		invoker:    NewInvoker(deps.Images, deps.Store, opts.OutputExt),
		logger:     logger,
	}
	if opts.MinInterval > 0 {
		p.limiter = rate.NewLimiter(rate.Every(opts.MinInterval), 1)
	}
	return p, nil
}

// Request names the input images of one run.
type Request struct {
	Images []string
	// Size overrides the configured generation size.
	Size string
}

// Result describes a finished run.
type Result struct {
	Name      string
	Size      string
	Captions  []string
	Elements  []elements.Result
	Selection elements.Selection
	Prompt    string
	Elapsed   time.Duration
}

// Run executes every stage and returns the stored artifact name in Result.
// Input problems are reported before any outbound call; the first failing
// per-image call cancels its stage and aborts the run.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	if len(req.Images) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", domain.ErrValidation)
	}
	size := req.Size
	if size == "" {
		size = p.opts.Size
	}
	if !ValidSize(size) {
		return nil, fmt.Errorf("%w: unsupported size %q", domain.ErrValidation, size)
	}
	for _, path := range req.Images {
		if err := requireFile(path); err != nil {
			return nil, err
		}
	}

	captions, err := p.captionAll(ctx, req.Images)
	if err != nil {
		return nil, err
	}
	p.logger.Debug().Int("images", len(captions)).Dur("elapsed", time.Since(start)).Msg("pipeline: captions ready")

	extracted, err := p.extractAll(ctx, captions)
	if err != nil {
		return nil, err
	}
	sets := make([]elements.Set, len(extracted))
	for i, r := range extracted {
		sets[i] = r.Set
	}
	selection := elements.Consolidate(sets, p.opts.TargetTotal)
	p.logger.Debug().
		Strs("required", selection.Required).
		Strs("global_must", selection.GlobalMust).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline: elements consolidated")

	finalPrompt := prompt.Build(prompt.Input{
		Captions:    captions,
		Required:    selection.Required,
		GlobalMust:  selection.GlobalMust,
		Style:       p.opts.Style,
		Size:        size,
		Safe:        p.opts.Safe,
		TargetTotal: p.opts.TargetTotal,
	})

	if err := p.pace(ctx); err != nil {
		return nil, err
	}
	name, err := p.invoker.Generate(ctx, finalPrompt, size)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Name:      name,
		Size:      size,
		Captions:  captions,
		Elements:  extracted,
		Selection: selection,
		Prompt:    finalPrompt,
		Elapsed:   time.Since(start),
	}
	p.logger.Info().
		Int("images", len(req.Images)).
		Int("required", len(selection.Required)).
		Int("global_must", len(selection.GlobalMust)).
		Str("name", name).
		Dur("elapsed", res.Elapsed).
		Msg("pipeline: run complete")
	return res, nil
}

func (p *Pipeline) captionAll(ctx context.Context, paths []string) ([]string, error) {
	captions := make([]string, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			img, err := p.normalizer.NormalizeFile(path)
			if err != nil {
				return err
			}
			if err := p.pace(egCtx); err != nil {
				return err
			}
			text, err := p.captioner.Caption(egCtx, img)
			if err != nil {
				return fmt.Errorf("caption image %d: %w", i+1, err)
			}
			captions[i] = text
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return captions, nil
}

func (p *Pipeline) extractAll(ctx context.Context, captions []string) ([]elements.Result, error) {
	results := make([]elements.Result, len(captions))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, caption := range captions {
		i, caption := i, caption
		eg.Go(func() error {
			if err := p.pace(egCtx); err != nil {
				return err
			}
			res, err := p.extractor.Extract(egCtx, caption)
			if err != nil {
				return fmt.Errorf("extract elements %d: %w", i+1, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) pace(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", domain.ErrNotFound, path)
	}
	return nil
}
