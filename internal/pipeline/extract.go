package pipeline

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"crayon/internal/elements"
	"crayon/internal/providers/openai"
)

// Extractor turns a caption into an element set. Undecodable model output
// falls back to elements.Placeholder; only call failures are returned.
type Extractor struct {
	text        TextModel
	instruction string
	temperature float32
	maxTokens   int
	maxChars    int
	logger      zerolog.Logger
}

func NewExtractor(text TextModel, opts Options, logger *zerolog.Logger) *Extractor {
	opts = opts.withDefaults()
	l := zerolog.New(io.Discard)
	if logger != nil {
		l = *logger
	}
	return &Extractor{
		text:        text,
		instruction: opts.ExtractInstruction,
		temperature: opts.ExtractTemperature,
		maxTokens:   opts.ExtractMaxTokens,
		maxChars:    opts.MaxCaptionChars,
		logger:      l,
	}
}

func (e *Extractor) Extract(ctx context.Context, caption string) (elements.Result, error) {
	raw, err := e.text.Complete(ctx, openai.TextRequest{
		Prompt:      e.instruction + "\n\nCaption:\n" + truncateRunes(caption, e.maxChars),
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		return elements.Result{}, err
	}
	res := elements.Parse(raw)
	if res.Outcome == elements.Fallback {
		e.logger.Warn().Err(res.Err).Msg("pipeline: element extraction fell back to placeholder")
	}
	return res, nil
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
