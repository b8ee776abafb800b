package pipeline

import (
	"time"

	"crayon/internal/elements"
	"crayon/internal/imagenorm"
	"crayon/internal/prompt"
)

const (
	DefaultCaptionInstruction = "Describe what is in this image, not its art style. Be exhaustive and concrete: " +
		"count every person and say what each is doing and wearing, then list notable objects, colors, textures, " +
		"relative sizes, spatial relations, and any readable text exactly as written."

	DefaultExtractInstruction = "From the caption below, output valid JSON with this schema:\n" +
		"{\n" +
		"  \"representative\": \"<one short noun phrase naming the most distinctive element of this image>\",\n" +
		"  \"candidates\": [\"<exactly 6 short noun phrases>\"]\n" +
		"}\n" +
		"Rules: \"candidates\" must contain exactly 6 unique items and \"representative\" must be one of them. " +
		"Keep it concise, no prose. Output JSON only."

	DefaultSize            = "1024x1536"
	DefaultOutputExt       = ".png"
	DefaultCaptionTokens   = 180
	DefaultExtractTokens   = 90
	DefaultMaxCaptionChars = 250
	DefaultCaptionTemp     = 0.0
)

// Options is the run configuration shared by every pipeline stage.
type Options struct {
	CaptionInstruction string
	CaptionTemperature float32
	CaptionMaxTokens   int
	// CaptionCacheTTL keeps captions of identical images; 0 disables the cache.
	CaptionCacheTTL time.Duration

	ExtractInstruction string
	ExtractTemperature float32
	ExtractMaxTokens   int
	// MaxCaptionChars truncates the caption sent for extraction; 0 sends it whole.
	MaxCaptionChars int

	TargetTotal int
	Style       string
	Safe        bool

	Size      string
	OutputExt string

	// MaxSide caps the longer image edge before captioning.
	MaxSide int
	// MaxPixels bounds the declared canvas of an input image.
	MaxPixels int
	// MinInterval spaces outbound calls of one pipeline; 0 leaves them unpaced.
	MinInterval time.Duration
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	style, _ := prompt.Style(prompt.StyleCrayon)
	return Options{
		CaptionInstruction: DefaultCaptionInstruction,
		CaptionTemperature: DefaultCaptionTemp,
		CaptionMaxTokens:   DefaultCaptionTokens,
		ExtractInstruction: DefaultExtractInstruction,
		ExtractMaxTokens:   DefaultExtractTokens,
		MaxCaptionChars:    DefaultMaxCaptionChars,
		TargetTotal:        elements.DefaultTargetTotal,
		Style:              style,
		Safe:               true,
		Size:               DefaultSize,
		OutputExt:          DefaultOutputExt,
		MaxSide:            imagenorm.DefaultMaxSide,
		MaxPixels:          imagenorm.DefaultMaxPixels,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.CaptionInstruction == "" {
		o.CaptionInstruction = d.CaptionInstruction
	}
	if o.CaptionMaxTokens <= 0 {
		o.CaptionMaxTokens = d.CaptionMaxTokens
	}
	if o.ExtractInstruction == "" {
		o.ExtractInstruction = d.ExtractInstruction
	}
	if o.ExtractMaxTokens <= 0 {
		o.ExtractMaxTokens = d.ExtractMaxTokens
	}
	if o.TargetTotal <= 0 {
		o.TargetTotal = d.TargetTotal
	}
	if o.Style == "" {
		o.Style = d.Style
	}
	if o.Size == "" {
		o.Size = d.Size
	}
	if o.OutputExt == "" {
		o.OutputExt = d.OutputExt
	}
	return o
}

var sizes = map[string]struct{}{
	"1024x1024": {},
	"1024x1536": {},
	"1536x1024": {},
	"auto":      {},
}

// ValidSize reports whether size is accepted by the generation endpoint.
func ValidSize(size string) bool {
	_, ok := sizes[size]
	return ok
}
