package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"

	"crayon/internal/imagenorm"
	"crayon/internal/providers/openai"
)

// Captioner asks the vision model for one free-text description per image.
type Captioner struct {
	vision      Vision
	instruction string
	temperature float32
	maxTokens   int
	cache       *cache.Cache
}

func NewCaptioner(vision Vision, opts Options) *Captioner {
	opts = opts.withDefaults()
	c := &Captioner{
		vision:      vision,
		instruction: opts.CaptionInstruction,
		temperature: opts.CaptionTemperature,
		maxTokens:   opts.CaptionMaxTokens,
	}
	if opts.CaptionCacheTTL > 0 {
		c.cache = cache.New(opts.CaptionCacheTTL, 2*opts.CaptionCacheTTL+time.Minute)
	}
	return c
}

// Caption describes img. Upstream failures are returned unchanged.
func (c *Captioner) Caption(ctx context.Context, img imagenorm.Image) (string, error) {
	key := ""
	if c.cache != nil {
		key = c.cacheKey(img)
		if v, ok := c.cache.Get(key); ok {
			return v.(string), nil
		}
	}
	text, err := c.vision.Describe(ctx, openai.VisionRequest{
		Instruction: c.instruction,
		ImageURL:    img.DataURI(),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", err
	}
	if c.cache != nil {
		c.cache.Set(key, text, cache.DefaultExpiration)
	}
	return text, nil
}

func (c *Captioner) cacheKey(img imagenorm.Image) string {
	h := sha256.New()
	h.Write([]byte(c.instruction))
	h.Write([]byte{0})
	h.Write(img.Data)
	return hex.EncodeToString(h.Sum(nil))
}
