package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"crayon/internal/imagenorm"
	"crayon/internal/pipeline"
	"crayon/internal/prompt"
	"crayon/internal/providers/openai"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	GeoIPDBPath        string
	CORSAllowedOrigins []string

	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAIOrg          string
	OpenAIVisionModel  string
	OpenAIExtractModel string
	OpenAIImageModel   string
	OpenAIImageQuality string
	OpenAITimeout      time.Duration
	OpenAIMinInterval  time.Duration

	CaptionTemperature float32
	CaptionCacheTTL    time.Duration
	ImageSize          string
	ImageMaxSide       int
	ImageMaxPixels     int
	TargetTotal        int
	PromptStyle        string
	PromptSafe         bool

	UploadDir          string
	OutputDir          string
	UploadMaxBytes     int64
	MaxFilesPerRequest int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:          os.Getenv("OPENAI_ORG"),
		OpenAIVisionModel:  getEnv("OPENAI_VISION_MODEL", openai.DefaultVisionModel),
		OpenAIExtractModel: getEnv("OPENAI_EXTRACT_MODEL", openai.DefaultTextModel),
		OpenAIImageModel:   getEnv("OPENAI_IMAGE_MODEL", openai.DefaultImageModel),
		OpenAIImageQuality: getEnv("OPENAI_IMAGE_QUALITY", openai.DefaultImageQuality),
		OpenAITimeout:      time.Second * time.Duration(getEnvInt("OPENAI_TIMEOUT_SECONDS", 120)),
		OpenAIMinInterval:  time.Millisecond * time.Duration(getEnvInt("OPENAI_MIN_INTERVAL_MS", 0)),
		CaptionTemperature: float32(getEnvFloat("CAPTION_TEMPERATURE", pipeline.DefaultCaptionTemp)),
		CaptionCacheTTL:    time.Second * time.Duration(getEnvInt("CAPTION_CACHE_TTL_SECONDS", 0)),
		ImageSize:          getEnv("IMAGE_SIZE", pipeline.DefaultSize),
		ImageMaxSide:       getEnvInt("IMAGE_MAX_SIDE", imagenorm.DefaultMaxSide),
		ImageMaxPixels:     getEnvInt("IMAGE_MAX_PIXELS", imagenorm.DefaultMaxPixels),
		TargetTotal:        getEnvInt("TARGET_TOTAL", 6),
		PromptStyle:        getEnv("PROMPT_STYLE", prompt.StyleCrayon),
		PromptSafe:         getEnvBool("PROMPT_SAFE", true),
		UploadDir:          getEnv("UPLOAD_DIR", "static/uploads"),
		OutputDir:          getEnv("OUTPUT_DIR", "static/outputs"),
		UploadMaxBytes:     int64(getEnvInt("UPLOAD_MAX_BYTES", 20<<20)),
		MaxFilesPerRequest: getEnvInt("MAX_FILES_PER_REQUEST", 3),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if _, ok := prompt.Style(cfg.PromptStyle); !ok {
		return nil, fmt.Errorf("PROMPT_STYLE %q is not one of %s, %s", cfg.PromptStyle, prompt.StyleCrayon, prompt.StyleFaithful)
	}
	if !pipeline.ValidSize(cfg.ImageSize) {
		return nil, fmt.Errorf("IMAGE_SIZE %q is not supported", cfg.ImageSize)
	}
	if cfg.MaxFilesPerRequest <= 0 {
		return nil, fmt.Errorf("MAX_FILES_PER_REQUEST must be positive")
	}

	return cfg, nil
}

// OpenAIOptions returns the client options for the configured account.
func (c *Config) OpenAIOptions(logger *Logger) openai.Options {
	return openai.Options{
		APIKey:       c.OpenAIAPIKey,
		BaseURL:      c.OpenAIBaseURL,
		Organization: c.OpenAIOrg,
		VisionModel:  c.OpenAIVisionModel,
		TextModel:    c.OpenAIExtractModel,
		ImageModel:   c.OpenAIImageModel,
		ImageQuality: c.OpenAIImageQuality,
		Timeout:      c.OpenAITimeout,
		Logger:       logger,
	}
}

// PipelineOptions returns the run configuration for pipeline.New.
func (c *Config) PipelineOptions() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.CaptionTemperature = c.CaptionTemperature
	opts.CaptionCacheTTL = c.CaptionCacheTTL
	opts.TargetTotal = c.TargetTotal
	opts.Style, _ = prompt.Style(c.PromptStyle)
	opts.Safe = c.PromptSafe
	opts.Size = c.ImageSize
	opts.MaxSide = c.ImageMaxSide
	opts.MaxPixels = c.ImageMaxPixels
	opts.MinInterval = c.OpenAIMinInterval
	return opts
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
