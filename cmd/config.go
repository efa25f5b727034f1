package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/bridgeskills/bridgeskills/internal/ai/gemini"
	"github.com/bridgeskills/bridgeskills/internal/cache"
	"github.com/bridgeskills/bridgeskills/internal/extraction"
	"github.com/bridgeskills/bridgeskills/internal/jobboard"
	"github.com/bridgeskills/bridgeskills/internal/market"
	"github.com/bridgeskills/bridgeskills/internal/profile"
	"github.com/bridgeskills/bridgeskills/internal/recommend"
	"github.com/bridgeskills/bridgeskills/internal/scoring"
	"github.com/bridgeskills/bridgeskills/internal/server"
	"github.com/bridgeskills/bridgeskills/internal/storage"
)

const envPrefix = "BRIDGESKILLS"

type Config struct {
	Server    server.Config   `mapstructure:"server"`
	AI        AIConfig        `mapstructure:"ai"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Market    MarketConfig    `mapstructure:"market"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Storage   storage.Config  `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	JobBoards JobBoardsConfig `mapstructure:"jobboards"`
}

type AIConfig struct {
	Provider string `mapstructure:"provider"`
	// Limit is the number of recommendations asked for and returned.
	Limit int `mapstructure:"limit"`
	// Fallback serves the static recommendation set when the oracle is
	// unavailable.
	Fallback bool         `mapstructure:"fallback"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
	Chunk    ChunkConfig  `mapstructure:"chunk"`
}

type GeminiConfig struct {
	APIKey          string  `mapstructure:"api-key"`
	APIKeyFile      string  `mapstructure:"api-key-file"`
	Model           string  `mapstructure:"model"`
	Temperature     float32 `mapstructure:"temperature"`
	MaxOutputTokens int32   `mapstructure:"max-output-tokens"`
	MaxLogLength    int     `mapstructure:"max-log-length"`
}

// ChunkConfig controls how long resumes are split before extraction.
type ChunkConfig struct {
	Size  int           `mapstructure:"size"`
	Delay time.Duration `mapstructure:"delay"`
}

type ScoringConfig struct {
	// Independent replaces the oracle's self-reported scores.
	Independent bool            `mapstructure:"independent"`
	MinScore    int             `mapstructure:"min-score"`
	Weights     scoring.Weights `mapstructure:"weights"`
}

type MarketConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// CacheConfig covers the job-search cache and the optional Redis tier shared
// by every cache.
type CacheConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep-interval"`
	RedisURL      string        `mapstructure:"redis-url"`
}

type DatabaseConfig struct {
	URL     string `mapstructure:"url"`
	URLFile string `mapstructure:"url-file"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt-secret"`
	JWTSecretFile string `mapstructure:"jwt-secret-file"`
}

type JobBoardsConfig struct {
	Sources        []string      `mapstructure:"sources"`
	Limit          int           `mapstructure:"limit"`
	QueryDelay     time.Duration `mapstructure:"query-delay"`
	BrowserTimeout time.Duration `mapstructure:"browser-timeout"`
	USAJobs        USAJobsConfig `mapstructure:"usajobs"`
}

type USAJobsConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Email      string `mapstructure:"email"`
}

// configureViper registers every key with its default so that environment
// variables reach keys absent from the config file.
func configureViper(v *viper.Viper) {
	defaults := map[string]any{
		"server.addr":             ":8080",
		"server.cors-origins":     []string{},
		"server.max-upload-bytes": extraction.MaxDocumentBytes,

		"ai.provider":                 "gemini",
		"ai.limit":                    recommend.DefaultLimit,
		"ai.fallback":                 true,
		"ai.gemini.api-key":           "",
		"ai.gemini.api-key-file":      "",
		"ai.gemini.model":             "",
		"ai.gemini.temperature":       gemini.DefaultTemperature,
		"ai.gemini.max-output-tokens": 4096,
		"ai.gemini.max-log-length":    200,
		"ai.chunk.size":               extraction.DefaultChunkSize,
		"ai.chunk.delay":              "20s",

		"scoring.independent":        false,
		"scoring.min-score":          0,
		"scoring.weights.skill":      scoring.DefaultWeights.Skill,
		"scoring.weights.experience": scoring.DefaultWeights.Experience,
		"scoring.weights.role":       scoring.DefaultWeights.Role,

		"market.ttl": market.DefaultTTL.String(),

		"cache.ttl":            jobboard.DefaultCacheTTL.String(),
		"cache.sweep-interval": jobboard.DefaultSweepInterval.String(),
		"cache.redis-url":      "",

		"storage.bucket":           "",
		"storage.region":           "",
		"storage.endpoint":         "",
		"storage.access-key":       "",
		"storage.secret-key":       "",
		"storage.max-object-bytes": extraction.MaxDocumentBytes,

		"database.url":      "",
		"database.url-file": "",

		"auth.jwt-secret":      "",
		"auth.jwt-secret-file": "",

		"jobboards.sources":              []string{jobboard.SourceUSAJobs},
		"jobboards.limit":                jobboard.DefaultLimit,
		"jobboards.query-delay":          "1s",
		"jobboards.browser-timeout":      jobboard.DefaultBrowserTimeout.String(),
		"jobboards.usajobs.api-key":      "",
		"jobboards.usajobs.api-key-file": "",
		"jobboards.usajobs.email":        "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// decodeConfig turns viper settings into Config. Durations are accepted as
// strings ("20s") and numbers as strings, as they arrive from the environment.
func decodeConfig(settings map[string]any) (*Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("create config decoder: %w", err)
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.AllSettings())
}

func (c *Config) geminiOptions(extractions *cache.TTL[profile.ExtractedData]) gemini.Options {
	return gemini.Options{
		Limit:        c.AI.Limit,
		ChunkSize:    c.AI.Chunk.Size,
		ChunkDelay:   c.AI.Chunk.Delay,
		MaxLogLength: c.AI.Gemini.MaxLogLength,
		Extractions:  extractions,
	}
}

func (c *Config) recommendConfig() recommend.Config {
	return recommend.Config{
		Limit:       c.AI.Limit,
		Independent: c.Scoring.Independent,
		Fallback:    c.AI.Fallback,
		MinScore:    c.Scoring.MinScore,
	}
}
