package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bridgeskills/bridgeskills/internal/ai"
	"github.com/bridgeskills/bridgeskills/internal/ai/gemini"
	"github.com/bridgeskills/bridgeskills/internal/cache"
	"github.com/bridgeskills/bridgeskills/internal/jobboard"
	"github.com/bridgeskills/bridgeskills/internal/market"
	"github.com/bridgeskills/bridgeskills/internal/profile"
	"github.com/bridgeskills/bridgeskills/internal/recommend"
	"github.com/bridgeskills/bridgeskills/internal/savedmatch"
	"github.com/bridgeskills/bridgeskills/internal/scoring"
	"github.com/bridgeskills/bridgeskills/internal/secrets"
	"github.com/bridgeskills/bridgeskills/internal/storage"
)

func noop() {}

// newGenerator returns nil without an error when no API key is configured;
// recommendations then come from the static fallback set.
func newGenerator(ctx context.Context, cfg AIConfig) (*gemini.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.ProviderName {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, ok, err := secrets.Optional(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	return gemini.NewGenerator(ctx, gemini.GeneratorConfig{
		APIKey:            apiKey,
		Model:             cfg.Gemini.Model,
		Temperature:       cfg.Gemini.Temperature,
		MaxOutputTokens:   cfg.Gemini.MaxOutputTokens,
		SystemInstruction: gemini.SystemInstruction(),
		JSONResponse:      true,
	})
}

func newScorer(cfg *Config) *scoring.Scorer {
	return scoring.New(scoring.WithWeights(cfg.Scoring.Weights))
}

func newRecommender(gen *gemini.Generator, cfg *Config, log *zap.Logger, scorer *scoring.Scorer, salaries *market.Service, extractions *cache.TTL[profile.ExtractedData]) *recommend.Service {
	var oracle ai.Oracle
	if gen != nil {
		oracle = gemini.NewRecommender(gen, log, cfg.geminiOptions(extractions))
	}
	return recommend.NewService(oracle, log, cfg.recommendConfig(),
		recommend.WithScorer(scorer),
		recommend.WithSalaries(salaries),
	)
}

func newExtractor(gen *gemini.Generator, cfg *Config, log *zap.Logger, extractions *cache.TTL[profile.ExtractedData]) *gemini.Extractor {
	return gemini.NewExtractor(gen, log, cfg.geminiOptions(extractions))
}

// newExtractions caches chunked resume extractions so that a resume processed
// on upload is not extracted again when it is matched.
func newExtractions(ctx context.Context, cfg *Config, l2 cache.Store, log *zap.Logger) *cache.TTL[profile.ExtractedData] {
	opts := []cache.Option[profile.ExtractedData]{cache.WithLogger[profile.ExtractedData](log)}
	if l2 != nil {
		opts = append(opts, cache.WithStore[profile.ExtractedData](l2, "extract"))
	}
	c := cache.New[profile.ExtractedData](cfg.Cache.TTL, opts...)
	c.StartSweeper(ctx, cfg.Cache.SweepInterval)
	return c
}

// openRedis returns a nil store when no Redis URL is configured.
func openRedis(ctx context.Context, cfg CacheConfig, log *zap.Logger) (cache.Store, func(), error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, noop, nil
	}
	store, err := cache.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		return nil, noop, err
	}
	log.Info("using redis as the second cache tier")
	return store, func() {
		if err := store.Close(); err != nil {
			log.Warn("closing redis", zap.Error(err))
		}
	}, nil
}

func newMarket(ctx context.Context, cfg *Config, l2 cache.Store, log *zap.Logger) *market.Service {
	opts := []cache.Option[market.SalaryInsights]{cache.WithLogger[market.SalaryInsights](log)}
	if l2 != nil {
		opts = append(opts, cache.WithStore[market.SalaryInsights](l2, "market"))
	}
	c := cache.New[market.SalaryInsights](cfg.Market.TTL, opts...)
	c.StartSweeper(ctx, cfg.Cache.SweepInterval)
	return market.NewService(c)
}

// newJobBoards returns nil when no configured source could be built.
func newJobBoards(ctx context.Context, cfg *Config, l2 cache.Store, scorer *scoring.Scorer, log *zap.Logger) *jobboard.Service {
	var sources []jobboard.Source
	chrome := jobboard.Chrome{Timeout: cfg.JobBoards.BrowserTimeout}

	for _, name := range cfg.JobBoards.Sources {
		switch {
		case strings.EqualFold(name, jobboard.SourceUSAJobs):
			src, err := newUSAJobs(cfg.JobBoards.USAJobs, log)
			if err != nil {
				log.Warn("skipping job source", zap.String("source", name), zap.Error(err))
				continue
			}
			sources = append(sources, src)
		case strings.EqualFold(name, jobboard.SourceLinkedIn):
			sources = append(sources, jobboard.NewLinkedIn(chrome, log))
		case strings.EqualFold(name, jobboard.SourceIndeed):
			sources = append(sources, jobboard.NewIndeed(chrome, log))
		default:
			log.Warn("unknown job source", zap.String("source", name))
		}
	}
	if len(sources) == 0 {
		return nil
	}

	opts := []cache.Option[[]jobboard.Job]{cache.WithLogger[[]jobboard.Job](log)}
	if l2 != nil {
		opts = append(opts, cache.WithStore[[]jobboard.Job](l2, "jobs"))
	}
	c := cache.New[[]jobboard.Job](cfg.Cache.TTL, opts...)
	c.StartSweeper(ctx, cfg.Cache.SweepInterval)

	return jobboard.NewService(log, c, scorer, jobboard.Options{
		Limit:      cfg.JobBoards.Limit,
		QueryDelay: cfg.JobBoards.QueryDelay,
	}, sources...)
}

func newUSAJobs(cfg USAJobsConfig, log *zap.Logger) (*jobboard.USAJobs, error) {
	apiKey, ok, err := secrets.Optional(secrets.Source{
		Name:  "usajobs api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "USAJOBS_API_KEY",
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, jobboard.ErrMissingCredentials
	}
	return jobboard.NewUSAJobs(log, apiKey, cfg.Email)
}

// newDocuments falls back to process memory when no bucket is configured.
func newDocuments(ctx context.Context, cfg storage.Config, log *zap.Logger) (storage.Store, error) {
	if !cfg.Enabled() {
		log.Warn("no storage bucket configured, keeping uploaded resumes in memory")
		return storage.NewMemoryStore(), nil
	}
	store, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open resume storage: %w", err)
	}
	log.Info("storing resumes in bucket", zap.String("bucket", cfg.Bucket))
	return store, nil
}

// newSavedMatches falls back to process memory when no database is configured.
func newSavedMatches(ctx context.Context, cfg DatabaseConfig, log *zap.Logger) (savedmatch.Store, func(), error) {
	url, ok, err := secrets.Optional(secrets.Source{
		Name:  "database url",
		Value: cfg.URL,
		File:  cfg.URLFile,
		Env:   "DATABASE_URL",
	})
	if err != nil {
		return nil, noop, err
	}
	if !ok {
		log.Warn("no database configured, saved matches are kept in memory")
		return savedmatch.NewMemoryStore(nil), noop, nil
	}

	store, err := savedmatch.Connect(ctx, url, log)
	if err != nil {
		return nil, noop, err
	}
	return store, store.Close, nil
}

// jwtSecret returns an empty secret when none is configured, which disables
// the saved-match routes.
func jwtSecret(cfg AuthConfig) (string, error) {
	secret, _, err := secrets.Optional(secrets.Source{
		Name:  "jwt secret",
		Value: cfg.JWTSecret,
		File:  cfg.JWTSecretFile,
		Env:   "JWT_SECRET",
	})
	return secret, err
}
