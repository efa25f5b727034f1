package cmd

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bridgeskills/bridgeskills/internal/jobboard"
	"github.com/bridgeskills/bridgeskills/internal/profile"
	"github.com/bridgeskills/bridgeskills/internal/savedmatch"
	"github.com/bridgeskills/bridgeskills/internal/storage"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	configureViper(v)
	cfg, err := decodeConfig(v.AllSettings())
	require.NoError(t, err)
	return cfg
}

func TestNewGenerator(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := newGenerator(context.Background(), AIConfig{Provider: "openai"})
	assert.ErrorContains(t, err, "unsupported ai provider")

	gen, err := newGenerator(context.Background(), AIConfig{Provider: "Gemini"})
	require.NoError(t, err)
	assert.Nil(t, gen)
}

func TestRecommenderWithoutOracleServesFallback(t *testing.T) {
	cfg := defaultConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := newRecommender(nil, cfg, zap.NewNop(), newScorer(cfg), newMarket(ctx, cfg, nil, zap.NewNop()), nil)
	resp, err := svc.Recommend(ctx, profile.ExtractedData{
		MilitaryInfo: profile.MilitaryInfo{Branch: "Army"},
		Skills:       []string{"Cybersecurity"},
	})
	require.NoError(t, err)
	titles := make([]string, 0, len(resp.Recommendations))
	for _, r := range resp.Recommendations {
		titles = append(titles, r.Title)
	}
	assert.ElementsMatch(t, []string{"Project Manager", "Technical Program Manager", "Cybersecurity Analyst"}, titles)
}

func TestNewJobBoards(t *testing.T) {
	t.Setenv("USAJOBS_API_KEY", "")
	cfg := defaultConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Nil(t, newJobBoards(ctx, cfg, nil, newScorer(cfg), zap.NewNop()))

	cfg.JobBoards.Sources = []string{"usajobs", "linkedin", "monster"}
	cfg.JobBoards.USAJobs = USAJobsConfig{APIKey: "key", Email: "me@example.com"}
	jobs := newJobBoards(ctx, cfg, nil, newScorer(cfg), zap.NewNop())
	require.NotNil(t, jobs)
	assert.Equal(t, []string{jobboard.SourceUSAJobs, jobboard.SourceLinkedIn}, jobs.Sources())
}

func TestInMemoryFallbacks(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	ctx := context.Background()

	docs, err := newDocuments(ctx, storage.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, docs)

	saved, closeDB, err := newSavedMatches(ctx, DatabaseConfig{}, zap.NewNop())
	require.NoError(t, err)
	defer closeDB()
	assert.IsType(t, &savedmatch.MemoryStore{}, saved)

	secret, err := jwtSecret(AuthConfig{})
	require.NoError(t, err)
	assert.Empty(t, secret)

	secret, err = jwtSecret(AuthConfig{JWTSecret: "s"})
	require.NoError(t, err)
	assert.Equal(t, "s", secret)
}

func TestExtractionsAreSharedThroughGeminiOptions(t *testing.T) {
	cfg := defaultConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	extractions := newExtractions(ctx, cfg, nil, zap.NewNop())
	assert.Equal(t, cfg.Cache.TTL, extractions.TTL())

	opts := cfg.geminiOptions(extractions)
	assert.Same(t, extractions, opts.Extractions)
	assert.Equal(t, cfg.AI.Chunk.Delay, opts.ChunkDelay)
	assert.Equal(t, cfg.AI.Chunk.Size, opts.ChunkSize)
}
