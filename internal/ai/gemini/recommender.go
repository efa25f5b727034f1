package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/bridgeskills/bridgeskills/internal/ai"
	"github.com/bridgeskills/bridgeskills/internal/cache"
	"github.com/bridgeskills/bridgeskills/internal/extraction"
	"github.com/bridgeskills/bridgeskills/internal/logger"
	"github.com/bridgeskills/bridgeskills/internal/profile"
	"github.com/bridgeskills/bridgeskills/internal/queue"
	"github.com/bridgeskills/bridgeskills/internal/utils"
	"go.uber.org/zap"
)

const (
	ProviderName = "gemini"

	// DefaultChunkDelay spaces chunk requests to stay under the API rate limit.
	DefaultChunkDelay = 20 * time.Second

	defaultMaxLogLength = 200
	defaultLimit        = 5
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

type Options struct {
	// Limit is the number of recommendations requested from the model.
	Limit int
	// ChunkSize is the character budget above which a resume is first
	// extracted chunk by chunk.
	ChunkSize int
	// ChunkDelay separates consecutive chunk requests. Zero means
	// DefaultChunkDelay, a negative value disables pacing.
	ChunkDelay   time.Duration
	MaxLogLength int
	// Extractions remembers chunked extractions by resume text. Sharing one
	// cache between an Extractor and a Recommender lets a resume processed
	// on upload be recommended without extracting it again.
	Extractions *cache.TTL[profile.ExtractedData]
}

func (o Options) withDefaults() Options {
	if o.MaxLogLength <= 0 {
		o.MaxLogLength = defaultMaxLogLength
	}
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = extraction.DefaultChunkSize
	}
	switch {
	case o.ChunkDelay == 0:
		o.ChunkDelay = DefaultChunkDelay
	case o.ChunkDelay < 0:
		o.ChunkDelay = 0
	}
	return o
}

// Recommender is the Gemini-backed recommendation oracle.
type Recommender struct {
	generator contentGenerator
	extractor *Extractor
	logger    *zap.Logger
	limit     int
	chunkSize int
	maxLogLen int
}

var _ ai.Oracle = (*Recommender)(nil)

func NewRecommender(generator contentGenerator, log *zap.Logger, opts Options) *Recommender {
	log = logger.WithCommonFields(log, ProviderName, generator.Model())
	extractor := NewExtractor(generator, log, opts)
	opts = opts.withDefaults()

	return &Recommender{
		generator: generator,
		extractor: extractor,
		logger:    log,
		limit:     opts.Limit,
		chunkSize: opts.ChunkSize,
		maxLogLen: opts.MaxLogLength,
	}
}

func (r *Recommender) Provider() string { return ProviderName }

func (r *Recommender) Model() string { return r.generator.Model() }

// Recommend picks the prompt template, calls the model and parses the answer.
// Short resumes go to the model verbatim; long ones are reduced to structured
// data chunk by chunk first and then use the manual-entry template. When a
// resume is present the structured fields of data are ignored.
func (r *Recommender) Recommend(ctx context.Context, data profile.ExtractedData) ai.Outcome {
	data = data.Clone()

	var prompt, template string
	switch {
	case data.HasResume() && utf8.RuneCountInString(data.ResumeText) <= r.chunkSize:
		prompt, template = buildResumePrompt(data.ResumeText, r.limit), "resume"
	case data.HasResume():
		extracted, err := r.extractor.Extract(ctx, data.ResumeText)
		if err != nil {
			r.logger.Warn("resume extraction failed", zap.Error(err))
			return ai.Unavailable(err)
		}
		prompt, template = buildManualPrompt(extracted, r.limit), "manual"
	default:
		prompt, template = buildManualPrompt(data, r.limit), "manual"
	}

	r.logger.Debug("gemini generate content request",
		zap.String("template", template),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		r.logger.Warn("gemini generate content failed", zap.Error(err))
		return ai.Unavailable(err)
	}

	r.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	result := parseResponse(raw)
	switch result.Kind {
	case ai.ParseFailed:
		r.logger.Warn("gemini response could not be parsed", zap.Error(result.Err))
	case ai.ParseRecovered:
		r.logger.Info("gemini response recovered from free text", zap.Int("recommendations", len(result.Recommendations)))
	default:
		r.logger.Debug("gemini response parsed", zap.Int("recommendations", len(result.Recommendations)))
	}

	return ai.Available(result)
}

// Extractor turns resume text into structured data with the model, one chunk
// at a time.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	chunkSize int
	delay     time.Duration
	maxLogLen int
	memo      *cache.TTL[profile.ExtractedData]
}

func NewExtractor(generator contentGenerator, log *zap.Logger, opts Options) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	opts = opts.withDefaults()
	return &Extractor{
		generator: generator,
		logger:    log,
		chunkSize: opts.ChunkSize,
		delay:     opts.ChunkDelay,
		maxLogLen: opts.MaxLogLength,
		memo:      opts.Extractions,
	}
}

// Extract processes every chunk in order, pausing between requests. Chunks that
// fail are skipped; ai.ErrAllChunksFailed is returned when none succeed.
// Successful extractions are remembered when the extractor has a cache.
func (e *Extractor) Extract(ctx context.Context, text string) (profile.ExtractedData, error) {
	if e.memo == nil {
		return e.extract(ctx, text)
	}

	data, err := e.memo.GetOrLoad(ctx, extractionKey(text), func(ctx context.Context) (profile.ExtractedData, error) {
		return e.extract(ctx, text)
	})
	if err != nil {
		return profile.ExtractedData{}, err
	}
	return data.Clone(), nil
}

func (e *Extractor) extract(ctx context.Context, text string) (profile.ExtractedData, error) {
	chunks := extraction.Chunk(text, e.chunkSize)
	if len(chunks) == 0 {
		return profile.ExtractedData{}, ai.ErrAllChunksFailed
	}

	e.logger.Info("extracting resume in chunks", zap.Int("chunks", len(chunks)), zap.Duration("delay", e.delay))

	outcomes, err := queue.Each(ctx, queue.NewPaced(e.delay), chunks, func(ctx context.Context, i int, chunk string) (profile.ExtractedData, error) {
		return e.extractChunk(ctx, chunk, i+1, len(chunks))
	})
	if err != nil {
		return profile.ExtractedData{}, fmt.Errorf("extract resume: %w", err)
	}

	for _, o := range outcomes {
		if o.Err != nil {
			e.logger.Warn("skipping resume chunk", zap.Int("chunk", o.Index+1), zap.Error(o.Err))
		}
	}
	parts := queue.Succeeded(outcomes)
	if len(parts) == 0 {
		return profile.ExtractedData{}, ai.ErrAllChunksFailed
	}

	return profile.Normalize(extraction.Merge(parts...)), nil
}

func extractionKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (e *Extractor) extractChunk(ctx context.Context, chunk string, part, total int) (profile.ExtractedData, error) {
	raw, err := e.generator.GenerateContent(ctx, buildExtractPrompt(chunk, part, total))
	if err != nil {
		return profile.ExtractedData{}, err
	}

	e.logger.Debug("resume chunk response",
		zap.Int("chunk", part),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	data, err := decodeExtracted(extractJSON(raw))
	if err != nil {
		return profile.ExtractedData{}, err
	}
	if isEmpty(data) {
		return profile.ExtractedData{}, errors.New("chunk produced no data")
	}
	return data, nil
}

func isEmpty(d profile.ExtractedData) bool {
	return d.MilitaryInfo.IsZero() && len(d.Skills) == 0 && len(d.TechnicalSkills) == 0 &&
		len(d.Certifications) == 0 && len(d.Experience) == 0 && len(d.Education) == 0
}
