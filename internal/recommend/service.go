package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bridgeskills/bridgeskills/internal/ai"
	"github.com/bridgeskills/bridgeskills/internal/extraction"
	"github.com/bridgeskills/bridgeskills/internal/market"
	"github.com/bridgeskills/bridgeskills/internal/profile"
	"github.com/bridgeskills/bridgeskills/internal/scoring"
)

const (
	DefaultLimit = 5

	demoIndustryGrowth = "Data not available"
)

// Config tunes the recommendation pipeline.
type Config struct {
	// Limit caps the number of recommendations. Zero means DefaultLimit.
	Limit int `mapstructure:"limit"`
	// Independent replaces oracle self-reported scores with Match Scorer ones.
	Independent bool `mapstructure:"independent"`
	// Fallback serves the static set when the oracle is unavailable.
	Fallback bool `mapstructure:"fallback"`
	// MinScore drops recommendations scoring below it.
	MinScore int `mapstructure:"min-score"`
}

// DefaultConfig caps results at DefaultLimit and enables the fallback set.
func DefaultConfig() Config {
	return Config{Limit: DefaultLimit, Fallback: true}
}

// Service runs the recommendation pipeline for one candidate at a time. It
// holds no per-request state and is safe for concurrent use.
type Service struct {
	oracle   ai.Oracle
	scorer   *scoring.Scorer
	salaries *market.Service
	log      *zap.Logger
	cfg      Config
	now      func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithScorer(scorer *scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

func WithSalaries(salaries *market.Service) Option {
	return func(s *Service) {
		if salaries != nil {
			s.salaries = salaries
		}
	}
}

// NewService builds a Service. A nil oracle always counts as unavailable.
func NewService(oracle ai.Oracle, log *zap.Logger, cfg Config, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	s := &Service{
		oracle:   oracle,
		scorer:   scoring.New(),
		salaries: market.NewService(nil),
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend produces the response envelope for data. The only error returned
// is a *profile.ValidationError; oracle failures degrade to the fallback set
// or an empty list.
func (s *Service) Recommend(ctx context.Context, data profile.ExtractedData) (Response, error) {
	recs, candidate, err := s.run(ctx, data)
	if err != nil {
		return Response{}, err
	}

	resp := Response{
		Recommendations: recs,
		MarketInsights:  Insights(recs, candidate.Skills),
		Timestamp:       s.now().UTC(),
	}
	return resp, nil
}

// Demo runs the same pipeline but reports the fixed generic trends instead of
// derived ones.
func (s *Service) Demo(ctx context.Context, data profile.ExtractedData) (Response, error) {
	recs, _, err := s.run(ctx, data)
	if err != nil {
		return Response{}, err
	}

	growth := fmt.Sprintf("%d relevant positions found", len(recs))
	if len(recs) == 0 {
		growth = demoIndustryGrowth
	}
	resp := Response{
		Recommendations: recs,
		MarketInsights: MarketInsights{
			IndustryGrowth: growth,
			TopLocations:   topIndustries(recs),
			KeyTrends:      append([]string(nil), GenericTrends...),
		},
		Timestamp: s.now().UTC(),
	}
	return resp, nil
}

func (s *Service) run(ctx context.Context, data profile.ExtractedData) ([]JobRecommendation, profile.ExtractedData, error) {
	candidate := extraction.FromForm(data.Clone())
	if err := profile.Validate(candidate); err != nil {
		return nil, candidate, err
	}

	outcome := s.ask(ctx, candidate)
	raws := outcome.Recommendations
	fallback := false
	if outcome.Unavailable {
		s.log.Warn("recommendation oracle unavailable", zap.Error(outcome.Err), zap.Bool("fallback", s.cfg.Fallback))
		if s.cfg.Fallback {
			raws = Fallback()
			fallback = true
		}
	} else if outcome.Parse == ai.ParseFailed {
		s.log.Info("oracle response could not be parsed", zap.Error(outcome.Err))
	}

	now := s.now()
	recs := make([]JobRecommendation, 0, len(raws))
	for _, raw := range raws {
		salary := s.salaries.Salary(ctx, raw.Title, "")
		recs = append(recs, FromRaw(raw, salary, NewID(now)))
	}

	stages := DefaultStages(s.cfg.MinScore, s.cfg.Limit)
	if !s.cfg.Independent && !fallback {
		DisableByName(stages, StageRescore, "oracle scores are used as reported")
	}
	s.log.Debug("aggregation stages", zap.Any("stages", Describe(stages)))

	deps := Deps{Logger: s.log, Rescore: Rescorer(s.scorer, candidate)}
	recs, err := Run(ctx, deps, stages, recs)
	if err != nil {
		return nil, candidate, err
	}

	s.log.Debug("recommendations ready",
		zap.Int("count", len(recs)),
		zap.String("parse", outcome.Parse.String()),
		zap.Bool("fallback", fallback),
	)
	return recs, candidate, nil
}

func (s *Service) ask(ctx context.Context, data profile.ExtractedData) ai.Outcome {
	if s.oracle == nil {
		return ai.Unavailable(errors.New("no oracle configured"))
	}
	return s.oracle.Recommend(ctx, data)
}
