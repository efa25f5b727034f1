package jobboard

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bridgeskills/bridgeskills/internal/cache"
	"github.com/bridgeskills/bridgeskills/internal/profile"
	"github.com/bridgeskills/bridgeskills/internal/queue"
	"github.com/bridgeskills/bridgeskills/internal/scoring"
	"github.com/bridgeskills/bridgeskills/internal/vocabulary"
)

const (
	DefaultLimit         = 10
	DefaultCacheTTL      = 60 * time.Minute
	DefaultSweepInterval = time.Hour
)

// errAllSourcesFailed keeps an empty result of a total outage out of the cache.
var errAllSourcesFailed = errors.New("every job source failed")

type Options struct {
	// Limit caps the returned postings. Zero means DefaultLimit.
	Limit int
	// QueryDelay paces the queries sent to one source.
	QueryDelay time.Duration
}

// Request is one search. Profile is optional; when set each posting carries
// the Match Scorer composite.
type Request struct {
	Role     Role                   `json:"role" binding:"required"`
	Location string                 `json:"location"`
	Profile  *profile.ExtractedData `json:"profile,omitempty"`
}

type Result struct {
	Jobs    []Job    `json:"jobs"`
	Total   int      `json:"total"`
	Sources []string `json:"sources"`
}

type Service struct {
	sources []Source
	cache   *cache.TTL[[]Job]
	scorer  *scoring.Scorer
	logger  *zap.Logger
	opts    Options
}

func NewService(logger *zap.Logger, c *cache.TTL[[]Job], scorer *scoring.Scorer, opts Options, sources ...Source) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = cache.New[[]Job](DefaultCacheTTL)
	}
	if scorer == nil {
		scorer = scoring.New()
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	return &Service{sources: sources, cache: c, scorer: scorer, logger: logger, opts: opts}
}

// Cache exposes the result cache so callers can start its sweeper.
func (s *Service) Cache() *cache.TTL[[]Job] {
	return s.cache
}

// Sources lists the configured source names.
func (s *Service) Sources() []string {
	names := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		names = append(names, src.Name())
	}
	return names
}

// Search fans the role's queries out to every source concurrently. Results
// are cached per (role title, location) before profile scoring.
func (s *Service) Search(ctx context.Context, req Request) (Result, error) {
	key := cache.Key(req.Role.Title, req.Location)
	jobs, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) ([]Job, error) {
		return s.collect(ctx, req.Role, req.Location)
	})
	if errors.Is(err, errAllSourcesFailed) {
		return Result{Jobs: []Job{}, Sources: s.Sources()}, nil
	}
	if err != nil {
		return Result{}, err
	}

	jobs = append(make([]Job, 0, len(jobs)), jobs...)
	if req.Profile != nil {
		s.score(jobs, *req.Profile)
	}
	if len(jobs) > s.opts.Limit {
		jobs = jobs[:s.opts.Limit]
	}

	return Result{Jobs: jobs, Total: len(jobs), Sources: s.Sources()}, nil
}

func (s *Service) collect(ctx context.Context, role Role, location string) ([]Job, error) {
	queries := Queries(role)
	perSource := make([][]Job, len(s.sources))

	var mu sync.Mutex
	failed := 0

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		g.Go(func() error {
			outcomes, err := queue.Each(gctx, queue.NewPaced(s.opts.QueryDelay), queries,
				func(ctx context.Context, _ int, q string) ([]Job, error) {
					return src.Search(ctx, q, location)
				})
			if err != nil {
				return err
			}

			var jobs []Job
			errs := 0
			for _, o := range outcomes {
				if o.Err != nil {
					errs++
					s.logger.Warn("job source query failed",
						zap.String("source", src.Name()),
						zap.String("query", queries[o.Index]),
						zap.Error(o.Err),
					)
					continue
				}
				jobs = append(jobs, o.Result...)
			}
			if errs == len(outcomes) && errs > 0 {
				mu.Lock()
				failed++
				mu.Unlock()
			}
			perSource[i] = jobs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if failed > 0 && failed == len(s.sources) {
		s.logger.Warn("every job source failed", zap.String("role", role.Title))
		return nil, errAllSourcesFailed
	}

	var all []Job
	for _, jobs := range perSource {
		all = append(all, jobs...)
	}
	unique := Dedupe(all)
	for i := range unique {
		unique[i].Relevance = Relevance(unique[i], role)
	}
	sort.SliceStable(unique, func(i, j int) bool { return unique[i].Relevance > unique[j].Relevance })

	s.logger.Info("job search finished",
		zap.String("role", role.Title),
		zap.Int("queries", len(queries)),
		zap.Int("found", len(all)),
		zap.Int("unique", len(unique)),
		zap.Int("failed_sources", failed),
	)
	return unique, nil
}

func (s *Service) score(jobs []Job, data profile.ExtractedData) {
	civilian := vocabulary.CivilianEquivalentFor(data.MilitaryInfo.MOS, data.Skills)
	for i := range jobs {
		description := jobs[i].Description
		if len(jobs[i].Skills) > 0 {
			description += " " + strings.Join(jobs[i].Skills, " ")
		}
		res := s.scorer.Score(scoring.JobText{Title: jobs[i].Title, Description: description}, data, civilian)
		composite := res.Composite
		jobs[i].MatchScore = &composite
	}
}
