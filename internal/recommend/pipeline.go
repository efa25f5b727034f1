package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Stage names accepted by DisableByName.
const (
	StageDedupe   = "dedupe"
	StageRescore  = "rescore"
	StageMinScore = "min_score"
	StageSort     = "sort"
	StageLimit    = "limit"
)

// Stage is one aggregation step applied to a recommendation list.
type Stage interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, deps Deps, recs []JobRecommendation) ([]JobRecommendation, Step, error)
}

// Deps aggregates dependencies shared across all stages.
type Deps struct {
	Logger *zap.Logger
	// Rescore recomputes the score of one recommendation. The rescore stage
	// leaves scores untouched when it is nil.
	Rescore func(JobRecommendation) JobRecommendation
}

// Step describes the result of executing a stage.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a stage.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// DisableByName marks a stage as disabled while keeping it in the list.
func DisableByName(stages []Stage, name, reason string) {
	for _, s := range stages {
		if s.Name() == name {
			s.Disable(reason)
		}
	}
}

// Run executes the stages in order.
func Run(ctx context.Context, deps Deps, stages []Stage, recs []JobRecommendation) ([]JobRecommendation, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	for _, stage := range stages {
		if !stage.IsEnabled() {
			log.Debug("aggregation stage disabled", zap.String("name", stage.Name()))
			continue
		}

		next, info, err := stage.Apply(ctx, deps, recs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", stage.Name(), err)
		}

		log.Debug("aggregation stage",
			zap.String("name", stage.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
		recs = next
	}
	return recs, nil
}

// Describe returns status entries for the provided stages.
func Describe(stages []Stage) []Status {
	statuses := make([]Status, 0, len(stages))
	for _, s := range stages {
		if reporter, ok := s.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}
		statuses = append(statuses, Status{Name: s.Name(), Enabled: s.IsEnabled()})
	}
	return statuses
}

// DefaultStages is the standard aggregation: dedupe, re-score, drop low
// scores, sort and cap.
func DefaultStages(minScore, limit int) []Stage {
	return []Stage{
		NewDedupe(),
		NewRescore(),
		NewMinScore(minScore),
		NewSortByScore(),
		NewLimit(limit),
	}
}

type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

type dedupeStage struct{ toggle }

// NewDedupe drops recommendations whose lowercased title and description were
// already seen. The first occurrence wins.
func NewDedupe() Stage { return &dedupeStage{} }

func (s *dedupeStage) Name() string { return StageDedupe }

func (s *dedupeStage) Apply(_ context.Context, _ Deps, recs []JobRecommendation) ([]JobRecommendation, Step, error) {
	out := Dedupe(recs)
	return out, Step{Initial: len(recs), Dropped: len(recs) - len(out), Left: len(out)}, nil
}

// Dedupe returns recs without repeated (title, description) pairs.
func Dedupe(recs []JobRecommendation) []JobRecommendation {
	out := make([]JobRecommendation, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		key := strings.ToLower(r.Title) + "\x00" + strings.ToLower(r.Description)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

type rescoreStage struct{ toggle }

// NewRescore replaces oracle self-reported scores with locally computed ones
// when Deps.Rescore is set.
func NewRescore() Stage { return &rescoreStage{} }

func (s *rescoreStage) Name() string { return StageRescore }

func (s *rescoreStage) Apply(_ context.Context, deps Deps, recs []JobRecommendation) ([]JobRecommendation, Step, error) {
	if deps.Rescore == nil {
		return recs, Step{Initial: len(recs), Left: len(recs)}, nil
	}
	out := make([]JobRecommendation, len(recs))
	for i, r := range recs {
		out[i] = deps.Rescore(r)
	}
	return out, Step{Initial: len(recs), Left: len(out)}, nil
}

func (s *rescoreStage) Status() Status {
	return Status{Name: s.Name(), Enabled: s.IsEnabled(), Reason: s.reason}
}

type minScoreStage struct {
	toggle
	minimum int
}

// NewMinScore drops recommendations scoring below minimum. A non-positive
// minimum keeps everything.
func NewMinScore(minimum int) Stage { return &minScoreStage{minimum: minimum} }

func (s *minScoreStage) Name() string { return StageMinScore }

func (s *minScoreStage) Apply(_ context.Context, _ Deps, recs []JobRecommendation) ([]JobRecommendation, Step, error) {
	if s.minimum <= 0 {
		return recs, Step{Initial: len(recs), Left: len(recs)}, nil
	}
	out := make([]JobRecommendation, 0, len(recs))
	for _, r := range recs {
		if r.MatchScore >= s.minimum {
			out = append(out, r)
		}
	}
	return out, Step{Initial: len(recs), Dropped: len(recs) - len(out), Left: len(out)}, nil
}

func (s *minScoreStage) Status() Status {
	return Status{Name: s.Name(), Enabled: s.IsEnabled(), Reason: s.reason, Details: map[string]string{"min": fmt.Sprint(s.minimum)}}
}

type sortStage struct{ toggle }

func NewSortByScore() Stage { return &sortStage{} }

func (s *sortStage) Name() string { return StageSort }

func (s *sortStage) Apply(_ context.Context, _ Deps, recs []JobRecommendation) ([]JobRecommendation, Step, error) {
	out := SortByScore(recs)
	return out, Step{Initial: len(recs), Left: len(out)}, nil
}

// SortByScore orders a copy of recs by descending score; ties keep their order.
func SortByScore(recs []JobRecommendation) []JobRecommendation {
	out := append([]JobRecommendation(nil), recs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchScore > out[j].MatchScore })
	return out
}

type limitStage struct {
	toggle
	limit int
}

// NewLimit caps the list length. A non-positive limit keeps everything.
func NewLimit(limit int) Stage { return &limitStage{limit: limit} }

func (s *limitStage) Name() string { return StageLimit }

func (s *limitStage) Apply(_ context.Context, _ Deps, recs []JobRecommendation) ([]JobRecommendation, Step, error) {
	if s.limit <= 0 || len(recs) <= s.limit {
		return recs, Step{Initial: len(recs), Left: len(recs)}, nil
	}
	return recs[:s.limit], Step{Initial: len(recs), Dropped: len(recs) - s.limit, Left: s.limit}, nil
}

func (s *limitStage) Status() Status {
	return Status{Name: s.Name(), Enabled: s.IsEnabled(), Reason: s.reason, Details: map[string]string{"limit": fmt.Sprint(s.limit)}}
}
