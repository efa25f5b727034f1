// Package scoring computes a deterministic match score between a job posting
// and a candidate background. It performs no I/O and never fails: missing or
// malformed inputs produce zero sub-scores.
package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/bridgeskills/bridgeskills/internal/profile"
	"github.com/bridgeskills/bridgeskills/internal/vocabulary"
)

// Weights of the composite score. They are tuning constants, not derived
// values; MOS relevance is reported but does not feed the composite.
type Weights struct {
	Skill      float64 `mapstructure:"skill"`
	Experience float64 `mapstructure:"experience"`
	Role       float64 `mapstructure:"role"`
}

// DefaultWeights favours skill overlap over experience and role fit.
var DefaultWeights = Weights{Skill: 0.4, Experience: 0.3, Role: 0.3}

// JobText is the part of a posting or recommendation the scorer reads.
type JobText struct {
	Title       string
	Description string
}

func (j JobText) combined() string {
	return strings.ToLower(j.Title + " " + j.Description)
}

// Result holds sub-scores in [0,1] and the composite in [0,100].
type Result struct {
	SkillMatch      float64 `json:"skillMatch"`
	ExperienceMatch float64 `json:"experienceMatch"`
	MOSMatch        float64 `json:"mosMatch"`
	RoleMatch       float64 `json:"roleMatch"`
	TechnicalMatch  float64 `json:"technicalMatch"`
	Composite       int     `json:"composite"`
}

// Scorer computes match scores with a fixed set of weights.
type Scorer struct {
	weights Weights
	now     func() time.Time
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights replaces the default weights unless all of them are zero.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		if w.Skill+w.Experience+w.Role > 0 {
			s.weights = w
		}
	}
}

// WithClock replaces the reference time used for open-ended experience.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Scorer using DefaultWeights and the wall clock.
func New(opts ...Option) *Scorer {
	s := &Scorer{weights: DefaultWeights, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score evaluates job against the candidate data and its civilian equivalent.
func (s *Scorer) Score(job JobText, data profile.ExtractedData, civilian vocabulary.CivilianEquivalent) Result {
	r := Result{
		SkillMatch:      SkillMatch(job, civilian),
		ExperienceMatch: ExperienceMatch(data.Experience, s.now()),
		MOSMatch:        MOSMatch(job, data.MilitaryInfo),
		RoleMatch:       RoleMatch(job, civilian),
		TechnicalMatch:  TechnicalMatch(job, data.TechnicalSkills),
	}
	r.Composite = s.Composite(r.SkillMatch, r.ExperienceMatch, r.RoleMatch)
	return r
}

// Composite combines the sub-scores with the configured weights and rounds to
// an integer in [0,100].
func (s *Scorer) Composite(skill, experience, role float64) int {
	w := s.weights
	total := w.Skill*clamp01(skill) + w.Experience*clamp01(experience) + w.Role*clamp01(role)
	score := int(math.Round(total * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// SkillMatch is the fraction of civilian skills mentioned in the description.
// An empty skill set scores 0.
func SkillMatch(job JobText, civilian vocabulary.CivilianEquivalent) float64 {
	if len(civilian.Skills) == 0 {
		return 0
	}

	description := strings.ToLower(job.Description)
	matched := 0
	for _, skill := range civilian.Skills {
		if needle := strings.ToLower(strings.TrimSpace(skill)); needle != "" && strings.Contains(description, needle) {
			matched++
		}
	}
	return float64(matched) / float64(len(civilian.Skills))
}

// RoleMatch is 1 when the job text names any civilian-equivalent role.
func RoleMatch(job JobText, civilian vocabulary.CivilianEquivalent) float64 {
	text := job.combined()
	for _, role := range civilian.Roles {
		if needle := strings.ToLower(strings.TrimSpace(role)); needle != "" && strings.Contains(text, needle) {
			return 1
		}
	}
	return 0
}

// TechnicalMatch is the fraction of the candidate's technical skills named in
// the job text.
func TechnicalMatch(job JobText, skills []profile.TechnicalSkill) float64 {
	text := job.combined()
	total, matched := 0, 0
	for _, s := range skills {
		name := strings.ToLower(strings.TrimSpace(s.Name))
		if name == "" {
			continue
		}
		total++
		if strings.Contains(text, name) {
			matched++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

var militaryKeywords = []string{"military", "veteran", "armed forces"}

// MOSMatch is 1 when the job text contains the canonical title of the
// candidate's code, 0.5 when it only carries military keywords or the branch
// name, and 0 otherwise or when no code is known.
func MOSMatch(job JobText, info profile.MilitaryInfo) float64 {
	if strings.TrimSpace(info.MOS) == "" {
		return 0
	}
	code, ok := vocabulary.LookupCode(info.MOS)
	if !ok {
		return 0
	}

	text := job.combined()
	if strings.Contains(text, strings.ToLower(code.Title)) {
		return 1
	}

	keywords := append([]string{}, militaryKeywords...)
	keywords = append(keywords, strings.ToLower(code.Branch))
	if branch := strings.ToLower(strings.TrimSpace(info.Branch)); branch != "" {
		keywords = append(keywords, branch)
	}
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return 0.5
		}
	}
	return 0
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
