package recommend

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bridgeskills/bridgeskills/internal/ai"
	"github.com/bridgeskills/bridgeskills/internal/market"
	"github.com/bridgeskills/bridgeskills/internal/profile"
	"github.com/bridgeskills/bridgeskills/internal/scoring"
	"github.com/bridgeskills/bridgeskills/internal/vocabulary"
)

const idSuffixLength = 9

// NewID returns a recommendation id of the form job-<unix millis>-<suffix>.
// Ids are unique within a response, not globally.
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("job-%d-%s", now.UnixMilli(), suffix[:idSuffixLength])
}

// FromRaw converts an oracle suggestion into a recommendation. The match
// score is the oracle's self-reported overall match.
func FromRaw(raw ai.RawRecommendation, salary market.SalaryInsights, id string) JobRecommendation {
	score := percent(raw.MatchPercentages.OverallMatch)
	return JobRecommendation{
		ID:             id,
		Title:          strings.TrimSpace(raw.Title),
		Description:    raw.ReasonForMatch,
		SalaryRange:    salary.Summary(),
		SalaryInsights: salaryInsights(salary),
		RequiredSkills: nonNil(raw.RequiredSkills),
		DemandTrend:    DemandTrend(score),
		Industries:     nonNil(raw.SuggestedIndustries),
		MatchReason:    raw.ReasonForMatch,
		MatchScore:     score,
		MatchDetails: MatchDetails{
			SkillMatch:      percent(raw.MatchPercentages.SkillMatch),
			ExperienceMatch: percent(raw.MatchPercentages.ExperienceMatch),
			MOSMatch:        percent(raw.MatchPercentages.MOSMatch),
			TechnicalMatch:  percent(raw.MatchPercentages.TechnicalMatch),
		},
		RecommendedCertifications: nonNil(raw.RecommendedCertifications),
		CareerProgression:         raw.CareerProgression,
	}
}

// Rescorer returns a function that replaces the score and details of a
// recommendation with the Match Scorer's view of it against data.
func Rescorer(scorer *scoring.Scorer, data profile.ExtractedData) func(JobRecommendation) JobRecommendation {
	civilian := vocabulary.CivilianEquivalentFor(data.MilitaryInfo.MOS, data.Skills)
	return func(r JobRecommendation) JobRecommendation {
		job := JobText(r)
		res := scorer.Score(job, data, civilian)

		r.MatchScore = res.Composite
		r.DemandTrend = DemandTrend(res.Composite)
		r.MatchDetails = MatchDetails{
			SkillMatch:      fraction(res.SkillMatch),
			ExperienceMatch: fraction(res.ExperienceMatch),
			MOSMatch:        fraction(res.MOSMatch),
			TechnicalMatch:  fraction(res.TechnicalMatch),
		}
		if strings.TrimSpace(r.MatchReason) == "" {
			r.MatchReason = scoring.Reason(job, civilian)
		}
		return r
	}
}

// JobText is the text of a recommendation the scorer reads: its title, and
// its description followed by the required skills.
func JobText(r JobRecommendation) scoring.JobText {
	description := r.Description
	if len(r.RequiredSkills) > 0 {
		description += " " + strings.Join(r.RequiredSkills, " ")
	}
	return scoring.JobText{Title: r.Title, Description: description}
}

func salaryInsights(s market.SalaryInsights) SalaryInsights {
	return SalaryInsights{
		Median:       s.Range.Median,
		ByExperience: s.ByExperience,
		ByLocation:   s.ByLocation,
		ByIndustry:   s.ByIndustry,
	}
}

func percent(v float64) int {
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func fraction(v float64) int {
	return percent(v * 100)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
