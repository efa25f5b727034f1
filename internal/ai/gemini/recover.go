package gemini

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/bridgeskills/bridgeskills/internal/ai"
)

// Percentages reported for recommendations salvaged from free text, which
// never carry per-dimension scores.
const (
	recoveredSkillMatch      = 80
	recoveredExperienceMatch = 75
	recoveredMOSMatch        = 70
	recoveredTechnicalMatch  = 75
	recoveredOverallMatch    = 75

	recoveredReason      = "Based on skill and experience match"
	recoveredProgression = "Standard industry progression path"
)

var (
	errNoTitleMarkers = errors.New("response is neither JSON nor contains Job Title markers")

	titleMarker        = regexp.MustCompile(`(?i)job title:`)
	titleLine          = regexp.MustCompile(`(?im)job title:[ \t]*(.+?)[ \t]*$`)
	overallLine        = regexp.MustCompile(`(?is)match percentages?:.*?overall:\s*(\d+)`)
	reasonLine         = regexp.MustCompile(`(?im)reason for match:[ \t]*(.+?)[ \t]*$`)
	skillsLine         = regexp.MustCompile(`(?im)required skills:[ \t]*(.+?)[ \t]*$`)
	industriesLine     = regexp.MustCompile(`(?im)suggested industries:[ \t]*(.+?)[ \t]*$`)
	certificationsLine = regexp.MustCompile(`(?im)recommended certifications:[ \t]*(.+?)[ \t]*$`)
	progressionLine    = regexp.MustCompile(`(?im)career progression:[ \t]*(.+?)[ \t]*$`)
	listSeparator      = regexp.MustCompile(`,\s*`)
)

// recoverFromText salvages recommendations from prose that repeats
// "Job Title:" sections.
func recoverFromText(text string) ai.ParseResult {
	var recs []ai.RawRecommendation
	for _, section := range splitSections(text) {
		m := titleLine.FindStringSubmatch(section)
		if m == nil || strings.TrimSpace(m[1]) == "" {
			continue
		}

		overall := float64(recoveredOverallMatch)
		if om := overallLine.FindStringSubmatch(section); om != nil {
			if n, err := strconv.Atoi(om[1]); err == nil {
				overall = percentage(float64(n))
			}
		}

		recs = append(recs, ai.RawRecommendation{
			Title: strings.TrimSpace(m[1]),
			MatchPercentages: ai.MatchPercentages{
				SkillMatch:      recoveredSkillMatch,
				ExperienceMatch: recoveredExperienceMatch,
				MOSMatch:        recoveredMOSMatch,
				TechnicalMatch:  recoveredTechnicalMatch,
				OverallMatch:    overall,
			},
			ReasonForMatch:            firstMatch(reasonLine, section, recoveredReason),
			RequiredSkills:            listMatch(skillsLine, section),
			SuggestedIndustries:       listMatch(industriesLine, section),
			RecommendedCertifications: listMatch(certificationsLine, section),
			CareerProgression:         firstMatch(progressionLine, section, recoveredProgression),
		})
	}

	if len(recs) == 0 {
		return ai.Failed(errNoTitleMarkers)
	}
	return ai.Recovered(recs)
}

// splitSections cuts text in front of every "Job Title:" marker.
func splitSections(text string) []string {
	idx := titleMarker.FindAllStringIndex(text, -1)
	if len(idx) == 0 {
		return nil
	}
	sections := make([]string, 0, len(idx))
	for i, loc := range idx {
		end := len(text)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		sections = append(sections, text[loc[0]:end])
	}
	return sections
}

func firstMatch(re *regexp.Regexp, section, def string) string {
	if m := re.FindStringSubmatch(section); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			return v
		}
	}
	return def
}

func listMatch(re *regexp.Regexp, section string) []string {
	m := re.FindStringSubmatch(section)
	if m == nil {
		return []string{}
	}
	var out []string
	for _, item := range listSeparator.Split(m[1], -1) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if out == nil {
		return []string{}
	}
	return out
}
