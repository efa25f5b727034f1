package scoring

import (
	"strings"

	"github.com/bridgeskills/bridgeskills/internal/vocabulary"
)

type skillWeight struct {
	skill   string
	weight  float64
	related []string
}

var skillWeights = []skillWeight{
	{skill: "cybersecurity", weight: 1.5, related: []string{"security", "network security", "information security"}},
	{skill: "leadership", weight: 1.3, related: []string{"management", "team leadership", "supervision"}},
	{skill: "intelligence analysis", weight: 1.4, related: []string{"data analysis", "threat analysis", "intelligence"}},
	{skill: "operations management", weight: 1.2, related: []string{"project management", "program management", "operations"}},
}

func lookupWeight(skill string) (skillWeight, bool) {
	needle := strings.ToLower(strings.TrimSpace(skill))
	for _, sw := range skillWeights {
		if sw.skill == needle {
			return sw, true
		}
		for _, rs := range sw.related {
			if rs == needle {
				return sw, true
			}
		}
	}
	return skillWeight{}, false
}

// SkillWeight returns the importance multiplier of a skill, 1 by default.
func SkillWeight(skill string) float64 {
	if sw, ok := lookupWeight(skill); ok {
		return sw.weight
	}
	return 1
}

// WeightedSkillMatch is SkillMatch with per-skill weights. A weighted skill also
// matches when the description mentions one of its related skills.
func WeightedSkillMatch(job JobText, civilian vocabulary.CivilianEquivalent) float64 {
	description := strings.ToLower(job.Description)

	var total, matched float64
	for _, skill := range civilian.Skills {
		needle := strings.ToLower(strings.TrimSpace(skill))
		if needle == "" {
			continue
		}
		weight := SkillWeight(needle)
		total += weight

		if strings.Contains(description, needle) {
			matched += weight
			continue
		}
		if sw, ok := lookupWeight(needle); ok && sw.skill == needle {
			for _, rs := range sw.related {
				if strings.Contains(description, rs) {
					matched += weight
					break
				}
			}
		}
	}

	if total == 0 {
		return 0
	}
	return matched / total
}
